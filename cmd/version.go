package cmd

import (
	"fmt"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and tool availability",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

type versionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	UV        string `json:"uv,omitempty"`
	Claude    bool   `json:"claude"`
	BaseDir   string `json:"base_dir"`
}

func runVersion(cmd *cobra.Command, args []string) error {
	a := getApp(cmd)
	ctx := cmd.Context()

	info := versionInfo{
		Version:   Version,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Claude:    a.Launcher.Agent().Available(ctx),
		BaseDir:   a.Resolver.Base,
	}
	if a.Provisioner.Available() {
		if v, err := a.Provisioner.Version(ctx); err == nil {
			info.UV = v
		}
	}

	if a.JSON {
		return printJSON(cmd, info)
	}

	uv := info.UV
	if uv == "" {
		uv = "not found"
	}
	claude := "not found"
	if info.Claude {
		claude = "available"
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "agentspaces\t%s\n", info.Version)
	fmt.Fprintf(w, "go\t%s (%s)\n", info.GoVersion, info.Platform)
	fmt.Fprintf(w, "uv\t%s\n", uv)
	fmt.Fprintf(w, "claude\t%s\n", claude)
	fmt.Fprintf(w, "base dir\t%s\n", info.BaseDir)
	return w.Flush()
}
