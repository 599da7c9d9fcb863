package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/agentspaces/internal/app"
	"github.com/firefly-engineering/agentspaces/internal/logging"
	"github.com/firefly-engineering/agentspaces/internal/paths"
)

var (
	verbose    bool
	quiet      bool
	jsonOutput bool
	logJSON    bool
	baseDir    string
)

// extraAppOptions is appended to the App options built for each run.
// Tests use it to inject a mock executor.
var extraAppOptions []app.Option

var rootCmd = &cobra.Command{
	Use:   "agentspaces",
	Short: "Isolated git worktree workspaces for coding agents",
	Long: `agentspaces manages isolated workspaces for parallel agent work.

Each workspace is a git worktree with:
  - Its own branch and a generated name (e.g. eager-turing)
  - Metadata and agent skills under .agentspace/
  - An optional Python virtual environment managed by uv

Workspaces live under ` + "`~/" + paths.BaseDirName + "/<project>/<workspace>`" + `
(override with --base-dir or $` + paths.BaseDirEnv + `).`,
	SilenceUsage:      true,
	PersistentPreRunE: setupApp,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "Workspace storage directory (default ~/"+paths.BaseDirName+")")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func setupApp(cmd *cobra.Command, args []string) error {
	logging.Setup(verbose, logJSON, cmd.ErrOrStderr())

	printer := &logging.Printer{
		Out:    cmd.OutOrStdout(),
		Err:    cmd.ErrOrStderr(),
		Quiet:  quiet || jsonOutput,
		Styled: cmd.OutOrStdout() == os.Stdout && logging.IsTerminal(os.Stdout),
	}
	// stdout carries only the JSON document.
	if jsonOutput {
		printer.Out = cmd.ErrOrStderr()
	}

	opts := []app.Option{
		app.WithBase(baseDir),
		app.WithPrinter(printer),
		app.WithJSON(jsonOutput),
	}
	a := app.New(append(opts, extraAppOptions...)...)
	cmd.SetContext(app.NewContext(cmd.Context(), a))
	return nil
}
