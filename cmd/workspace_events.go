package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/agentspaces/internal/audit"
)

var workspaceEventsCmd = &cobra.Command{
	Use:   "events [name]",
	Short: "Display the audit trail",
	Long: `Shows lifecycle events of the current project, or of a single workspace
when a name is given. With --json events are printed as JSON lines.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWorkspaceEvents,
}

func init() {
	workspaceCmd.AddCommand(workspaceEventsCmd)
}

func runWorkspaceEvents(cmd *cobra.Command, args []string) error {
	a := getApp(cmd)
	cwd, err := workingDir()
	if err != nil {
		return err
	}
	project, err := a.Workspaces.ProjectName(cmd.Context(), cwd)
	if err != nil {
		return err
	}

	var events []audit.Event
	if len(args) == 1 {
		events, err = a.Audit.WorkspaceEvents(project, args[0])
	} else {
		events, err = a.Audit.Events(project)
	}
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	out := cmd.OutOrStdout()
	if a.JSON {
		for _, e := range events {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to marshal event: %w", err)
			}
			fmt.Fprintln(out, string(data))
		}
		return nil
	}

	if len(events) == 0 {
		a.Printer.Info("No events found for %s", project)
		return nil
	}
	for _, e := range events {
		ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
		if e.Details != "" {
			fmt.Fprintf(out, "[%s] %-8s %s (%s)\n", ts, e.Type, e.Workspace, e.Details)
		} else {
			fmt.Fprintf(out, "[%s] %-8s %s\n", ts, e.Type, e.Workspace)
		}
	}
	return nil
}
