package cmd

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/agentspaces/internal/docs"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Create design documents from templates",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available design templates",
	Args:  cobra.NoArgs,
	RunE:  runDocsList,
}

var docsInfoCmd = &cobra.Command{
	Use:   "info <template>",
	Short: "Show template details",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsInfo,
}

var docsCreateCmd = &cobra.Command{
	Use:   "create <template>",
	Short: "Render a design document",
	Long: `Renders a template into the output directory. Required variables not
covered by flags or --var are asked for interactively.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocsCreate,
}

var docsScaffoldCmd = &cobra.Command{
	Use:   "scaffold [dir]",
	Short: "Write the standard set of project documents",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDocsScaffold,
}

var (
	docsCategory    string
	docsOutput      string
	docsProject     string
	docsDescription string
	docsForce       bool
	docsVars        map[string]string
)

func init() {
	docsListCmd.Flags().StringVarP(&docsCategory, "category", "c", "", "Only list templates of this category")

	docsCreateCmd.Flags().StringVarP(&docsOutput, "output", "o", "docs", "Output directory")
	docsCreateCmd.Flags().StringVarP(&docsProject, "project-name", "n", "", "Project name")
	docsCreateCmd.Flags().StringVarP(&docsDescription, "description", "d", "", "Project description")
	docsCreateCmd.Flags().BoolVar(&docsForce, "force", false, "Overwrite an existing file")
	docsCreateCmd.Flags().StringToStringVar(&docsVars, "var", nil, "Template variable as key=value (repeatable)")

	docsScaffoldCmd.Flags().StringVarP(&docsProject, "project-name", "n", "", "Project name (defaults to the directory name)")
	docsScaffoldCmd.Flags().StringVarP(&docsDescription, "description", "d", "", "Project description")
	docsScaffoldCmd.Flags().BoolVar(&docsForce, "force", false, "Overwrite existing files")

	docsInfoCmd.ValidArgsFunction = docsTemplateNames
	docsCreateCmd.ValidArgsFunction = docsTemplateNames

	docsCmd.AddCommand(docsListCmd, docsInfoCmd, docsCreateCmd, docsScaffoldCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsList(cmd *cobra.Command, args []string) error {
	a := getApp(cmd)
	templates := a.Docs.List(docsCategory)

	if a.JSON {
		type entry struct {
			Name        string `json:"name"`
			Category    string `json:"category"`
			Description string `json:"description"`
		}
		out := make([]entry, len(templates))
		for i, t := range templates {
			out[i] = entry{t.Name, t.Category, t.Description}
		}
		return printJSON(cmd, out)
	}

	if len(templates) == 0 {
		a.Printer.Info("No templates found. Categories: %s", strings.Join(a.Docs.Categories(), ", "))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tDESCRIPTION")
	for _, t := range templates {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, categoryLabel(a.Printer.Styled, t.Category), t.Description)
	}
	return w.Flush()
}

func runDocsInfo(cmd *cobra.Command, args []string) error {
	a := getApp(cmd)
	t, err := a.Docs.Get(args[0])
	if err != nil {
		return err
	}

	if a.JSON {
		return printJSON(cmd, map[string]any{
			"name":               t.Name,
			"category":           t.Category,
			"description":        t.Description,
			"when_to_use":        t.WhenToUse,
			"required_variables": t.RequiredVariables,
			"optional_variables": t.OptionalVariables,
			"dependencies":       t.Dependencies,
		})
	}

	styled := a.Printer.Styled
	body := renderFields(styled, []field{
		{"Category", t.Category},
		{"Description", t.Description},
		{"Required", strings.Join(t.RequiredVariables, ", ")},
		{"Optional", strings.Join(t.OptionalVariables, ", ")},
		{"Depends on", strings.Join(t.Dependencies, ", ")},
	})
	if len(t.WhenToUse) > 0 {
		body += "\n\n" + dim(styled, "When to use:")
		for _, w := range t.WhenToUse {
			body += "\n  - " + w
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), panel(styled, t.Name, body))
	return nil
}

func runDocsCreate(cmd *cobra.Command, args []string) error {
	a := getApp(cmd)
	t, err := a.Docs.Get(args[0])
	if err != nil {
		return err
	}

	vars := map[string]string{}
	for k, v := range docsVars {
		vars[k] = v
	}
	if docsProject != "" {
		vars["project_name"] = docsProject
	}
	if docsDescription != "" {
		vars["project_description"] = docsDescription
	}

	if missing := t.MissingVariables(vars); len(missing) > 0 && !a.JSON {
		reader := bufio.NewReader(cmd.InOrStdin())
		for _, v := range missing {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", v)
			line, err := reader.ReadString('\n')
			line = strings.TrimSpace(line)
			if line != "" {
				vars[v] = line
			}
			if err != nil {
				break
			}
		}
	}

	out, err := a.Docs.Create(t.Name, vars, docsOutput, docsForce)
	if err != nil {
		return err
	}
	if a.JSON {
		return printJSON(cmd, map[string]string{"template": t.Name, "path": out})
	}
	a.Printer.Success("Created %s", out)
	return nil
}

func runDocsScaffold(cmd *cobra.Command, args []string) error {
	a := getApp(cmd)
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", target, err)
	}
	project := docsProject
	if project == "" {
		project = filepath.Base(abs)
	}

	res, err := a.Docs.Scaffold(abs, project, docsDescription, docsForce)
	if err != nil {
		return err
	}
	if a.JSON {
		return printJSON(cmd, map[string][]string{"created": res.Created, "skipped": res.Skipped})
	}
	for _, p := range res.Created {
		a.Printer.Success("Created %s", p)
	}
	for _, p := range res.Skipped {
		a.Printer.Info("Skipped %s (exists)", p)
	}
	return nil
}

// docsTemplateNames is used for shell completion of template arguments.
func docsTemplateNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return docs.Bundled().Names(), cobra.ShellCompDirectiveNoFileComp
}
