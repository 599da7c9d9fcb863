// Package docs renders design documents from bundled templates.
//
// Each template is a markdown file with YAML frontmatter describing the
// document (category, when to use it, the variables it takes). The body
// is a text/template executed against the supplied variables.
package docs

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/firefly-engineering/agentspaces/internal/errors"
	"github.com/firefly-engineering/agentspaces/internal/logging"
)

//go:embed templates/*.md
var templatesFS embed.FS

const frontmatterDelim = "---"

// Template describes a bundled design document template.
type Template struct {
	Name              string
	Category          string
	Description       string
	WhenToUse         []string
	RequiredVariables []string
	OptionalVariables []string
	Dependencies      []string
	Path              string

	body string
}

type frontmatter struct {
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Description string   `yaml:"description"`
	WhenToUse   []string `yaml:"when_to_use"`
	Variables   struct {
		Required []string `yaml:"required"`
		Optional []string `yaml:"optional"`
	} `yaml:"variables"`
	Dependencies []string `yaml:"dependencies"`
}

// Catalog holds a set of parsed templates.
type Catalog struct {
	templates []Template
}

// Bundled returns the catalog of templates shipped with the binary.
func Bundled() *Catalog {
	return Load(templatesFS, "templates")
}

// Load parses every *.md file under dir in fsys. Templates with broken
// frontmatter are skipped with a warning.
func Load(fsys fs.FS, dir string) *Catalog {
	c := &Catalog{}
	matches, err := fs.Glob(fsys, path.Join(dir, "*.md"))
	if err != nil {
		logging.Warn("failed to list templates", "error", err)
		return c
	}
	for _, p := range matches {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			logging.Warn("failed to read template", "path", p, "error", err)
			continue
		}
		t, err := parseTemplate(p, string(data))
		if err != nil {
			logging.Warn("failed to parse template", "path", p, "error", err)
			continue
		}
		c.templates = append(c.templates, t)
	}
	sort.Slice(c.templates, func(i, j int) bool {
		a, b := c.templates[i], c.templates[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Name < b.Name
	})
	return c
}

// SplitFrontmatter separates leading YAML frontmatter from the body.
// Content without frontmatter yields an empty header.
func SplitFrontmatter(content string) (header, body string, err error) {
	if !strings.HasPrefix(content, frontmatterDelim) {
		return "", content, nil
	}
	rest := content[len(frontmatterDelim):]
	end := strings.Index(rest, "\n"+frontmatterDelim)
	if end == -1 {
		return "", "", fmt.Errorf("closing %q delimiter not found", frontmatterDelim)
	}
	header = rest[:end]
	body = rest[end+1+len(frontmatterDelim):]
	return header, strings.TrimLeft(body, "\r\n"), nil
}

func parseTemplate(p, content string) (Template, error) {
	header, body, err := SplitFrontmatter(content)
	if err != nil {
		return Template{}, err
	}
	var fm frontmatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return Template{}, fmt.Errorf("invalid frontmatter: %w", err)
	}
	if fm.Name == "" {
		return Template{}, fmt.Errorf("missing required 'name' field")
	}
	category := fm.Category
	if category == "" {
		category = "unknown"
	}
	return Template{
		Name:              fm.Name,
		Category:          category,
		Description:       strings.TrimSpace(fm.Description),
		WhenToUse:         fm.WhenToUse,
		RequiredVariables: fm.Variables.Required,
		OptionalVariables: fm.Variables.Optional,
		Dependencies:      fm.Dependencies,
		Path:              p,
		body:              body,
	}, nil
}

// List returns all templates sorted by category then name. A non-empty
// category filters the result.
func (c *Catalog) List(category string) []Template {
	var out []Template
	for _, t := range c.templates {
		if category == "" || t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Categories returns the distinct template categories in sorted order.
func (c *Catalog) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range c.templates {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	sort.Strings(out)
	return out
}

// Names returns every template name.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.templates))
	for _, t := range c.templates {
		names = append(names, t.Name)
	}
	return names
}

// Get returns the named template.
func (c *Catalog) Get(name string) (Template, error) {
	for _, t := range c.templates {
		if t.Name == name {
			return t, nil
		}
	}
	err := errors.NotFound("template", name)
	err.Message += ". Available: " + strings.Join(c.Names(), ", ")
	return Template{}, err
}

// MissingVariables returns the required variables absent from vars.
func (t Template) MissingVariables(vars map[string]string) []string {
	var missing []string
	for _, v := range t.RequiredVariables {
		if _, ok := vars[v]; !ok {
			missing = append(missing, v)
		}
	}
	return missing
}

// OutputName returns the file name a rendered document is written to.
// Decision records are prefixed with their number when one is given.
func (t Template) OutputName(vars map[string]string) string {
	if t.Category == "decision" && vars["adr_number"] != "" {
		return vars["adr_number"] + "-" + t.Name + ".md"
	}
	return t.Name + ".md"
}

// Execute renders the template body. Optional variables that are not set
// render as empty strings.
func (t Template) Execute(vars map[string]string) (string, error) {
	if missing := t.MissingVariables(vars); len(missing) > 0 {
		return "", errors.ValidationErrorf("missing required variables for %q: %s", t.Name, strings.Join(missing, ", "))
	}
	tmpl, err := template.New(t.Name).Option("missingkey=zero").Parse(t.body)
	if err != nil {
		return "", errors.ValidationErrorf("template %q is invalid: %v", t.Name, err)
	}
	data := make(map[string]string, len(vars))
	for k, v := range vars {
		data[k] = v
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.ValidationErrorf("failed to render %q: %v", t.Name, err)
	}
	return buf.String(), nil
}

// Render writes the named template to outPath, creating parent
// directories. An existing file is only replaced when force is set.
func (c *Catalog) Render(name string, vars map[string]string, outPath string, force bool) (string, error) {
	t, err := c.Get(name)
	if err != nil {
		return "", err
	}
	content, err := t.Execute(vars)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(outPath); err == nil && !force {
		return "", errors.ValidationErrorf("file exists: %s (use --force to overwrite)", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return "", errors.PersistenceError("cannot create output directory", err)
	}
	if err := atomic.WriteFile(outPath, strings.NewReader(content)); err != nil {
		return "", errors.PersistenceError("cannot write output file", err)
	}
	logging.Debug("design document rendered", "template", name, "output", outPath)
	return outPath, nil
}

// Create renders the named template into outputDir under its default
// file name.
func (c *Catalog) Create(name string, vars map[string]string, outputDir string, force bool) (string, error) {
	t, err := c.Get(name)
	if err != nil {
		return "", err
	}
	return c.Render(name, vars, filepath.Join(outputDir, t.OutputName(vars)), force)
}

// ScaffoldLayout maps template names to their location in a new project.
var ScaffoldLayout = map[string]string{
	"readme":                "README.md",
	"claude-md":             "CLAUDE.md",
	"todo-md":               "TODO.md",
	"architecture":          "docs/design/architecture.md",
	"development-standards": "docs/design/development-standards.md",
	"deployment":            "docs/planning/deployment.md",
	"adr-template":          "docs/adr/000-template.md",
}

// ScaffoldResult lists the files written and skipped by Scaffold.
type ScaffoldResult struct {
	Created []string
	Skipped []string
}

// Scaffold renders every template in ScaffoldLayout under target.
// Existing files are skipped unless force is set.
func (c *Catalog) Scaffold(target, projectName, description string, force bool) (ScaffoldResult, error) {
	var res ScaffoldResult
	if err := os.MkdirAll(target, 0755); err != nil {
		return res, errors.PersistenceError("cannot create target directory", err)
	}
	vars := map[string]string{
		"project_name":        projectName,
		"project_description": description,
		"adr_number":          "000",
		"adr_title":           "ADR Template",
	}

	names := make([]string, 0, len(ScaffoldLayout))
	for name := range ScaffoldLayout {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		out := filepath.Join(target, filepath.FromSlash(ScaffoldLayout[name]))
		if _, err := os.Stat(out); err == nil && !force {
			res.Skipped = append(res.Skipped, out)
			continue
		}
		if _, err := c.Render(name, vars, out, true); err != nil {
			return res, err
		}
		res.Created = append(res.Created, out)
	}
	return res, nil
}
