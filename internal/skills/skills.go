package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/firefly-engineering/agentspaces/internal/errors"
	"github.com/firefly-engineering/agentspaces/internal/logging"
	"github.com/firefly-engineering/agentspaces/internal/metadata"
	"github.com/firefly-engineering/agentspaces/internal/paths"
)

// SkillFileName is the file written into a skill directory.
const SkillFileName = "SKILL.md"

const defaultPurpose = "No specific purpose defined"

var (
	htmlTagRe      = regexp.MustCompile(`<[^>]+>`)
	markdownLinkRe = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
)

type frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type contextData struct {
	Frontmatter   string
	Name          string
	Project       string
	Branch        string
	BaseBranch    string
	CreatedAt     string
	Purpose       string
	PythonVersion string
	HasVenv       bool
	Status        string
}

// SanitizePurpose makes user-provided text safe to embed in markdown.
func SanitizePurpose(text string) string {
	text = htmlTagRe.ReplaceAllString(text, "")
	text = markdownLinkRe.ReplaceAllString(text, "$1")
	return strings.ReplaceAll(text, "`", "\\`")
}

// Render returns the workspace-context SKILL.md content for m.
func Render(m metadata.Metadata) (string, error) {
	purpose := defaultPurpose
	if m.Purpose != nil && strings.TrimSpace(*m.Purpose) != "" {
		purpose = *m.Purpose
	}
	purpose = SanitizePurpose(purpose)

	fm, err := yaml.Marshal(frontmatter{
		Name:        paths.WorkspaceContextSkill,
		Description: fmt.Sprintf("Context for workspace %s of project %s: %s", m.Name, m.Project, firstLine(purpose)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	data := contextData{
		Frontmatter: string(fm),
		Name:        m.Name,
		Project:     m.Project,
		Branch:      m.Branch,
		BaseBranch:  m.BaseBranch,
		CreatedAt:   m.CreatedAt.UTC().Format(time.RFC3339),
		Purpose:     purpose,
		HasVenv:     m.HasVenv,
		Status:      string(m.Status),
	}
	if m.PythonVersion != nil {
		data.PythonVersion = *m.PythonVersion
	}
	return renderTemplate("workspace-context", data)
}

// Generate writes the workspace-context skill into outputDir and returns
// the path of the written file.
func Generate(m metadata.Metadata, outputDir string) (string, error) {
	content, err := Render(m)
	if err != nil {
		return "", errors.Wrap(errors.KindUnknown, errors.ExitGeneralError, "failed to render workspace-context skill", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", errors.PersistenceError("failed to create skill directory", err)
	}
	out := filepath.Join(outputDir, SkillFileName)
	if err := os.WriteFile(out, []byte(content), 0644); err != nil {
		return "", errors.PersistenceError("failed to write skill file", err)
	}

	logging.Debug("skill generated", "skill", paths.WorkspaceContextSkill, "output", out)
	return out, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
