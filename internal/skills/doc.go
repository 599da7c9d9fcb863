// Package skills generates agent skill files for workspaces.
//
// The workspace-context skill is a SKILL.md with YAML frontmatter (name,
// description) followed by a markdown summary of the workspace: project,
// branch, base branch, purpose and Python environment. Agents that scan
// .agentspace/skills discover it and learn where they are working.
//
// Usage:
//
//	path, err := skills.Generate(meta, resolver.WorkspaceContextSkillDir(project, name))
//
// The purpose is user input and is sanitized before rendering: HTML tags
// are stripped, markdown links are reduced to their text and backticks
// are escaped.
package skills
