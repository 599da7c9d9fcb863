// Package workspace orchestrates the workspace lifecycle: create, list,
// get, remove, activate, sync and activity tracking.
//
// A workspace is a git worktree stored at <base>/<project>/<name> with a
// .agentspace directory holding its metadata, skills and agent sessions.
// Git is authoritative for existence; metadata only describes.
//
// # Creating
//
//	svc := workspace.NewService(resolver, git,
//	    workspace.WithProvisioner(environment.NewProvisioner(exec)),
//	    workspace.WithRecorder(audit.NewLogger(resolver)),
//	)
//	ws, err := svc.Create(ctx, workspace.CreateOptions{
//	    Cwd:        cwd,
//	    BaseBranch: "main",
//	    SetupVenv:  true,
//	})
//
// Create adds the worktree first and then fills in the metadata directory,
// the git exclude entry, the Python environment, the metadata file and the
// workspace-context skill. Only a failure to persist metadata undoes the
// worktree; the other steps log a warning and continue.
//
// # Resolving the project
//
// Every operation takes the caller's working directory. When it lies inside
// a workspace, the main repository is used instead, so commands behave the
// same from anywhere in a project.
package workspace
