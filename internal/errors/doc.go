// Package errors provides typed errors with exit codes for agentspaces.
//
// # Error Type
//
// Error carries a Kind tag, an exit code and an optional cause:
//
//	type Error struct {
//	    Kind       Kind   // Category used for matching
//	    Code       int    // Exit code
//	    Message    string // User-facing message
//	    Cause      error  // Wrapped error
//	    ExitStatus int    // External tool exit status
//	    Stderr     string // External tool stderr
//	}
//
// # Exit Codes
//
//	ExitSuccess        = 0  // Success
//	ExitGeneralError   = 1  // General/unknown errors
//	ExitNotFound       = 2  // Workspace, branch or template does not exist
//	ExitValidation     = 3  // Invalid input or name
//	ExitGitError       = 4  // git rejected the request
//	ExitTimeout        = 5  // External tool exceeded its deadline
//	ExitDirtyWorkspace = 6  // Removal blocked by uncommitted changes
//	ExitPersistence    = 7  // Metadata or config could not be written
//	ExitProvisioning   = 8  // uv environment setup or sync failed
//	ExitAgentError     = 9  // Agent could not be launched
//
// # Matching
//
// Callers match on the kind rather than on concrete types:
//
//	switch errors.KindOf(err) {
//	case errors.KindTimeout:
//	    ...
//	case errors.KindExternalTool:
//	    ...
//	}
//
// Use GetExitCode to extract the exit code from an error chain:
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
