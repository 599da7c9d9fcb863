package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Exit codes for agentspaces
const (
	ExitSuccess        = 0
	ExitGeneralError   = 1
	ExitNotFound       = 2
	ExitValidation     = 3
	ExitGitError       = 4
	ExitTimeout        = 5
	ExitDirtyWorkspace = 6
	ExitPersistence    = 7
	ExitProvisioning   = 8
	ExitAgentError     = 9
)

// Kind tags an error with its category so callers can switch on it
// instead of probing for concrete types.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindInvalidName
	KindNotFound
	KindExternalTool
	KindTimeout
	KindDirtyWorkspace
	KindPersistence
	KindProvisioning
	KindNameExhaustion
	KindNotARepository
	KindAgent
)

var kindNames = map[Kind]string{
	KindUnknown:        "unknown",
	KindValidation:     "validation",
	KindInvalidName:    "invalid-name",
	KindNotFound:       "not-found",
	KindExternalTool:   "external-tool",
	KindTimeout:        "timeout",
	KindDirtyWorkspace: "dirty-workspace",
	KindPersistence:    "persistence",
	KindProvisioning:   "provisioning",
	KindNameExhaustion: "name-exhaustion",
	KindNotARepository: "not-a-repository",
	KindAgent:          "agent",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the base error type for agentspaces
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Cause   error

	// ExitStatus and Stderr are set for KindExternalTool.
	ExitStatus int
	Stderr     string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *Error) ExitCode() int {
	return e.Code
}

// New creates a new Error
func New(kind Kind, code int, message string) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error
func Wrap(kind Kind, code int, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *Error {
	return New(KindValidation, ExitValidation, message)
}

// ValidationErrorf is ValidationError with formatting
func ValidationErrorf(format string, args ...any) *Error {
	return ValidationError(fmt.Sprintf(format, args...))
}

// InvalidName returns an error for a name rejected before reaching the filesystem
func InvalidName(kind, value, reason string) *Error {
	return New(KindInvalidName, ExitValidation, fmt.Sprintf("invalid %s name %q: %s", kind, value, reason))
}

// NotFound returns an error for a missing workspace, branch or template
func NotFound(what, name string) *Error {
	return New(KindNotFound, ExitNotFound, fmt.Sprintf("%s not found: %s", what, name))
}

// WorkspaceNotFound returns an error for a missing workspace
func WorkspaceNotFound(name string) *Error {
	return NotFound("workspace", name)
}

// ExternalToolError returns an error for a non-zero exit from an external tool.
func ExternalToolError(command string, exitStatus int, stderr string) *Error {
	msg := fmt.Sprintf("%s failed with exit code %d", command, exitStatus)
	if s := strings.TrimSpace(stderr); s != "" {
		msg += ": " + s
	}
	return &Error{
		Kind:       KindExternalTool,
		Code:       ExitGitError,
		Message:    msg,
		ExitStatus: exitStatus,
		Stderr:     stderr,
	}
}

// TimeoutError returns an error for an external tool exceeding its deadline
func TimeoutError(command string, timeout time.Duration) *Error {
	return New(KindTimeout, ExitTimeout, fmt.Sprintf("%s timed out after %s", command, timeout))
}

// DirtyWorkspace returns an error for a removal blocked by uncommitted changes
func DirtyWorkspace(name string, cause error) *Error {
	return Wrap(KindDirtyWorkspace, ExitDirtyWorkspace,
		fmt.Sprintf("workspace %s has uncommitted changes (use --force to override)", name), cause)
}

// PersistenceError returns an error for metadata or config write failures
func PersistenceError(message string, cause error) *Error {
	return Wrap(KindPersistence, ExitPersistence, message, cause)
}

// ProvisioningError returns an error for environment setup or sync failures
func ProvisioningError(message string, cause error) *Error {
	return Wrap(KindProvisioning, ExitProvisioning, message, cause)
}

// NameExhaustion returns an error when no unique name could be generated
func NameExhaustion(attempts int) *Error {
	return New(KindNameExhaustion, ExitGeneralError,
		fmt.Sprintf("failed to generate unique name after %d attempts", attempts))
}

// NotARepository returns an error when a directory is not inside a git repository
func NotARepository(path string, cause error) *Error {
	return Wrap(KindNotARepository, ExitGitError, fmt.Sprintf("not a git repository: %s", path), cause)
}

// AgentError returns an error for agent launch failures
func AgentError(message string, cause error) *Error {
	return Wrap(KindAgent, ExitAgentError, message, cause)
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries kind k. InvalidName errors also
// report as KindValidation.
func IsKind(err error, k Kind) bool {
	got := KindOf(err)
	if got == k {
		return true
	}
	return k == KindValidation && got == KindInvalidName
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
