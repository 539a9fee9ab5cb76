package model

import "fmt"

// ErrorKind is the closed enumeration of release-preparation failures.
// Every failure the workflow can raise carries exactly one kind; callers
// branch on the kind rather than on error message text.
type ErrorKind int

const (
	// KindNoGitRepo indicates no git repository was found at or above the
	// project directory.
	KindNoGitRepo ErrorKind = iota + 1

	// KindUncommittedChanges indicates the working tree had pending changes
	// before the workflow started.
	KindUncommittedChanges

	// KindDetachedHead indicates HEAD is not on a branch.
	KindDetachedHead

	// KindNoVersionFile indicates no version.json was found for the
	// project directory.
	KindNoVersionFile

	// KindInvalidBranchNameSetting indicates the release branch-name
	// template is empty or lacks the {version} placeholder.
	KindInvalidBranchNameSetting

	// KindInvalidVersionIncrementSetting indicates a build increment was
	// requested for a version that has no build segment.
	KindInvalidVersionIncrementSetting

	// KindBranchAlreadyExists indicates the resolved release branch name
	// already exists when a fork was attempted.
	KindBranchAlreadyExists

	// KindVersionDecrement indicates the requested new version is not
	// greater than the current one.
	KindVersionDecrement

	// KindUserNotConfigured indicates no commit signature could be derived
	// from any git configuration scope (user.name / user.email missing).
	KindUserNotConfigured
)

// String returns the canonical name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNoGitRepo:
		return "NoGitRepo"
	case KindUncommittedChanges:
		return "UncommittedChanges"
	case KindDetachedHead:
		return "DetachedHead"
	case KindNoVersionFile:
		return "NoVersionFile"
	case KindInvalidBranchNameSetting:
		return "InvalidBranchNameSetting"
	case KindInvalidVersionIncrementSetting:
		return "InvalidVersionIncrementSetting"
	case KindBranchAlreadyExists:
		return "BranchAlreadyExists"
	case KindVersionDecrement:
		return "VersionDecrement"
	case KindUserNotConfigured:
		return "UserNotConfigured"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ExitCode defines standard CLI exit codes. Exit code 0 is success and 1 is
// reserved for errors outside the preparation taxonomy (usage errors,
// unexpected git failures); each ErrorKind owns one of the remaining codes
// so scripts and CI systems can branch on the outcome.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1
)

// ExitCode returns the process exit code for this error kind.
// Kinds are numbered from 1, and code 1 is the general error code,
// so taxonomy codes start at 2.
func (k ErrorKind) ExitCode() ExitCode {
	return ExitCode(int(k) + 1)
}

// PrepError is the typed failure raised by the release workflow. It carries
// the error kind, a human-readable message (already written to the error
// channel before the error is returned), and an optional underlying cause.
type PrepError struct {
	// Kind identifies which taxonomy entry this failure is.
	Kind ErrorKind

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface.
func (e *PrepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *PrepError) Unwrap() error {
	return e.Err
}

// NewPrepError creates a PrepError with the given kind and message.
func NewPrepError(kind ErrorKind, message string) *PrepError {
	return &PrepError{Kind: kind, Message: message}
}

// WrapPrepError creates a PrepError that wraps an existing error.
func WrapPrepError(kind ErrorKind, message string, err error) *PrepError {
	return &PrepError{Kind: kind, Message: message, Err: err}
}
