package cli

import "github.com/thenoetrevino/tracker/internal/workflow"

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, listener errors, unexpected failures,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags or invalid flag combinations.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data, such as an unreadable
	// config file.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Empty names, forbidden characters, passwords that bcrypt
	// cannot hash, or any input that fails validation rules.
	ExitValidation = 5

	// ExitConflict indicates the resource already exists.
	ExitConflict = 6
)

// ExitCodeFor maps an error to the exit code a command should return.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	switch workflow.KindOf(err) {
	case workflow.KindNotFound:
		return ExitNotFound
	case workflow.KindAlreadyExists:
		return ExitConflict
	case workflow.KindInternal:
		return ExitError
	default:
		return ExitValidation
	}
}

// errorCode is the machine-readable code printed in JSON error output.
func errorCode(err error) string {
	switch workflow.KindOf(err) {
	case workflow.KindNotFound:
		return "NOT_FOUND"
	case workflow.KindAlreadyExists:
		return "ALREADY_EXISTS"
	case workflow.KindInternal:
		return "INTERNAL_ERROR"
	default:
		return "VALIDATION_ERROR"
	}
}
