package cli

import "fmt"

const (
	exitStatusErrorTemplateConstant = "exit status %d"
)

// ExitStatusError carries a child exit status the process should exit with. Its diagnostic has already been shown.
type ExitStatusError struct {
	Code int
}

// Error describes the exit status.
func (exitError ExitStatusError) Error() string {
	return fmt.Sprintf(exitStatusErrorTemplateConstant, exitError.Code)
}

// ExitCode returns the status to exit with.
func (exitError ExitStatusError) ExitCode() int {
	return exitError.Code
}
