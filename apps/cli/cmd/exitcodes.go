package cmd

// Exit codes for the msgmap CLI
const (
	// ExitSuccess indicates every template rendered
	ExitSuccess = 0

	// ExitRenderFailure indicates a template could not be rendered
	ExitRenderFailure = 1

	// ExitConfigError indicates a configuration or variable source error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError attaches an exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}
