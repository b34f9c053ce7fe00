// Package iocli abstracts terminal input/output so commands can be
// tested without a TTY.
package iocli

//go:generate moq -out io_mock.go . IO

// IO is the terminal boundary used by CLI commands.
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
}
