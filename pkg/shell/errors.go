package shell

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnexpectedToken = errors.New("syntax")
	ErrTooManyArgs     = errors.New("too many args")
	ErrLeftovers       = errors.New("leftovers")
	ErrNotFound        = errors.New("not found")
	ErrLineTooLong     = errors.New("line too long")
)

// SyntaxError rejects a malformed token stream. Offset is where the builder
// stopped.
type SyntaxError struct {
	Offset int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// ParseError reports text left over after a complete command.
type ParseError struct {
	Rest string
}

func (e *ParseError) Error() string {
	rest := strings.ReplaceAll(e.Rest, "\x00", " ")
	rest = strings.Trim(rest, whitespace)
	return "leftovers: " + rest
}

func (e *ParseError) Unwrap() error {
	return ErrLeftovers
}

type UnknownCommandError struct {
	Name      string
	Available []string
}

func (e *UnknownCommandError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "unknown command %s; available commands are:\n", e.Name)
	b.WriteString(" ")
	for _, name := range e.Available {
		b.WriteString(" ")
		b.WriteString(name)
	}

	return b.String()
}

func (e *UnknownCommandError) Unwrap() error {
	return ErrNotFound
}
