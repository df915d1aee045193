package shell

import (
	"context"
)

type Parser interface {
	Parse(line []byte) (*Command, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, cmd *Command, io IOBindings) error
}

// LineReader is the front end: it shows prompt and returns one line.
// io.EOF ends the session.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}
