package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
)

const (
	DefaultPrompt  = "$ "
	DefaultMaxLine = 1024
)

type flusher interface {
	Flush() error
}

// type Shell
type Shell struct {
	reader     LineReader
	Out        io.Writer
	Err        io.Writer
	parser     Parser
	dispatcher Dispatcher
	prompt     string
	maxLine    int
	logger     *log.Logger
}

type Option func(*Shell)

func WithPrompt(prompt string) Option {
	return func(s *Shell) {
		s.prompt = prompt
	}
}

func WithParser(p Parser) Option {
	return func(s *Shell) {
		s.parser = p
	}
}

func WithMaxLine(n int) Option {
	return func(s *Shell) {
		if n > 0 {
			s.maxLine = n
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Shell) {
		s.logger = l
	}
}

// func New
func New(reader LineReader, out, errw io.Writer, dispatcher Dispatcher, opts ...Option) *Shell {
	s := &Shell{
		reader:     reader,
		Out:        out,
		Err:        errw,
		parser:     NewDefaultParser(DefaultMaxArgs),
		dispatcher: dispatcher,
		prompt:     DefaultPrompt,
		maxLine:    DefaultMaxLine,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run reads and executes lines until end of input. Errors on a line are
// reported and the loop goes on; only a failing reader stops it.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := s.reader.ReadLine(s.prompt)

		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		s.RunLine(ctx, line)
		s.flush()
	}
}

// RunLine parses and dispatches one line. The line buffer lives only for
// this call.
func (s *Shell) RunLine(ctx context.Context, line string) {
	if len(line) > s.maxLine {
		fmt.Fprintln(s.Err, ErrLineTooLong)
		return
	}

	buf := []byte(line)

	cmd, err := s.parser.Parse(buf)
	if err != nil {
		s.logf("PARSE_FAILED | err=%v", err)
		fmt.Fprintln(s.Err, err)
		fmt.Fprintln(s.Err, "cannot parse")
		return
	}

	if cmd.Argc() == 0 {
		return
	}

	s.logf("DISPATCH | name=%s argc=%d", cmd.Name(), cmd.Argc())

	bindings := IOBindings{
		Stdin:  nil,
		Stdout: s.Out,
		Stderr: s.Err,
	}

	if err := s.dispatcher.Dispatch(ctx, cmd, bindings); err != nil {
		fmt.Fprintln(s.Err, err)
	}
}

// flush drains buffered output after each line. Out goes first so a
// failure there can still be reported on Err.
func (s *Shell) flush() {
	for _, w := range []io.Writer{s.Out, s.Err} {
		f, ok := w.(flusher)
		if !ok {
			continue
		}

		if err := f.Flush(); err != nil {
			s.logf("FLUSH_FAILED | err=%v", err)
			if w != s.Err {
				fmt.Fprintln(s.Err, "flush:", err)
			}
		}
	}
}

func (s *Shell) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
