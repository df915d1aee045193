package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoEntry() Entry {
	return Entry{
		Name: "echo",
		Run: func(ctx context.Context, cmd *Command, io IOBindings) {
			for i := 1; i < cmd.Argc(); i++ {
				fmt.Fprintf(io.Stdout, "%s ", cmd.Arg(i))
			}
			fmt.Fprintln(io.Stdout)
		},
	}
}

func cdEntry() Entry {
	return Entry{
		Name: "cd",
		Run: func(ctx context.Context, cmd *Command, io IOBindings) {
			if cmd.Argc() != 2 {
				fmt.Fprintln(io.Stderr, "usage: cd dirname")
			}
		},
	}
}

func newTestShell(input string, opts ...Option) (*Shell, *bytes.Buffer, *bytes.Buffer, *bytes.Buffer) {
	var out, errw, prompts bytes.Buffer

	reader := NewPromptReader(strings.NewReader(input), &prompts)
	table := mustTable(echoEntry(), cdEntry())

	return New(reader, &out, &errw, table, opts...), &out, &errw, &prompts
}

func TestShell_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantOut string
		wantErr string
	}{
		{
			name:    "echo collapses whitespace",
			input:   "  echo  hello   world  \n",
			wantOut: "hello world \n",
		},
		{
			name:  "blank line",
			input: "\n",
		},
		{
			name:    "handler checks its own arity",
			input:   "cd a b\n",
			wantErr: "usage: cd dirname\n",
		},
		{
			name:    "unknown command",
			input:   "foo bar\n",
			wantErr: "unknown command foo; available commands are:\n  echo cd\n",
		},
		{
			name:    "quotes are not special",
			input:   "echo \"a b\"\n",
			wantOut: "\"a b\" \n",
		},
		{
			name:    "leftovers",
			input:   "echo x\x00y\n",
			wantErr: "leftovers: y\ncannot parse\n",
		},
		{
			name:    "errors do not stop the loop",
			input:   "nope\necho still here\n",
			wantOut: "still here \n",
			wantErr: "unknown command nope; available commands are:\n  echo cd\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out, errw, _ := newTestShell(tt.input)

			require.NoError(t, s.Run(context.Background()))
			assert.Equal(t, tt.wantOut, out.String())
			assert.Equal(t, tt.wantErr, errw.String())
		})
	}
}

func TestShell_TooManyArgs(t *testing.T) {
	s, out, errw, _ := newTestShell("echo a b c\n", WithParser(NewDefaultParser(3)))

	require.NoError(t, s.Run(context.Background()))
	assert.Empty(t, out.String())
	assert.Equal(t, "too many args at offset 9\ncannot parse\n", errw.String())
}

func TestShell_LineTooLong(t *testing.T) {
	s, out, errw, _ := newTestShell("echo 0123456789\necho ok\n", WithMaxLine(10))

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, "ok \n", out.String())
	assert.Equal(t, "line too long\n", errw.String())
}

func TestShell_PromptPerLine(t *testing.T) {
	s, _, _, prompts := newTestShell("echo 1\necho 2\n", WithPrompt("> "))

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, "> > > ", prompts.String())
}

func TestShell_FinalLineWithoutNewline(t *testing.T) {
	s, out, _, _ := newTestShell("echo last")

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, "last \n", out.String())
}

func TestShell_CancelledContext(t *testing.T) {
	s, out, _, _ := newTestShell("echo never\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, s.Run(ctx), context.Canceled)
	assert.Empty(t, out.String())
}

type failingReader struct{}

func (failingReader) ReadLine(string) (string, error) { return "", errors.New("boom") }
func (failingReader) Close() error                    { return nil }

func TestShell_ReaderError(t *testing.T) {
	s := New(failingReader{}, io.Discard, io.Discard, mustTable(echoEntry()))

	require.EqualError(t, s.Run(context.Background()), "boom")
}

type flushBuffer struct {
	bytes.Buffer
	flushes int
	err     error
}

func (f *flushBuffer) Flush() error {
	f.flushes++
	return f.err
}

func TestShell_FlushesAfterEachLine(t *testing.T) {
	var out flushBuffer
	reader := NewPromptReader(strings.NewReader("echo a\n\necho b\n"), io.Discard)

	s := New(reader, &out, io.Discard, mustTable(echoEntry()))

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 3, out.flushes)
	assert.Equal(t, "a \nb \n", out.String())
}

func TestShell_FlushErrors(t *testing.T) {
	tests := []struct {
		name     string
		outErr   error
		errErr   error
		wantErr  string
		wantLogs string
	}{
		{
			name:     "clean flush",
			wantLogs: "DISPATCH | name=echo argc=2\n",
		},
		{
			name:     "stdout failure goes to stderr",
			outErr:   errors.New("disk full"),
			wantErr:  "flush: disk full\n",
			wantLogs: "DISPATCH | name=echo argc=2\nFLUSH_FAILED | err=disk full\n",
		},
		{
			name:     "stderr failure is only logged",
			errErr:   errors.New("broken pipe"),
			wantLogs: "DISPATCH | name=echo argc=2\nFLUSH_FAILED | err=broken pipe\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &flushBuffer{err: tt.outErr}
			errw := &flushBuffer{err: tt.errErr}
			var logs bytes.Buffer

			reader := NewPromptReader(strings.NewReader("echo a\n"), io.Discard)
			s := New(reader, out, errw, mustTable(echoEntry()), WithLogger(log.New(&logs, "", 0)))

			require.NoError(t, s.Run(context.Background()))
			assert.Equal(t, "a \n", out.String())
			assert.Equal(t, tt.wantErr, errw.String())
			assert.Equal(t, tt.wantLogs, logs.String())
			assert.Equal(t, 1, out.flushes)
			assert.Equal(t, 1, errw.flushes)
		})
	}
}

func TestShell_TraceLogging(t *testing.T) {
	var logs bytes.Buffer
	s, _, _, _ := newTestShell("echo hi\nbad\x00x\n", WithLogger(log.New(&logs, "", 0)))

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, "DISPATCH | name=echo argc=2\nPARSE_FAILED | err=leftovers: x\n", logs.String())
}

func TestPromptReader_EOF(t *testing.T) {
	r := NewPromptReader(strings.NewReader("a\nb"), io.Discard)

	line, err := r.ReadLine("")
	require.NoError(t, err)
	assert.Equal(t, "a\n", line)

	line, err = r.ReadLine("")
	require.NoError(t, err)
	assert.Equal(t, "b", line)

	_, err = r.ReadLine("")
	require.ErrorIs(t, err, io.EOF)

	_, err = r.ReadLine("")
	require.ErrorIs(t, err, io.EOF)
}
