package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/peterh/liner"
)

// PromptReader is the plain front end for pipes and files.
type PromptReader struct {
	in  *bufio.Reader
	out io.Writer
	eof bool
}

func NewPromptReader(r io.Reader, w io.Writer) *PromptReader {
	return &PromptReader{in: bufio.NewReader(r), out: w}
}

// ReadLine returns a final unterminated line with a nil error and reports
// io.EOF on the call after it.
func (p *PromptReader) ReadLine(prompt string) (string, error) {
	if p.eof {
		return "", io.EOF
	}

	fmt.Fprint(p.out, prompt)

	line, err := p.in.ReadString('\n')

	if errors.Is(err, io.EOF) {
		p.eof = true
		if line == "" {
			return "", io.EOF
		}
		return line, nil
	}

	if err != nil {
		return "", err
	}

	return line, nil
}

func (p *PromptReader) Close() error {
	return nil
}

// lineEditor is the part of *liner.State the reader drives.
type lineEditor interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	ReadHistory(r io.Reader) (int, error)
	WriteHistory(w io.Writer) (int, error)
	Close() error
}

// LinerReader adds line editing and a persistent history for terminals.
type LinerReader struct {
	line        lineEditor
	historyFile string
}

func NewLinerReader(historyFile string) *LinerReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	return newLinerReader(line, historyFile)
}

func newLinerReader(line lineEditor, historyFile string) *LinerReader {
	l := &LinerReader{
		line:        line,
		historyFile: historyFile,
	}

	l.loadHistory()
	return l
}

func (l *LinerReader) loadHistory() {
	if l.historyFile == "" {
		return
	}

	if f, err := os.Open(l.historyFile); err == nil {
		l.line.ReadHistory(f)
		f.Close()
	}
}

var escapeSeq = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

// PlainPrompt strips terminal escape sequences and other control
// characters, which liner refuses to draw.
func PlainPrompt(prompt string) string {
	prompt = escapeSeq.ReplaceAllString(prompt, "")

	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.C, r) {
			return -1
		}
		return r
	}, prompt)
}

// ReadLine turns Ctrl-C into an empty line; Ctrl-D is io.EOF.
func (l *LinerReader) ReadLine(prompt string) (string, error) {
	input, err := l.line.Prompt(PlainPrompt(prompt))

	if errors.Is(err, liner.ErrPromptAborted) {
		return "", nil
	}

	if err != nil {
		return "", err
	}

	if strings.TrimSpace(input) != "" {
		l.line.AppendHistory(input)
	}

	return input + "\n", nil
}

func (l *LinerReader) saveHistory() error {
	if l.historyFile == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(l.historyFile), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(l.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = l.line.WriteHistory(f)
	return err
}

// Close saves the history and restores the terminal.
func (l *LinerReader) Close() error {
	herr := l.saveHistory()

	if err := l.line.Close(); err != nil {
		return err
	}

	if herr != nil {
		return fmt.Errorf("save history: %w", herr)
	}

	return nil
}
