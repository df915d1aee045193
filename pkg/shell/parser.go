package shell

// DefaultMaxArgs bounds the number of arguments on one line.
const DefaultMaxArgs = 64

const whitespace = " \t\r\n\v"

type tokenKind int

const (
	tokEnd tokenKind = iota
	tokWord
	// operator classes would go here; every non-space run is a word today
)

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\v':
		return true
	}

	return false
}

// scanner walks one line without modifying it. A NUL byte ends the input
// the same way the end of the buffer does.
type scanner struct {
	buf []byte
	pos int
	end int
}

func (s *scanner) skipSpace() {
	for s.pos < s.end && isSpace(s.buf[s.pos]) {
		s.pos++
	}
}

// next returns the next token and leaves the cursor past the whitespace
// that follows it.
func (s *scanner) next() (tokenKind, Span) {
	s.skipSpace()

	start := s.pos
	if s.pos >= s.end || s.buf[s.pos] == 0 {
		return tokEnd, Span{Start: start, End: start}
	}

	for s.pos < s.end && s.buf[s.pos] != 0 && !isSpace(s.buf[s.pos]) {
		s.pos++
	}
	span := Span{Start: start, End: s.pos}

	s.skipSpace()
	return tokWord, span
}

// DefaultParser splits a line on whitespace. There is no quoting or
// escaping: quote and operator characters are ordinary word bytes.
type DefaultParser struct {
	maxArgs int
}

func NewDefaultParser(maxArgs int) *DefaultParser {
	if maxArgs <= 0 {
		maxArgs = DefaultMaxArgs
	}

	return &DefaultParser{maxArgs: maxArgs}
}

func (p *DefaultParser) build(s *scanner) (*Command, error) {
	cmd := &Command{
		buf:   s.buf,
		spans: make([]Span, 0, 8),
	}

	for {
		tok, span := s.next()
		if tok == tokEnd {
			break
		}

		if tok != tokWord {
			return nil, &SyntaxError{Offset: span.Start, Err: ErrUnexpectedToken}
		}

		if len(cmd.spans) >= p.maxArgs {
			return nil, &SyntaxError{Offset: span.Start, Err: ErrTooManyArgs}
		}

		cmd.spans = append(cmd.spans, span)
	}

	return cmd, nil
}

// Parse tokenizes line and, only if the whole line was consumed, terminates
// each argument in place by writing a NUL at its end. On any error line is
// left unmodified. The returned Command aliases line.
func (p *DefaultParser) Parse(line []byte) (*Command, error) {
	s := &scanner{buf: line, end: len(line)}

	cmd, err := p.build(s)
	if err != nil {
		return nil, err
	}

	s.skipSpace()
	if s.pos != s.end {
		return nil, &ParseError{Rest: string(line[s.pos:])}
	}

	cmd.finalize()
	return cmd, nil
}
