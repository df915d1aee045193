package shell

// Span is the [Start, End) byte range of one token in the input line.
type Span struct {
	Start int
	End   int
}

// Command is a parsed line. It borrows the buffer handed to Parse: the
// arguments are views into that buffer and are only valid until the caller
// reuses it.
type Command struct {
	buf       []byte
	spans     []Span
	finalized bool
}

func (c *Command) Argc() int {
	return len(c.spans)
}

// Name returns argv[0], or "" for a blank line.
func (c *Command) Name() string {
	if len(c.spans) == 0 {
		return ""
	}

	return c.Arg(0)
}

// Bytes returns argument i as a view into the input buffer. The capacity is
// capped at the argument so appending to it never touches the line.
func (c *Command) Bytes(i int) []byte {
	if !c.finalized {
		panic("shell: argument read before finalize")
	}

	sp := c.spans[i]
	return c.buf[sp.Start:sp.End:sp.End]
}

func (c *Command) Arg(i int) string {
	return string(c.Bytes(i))
}

// Args copies every argument out of the buffer.
func (c *Command) Args() []string {
	args := make([]string, len(c.spans))
	for i := range c.spans {
		args[i] = c.Arg(i)
	}

	return args
}

func (c *Command) Spans() []Span {
	spans := make([]Span, len(c.spans))
	copy(spans, c.spans)
	return spans
}

// finalize terminates every argument in place. An End equal to len(buf) is
// already terminated by the end of the buffer.
func (c *Command) finalize() {
	for _, sp := range c.spans {
		if sp.End < len(c.buf) {
			c.buf[sp.End] = 0
		}
	}

	c.finalized = true
}
