package shell

import (
	"context"
	"fmt"
	"io"
)

type IOBindings struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Builtin runs one command. It checks its own arity and reports its own
// failures on io.Stderr.
type Builtin func(ctx context.Context, cmd *Command, io IOBindings)

type Entry struct {
	Name string
	Run  Builtin
}

// Table is the ordered, read-only list of built-in commands.
type Table struct {
	entries []Entry
}

func NewTable(entries ...Entry) (*Table, error) {
	seen := make(map[string]bool, len(entries))

	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("table: empty command name")
		}
		if e.Run == nil {
			return nil, fmt.Errorf("table: command %s has no handler", e.Name)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("table: duplicate command %s", e.Name)
		}
		seen[e.Name] = true
	}

	t := &Table{entries: make([]Entry, len(entries))}
	copy(t.entries, entries)

	return t, nil
}

// Names lists the commands in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.Name
	}

	return names
}

func (t *Table) Lookup(name string) (Builtin, bool) {
	for _, e := range t.entries {
		if e.Name == name {
			return e.Run, true
		}
	}

	return nil, false
}

// Dispatch runs the handler named by argv[0]. A blank command is a no-op.
// A nil return means a handler ran, whatever it reported.
func (t *Table) Dispatch(ctx context.Context, cmd *Command, io IOBindings) error {
	if cmd.Argc() == 0 {
		return nil
	}

	name := cmd.Name()
	run, ok := t.Lookup(name)
	if !ok {
		return &UnknownCommandError{Name: name, Available: t.Names()}
	}

	run(ctx, cmd, io)
	return nil
}
