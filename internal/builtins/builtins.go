// Package builtins holds the commands tinysh dispatches to. Each one is a
// thin wrapper over a filesystem or file descriptor call and prints its own
// usage and error text.
package builtins

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/Neev4n/tinysh/pkg/shell"
)

// Set binds the handlers to the file opener they use.
type Set struct {
	opener FileOpener
}

func New(opener FileOpener) *Set {
	if opener == nil {
		opener = &DefaultFileOpener{}
	}

	return &Set{opener: opener}
}

// Entries returns every built-in in table order.
func (b *Set) Entries() []shell.Entry {
	return []shell.Entry{
		{Name: "echo", Run: b.echo},
		{Name: "pwd", Run: b.pwd},
		{Name: "cd", Run: b.cd},
		{Name: "ls", Run: b.ls},
		{Name: "cat", Run: b.cat},
		{Name: "mkdir", Run: b.mkdir},
		{Name: "rmdir", Run: b.rmdir},
		{Name: "rm", Run: b.rm},
		{Name: "touch", Run: b.touch},
		{Name: "mv", Run: b.mv},
		{Name: "cp", Run: b.cp},
		{Name: "ln", Run: b.ln},
		{Name: "fd_list", Run: b.fdList},
		{Name: "fd_open", Run: b.fdOpen},
		{Name: "fd_openat", Run: b.fdOpenat},
		{Name: "fd_close", Run: b.fdClose},
		{Name: "fd_read", Run: b.fdRead},
	}
}

// Names lists every built-in in table order.
func Names() []string {
	entries := New(nil).Entries()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	return names
}

// NewTable builds the dispatch table once, leaving out the disabled names.
func NewTable(opener FileOpener, disabled ...string) (*shell.Table, error) {
	known := Names()
	for _, name := range disabled {
		if !slices.Contains(known, name) {
			return nil, fmt.Errorf("cannot disable unknown command %s", name)
		}
	}

	var entries []shell.Entry
	for _, e := range New(opener).Entries() {
		if slices.Contains(disabled, e.Name) {
			continue
		}
		entries = append(entries, e)
	}

	return shell.NewTable(entries...)
}

func usage(io shell.IOBindings, text string) {
	fmt.Fprintln(io.Stderr, "usage: "+text)
}

func (b *Set) echo(ctx context.Context, cmd *shell.Command, io shell.IOBindings) {
	for i := 1; i < cmd.Argc(); i++ {
		io.Stdout.Write(cmd.Bytes(i))
		io.Stdout.Write([]byte{' '})
	}

	fmt.Fprintln(io.Stdout)
}

func (b *Set) pwd(ctx context.Context, cmd *shell.Command, io shell.IOBindings) {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(io.Stderr, "cannot getcwd")
		return
	}

	fmt.Fprintln(io.Stdout, dir)
}

func (b *Set) cd(ctx context.Context, cmd *shell.Command, io shell.IOBindings) {
	if cmd.Argc() != 2 {
		usage(io, "cd dirname")
		return
	}

	if err := os.Chdir(cmd.Arg(1)); err != nil {
		perror(io.Stderr, "chdir", err)
	}
}
