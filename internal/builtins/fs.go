package builtins

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.sr.ht/~sircmpwn/getopt"
	"golang.org/x/sys/unix"

	"github.com/Neev4n/tinysh/pkg/shell"
)

func (b *Set) ls(ctx context.Context, cmd *shell.Command, io shell.IOBindings) {
	args := cmd.Args()

	opts, optind, err := getopt.Getopts(args, "l")
	if err != nil {
		usage(io, "ls [-l] [pathname]")
		return
	}

	// every dash argument is a lone -l; getopt would also take -ll and --
	for _, arg := range args[1:optind] {
		if arg != "-l" {
			usage(io, "ls [-l] [pathname]")
			return
		}
	}

	long := len(opts) > 0

	var pathname string
	switch rest := args[optind:]; len(rest) {
	case 0:
		pathname = "."
	case 1:
		pathname = rest[0]
	default:
		usage(io, "ls [-l] [pathname]")
		return
	}

	if pathname == "-" {
		usage(io, "ls [-l] [pathname]")
		return
	}

	info, err := os.Lstat(pathname)
	if err != nil {
		perror(io.Stderr, "lstat", err)
		return
	}

	if !info.IsDir() {
		lsEntry(io, pathname, pathname, long)
		return
	}

	entries, err := os.ReadDir(pathname)
	if err != nil {
		perror(io.Stderr, "opendir", err)
		return
	}

	names := []string{".", ".."}
	for _, e := range entries {
		names = append(names, e.Name())
	}

	for _, name := range names {
		lsEntry(io, name, filepath.Join(pathname, name), long)
	}
}

// lsEntry prints one line of ls output. Long form is
// "<type> <size> <name>[ -> <target>]" with type one of - d l ?.
func lsEntry(io shell.IOBindings, name, path string, long bool) {
	if !long {
		fmt.Fprintln(io.Stdout, name)
		return
	}

	typ := "?"
	extra := ""
	var size int64

	if info, err := os.Lstat(path); err == nil {
		size = info.Size()

		switch mode := info.Mode(); {
		case mode.IsRegular():
			typ = "-"
		case mode.IsDir():
			typ = "d"
		case mode&os.ModeSymlink != 0:
			typ = "l"
			target, err := os.Readlink(path)
			if err != nil {
				perror(io.Stderr, "readlink", err)
			} else {
				extra = " -> " + target
			}
		}
	}

	fmt.Fprintf(io.Stdout, "%s %8d %s%s\n", typ, size, name, extra)
}

func (b *Set) cat(ctx context.Context, cmd *shell.Command, io shell.IOBindings) {
	if cmd.Argc() != 2 {
		usage(io, "cat filename")
		return
	}

	f, err := b.opener.OpenRead(cmd.Arg(1))
	if err != nil {
		perror(io.Stderr, "open", err)
		return
	}
	defer f.Close()

	if err := copyCtx(ctx, io.Stdout, f); err != nil {
		reportCopy(io.Stderr, err)
	}
}

func (b *Set) mkdir(ctx context.Context, cmd *shell.Command, io shell.IOBindings) {
	if cmd.Argc() != 2 {
		usage(io, "mkdir dirname")
		return
	}

	if err := unix.Mkdir(cmd.Arg(1), 0777); err != nil {
		perror(io.Stderr, "mkdir", err)
	}
}

func (b *Set) rmdir(ctx context.Context, cmd *shell.Command, io shell.IOBindings) {
	if cmd.Argc() != 2 {
		usage(io, "rmdir dirname")
		return
	}

	if err := unix.Rmdir(cmd.Arg(1)); err != nil {
		perror(io.Stderr, "rmdir", err)
	}
}

func (b *Set) rm(ctx context.Context, cmd *shell.Command, io shell.IOBindings) {
	if cmd.Argc() != 2 {
		usage(io, "rm pathname")
		return
	}

	if err := unix.Unlink(cmd.Arg(1)); err != nil {
		perror(io.Stderr, "unlink", err)
	}
}

func (b *Set) touch(ctx context.Context, cmd *shell.Command, io shell.IOBindings) {
	if cmd.Argc() != 2 {
		usage(io, "touch pathname")
		return
	}

	f, err := b.opener.OpenWrite(cmd.Arg(1), os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		perror(io.Stderr, "open", err)
		return
	}

	f.Close()
}

func (b *Set) mv(ctx context.Context, cmd *shell.Command, io shell.IOBindings) {
	if cmd.Argc() != 3 {
		usage(io, "mv src dst")
		return
	}

	if err := os.Rename(cmd.Arg(1), cmd.Arg(2)); err != nil {
		perror(io.Stderr, "rename", err)
	}
}

func (b *Set) cp(ctx context.Context, cmd *shell.Command, bindings shell.IOBindings) {
	if cmd.Argc() != 3 {
		usage(bindings, "cp src dst")
		return
	}

	src, err := b.opener.OpenRead(cmd.Arg(1))
	if err != nil {
		perror(bindings.Stderr, "open src", err)
		return
	}
	defer src.Close()

	dst, err := b.opener.OpenWrite(cmd.Arg(2), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		perror(bindings.Stderr, "open dst", err)
		return
	}
	defer dst.Close()

	err = copyCtx(ctx, dst, src)
	if errors.Is(err, io.ErrShortWrite) {
		fmt.Fprintln(bindings.Stderr, "cp: short write")
		return
	}
	if err != nil {
		reportCopy(bindings.Stderr, err)
	}
}

func (b *Set) ln(ctx context.Context, cmd *shell.Command, io shell.IOBindings) {
	if cmd.Argc() != 4 || cmd.Arg(1) != "-s" {
		usage(io, "ln -s target linkfile")
		return
	}

	if err := os.Symlink(cmd.Arg(2), cmd.Arg(3)); err != nil {
		perror(io.Stderr, "symlink", err)
	}
}
