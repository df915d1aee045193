package builtins

import (
	"context"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/Neev4n/tinysh/pkg/shell"
)

// maxListFd is how many descriptors fd_list checks.
const maxListFd = 128

func fdType(st *unix.Stat_t) string {
	switch uint32(st.Mode) & unix.S_IFMT {
	case unix.S_IFREG:
		return "file"
	case unix.S_IFDIR:
		return "dir"
	}

	return "unknown"
}

func (b *Set) fdList(ctx context.Context, cmd *shell.Command, io shell.IOBindings) {
	for fd := 0; fd < maxListFd; fd++ {
		var st unix.Stat_t
		if err := unix.Fstat(fd, &st); err != nil {
			continue
		}

		fmt.Fprintf(io.Stdout, "%3d: type %s\n", fd, fdType(&st))
	}
}

// fd_open and fd_openat leave the descriptor open on purpose; fd_close
// releases it.
func (b *Set) fdOpen(ctx context.Context, cmd *shell.Command, io shell.IOBindings) {
	if cmd.Argc() != 2 {
		usage(io, "fd_open pathname")
		return
	}

	fd, err := unix.Open(cmd.Arg(1), unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		perror(io.Stderr, "open", err)
		return
	}

	fmt.Fprintf(io.Stdout, "opened fd %d\n", fd)
}

func (b *Set) fdOpenat(ctx context.Context, cmd *shell.Command, io shell.IOBindings) {
	if cmd.Argc() != 3 {
		usage(io, "fd_openat dir_fd pathname")
		return
	}

	dirFd, ok := parseFd(io.Stderr, "fd_openat", cmd.Arg(1))
	if !ok {
		return
	}

	fd, err := unix.Openat(dirFd, cmd.Arg(2), unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		perror(io.Stderr, "openat", err)
		return
	}

	fmt.Fprintf(io.Stdout, "opened fd %d\n", fd)
}

func (b *Set) fdClose(ctx context.Context, cmd *shell.Command, io shell.IOBindings) {
	if cmd.Argc() != 2 {
		usage(io, "fd_close fd")
		return
	}

	fd, ok := parseFd(io.Stderr, "fd_close", cmd.Arg(1))
	if !ok {
		return
	}

	if err := unix.Close(fd); err != nil {
		perror(io.Stderr, "close", err)
	}
}

func (b *Set) fdRead(ctx context.Context, cmd *shell.Command, io shell.IOBindings) {
	if cmd.Argc() != 2 {
		usage(io, "fd_read fd")
		return
	}

	fd, ok := parseFd(io.Stderr, "fd_read", cmd.Arg(1))
	if !ok {
		return
	}

	if err := copyCtx(ctx, io.Stdout, fdReader(fd)); err != nil {
		reportCopy(io.Stderr, err)
	}
}
