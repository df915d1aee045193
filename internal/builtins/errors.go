package builtins

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/sys/unix"
)

// perror prints "op: reason" using the bare errno text when there is one,
// so "chdir: no such file or directory" rather than the full *PathError.
func perror(w io.Writer, op string, err error) {
	var errno unix.Errno
	if errors.As(err, &errno) {
		fmt.Fprintf(w, "%s: %s\n", op, errno.Error())
		return
	}

	fmt.Fprintf(w, "%s: %v\n", op, err)
}

func reportCopy(w io.Writer, err error) {
	var oe *opError
	if errors.As(err, &oe) {
		perror(w, oe.op, oe.err)
		return
	}

	fmt.Fprintln(w, err)
}

func parseFd(w io.Writer, name, arg string) (int, bool) {
	fd, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintf(w, "%s: invalid fd %s\n", name, arg)
		return 0, false
	}

	return fd, true
}
