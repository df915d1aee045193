package builtins

import (
	"context"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// FileOpener is how cat, cp and touch reach the filesystem.
type FileOpener interface {
	OpenRead(name string) (io.ReadCloser, error)
	OpenWrite(name string, flag int, perm os.FileMode) (io.WriteCloser, error)
}

// DefaultFileOpener opens files on the host.
type DefaultFileOpener struct{}

func (fp *DefaultFileOpener) OpenRead(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

func (fp *DefaultFileOpener) OpenWrite(name string, flag int, perm os.FileMode) (io.WriteCloser, error) {
	return os.OpenFile(name, flag, perm)
}

// fdReader reads a raw descriptor without taking ownership of it, unlike
// os.NewFile which closes the fd when collected.
type fdReader int

func (fd fdReader) Read(p []byte) (int, error) {
	n, err := unix.Read(int(fd), p)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}

	return n, nil
}

// opError names the call that failed so it can be printed perror style.
type opError struct {
	op  string
	err error
}

func (e *opError) Error() string {
	return e.op + ": " + e.err.Error()
}

func (e *opError) Unwrap() error {
	return e.err
}

const copyBufSize = 32 * 1024

// copyCtx copies src to dst until EOF, checking ctx between chunks.
func copyCtx(ctx context.Context, dst io.Writer, src io.Reader) error {
	buf := make([]byte, copyBufSize)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			if werr != nil {
				return &opError{op: "write", err: werr}
			}
			if wn != n {
				return &opError{op: "write", err: io.ErrShortWrite}
			}
		}

		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return &opError{op: "read", err: rerr}
		}
	}
}
