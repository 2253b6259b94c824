package vos

import (
	"io"
	"os"
)

// VIO is the set of standard streams a command runs against.
type VIO interface {
	Stdin() io.ReadCloser
	Stdout() io.WriteCloser
	Stderr() io.WriteCloser
}

type VIOAdapter struct {
	IStdin  io.ReadCloser
	IStdout io.WriteCloser
	IStderr io.WriteCloser
}

func NewVIOAdapter(stdin io.Reader, stdout, stderr io.Writer) *VIOAdapter {
	return &VIOAdapter{
		IStdin:  toReadCloserOrDiscard(stdin),
		IStdout: toWriteCloserOrDiscard(stdout),
		IStderr: toWriteCloserOrDiscard(stderr),
	}
}

// NewOSIO returns the interpreter's own standard streams. Programs started
// against it inherit the descriptors directly.
func NewOSIO() VIO {
	return &VIOAdapter{
		IStdin:  os.Stdin,
		IStdout: os.Stdout,
		IStderr: os.Stderr,
	}
}

// NewNullIO creates a valid /dev/null style I/O, reads hit end of file and
// writes will be discarded.
func NewNullIO() VIO {
	return NewVIOAdapter(nil, nil, nil)
}

// WithStdin returns a copy of vio reading from r.
func WithStdin(vio VIO, r io.Reader) VIO {
	return &VIOAdapter{
		IStdin:  toReadCloserOrDiscard(r),
		IStdout: vio.Stdout(),
		IStderr: vio.Stderr(),
	}
}

// WithStdout returns a copy of vio writing to w.
func WithStdout(vio VIO, w io.Writer) VIO {
	return &VIOAdapter{
		IStdin:  vio.Stdin(),
		IStdout: toWriteCloserOrDiscard(w),
		IStderr: vio.Stderr(),
	}
}

var _ VIO = (*VIOAdapter)(nil)

func (pr *VIOAdapter) Stdin() io.ReadCloser {
	return pr.IStdin
}

func (pr *VIOAdapter) Stdout() io.WriteCloser {
	return pr.IStdout
}

func (pr *VIOAdapter) Stderr() io.WriteCloser {
	return pr.IStderr
}

func toWriteCloserOrDiscard(w io.Writer) io.WriteCloser {
	if w == nil {
		return &devNull{}
	}
	if wc, ok := w.(io.WriteCloser); ok {
		return wc
	}

	return nopWriteCloser{w}
}

func toReadCloserOrDiscard(r io.Reader) io.ReadCloser {
	if r == nil {
		return &devNull{}
	}
	if rc, ok := r.(io.ReadCloser); ok {
		return rc
	}

	return io.NopCloser(r)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// devNull implements io.Reader and io.Writer, always at end of file for reads
// and discarding writes.
type devNull struct{}

var _ io.ReadCloser = (*devNull)(nil)
var _ io.WriteCloser = (*devNull)(nil)

func (*devNull) Read([]byte) (int, error) {
	return 0, io.EOF
}

func (*devNull) Close() error {
	return nil
}

func (*devNull) Write(b []byte) (int, error) {
	return len(b), nil
}
