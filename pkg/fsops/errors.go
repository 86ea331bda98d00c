package fsops

import (
	"errors"
	"io/fs"

	"crepbook/pkg/safepath"
)

// Kind classifies why a filesystem call failed.
type Kind int

const (
	// KindOther covers every I/O failure without a more specific kind.
	KindOther Kind = iota
	// KindNotFound means the path, or a parent of it, does not exist.
	KindNotFound
	// KindPermission means the OS refused access, or the path lies outside
	// the configured root.
	KindPermission
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindPermission:
		return "permission-denied"
	default:
		return "other-io"
	}
}

var (
	// ErrInvalidUTF8 is returned by ReadFile for content that is not text.
	ErrInvalidUTF8 = errors.New("stream did not contain valid UTF-8")
	// ErrIsDir is returned when a file operation is given a directory.
	ErrIsDir = errors.New("is a directory")
	// ErrNotDir is returned when a directory operation is given a file.
	ErrNotDir = errors.New("not a directory")
)

// Error describes a failed filesystem operation. Its message is the message
// of the underlying error, unchanged.
type Error struct {
	Op   string
	Path string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind carried by err, classifying plain errors on the
// fly. It returns KindOther for a nil error.
func KindOf(err error) Kind {
	var fsErr *Error
	if errors.As(err, &fsErr) {
		return fsErr.Kind
	}
	return classify(err)
}

func classify(err error) Kind {
	switch {
	case err == nil:
		return KindOther
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission),
		errors.Is(err, safepath.ErrPathEscape),
		errors.Is(err, safepath.ErrSymlinkEscape),
		errors.Is(err, safepath.ErrRootMutation):
		return KindPermission
	default:
		return KindOther
	}
}

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Path: path, Kind: classify(err), Err: err}
}
