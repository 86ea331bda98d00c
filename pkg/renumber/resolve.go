package renumber

import (
	"iter"
	"path/filepath"
	"strconv"
)

// Exister reports whether a path is currently occupied.
type Exister interface {
	Exists(path string) bool
}

// ExistsFunc adapts a plain function to Exister.
type ExistsFunc func(path string) bool

// Exists calls f(path).
func (f ExistsFunc) Exists(path string) bool {
	return f(path)
}

// Resolver finds the first unoccupied path for a desired directory or file
// path. It only probes; it never creates anything.
//
// The probe loop has no iteration cap: a directory holding every numbered
// sibling up to some huge n makes a call slow.
//
// Results are stale as soon as they are returned: another writer may take the
// path before the caller uses it.
//
// A Resolver holds no mutable state and is safe for concurrent use when its
// oracle is.
type Resolver struct {
	oracle Exister
}

// New creates a Resolver backed by oracle.
func New(oracle Exister) *Resolver {
	return &Resolver{oracle: oracle}
}

// NextDirPath returns path unchanged when it is free, otherwise the first
// free sibling named base+n.
func (r *Resolver) NextDirPath(path string) string {
	return r.next(path, false)
}

// NextFilePath is NextDirPath for files: the stem is renumbered and the
// original extension is kept on every candidate.
func (r *Resolver) NextFilePath(path string) string {
	return r.next(path, true)
}

func (r *Resolver) next(path string, keepExt bool) string {
	if !r.oracle.Exists(path) {
		return path
	}

	dir, name := filepath.Split(filepath.Clean(path))

	ext := ""
	if keepExt {
		name, ext = SplitExt(name)
	}

	parsed := Split(name)
	for candidate := range Candidates(dir, parsed.Base, ext, parsed.Start()) {
		if !r.oracle.Exists(candidate) {
			return candidate
		}
	}

	// Candidates never ends.
	return path
}

// Candidates yields dir/base+n[.ext] for n = start, start+1, ... without end.
// Each range over the sequence starts again from start.
func Candidates(dir, base, ext string, start uint64) iter.Seq[string] {
	return func(yield func(string) bool) {
		for n := start; ; n++ {
			if !yield(filepath.Join(dir, Candidate(base, ext, n))) {
				return
			}
		}
	}
}

// Candidate builds the entry name base+n, followed by "."+ext when ext is
// not empty.
func Candidate(base, ext string, n uint64) string {
	name := base + strconv.FormatUint(n, 10)
	if ext == "" {
		return name
	}
	return name + "." + ext
}
