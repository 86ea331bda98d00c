// Package renumber computes collision-free paths by renumbering the trailing
// numeric suffix of an entry name.
//
// "notes" becomes "notes1", "notes1" becomes "notes2", "doc.txt" becomes
// "doc1.txt". Only the final path component is ever changed.
package renumber

import (
	"strconv"
	"unicode/utf8"
)

// ParsedName is an entry name split into a textual base and a trailing
// decimal suffix.
type ParsedName struct {
	Base string
	// Suffix is the parsed trailing digit run. It is 0 when HasSuffix is
	// false, and also when the run overflowed uint32.
	Suffix    uint32
	HasSuffix bool
}

// Split separates name into the text before its maximal trailing run of ASCII
// digits and the run's numeric value.
//
// An all-digit name yields an empty base. A digit run too large for uint32 is
// kept as part of the split but parses to 0.
func Split(name string) ParsedName {
	end := len(name)
	i := end
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(name[:i])
		if r < '0' || r > '9' {
			break
		}
		i -= size
	}

	if i == end {
		return ParsedName{Base: name}
	}

	suffix, err := strconv.ParseUint(name[i:], 10, 32)
	if err != nil {
		suffix = 0
	}

	return ParsedName{
		Base:      name[:i],
		Suffix:    uint32(suffix),
		HasSuffix: true,
	}
}

// Start returns the first counter worth probing for p. A present, nonzero
// suffix continues from suffix+1; an absent or zero suffix starts at 1.
func (p ParsedName) Start() uint64 {
	if p.HasSuffix && p.Suffix != 0 {
		return uint64(p.Suffix) + 1
	}
	return 1
}

// SplitExt separates a file name into stem and extension (without the dot).
// The extension is the text after the last dot, except that a single leading
// dot marks a hidden file rather than an extension: ".gitignore" has no
// extension and "archive.tar.gz" has extension "gz".
func SplitExt(name string) (stem, ext string) {
	for i := len(name) - 1; i > 0; i-- {
		if name[i] == '.' {
			return name[:i], name[i+1:]
		}
	}
	return name, ""
}
