// Package srcrange locates byte offsets within ShapeScript/SCAD source text
// for diagnostics: line/column lookup, line slicing, and caret snippets.
package srcrange

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Range is a half-open byte interval [Start, End) into a source string.
type Range struct {
	Start int
	End   int
}

// Empty reports whether the range spans no bytes.
func (r Range) Empty() bool {
	return r.Start >= r.End
}

// Union returns the smallest range covering both r and other.
func (r Range) Union(other Range) Range {
	out := r
	if other.Start < out.Start {
		out.Start = other.Start
	}

	if other.End > out.End {
		out.End = other.End
	}

	return out
}

// Position is a 1-based line/column pair.
type Position struct {
	Line   int
	Column int
}

// LineAt returns the 1-based line number containing byte offset ix.
func LineAt(source string, ix int) int {
	line, _ := LineAndColumn(source, ix)
	return line
}

// LineAndColumn returns the 1-based line and column of byte offset ix.
// Lines are delimited by \n, \r, or \r\n.
func LineAndColumn(source string, ix int) (line, column int) {
	if ix < 0 {
		ix = 0
	}

	if ix > len(source) {
		ix = len(source)
	}

	line = 1
	lineStart := 0

	i := 0
	for i < ix {
		c := source[i]
		if c == '\r' {
			line++
			if i+1 < len(source) && source[i+1] == '\n' {
				i++
			}

			i++
			lineStart = i

			continue
		}

		if c == '\n' {
			line++
			i++
			lineStart = i

			continue
		}

		i++
	}

	column = ix - lineStart + 1

	return line, column
}

// LineRange returns the byte range of the line containing ix. When
// includeIndent is false, leading spaces/tabs are excluded from the range.
func LineRange(source string, ix int, includeIndent bool) Range {
	if ix < 0 {
		ix = 0
	}

	if ix > len(source) {
		ix = len(source)
	}

	start := ix
	for start > 0 && source[start-1] != '\n' && source[start-1] != '\r' {
		start--
	}

	end := ix
	for end < len(source) && source[end] != '\n' && source[end] != '\r' {
		end++
	}

	if !includeIndent {
		for start < end && (source[start] == ' ' || source[start] == '\t') {
			start++
		}
	}

	return Range{Start: start, End: end}
}

// Snippet returns the source line containing r.Start, along with a
// caret line that points at r.Start within it. Caret alignment accounts
// for full-width/wide runes so the pointer lands under the right column.
func Snippet(source string, r Range) (line string, caret string) {
	lr := LineRange(source, r.Start, true)
	line = source[lr.Start:lr.End]

	var b strings.Builder

	for i := lr.Start; i < r.Start && i < len(source); {
		rn, size := utf8.DecodeRuneInString(source[i:])
		b.WriteString(caretPad(rn))

		i += size
	}

	caret = b.String() + "^"

	return line, caret
}

func caretPad(r rune) string {
	if r == '\t' {
		return "\t"
	}

	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return "  "
	default:
		return " "
	}
}
