package srcrange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineAndColumn(t *testing.T) {
	src := "cube {\n  size 1\n}\n"

	line, col := LineAndColumn(src, 0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	ix := len("cube {\n  ")
	line, col = LineAndColumn(src, ix)
	assert.Equal(t, 2, line)
	assert.Equal(t, 3, col)
}

func TestLineAndColumnCRLF(t *testing.T) {
	src := "a\r\nb\rc\nd"

	line, _ := LineAndColumn(src, len("a\r\n"))
	assert.Equal(t, 2, line)

	line, _ = LineAndColumn(src, len("a\r\nb\r"))
	assert.Equal(t, 3, line)

	line, _ = LineAndColumn(src, len("a\r\nb\rc\n"))
	assert.Equal(t, 4, line)
}

func TestLineRange(t *testing.T) {
	src := "cube {\n  size 1\n}\n"
	ix := len("cube {\n  si")

	r := LineRange(src, ix, false)
	assert.Equal(t, "size 1", src[r.Start:r.End])

	r = LineRange(src, ix, true)
	assert.Equal(t, "  size 1", src[r.Start:r.End])
}

func TestSnippet(t *testing.T) {
	src := "cube {\n  size 1\n}\n"
	start := len("cube {\n  size ")

	line, caret := Snippet(src, Range{Start: start, End: start + 1})
	assert.Equal(t, "  size 1", line)
	assert.Equal(t, len("  size "), len(caret)-1)
	assert.Equal(t, byte('^'), caret[len(caret)-1])
}

func TestRangeUnion(t *testing.T) {
	a := Range{Start: 2, End: 5}
	b := Range{Start: 0, End: 3}
	u := a.Union(b)
	assert.Equal(t, Range{Start: 0, End: 5}, u)
}

func TestRangeEmpty(t *testing.T) {
	assert.True(t, Range{Start: 3, End: 3}.Empty())
	assert.False(t, Range{Start: 3, End: 4}.Empty())
}
