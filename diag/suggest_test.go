package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestPrefersKnownAlias(t *testing.T) {
	assert.Equal(t, "color", Suggest("colour", []string{"position", "size"}))
	assert.Equal(t, "position", Suggest("translate", nil))
}

func TestSuggestFallsBackToEditDistance(t *testing.T) {
	candidates := []string{"color", "position", "orientation", "size"}
	assert.Equal(t, "color", Suggest("colr", candidates))
	assert.Equal(t, "size", Suggest("sise", candidates))
}

func TestSuggestReturnsEmptyWhenNothingIsClose(t *testing.T) {
	candidates := []string{"color", "position"}
	assert.Equal(t, "", Suggest("xyzzy", candidates))
}

func TestSuggestIgnoresExactMatch(t *testing.T) {
	assert.Equal(t, "", Suggest("color", []string{"color"}))
}

func TestOperatorAliasCandidatesListsEveryAliasTarget(t *testing.T) {
	got := OperatorAliasCandidates()
	assert.Contains(t, got, "color")
	assert.Contains(t, got, "position")
	assert.Contains(t, got, "gray")
	assert.Len(t, got, len(aliases))
}

func TestSuggestOperatorSpellingAliases(t *testing.T) {
	assert.Equal(t, "&&", Suggest("and", nil))
	assert.Equal(t, "==", Suggest("=", nil))
	assert.Equal(t, "=", Suggest(":=", nil))
}

func TestSuggestHasNoBogusSelfOrDanglingAliases(t *testing.T) {
	_, hasOpacity := aliases["opacity"]
	assert.False(t, hasOpacity, "opacity should not alias to itself")

	_, hasBackground := aliases["background"]
	assert.False(t, hasBackground, "background has no backgroundcolor property to alias to")
}
