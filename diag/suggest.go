package diag

// aliases maps deprecated or commonly-mistyped spellings to their current
// canonical symbol name, consulted before falling back to edit distance.
var aliases = map[string]string{
	"colour":    "color",
	"grey":      "gray",
	"centre":    "center",
	"rotate":    "orientation",
	"translate": "position",
	"and":       "&&",
	"=":         "==",
	":=":        "=",
}

// OperatorAliasCandidates lists the identifiers worth suggesting against
// when a bare token is rejected at statement head position.
func OperatorAliasCandidates() []string {
	candidates := make([]string, 0, len(aliases))
	for _, v := range aliases {
		candidates = append(candidates, v)
	}

	return candidates
}

// Suggest returns the closest candidate to name by edit distance, or the
// empty string if none is close enough to be worth suggesting. A known
// alias always wins over distance-based matching.
func Suggest(name string, candidates []string) string {
	if canonical, ok := aliases[name]; ok {
		return canonical
	}

	best := ""
	bestDist := -1
	cutoff := (len(name) + 1) / 2

	for _, c := range candidates {
		d := levenshtein(name, c)
		if d == 0 {
			continue
		}

		if bestDist == -1 || d < bestDist {
			best = c
			bestDist = d
		}
	}

	if bestDist == -1 || bestDist > cutoff {
		return ""
	}

	return best
}

// levenshtein computes the edit distance between a and b.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i

		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost

			m := del
			if ins < m {
				m = ins
			}

			if sub < m {
				m = sub
			}

			curr[j] = m
		}

		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
