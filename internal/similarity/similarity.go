// Package similarity ranks names by edit distance for "did you mean" hints.
package similarity

import (
	"sort"
	"strings"
)

const (
	DefaultMaxDistance    = 3
	DefaultMaxSuggestions = 3
)

// Distance returns the Levenshtein distance between a and b using two
// rolling rows sized to the shorter input.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i, ca := range ra {
		curr[0] = i + 1
		for j, cb := range rb {
			cost := 1
			if ca == cb {
				cost = 0
			}
			curr[j+1] = min(
				prev[j+1]+1,
				curr[j]+1,
				prev[j]+cost,
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Suggest returns up to maxSuggestions candidates within maxDistance of
// target, compared case-insensitively, ordered by distance then name.
func Suggest(target string, candidates []string, maxDistance, maxSuggestions int) []string {
	type scored struct {
		name  string
		lower string
		dist  int
	}

	lt := strings.ToLower(target)
	var matches []scored
	for _, c := range candidates {
		lc := strings.ToLower(c)
		if d := Distance(lt, lc); d <= maxDistance {
			matches = append(matches, scored{name: c, lower: lc, dist: d})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		if matches[i].lower != matches[j].lower {
			return matches[i].lower < matches[j].lower
		}
		return matches[i].name < matches[j].name
	})

	if len(matches) > maxSuggestions {
		matches = matches[:max(maxSuggestions, 0)]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}

// SuggestDefault is Suggest with the default distance and count limits.
func SuggestDefault(target string, candidates []string) []string {
	return Suggest(target, candidates, DefaultMaxDistance, DefaultMaxSuggestions)
}
