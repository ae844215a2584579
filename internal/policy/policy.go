// Package policy selects the next guess from the current candidate set.
package policy

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoCandidates is returned when asked to pick from an empty set.
var ErrNoCandidates = errors.New("policy: no candidates to choose from")

// Policy picks the next guess from candidates.
type Policy interface {
	Next(candidates []string) (string, error)
}

// Func adapts a plain function to Policy.
type Func func(candidates []string) (string, error)

func (fn Func) Next(candidates []string) (string, error) { return fn(candidates) }

// MaxMatches is the baseline heuristic: it prefers the candidate whose letters
// most often share a position with some other candidate.
//
// A candidate's score is the number of distinct letter values w[p] for which
// at least one other candidate has the same letter at p. Ties go to the first
// maximum in iteration order, so the result is deterministic for a
// deterministic candidate order.
type MaxMatches struct{}

func (MaxMatches) Next(candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoCandidates
	}
	n := len(candidates[0])

	// freq[p][l] counts candidates with letter l at position p. A letter
	// matches another candidate at p exactly when its count is at least 2.
	freq := make([][26]int, n)
	for _, w := range candidates {
		for p := 0; p < n && p < len(w); p++ {
			if l := w[p] - 'a'; l < 26 {
				freq[p][l]++
			}
		}
	}

	best, bestScore := candidates[0], -1
	for _, w := range candidates {
		var matched [26]bool
		score := 0
		for p := 0; p < n && p < len(w); p++ {
			l := w[p] - 'a'
			if l < 26 && freq[p][l] >= 2 && !matched[l] {
				matched[l] = true
				score++
			}
		}
		if score > bestScore {
			best, bestScore = w, score
		}
	}
	return best, nil
}

// First returns the first candidate. Useful as a lower bound in benchmarks.
type First struct{}

func (First) Next(candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoCandidates
	}
	return candidates[0], nil
}

// Opening plays Word while the candidate set still has Size words (the full
// dictionary) and defers to Then afterwards.
type Opening struct {
	Word string
	Size int
	Then Policy
}

func (o Opening) Next(candidates []string) (string, error) {
	if o.Word != "" && len(candidates) == o.Size && len(candidates) > 0 {
		return o.Word, nil
	}
	return o.Then.Next(candidates)
}

var registry = map[string]func() Policy{
	"maxmatch": func() Policy { return MaxMatches{} },
	"first":    func() Policy { return First{} },
}

// Names lists the registered policy names in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the policy registered under name.
func Lookup(name string) (Policy, error) {
	mk, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("policy: unknown policy %q (valid: %s)", name, strings.Join(Names(), ", "))
	}
	return mk(), nil
}
