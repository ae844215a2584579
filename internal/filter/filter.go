// internal/filter/filter.go
//
// Candidate filter: narrows a dictionary to the words still consistent with
// every (guess, feedback) pair seen in the current game.
//
// Each Narrow call applies two checks built from the latest pair only; the
// history is already baked into the candidate set.
//
//   Positional check, per position i:
//     - Green:       keep words with w[i] == guess[i].
//     - Yellow/Grey: keep words with w[i] != guess[i].
//
//   Count check, per distinct letter c of the guess:
//     - required = greens(c) + yellows(c)
//     - any Grey on c:  keep words with count(c) == required
//     - otherwise:      keep words with count(c) >= required
//
// Feedback that contradicts the candidates (oracle bug, dictionary mismatch)
// silently empties the set; callers decide what an empty set means.
//
// A Filter belongs to exactly one game and is not safe for concurrent use.

package filter

import (
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// Filter owns the candidate set of one game.
type Filter struct {
	dict       []string
	length     int
	maxRounds  int
	candidates []string
	rounds     int
	outcome    game.Outcome
	index      *letterIndex // nil until requested after the last narrow
}

// Option configures a Filter.
type Option func(*Filter)

// WithMaxRounds sets the round budget after which the filter turns terminal.
// Zero disables the budget.
func WithMaxRounds(n int) Option {
	return func(f *Filter) {
		if n >= 0 {
			f.maxRounds = n
		}
	}
}

// New returns a filter whose candidate set is the whole dictionary.
func New(d *words.Dictionary, opts ...Option) *Filter {
	f := &Filter{
		dict:      d.Words(),
		length:    d.WordLength(),
		maxRounds: game.MaxGuesses,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.Reset()
	return f
}

// Reset restores the full dictionary and clears the round count.
func (f *Filter) Reset() {
	f.candidates = append(f.candidates[:0], f.dict...)
	f.rounds = 0
	f.outcome = game.Running
	f.index = nil
}

// Narrow removes every candidate inconsistent with guess and fb.
//
// A wrong-length guess or feedback, a guess outside a–z, and narrowing after
// the filter turned terminal are contract violations; the candidate set is
// left untouched in those cases.
func (f *Filter) Narrow(guess string, fb game.Feedback) error {
	if f.outcome.Terminal() {
		return game.Contractf("filter.Narrow", "cannot narrow with %q: game already %s", guess, f.outcome)
	}
	c, err := compile(guess, fb, f.length)
	if err != nil {
		return err
	}

	kept := f.candidates[:0]
	for _, w := range f.candidates {
		if c.match(w) {
			kept = append(kept, w)
		}
	}
	// Clear the tail so dropped strings are not pinned by the backing array.
	for i := len(kept); i < len(f.candidates); i++ {
		f.candidates[i] = ""
	}
	f.candidates = kept
	f.index = nil

	f.rounds++
	f.outcome = game.OutcomeAfter(fb, f.rounds, f.maxRounds)
	return nil
}

// Candidates returns a copy of the current candidate set in dictionary order.
func (f *Filter) Candidates() []string { return append([]string(nil), f.candidates...) }

// Len reports the number of candidates.
func (f *Filter) Len() int { return len(f.candidates) }

// Rounds reports how many narrows were applied since the last reset.
func (f *Filter) Rounds() int { return f.rounds }

// Outcome reports the outcome implied by the narrows applied so far.
func (f *Filter) Outcome() game.Outcome { return f.outcome }

// Contains reports whether w is still a candidate.
func (f *Filter) Contains(w string) bool {
	for _, c := range f.candidates {
		if c == w {
			return true
		}
	}
	return false
}

// Consistent reports whether word could be the answer given that guess
// received fb. It applies the same checks as Narrow.
func Consistent(word, guess string, fb game.Feedback) bool {
	c, err := compile(guess, fb, len(word))
	if err != nil {
		return false
	}
	return c.match(word)
}

// constraint is the compiled form of one (guess, feedback) pair.
type constraint struct {
	guess string
	green []bool
	// required and exact are indexed by letter; used lists the letters of
	// the guess so match only inspects those.
	required [26]int
	exact    [26]bool
	used     []byte
}

func compile(guess string, fb game.Feedback, n int) (constraint, error) {
	if err := game.CheckWord("filter.Narrow", guess, n); err != nil {
		return constraint{}, err
	}
	if len(fb) != n {
		return constraint{}, game.Contractf("filter.Narrow",
			"feedback %q for guess %q has length %d, expected %d", fb.String(), guess, len(fb), n)
	}

	c := constraint{guess: guess, green: make([]bool, n)}
	var seen [26]bool
	for i := 0; i < n; i++ {
		l := guess[i] - 'a'
		if !seen[l] {
			seen[l] = true
			c.used = append(c.used, l)
		}
		switch fb[i] {
		case game.Green:
			c.green[i] = true
			c.required[l]++
		case game.Yellow:
			c.required[l]++
		case game.Grey:
			c.exact[l] = true
		default:
			return constraint{}, game.Contractf("filter.Narrow", "feedback position %d holds unknown %s", i, fb[i])
		}
	}
	return c, nil
}

func (c *constraint) match(w string) bool {
	if len(w) != len(c.guess) {
		return false
	}
	var counts [26]int
	for i := 0; i < len(w); i++ {
		if (w[i] == c.guess[i]) != c.green[i] {
			return false
		}
		if w[i] >= 'a' && w[i] <= 'z' {
			counts[w[i]-'a']++
		}
	}
	for _, l := range c.used {
		if c.exact[l] {
			if counts[l] != c.required[l] {
				return false
			}
		} else if counts[l] < c.required[l] {
			return false
		}
	}
	return true
}
