// internal/game/types.go
//
// Core type definitions for the Wordle feedback model.
// Defines:
//   - Validity: per-letter result of a guess (grey/yellow/green).
//   - Feedback: one Validity per position of a specific guess.
//   - Outcome:  round outcome (running/won/lost).
//   - Response: what an oracle hands back for one guess.

package game

import (
	"fmt"
	"strings"
)

const (
	// WordLength is the length of every word in the shipped dictionary.
	WordLength = 5
	// MaxGuesses is the guess budget of a standard game.
	MaxGuesses = 6
)

// Validity represents the evaluation result for a single letter in a guess.
type Validity uint8

const (
	Grey   Validity = iota // letter is not (or no longer) in the answer
	Yellow                 // letter is in the answer at another position
	Green                  // letter is in the answer at this position
)

var validityNames = [...]string{Grey: "grey", Yellow: "yellow", Green: "green"}

func (v Validity) String() string {
	if int(v) < len(validityNames) {
		return validityNames[v]
	}
	return fmt.Sprintf("validity(%d)", uint8(v))
}

// Symbol returns the single-letter form used in feedback patterns: g, y or b.
func (v Validity) Symbol() byte {
	switch v {
	case Green:
		return 'g'
	case Yellow:
		return 'y'
	default:
		return 'b'
	}
}

func (v Validity) MarshalText() ([]byte, error) {
	if int(v) >= len(validityNames) {
		return nil, fmt.Errorf("game: unknown validity %d", uint8(v))
	}
	return []byte(validityNames[v]), nil
}

func (v *Validity) UnmarshalText(b []byte) error {
	for i, name := range validityNames {
		if string(b) == name {
			*v = Validity(i)
			return nil
		}
	}
	return fmt.Errorf("game: unknown validity %q", string(b))
}

// Feedback holds the per-position validities for one guess.
type Feedback []Validity

// AllGreen reports whether every position is Green.
func (f Feedback) AllGreen() bool {
	if len(f) == 0 {
		return false
	}
	for _, v := range f {
		if v != Green {
			return false
		}
	}
	return true
}

// String renders the feedback as a g/y/b pattern, e.g. "gybbg".
func (f Feedback) String() string {
	var b strings.Builder
	b.Grow(len(f))
	for _, v := range f {
		b.WriteByte(v.Symbol())
	}
	return b.String()
}

// ParseFeedback parses a g/y/b pattern. '-', 'x' and '.' are accepted for grey.
func ParseFeedback(pattern string) (Feedback, error) {
	out := make(Feedback, 0, len(pattern))
	for i, r := range strings.ToLower(strings.TrimSpace(pattern)) {
		switch r {
		case 'g':
			out = append(out, Green)
		case 'y':
			out = append(out, Yellow)
		case 'b', '-', 'x', '.':
			out = append(out, Grey)
		default:
			return nil, fmt.Errorf("game: invalid feedback symbol %q at position %d in %q", r, i, pattern)
		}
	}
	return out, nil
}

// Outcome is the state of a game after a round.
type Outcome uint8

const (
	Running Outcome = iota
	Won
	Lost
)

var outcomeNames = [...]string{Running: "running", Won: "won", Lost: "lost"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

// Terminal reports whether no further guesses are accepted.
func (o Outcome) Terminal() bool { return o == Won || o == Lost }

func (o Outcome) MarshalText() ([]byte, error) {
	if int(o) >= len(outcomeNames) {
		return nil, fmt.Errorf("game: unknown outcome %d", uint8(o))
	}
	return []byte(outcomeNames[o]), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	for i, name := range outcomeNames {
		if string(b) == name {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("game: unknown outcome %q", string(b))
}

// OutcomeAfter derives the outcome from the latest feedback and the number of
// guesses taken against a budget of maxGuesses.
func OutcomeAfter(fb Feedback, taken, maxGuesses int) Outcome {
	switch {
	case fb.AllGreen():
		return Won
	case maxGuesses > 0 && taken >= maxGuesses:
		return Lost
	default:
		return Running
	}
}

// Response is the oracle's answer to a single guess.
type Response struct {
	Guess    string   `json:"guess"`
	Feedback Feedback `json:"feedback"`
	Outcome  Outcome  `json:"outcome"`
}
