// internal/game/engine.go
//
// Core game engine for a single Wordle session.
// Responsibilities:
//   - Create new games with a fixed answer and a guess budget (default 6).
//   - Validate and apply guesses (length, alphabetic, optional allow-list).
//   - Score guesses using the classic two‑pass Wordle algorithm.
//   - Track outcome transitions: running → won/lost, never back.
//
// Notes:
//   - The answer is chosen by the caller (see the oracle and daily packages).
//   - randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// Game holds the state of a single Wordle game session.
type Game struct {
	ID         string            // Unique game identifier (random hex string).
	Answer     string            // The solution word (always lowercase).
	MaxGuesses int               // Guess budget (typically 6).
	allowed    func(string) bool // Optional allow-list; nil accepts any well-formed word.
	guesses    []string
	outcome    Outcome
}

// Option configures a Game.
type Option func(*Game)

// WithMaxGuesses overrides the guess budget. Values below 1 are ignored.
func WithMaxGuesses(n int) Option {
	return func(g *Game) {
		if n > 0 {
			g.MaxGuesses = n
		}
	}
}

// WithAllowed restricts guesses to words accepted by allowed.
func WithAllowed(allowed func(string) bool) Option {
	return func(g *Game) { g.allowed = allowed }
}

// WithID sets the game identifier instead of a random one.
func WithID(id string) Option {
	return func(g *Game) { g.ID = id }
}

// New constructs a new game for answer.
func New(answer string, opts ...Option) (*Game, error) {
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" || !IsAlpha(answer) {
		return nil, Contractf("game.New", "answer %q must be a non-empty lowercase word", answer)
	}
	g := &Game{
		ID:         randomID(),
		Answer:     answer,
		MaxGuesses: MaxGuesses,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Apply validates and scores a guess, mutating the game state.
//
// Validation rules:
//   - Game must not be finished (contract violation otherwise).
//   - Guess must be exactly len(Answer) lowercase letters a–z as given; no
//     trimming or case folding happens here (contract violation otherwise).
//   - Guess must pass the allow-list, if any (ErrNotAllowed otherwise).
//
// Outcome transitions:
//   - All tiles Green → Won.
//   - Else if the number of guesses reaches MaxGuesses → Lost.
func (g *Game) Apply(guess string) (Response, error) {
	if g.outcome.Terminal() {
		return Response{}, Contractf("game.Apply", "cannot guess %q: game already %s", guess, g.outcome)
	}
	if err := CheckWord("game.Apply", guess, len(g.Answer)); err != nil {
		return Response{}, err
	}
	if g.allowed != nil && !g.allowed(guess) {
		return Response{}, fmt.Errorf("guess %q: %w", guess, ErrNotAllowed)
	}

	fb := scoreGuess(g.Answer, guess)
	g.guesses = append(g.guesses, guess)
	g.outcome = OutcomeAfter(fb, len(g.guesses), g.MaxGuesses)
	return Response{Guess: guess, Feedback: fb, Outcome: g.outcome}, nil
}

// Outcome reports the current outcome.
func (g *Game) Outcome() Outcome { return g.outcome }

// Guesses returns a copy of the guesses made so far.
func (g *Game) Guesses() []string { return append([]string(nil), g.guesses...) }

// GuessesLeft reports how many guesses remain in the budget.
func (g *Game) GuessesLeft() int {
	if g.outcome.Terminal() {
		return 0
	}
	return g.MaxGuesses - len(g.guesses)
}

// Score computes the feedback for guess against answer.
// Both must be lowercase a–z and of equal length.
func Score(answer, guess string) (Feedback, error) {
	if err := CheckWord("game.Score", answer, len(answer)); err != nil {
		return nil, err
	}
	if err := CheckWord("game.Score", guess, len(answer)); err != nil {
		return nil, err
	}
	return scoreGuess(answer, guess), nil
}

// scoreGuess implements the standard Wordle two‑pass scoring algorithm.
//
// Pass 1:
//   - Mark exact matches as Green.
//   - Count remaining (non‑green) answer letters by letter index.
//
// Pass 2:
//   - For each non‑green guess letter, left to right: if there is remaining
//     count for that letter, mark Yellow and decrement; otherwise Grey.
func scoreGuess(answer, guess string) Feedback {
	n := len(guess)
	res := make(Feedback, n)
	var counts [26]int

	for i := 0; i < n; i++ {
		if guess[i] == answer[i] {
			res[i] = Green
		} else {
			counts[answer[i]-'a']++
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == Green {
			continue
		}
		j := guess[i] - 'a'
		if counts[j] > 0 {
			res[i] = Yellow
			counts[j]--
		} else {
			res[i] = Grey
		}
	}
	return res
}

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
