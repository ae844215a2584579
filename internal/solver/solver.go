// internal/solver/solver.go
//
// Game loop: Policy → Oracle → Filter → Policy until the game is over.
//
// A Session composes any Oracle with any Policy and owns one Filter. Rounds
// are strictly sequential; the only call that may block is Oracle.Guess.
//
// Failure modes:
//   - empty candidate set while the game is still running → ErrExhausted;
//   - oracle or filter errors (contract violations, I/O) propagate wrapped
//     with the round number and are never retried.

package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle/apps/go-solver/internal/filter"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/oracle"
	"github.com/robalobadob/wordle/apps/go-solver/internal/policy"
)

// ErrExhausted reports that no candidate is consistent with the feedback
// received so far. It usually means the oracle and the filter disagree on the
// dictionary or on scoring.
var ErrExhausted = errors.New("solver: candidate set exhausted")

// Round is one completed guess.
type Round struct {
	Guess     string        `json:"guess"`
	Feedback  game.Feedback `json:"feedback"`
	Remaining int           `json:"remaining"` // candidates left after narrowing
}

// Result summarizes a finished (or aborted) session.
type Result struct {
	Outcome    game.Outcome `json:"outcome"`
	Rounds     []Round      `json:"rounds"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
}

// Guesses reports how many guesses were played.
func (r Result) Guesses() int { return len(r.Rounds) }

// Session plays one game.
type Session struct {
	oracle oracle.Oracle
	policy policy.Policy
	filter *filter.Filter
	log    zerolog.Logger
	label  string
	onTurn func(Round)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithLabel names the policy in metrics.
func WithLabel(name string) Option {
	return func(s *Session) { s.label = name }
}

// WithTurnHook calls fn after every round, e.g. to render progress.
func WithTurnHook(fn func(Round)) Option {
	return func(s *Session) { s.onTurn = fn }
}

// NewSession wires o, p and f into a game loop. f must be fresh (or reset)
// and must not be shared with another session.
func NewSession(o oracle.Oracle, p policy.Policy, f *filter.Filter, opts ...Option) *Session {
	s := &Session{
		oracle: o,
		policy: p,
		filter: f,
		log:    zerolog.Nop(),
		label:  "custom",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run plays until the oracle or the filter reports a terminal outcome.
// The partial Result is returned alongside any error.
func (s *Session) Run(ctx context.Context) (res Result, err error) {
	res = Result{Outcome: game.Running, StartedAt: time.Now()}
	defer func() {
		res.FinishedAt = time.Now()
		observeGame(s.label, res)
	}()

	for round := 1; ; round++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		candidates := s.filter.Candidates()
		if len(candidates) == 0 {
			s.log.Error().Int("round", round).Msg("no candidates left")
			return res, fmt.Errorf("round %d: %w", round, ErrExhausted)
		}

		guess, err := s.policy.Next(candidates)
		if err != nil {
			return res, fmt.Errorf("round %d: pick guess: %w", round, err)
		}
		resp, err := s.oracle.Guess(ctx, guess)
		if err != nil {
			return res, fmt.Errorf("round %d: guess %q: %w", round, guess, err)
		}
		if err := s.filter.Narrow(resp.Guess, resp.Feedback); err != nil {
			return res, fmt.Errorf("round %d: narrow: %w", round, err)
		}

		r := Round{Guess: resp.Guess, Feedback: resp.Feedback, Remaining: s.filter.Len()}
		res.Rounds = append(res.Rounds, r)
		candidatesRemaining.Observe(float64(r.Remaining))
		s.log.Debug().
			Int("round", round).
			Str("guess", r.Guess).
			Str("feedback", r.Feedback.String()).
			Int("remaining", r.Remaining).
			Msg("round played")
		if s.onTurn != nil {
			s.onTurn(r)
		}

		switch {
		case resp.Outcome.Terminal():
			res.Outcome = resp.Outcome
		case s.filter.Outcome().Terminal():
			res.Outcome = s.filter.Outcome()
		default:
			continue
		}
		s.log.Info().
			Str("outcome", res.Outcome.String()).
			Int("guesses", res.Guesses()).
			Msg("game finished")
		return res, nil
	}
}
