// internal/solver/bench.go
//
// Batch evaluation: plays one game per answer and aggregates the results.
//
// Every game gets its own Filter and its own Local oracle; the only shared
// values are the immutable dictionary and the (stateless) policy. Games run in
// parallel on an errgroup bounded by Workers.

package solver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle/apps/go-solver/internal/filter"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/oracle"
	"github.com/robalobadob/wordle/apps/go-solver/internal/policy"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// BenchConfig describes a batch run.
type BenchConfig struct {
	Dict       *words.Dictionary
	Answers    []string      // defaults to every dictionary word
	Policy     policy.Policy // must be safe for concurrent use
	PolicyName string
	MaxGuesses int // defaults to game.MaxGuesses
	Workers    int // defaults to GOMAXPROCS
	Logger     zerolog.Logger

	// OnResult, if set, is called from worker goroutines after every game.
	// A returned error aborts the run.
	OnResult func(GameResult) error
}

// GameResult is the outcome of one benchmark game.
type GameResult struct {
	Answer string
	Result
	Err error // ErrExhausted; other errors abort the run
}

// Summary aggregates a batch run.
type Summary struct {
	Games       int           `json:"games"`
	Wins        int           `json:"wins"`
	Losses      int           `json:"losses"`
	Failed      int           `json:"failed"`
	MeanGuesses float64       `json:"meanGuesses"` // over won games
	Histogram   map[int]int   `json:"histogram"`   // guesses → won games
	Lost        []string      `json:"lost,omitempty"`
	Elapsed     time.Duration `json:"elapsed"`
}

// WinRate is Wins / Games, or 0 for an empty run.
func (s Summary) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games)
}

// Bench plays every answer in cfg and returns the per-game results in answer
// order together with their summary.
func Bench(ctx context.Context, cfg BenchConfig) ([]GameResult, Summary, error) {
	if cfg.Dict == nil {
		return nil, Summary{}, errors.New("solver: bench needs a dictionary")
	}
	if cfg.Policy == nil {
		return nil, Summary{}, errors.New("solver: bench needs a policy")
	}
	answers := cfg.Answers
	if len(answers) == 0 {
		answers = cfg.Dict.Words()
	}
	maxGuesses := cfg.MaxGuesses
	if maxGuesses <= 0 {
		maxGuesses = game.MaxGuesses
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	label := cfg.PolicyName
	if label == "" {
		label = "custom"
	}

	start := time.Now()
	results := make([]GameResult, len(answers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, answer := range answers {
		g.Go(func() error {
			o, err := oracle.NewLocal(answer, game.WithMaxGuesses(maxGuesses))
			if err != nil {
				return fmt.Errorf("answer %q: %w", answer, err)
			}
			f := filter.New(cfg.Dict, filter.WithMaxRounds(maxGuesses))
			s := NewSession(o, cfg.Policy, f, WithLogger(cfg.Logger.With().Str("answer", answer).Logger()), WithLabel(label))

			res, err := s.Run(gctx)
			gr := GameResult{Answer: answer, Result: res}
			if err != nil {
				if !errors.Is(err, ErrExhausted) {
					return fmt.Errorf("answer %q: %w", answer, err)
				}
				gr.Err = err
			}
			results[i] = gr
			if cfg.OnResult != nil {
				return cfg.OnResult(gr)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}

	sum := Summarize(results)
	sum.Elapsed = time.Since(start)
	cfg.Logger.Info().
		Int("games", sum.Games).
		Int("wins", sum.Wins).
		Float64("meanGuesses", sum.MeanGuesses).
		Dur("elapsed", sum.Elapsed).
		Msg("bench finished")
	return results, sum, nil
}

// Summarize aggregates results.
func Summarize(results []GameResult) Summary {
	sum := Summary{Games: len(results), Histogram: map[int]int{}}
	total := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			sum.Failed++
		case r.Outcome == game.Won:
			sum.Wins++
			total += r.Guesses()
			sum.Histogram[r.Guesses()]++
		default:
			sum.Losses++
			sum.Lost = append(sum.Lost, r.Answer)
		}
	}
	if sum.Wins > 0 {
		sum.MeanGuesses = float64(total) / float64(sum.Wins)
	}
	sort.Strings(sum.Lost)
	return sum
}
