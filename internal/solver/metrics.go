package solver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
)

var (
	// gamesTotal counts finished sessions.
	// Labels: policy, outcome (won, lost, running for aborted sessions)
	gamesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wordle",
		Subsystem: "solver",
		Name:      "games_total",
		Help:      "Total solver sessions by outcome",
	}, []string{"policy", "outcome"})

	// guessesPerGame is the distribution of guesses in won games.
	guessesPerGame = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wordle",
		Subsystem: "solver",
		Name:      "guesses_per_win",
		Help:      "Guesses needed to win a game",
		Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10},
	}, []string{"policy"})

	// candidatesRemaining is the candidate set size after each narrow.
	candidatesRemaining = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "wordle",
		Subsystem: "solver",
		Name:      "candidates_remaining",
		Help:      "Candidates left after each narrowing round",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
	})
)

func observeGame(policy string, r Result) {
	gamesTotal.WithLabelValues(policy, r.Outcome.String()).Inc()
	if r.Outcome == game.Won {
		guessesPerGame.WithLabelValues(policy).Observe(float64(r.Guesses()))
	}
}
