package httpserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// oracleGuesses counts guesses served by the oracle.
	// Labels: result (running, won, lost, or an error code)
	oracleGuesses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wordle",
		Subsystem: "oracle",
		Name:      "guesses_total",
		Help:      "Guesses handled by the HTTP oracle by result",
	}, []string{"result"})

	// liveSessions tracks games started and not yet released.
	liveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wordle",
		Subsystem: "oracle",
		Name:      "sessions",
		Help:      "Oracle game sessions currently held in memory",
	})

	// hintRequests counts /solve calls by result.
	hintRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wordle",
		Subsystem: "hint",
		Name:      "requests_total",
		Help:      "Hint requests by result",
	}, []string{"result"})
)
