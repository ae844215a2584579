// internal/store/store.go
//
// Persistence for the oracle server and the solver.
// Defines:
//   - Games:   live oracle sessions keyed by game ID (memory only).
//   - Record:  one finished solver run.
//   - Records: where runs are kept (memory, SQLite or BadgerDB).
//   - Open:    picks a Records backend by name.
//   - Stats:   per-policy aggregates, the run equivalent of a leaderboard.

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
)

// ErrNotFound is returned when an ID has no entry.
var ErrNotFound = errors.New("store: not found")

// Record is one solver run.
type Record struct {
	ID         string       `json:"id"`
	Answer     string       `json:"answer"`
	Oracle     string       `json:"oracle"`
	Policy     string       `json:"policy"`
	Outcome    game.Outcome `json:"outcome"`
	Guesses    []string     `json:"guesses"`
	Feedback   []string     `json:"feedback"` // one g/y/b pattern per guess
	Error      string       `json:"error,omitempty"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
}

// Stats aggregates the runs of one policy.
type Stats struct {
	Policy      string  `json:"policy"`
	Runs        int     `json:"runs"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	MeanGuesses float64 `json:"meanGuesses"` // over won runs
}

// Records persists solver runs.
type Records interface {
	// Save stores r, assigning an ID when r.ID is empty, and returns the ID.
	Save(ctx context.Context, r Record) (string, error)

	// Get returns the run with id or ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// List returns up to limit runs, most recently finished first.
	List(ctx context.Context, limit int) ([]Record, error)

	// Summary aggregates all runs per policy, ordered by policy name.
	Summary(ctx context.Context) ([]Stats, error)
}

// Store is a Records backend that holds resources until closed.
type Store interface {
	Records
	io.Closer
}

// Kinds lists the backend names accepted by Open.
func Kinds() []string { return []string{"badger", "memory", "sqlite"} }

// Open returns the run store named by kind at path:
//   - "memory": process-local, path ignored;
//   - "sqlite": database file at path;
//   - "badger": database directory at path;
//   - "": sqlite when path is set, memory otherwise.
func Open(kind, path string) (Store, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = "memory"
		if path != "" {
			kind = "sqlite"
		}
	}
	switch kind {
	case "memory":
		return NewMemoryRecords(), nil
	case "sqlite", "badger":
		if path == "" {
			return nil, fmt.Errorf("store: %s store needs a path (DB_PATH)", kind)
		}
		if kind == "sqlite" {
			return OpenSQLite(path)
		}
		return OpenBadger(path)
	default:
		return nil, fmt.Errorf("store: unknown store %q (valid: %s)", kind, strings.Join(Kinds(), ", "))
	}
}

const defaultListLimit = 20

func newID() string { return uuid.NewString() }

func listLimit(n int) int {
	if n <= 0 {
		return defaultListLimit
	}
	return n
}
