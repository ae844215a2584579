// internal/store/memory.go
//
// In-memory stores.
//
// Characteristics:
//   - Games keeps live *game.Game sessions for the oracle server; Expire drops
//     sessions saved before a cutoff.
//   - MemoryRecords keeps solver runs when no database is configured.
//   - Both are concurrency-safe via RWMutex (concurrent reads, exclusive writes).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
)

// Games holds live game sessions keyed by game ID.
type Games struct {
	mu    sync.RWMutex         // guards games
	games map[string]liveGame // keyed by Game.ID
	now   func() time.Time
}

type liveGame struct {
	g       *game.Game
	savedAt time.Time
}

// GamesOption configures NewGames.
type GamesOption func(*Games)

// WithClock sets the clock used to stamp saved games (default time.Now).
func WithClock(now func() time.Time) GamesOption {
	return func(m *Games) {
		if now != nil {
			m.now = now
		}
	}
}

// NewGames constructs an empty session store.
func NewGames(opts ...GamesOption) *Games {
	m := &Games{games: make(map[string]liveGame), now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Save adds or replaces the game under g.ID and stamps it with the current time.
func (m *Games) Save(_ context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = liveGame{g: g, savedAt: m.now()}
	return nil
}

// Get looks up a game by ID.
func (m *Games) Get(_ context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if lg, ok := m.games[id]; ok {
		return lg.g, nil
	}
	return nil, fmt.Errorf("game %q: %w", id, ErrNotFound)
}

// Expire removes every game saved before cutoff and reports how many went.
func (m *Games) Expire(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, lg := range m.games {
		if lg.savedAt.Before(cutoff) {
			delete(m.games, id)
			n++
		}
	}
	return n
}

// Delete removes a game. Deleting an unknown ID is not an error.
func (m *Games) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}

// Len reports the number of live sessions.
func (m *Games) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// MemoryRecords is a Records implementation backed by a map.
type MemoryRecords struct {
	mu   sync.RWMutex
	runs map[string]Record
}

// NewMemoryRecords constructs an empty in-memory run store.
func NewMemoryRecords() *MemoryRecords {
	return &MemoryRecords{runs: make(map[string]Record)}
}

func (m *MemoryRecords) Save(_ context.Context, r Record) (string, error) {
	if r.ID == "" {
		r.ID = newID()
	}
	r.Guesses = append([]string(nil), r.Guesses...)
	r.Feedback = append([]string(nil), r.Feedback...)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[r.ID] = r
	return r.ID, nil
}

func (m *MemoryRecords) Get(_ context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.runs[id]; ok {
		return r, nil
	}
	return Record{}, fmt.Errorf("run %q: %w", id, ErrNotFound)
}

func (m *MemoryRecords) List(_ context.Context, limit int) ([]Record, error) {
	m.mu.RLock()
	out := make([]Record, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r)
	}
	m.mu.RUnlock()
	return newestFirst(out, limit), nil
}

func (m *MemoryRecords) Summary(_ context.Context) ([]Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	runs := make([]Record, 0, len(m.runs))
	for _, r := range m.runs {
		runs = append(runs, r)
	}
	return summarize(runs), nil
}

// Close is a no-op; it lets MemoryRecords stand in for a Store.
func (m *MemoryRecords) Close() error { return nil }

// newestFirst sorts runs by finish time (newest first, ties by ID) and keeps
// at most listLimit(limit) of them.
func newestFirst(runs []Record, limit int) []Record {
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].FinishedAt.Equal(runs[j].FinishedAt) {
			return runs[i].FinishedAt.After(runs[j].FinishedAt)
		}
		return runs[i].ID < runs[j].ID
	})
	if n := listLimit(limit); len(runs) > n {
		runs = runs[:n]
	}
	return runs
}

// summarize aggregates runs per policy, ordered by policy name.
func summarize(runs []Record) []Stats {
	byPolicy := map[string]*Stats{}
	guesses := map[string]int{}
	for _, r := range runs {
		st, ok := byPolicy[r.Policy]
		if !ok {
			st = &Stats{Policy: r.Policy}
			byPolicy[r.Policy] = st
		}
		st.Runs++
		switch r.Outcome {
		case game.Won:
			st.Wins++
			guesses[r.Policy] += len(r.Guesses)
		case game.Lost:
			st.Losses++
		}
	}

	out := make([]Stats, 0, len(byPolicy))
	for name, st := range byPolicy {
		if st.Wins > 0 {
			st.MeanGuesses = float64(guesses[name]) / float64(st.Wins)
		}
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Policy < out[j].Policy })
	return out
}
