package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
)

func TestGames(t *testing.T) {
	ctx := context.Background()
	gs := NewGames()

	g, err := game.New("crane", game.WithID("g1"))
	require.NoError(t, err)
	require.NoError(t, gs.Save(ctx, g))
	assert.Equal(t, 1, gs.Len())

	got, err := gs.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Same(t, g, got)

	require.NoError(t, gs.Delete(ctx, "g1"))
	_, err = gs.Get(ctx, "g1")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, gs.Delete(ctx, "g1"))
	assert.Zero(t, gs.Len())
}

func TestGames_Expire(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	gs := NewGames(WithClock(func() time.Time { return now }))

	old, err := game.New("crane", game.WithID("old"))
	require.NoError(t, err)
	require.NoError(t, gs.Save(ctx, old))

	now = now.Add(time.Hour)
	fresh, err := game.New("slate", game.WithID("fresh"))
	require.NoError(t, err)
	require.NoError(t, gs.Save(ctx, fresh))

	assert.Zero(t, gs.Expire(now.Add(-2*time.Hour)))
	assert.Equal(t, 1, gs.Expire(now.Add(-time.Minute)))
	assert.Equal(t, 1, gs.Len())

	_, err = gs.Get(ctx, "old")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = gs.Get(ctx, "fresh")
	require.NoError(t, err)

	assert.Zero(t, gs.Expire(now), "saved exactly at the cutoff stays")
	assert.Equal(t, 1, gs.Len())
}

// stores runs every Records test against each implementation.
func stores(t *testing.T) map[string]Records {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	kv, err := OpenBadger(filepath.Join(t.TempDir(), "badger"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return map[string]Records{
		"memory": NewMemoryRecords(),
		"sqlite": db,
		"badger": kv,
	}
}

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func run(answer, policy string, outcome game.Outcome, guesses []string, finished int) Record {
	fb := make([]string, len(guesses))
	for i := range guesses {
		fb[i] = "bbbbb"
	}
	if outcome == game.Won {
		fb[len(fb)-1] = "ggggg"
	}
	return Record{
		Answer:     answer,
		Oracle:     "local",
		Policy:     policy,
		Outcome:    outcome,
		Guesses:    guesses,
		Feedback:   fb,
		StartedAt:  base,
		FinishedAt: base.Add(time.Duration(finished) * time.Second),
	}
}

func TestRecords_SaveGet(t *testing.T) {
	ctx := context.Background()
	for name, rs := range stores(t) {
		t.Run(name, func(t *testing.T) {
			in := run("crane", "maxmatch", game.Won, []string{"abide", "cause", "crane"}, 1)
			id, err := rs.Save(ctx, in)
			require.NoError(t, err)
			assert.Len(t, id, 36)

			got, err := rs.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, id, got.ID)
			assert.Equal(t, "crane", got.Answer)
			assert.Equal(t, game.Won, got.Outcome)
			assert.Equal(t, in.Guesses, got.Guesses)
			assert.Equal(t, in.Feedback, got.Feedback)
			assert.True(t, in.StartedAt.Equal(got.StartedAt))
			assert.True(t, in.FinishedAt.Equal(got.FinishedAt))

			_, err = rs.Get(ctx, "missing")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestRecords_KeepsGivenIDAndError(t *testing.T) {
	ctx := context.Background()
	for name, rs := range stores(t) {
		t.Run(name, func(t *testing.T) {
			in := run("zzzzz", "first", game.Running, []string{"crane"}, 1)
			in.ID = "fixed-id"
			in.Error = "solver: candidate set exhausted"
			id, err := rs.Save(ctx, in)
			require.NoError(t, err)
			assert.Equal(t, "fixed-id", id)

			got, err := rs.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, game.Running, got.Outcome)
			assert.Equal(t, in.Error, got.Error)
		})
	}
}

func TestRecords_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	for name, rs := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for i, answer := range []string{"crane", "point", "eerie"} {
				_, err := rs.Save(ctx, run(answer, "maxmatch", game.Won, []string{answer}, i))
				require.NoError(t, err)
			}

			all, err := rs.List(ctx, 0)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, []string{"eerie", "point", "crane"}, answers(all))

			two, err := rs.List(ctx, 2)
			require.NoError(t, err)
			assert.Equal(t, []string{"eerie", "point"}, answers(two))
		})
	}
}

func TestRecords_Summary(t *testing.T) {
	ctx := context.Background()
	for name, rs := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, r := range []Record{
				run("crane", "maxmatch", game.Won, []string{"abide", "cause", "crane"}, 1),
				run("point", "maxmatch", game.Won, []string{"abide", "point"}, 2),
				run("sight", "maxmatch", game.Lost, []string{"a", "b", "c", "d", "e", "f"}, 3),
				run("crane", "first", game.Lost, []string{"a", "b", "c", "d", "e", "f"}, 4),
			} {
				_, err := rs.Save(ctx, r)
				require.NoError(t, err)
			}

			got, err := rs.Summary(ctx)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, Stats{Policy: "first", Runs: 1, Losses: 1}, got[0])
			assert.Equal(t, "maxmatch", got[1].Policy)
			assert.Equal(t, 3, got[1].Runs)
			assert.Equal(t, 2, got[1].Wins)
			assert.Equal(t, 1, got[1].Losses)
			assert.InDelta(t, 2.5, got[1].MeanGuesses, 1e-9)
		})
	}
}

func TestOpenSQLite_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	db, err := OpenSQLite(path)
	require.NoError(t, err)
	_, err = db.Save(context.Background(), run("crane", "maxmatch", game.Won, []string{"crane"}, 0))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()
	all, err := db.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOpenBadger_Persists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "runs")
	kv, err := OpenBadger(dir)
	require.NoError(t, err)
	id, err := kv.Save(context.Background(), run("crane", "maxmatch", game.Won, []string{"crane"}, 0))
	require.NoError(t, err)
	require.NoError(t, kv.Close())

	kv, err = OpenBadger(dir)
	require.NoError(t, err)
	defer kv.Close()
	got, err := kv.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "crane", got.Answer)

	mem, err := OpenBadger("")
	require.NoError(t, err)
	defer mem.Close()
	all, err := mem.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		kind, path string
		want       any
		wantErr    string
	}{
		{kind: "", path: "", want: &MemoryRecords{}},
		{kind: "", path: filepath.Join(dir, "a.db"), want: &SQLite{}},
		{kind: " Memory ", path: filepath.Join(dir, "ignored.db"), want: &MemoryRecords{}},
		{kind: "sqlite", path: filepath.Join(dir, "b.db"), want: &SQLite{}},
		{kind: "badger", path: filepath.Join(dir, "kv"), want: &Badger{}},
		{kind: "sqlite", wantErr: "needs a path"},
		{kind: "badger", wantErr: "needs a path"},
		{kind: "redis", path: "x", wantErr: `unknown store "redis" (valid: badger, memory, sqlite)`},
	}
	for _, tt := range tests {
		t.Run(tt.kind+"|"+filepath.Base(tt.path), func(t *testing.T) {
			s, err := Open(tt.kind, tt.path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer s.Close()
			assert.IsType(t, tt.want, s)
		})
	}
}

func answers(rs []Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Answer
	}
	return out
}
