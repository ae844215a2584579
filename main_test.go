package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/internal/filter"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/httpserver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/policy"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

var configEnv = []string{
	"LOG_LEVEL", "WORDS_FILE", "MAX_GUESSES", "ORACLE", "POLICY", "OPENING", "REMOTE_URL",
	"DAILY_SALT", "PORT", "JWT_SECRET", "CLIENT_ORIGIN", "DB_PATH", "STORE", "WORKERS",
}

// execute runs the CLI with args and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustFeedback(t *testing.T, pattern string) game.Feedback {
	t.Helper()
	fb, err := game.ParseFeedback(pattern)
	require.NoError(t, err)
	return fb
}

func TestParseHintLine(t *testing.T) {
	tests := []struct {
		line    string
		guess   string
		pattern string
		wantErr bool
	}{
		{line: "crane gybbb", guess: "crane", pattern: "gybbb"},
		{line: "  CRANE   G-Y.x ", guess: "crane", pattern: "gbybb"},
		{line: "crane", wantErr: true},
		{line: "crane gybbb extra", wantErr: true},
		{line: "crane gyzbb", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			guess, fb, err := parseHintLine(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.guess, guess)
			assert.Equal(t, tt.pattern, fb.String())
		})
	}
}

func newHinter(t *testing.T, d *words.Dictionary) (*hinter, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &hinter{
		filter: filter.New(d, filter.WithMaxRounds(game.MaxGuesses)),
		policy: policy.MaxMatches{},
		out:    printer{w: &out},
	}, &out
}

func TestHinter_SolvesCrane(t *testing.T) {
	d, err := words.Default()
	require.NoError(t, err)
	h, out := newHinter(t, d)

	err = h.run(context.Background(), strings.NewReader("abide ybbbg\n\ncause gybbg\ncrane ggggg\nnever read\n"))
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"779 candidates",
		"try abide",
		"47 candidates",
		"try cause",
		"2 candidates: crane crate",
		"try crane",
		"solved: crane (3 guesses)",
		"",
	}, "\n"), out.String())
}

func TestHinter_BadInputKeepsState(t *testing.T) {
	d, err := words.Default()
	require.NoError(t, err)
	h, out := newHinter(t, d)

	err = h.run(context.Background(), strings.NewReader("abide\nabide ybbbgg\nhelp\nquit\nabide ybbbg\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out.String(), "error: "))
	assert.Contains(t, out.String(), "Commands: list, letters, reset, help, quit.")
	assert.Equal(t, d.Len(), h.filter.Len(), "quit stops before the last line")
}

func TestHinter_NotesRuledOutGuess(t *testing.T) {
	d, err := words.Default()
	require.NoError(t, err)
	h, out := newHinter(t, d)

	require.NoError(t, h.run(context.Background(), strings.NewReader("abide ybbbg\nabide ybbbg\n")))
	assert.Equal(t, 1, strings.Count(out.String(), "note: abide was already ruled out"))
	assert.Equal(t, 2, strings.Count(out.String(), "47 candidates\n"))
	assert.Equal(t, 2, h.filter.Rounds())
}

func TestHinter_ExhaustedThenReset(t *testing.T) {
	d, err := words.New([]string{"crane", "slate"})
	require.NoError(t, err)
	h, out := newHinter(t, d)

	err = h.run(context.Background(), strings.NewReader("crane bbbbb\nlist\nreset\n"))
	require.NoError(t, err, "end of input ends the session")
	assert.Contains(t, out.String(), "no candidates left")
	assert.Equal(t, 2, strings.Count(out.String(), "2 candidates: crane slate"))
}

func TestHinter_Letters(t *testing.T) {
	d, err := words.New([]string{"crane", "slate", "point"})
	require.NoError(t, err)
	h, out := newHinter(t, d)

	require.NoError(t, h.run(context.Background(), strings.NewReader("letters\n")))
	assert.Contains(t, out.String(), "a:2 e:2 n:2 t:2 c:1 i:1 l:1 o:1 p:1 r:1 s:1\n")
}

func TestHinter_OutOfGuesses(t *testing.T) {
	d, err := words.Default()
	require.NoError(t, err)
	h, out := newHinter(t, d)
	h.filter = filter.New(d, filter.WithMaxRounds(1))

	require.NoError(t, h.run(context.Background(), strings.NewReader("abide ybbbg\n")))
	assert.Contains(t, out.String(), "out of guesses with 47 candidates left")
}

func TestPrinter_Plain(t *testing.T) {
	p := printer{w: io.Discard}
	assert.Equal(t, "CRANE  gybbb", p.tiles("crane", mustFeedback(t, "gybbb")))
	assert.Equal(t, "2. CAUSE  gybbg  (2 left)", p.round(2, solver.Round{Guess: "cause", Feedback: mustFeedback(t, "gybbg"), Remaining: 2}))

	s := p.summary("maxmatch", solver.Summary{
		Games: 4, Wins: 3, Losses: 1, MeanGuesses: 3,
		Histogram: map[int]int{2: 1, 3: 1, 4: 1},
		Lost:      []string{"sight"},
	})
	assert.Contains(t, s, "won     3 (75.00%)")
	assert.Contains(t, s, "lost on sight")
	assert.NotContains(t, s, "failed")
	assert.Less(t, strings.Index(s, " 2  #"), strings.Index(s, " 4  #"))
}

func TestPrinter_ColorTiles(t *testing.T) {
	p := printer{w: io.Discard, color: true}
	out := p.tiles("crane", mustFeedback(t, "gybbb"))
	for _, c := range "CRANE" {
		assert.Contains(t, out, string(c))
	}
}

func TestRecordOf(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	res := solver.Result{
		Outcome: game.Won,
		Rounds: []solver.Round{
			{Guess: "abide", Feedback: mustFeedback(t, "bbgbb"), Remaining: 28},
			{Guess: "point", Feedback: mustFeedback(t, "ggggg"), Remaining: 1},
		},
		StartedAt:  start,
		FinishedAt: start.Add(time.Second),
	}

	r := recordOf("", " Remote ", "MaxMatch", res, nil)
	assert.Equal(t, "point", r.Answer, "a win reveals the answer")
	assert.Equal(t, "remote", r.Oracle)
	assert.Equal(t, "maxmatch", r.Policy)
	assert.Equal(t, []string{"abide", "point"}, r.Guesses)
	assert.Equal(t, []string{"bbgbb", "ggggg"}, r.Feedback)
	assert.Empty(t, r.Error)

	res.Outcome = game.Running
	r = recordOf("", "remote", "first", res, errors.New("round 3: boom"))
	assert.Empty(t, r.Answer)
	assert.Equal(t, "round 3: boom", r.Error)
}

func TestCLI_Play(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	out, err := execute(t, "", "play", "--answer", "CRANE", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"1. ABIDE  ybbbg  (47 left)",
		"2. CAUSE  gybbg  (2 left)",
		"3. CRANE  ggggg  (1 left)",
		"solved in 3/6",
		"",
	}, "\n"), out)

	runs, err := store.OpenSQLite(db)
	require.NoError(t, err)
	defer runs.Close()
	list, err := runs.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "crane", list[0].Answer)
	assert.Equal(t, "local", list[0].Oracle)
	assert.Equal(t, game.Won, list[0].Outcome)
	assert.Equal(t, []string{"abide", "cause", "crane"}, list[0].Guesses)
}

func TestCLI_PlayLost(t *testing.T) {
	out, err := execute(t, "", "play", "--answer", "sight")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "lost after 6 guesses; the answer was SIGHT\n"), out)
}

func TestCLI_PlayOpening(t *testing.T) {
	out, err := execute(t, "", "play", "--answer", "point", "--opening", "crane")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1. CRANE  bbbgb"), out)
}

func TestCLI_PlayDaily(t *testing.T) {
	out, err := execute(t, "", "play", "--oracle", "daily", "--date", "2025-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "1. ABIDE")

	_, err = execute(t, "", "play", "--oracle", "daily", "--date", "03/01/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")
}

func TestCLI_PlayRemoteDaily(t *testing.T) {
	d, err := words.Load("testdata/answers.txt")
	require.NoError(t, err)
	day := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(httpserver.New(httpserver.Options{
		Dict: d, DailySalt: "pepper", Now: func() time.Time { return day },
	}).Handler())
	defer srv.Close()

	out, err := execute(t, "", "--words", "testdata/answers.txt",
		"play", "--oracle", "remote", "--url", srv.URL, "--daily")
	require.NoError(t, err)
	assert.Contains(t, out, "solved in")
}

func TestCLI_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown oracle", args: []string{"play", "--oracle", "browser"}, want: `unknown oracle "browser"`},
		{name: "unknown policy", args: []string{"bench", "--policy", "entropy"}, want: `unknown policy "entropy"`},
		{name: "remote without url", args: []string{"play", "--oracle", "remote"}, want: "REMOTE_URL"},
		{name: "opening not a word", args: []string{"play", "--opening", "zzzzz"}, want: "not in word list"},
		{name: "bad answer", args: []string{"play", "--answer", "eerily"}, want: "contract violation"},
		{name: "bad log level", args: []string{"--log-level", "loud", "hint"}, want: "LogLevel"},
		{name: "daily flag on local oracle", args: []string{"play", "--daily"}, want: "--daily applies to the remote oracle"},
		{name: "watch without file", args: []string{"serve", "--watch"}, want: "--watch needs a word list file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCLI_Hint(t *testing.T) {
	out, err := execute(t, "crane bbbgb\nquit\n", "hint")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "779 candidates\ntry abide\n"), out)
}

func TestCLI_BenchJSON(t *testing.T) {
	out, err := execute(t, "", "bench", "--limit", "5", "--workers", "2", "--json")
	require.NoError(t, err)

	var sum solver.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.Equal(t, 5, sum.Games)
	assert.Equal(t, 5, sum.Wins)
	assert.Empty(t, sum.Lost)
}

func TestCLI_BenchRecordsRuns(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "runs")
	out, err := execute(t, "", "bench", "--answers", filepath.Join("testdata", "answers.txt"),
		"--db", dir, "--store", "badger", "--policy", "first")
	require.NoError(t, err)
	assert.Contains(t, out, "policy first")
	assert.Contains(t, out, "games   3")

	runs, err := store.OpenBadger(dir)
	require.NoError(t, err)
	defer runs.Close()
	stats, err := runs.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "first", stats[0].Policy)
	assert.Equal(t, 3, stats[0].Runs)
}
