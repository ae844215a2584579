// internal/oracle/oracle.go
//
// Oracles answer guesses with feedback. Every implementation honors the same
// contract:
//   - feedback follows the two-pass scoring in game.Score;
//   - a guess of the wrong length is a contract violation (game.ErrContract);
//   - any guess after the game reached Won or Lost is a contract violation.
//
// Variants:
//   - Local:  answer held in memory (fixed, random or answer of the day).
//   - Remote: a game hosted by the HTTP oracle server; see remote.go.

package oracle

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/robalobadob/wordle/apps/go-solver/internal/daily"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// Oracle produces feedback for a guess.
type Oracle interface {
	Guess(ctx context.Context, word string) (game.Response, error)
}

// Local is an in-memory oracle backed by a game.Game.
type Local struct {
	g *game.Game
}

// NewLocal starts a game against a fixed answer.
func NewLocal(answer string, opts ...game.Option) (*Local, error) {
	g, err := game.New(answer, opts...)
	if err != nil {
		return nil, err
	}
	return &Local{g: g}, nil
}

// NewRandom starts a game against a random dictionary word.
func NewRandom(d *words.Dictionary, opts ...game.Option) (*Local, error) {
	return NewLocal(d.Random(), opts...)
}

// NewDaily starts a game against the answer of the day for date.
func NewDaily(d *words.Dictionary, salt string, date time.Time, opts ...game.Option) (*Local, error) {
	return NewLocal(daily.Answer(d, salt, date), opts...)
}

// Guess scores word against the hidden answer.
func (l *Local) Guess(ctx context.Context, word string) (game.Response, error) {
	if err := ctx.Err(); err != nil {
		return game.Response{}, err
	}
	return l.g.Apply(word)
}

// Answer reveals the hidden word. Intended for tests and reporting.
func (l *Local) Answer() string { return l.g.Answer }

// Outcome reports the current outcome.
func (l *Local) Outcome() game.Outcome { return l.g.Outcome() }

// Options selects and configures an oracle by name.
type Options struct {
	Name       string // local, daily or remote
	Answer     string // local: fixed answer; empty picks a random word
	Salt       string // daily: HMAC salt
	Date       time.Time
	URL        string // remote: server base URL
	Daily      bool   // remote: play the server's answer of the day
	Dict       *words.Dictionary
	MaxGuesses int
	HTTPClient *http.Client
}

var names = []string{"daily", "local", "remote"}

// Names lists the oracle names accepted by Open.
func Names() []string { return append([]string(nil), names...) }

// Open builds the oracle named by opts.Name. Callers release it with Close.
func Open(ctx context.Context, opts Options) (Oracle, error) {
	gameOpts := []game.Option{game.WithMaxGuesses(opts.MaxGuesses)}
	switch strings.ToLower(strings.TrimSpace(opts.Name)) {
	case "local":
		if opts.Answer != "" {
			return orNil(NewLocal(opts.Answer, gameOpts...))
		}
		if opts.Dict == nil {
			return nil, fmt.Errorf("oracle: local oracle needs a dictionary or an answer")
		}
		return orNil(NewRandom(opts.Dict, gameOpts...))
	case "daily":
		if opts.Dict == nil {
			return nil, fmt.Errorf("oracle: daily oracle needs a dictionary")
		}
		date := opts.Date
		if date.IsZero() {
			date = time.Now()
		}
		return orNil(NewDaily(opts.Dict, opts.Salt, date, gameOpts...))
	case "remote":
		var ropts []RemoteOption
		if opts.HTTPClient != nil {
			ropts = append(ropts, WithHTTPClient(opts.HTTPClient))
		}
		if opts.Dict != nil {
			ropts = append(ropts, WithDictionary(opts.Dict))
		}
		switch {
		case opts.Daily && opts.Answer != "":
			return nil, fmt.Errorf("oracle: remote oracle takes a fixed answer or the daily answer, not both")
		case opts.Daily:
			ropts = append(ropts, WithDailyAnswer())
		case opts.Answer != "":
			ropts = append(ropts, WithAnswer(opts.Answer))
		}
		r, err := Dial(ctx, opts.URL, ropts...)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		valid := Names()
		sort.Strings(valid)
		return nil, fmt.Errorf("oracle: unknown oracle %q (valid: %s)", opts.Name, strings.Join(valid, ", "))
	}
}

// orNil keeps a failed constructor from returning a non-nil Oracle.
func orNil(l *Local, err error) (Oracle, error) {
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Close releases o if it holds a session.
func Close(o Oracle) error {
	if c, ok := o.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
