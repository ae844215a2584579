// internal/oracle/remote.go
//
// Remote oracle: plays a game hosted by the HTTP oracle server.
//
// Lifecycle:
//   - Dial    → POST /game/new, receives a session token (acquire).
//   - Guess   → POST /game/guess with "Authorization: Bearer <token>".
//   - Close   → DELETE /game (release). Safe to call more than once.
//
// The session is an explicit resource owned by the caller; nothing is kept in
// package-level state. Network failures are wrapped and returned as-is; they
// never masquerade as contract violations.

package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/api"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// ErrDictionaryMismatch is returned by Dial when the server scores against a
// different word list than the local dictionary.
var ErrDictionaryMismatch = errors.New("oracle: server dictionary differs from local dictionary")

const defaultTimeout = 10 * time.Second

// Remote is an oracle session on the HTTP oracle server.
type Remote struct {
	baseURL    string
	client     *http.Client
	gameID     string
	token      string
	wordLength int
	maxGuesses int
	date       string
	outcome    game.Outcome
	closed     bool
}

type remoteConfig struct {
	client *http.Client
	dict   *words.Dictionary
	req    api.NewGameReq
}

// RemoteOption configures Dial.
type RemoteOption func(*remoteConfig)

// WithHTTPClient overrides the HTTP client (default: 10s timeout).
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(rc *remoteConfig) { rc.client = c }
}

// WithDictionary makes Dial verify the server's dictionary fingerprint.
func WithDictionary(d *words.Dictionary) RemoteOption {
	return func(rc *remoteConfig) { rc.dict = d }
}

// WithAnswer asks the server for a game with a fixed answer.
func WithAnswer(answer string) RemoteOption {
	return func(rc *remoteConfig) { rc.req.Answer = answer }
}

// WithDailyAnswer asks the server for the answer of the day.
func WithDailyAnswer() RemoteOption {
	return func(rc *remoteConfig) { rc.req.Daily = true }
}

// Dial starts a game on the server at baseURL.
func Dial(ctx context.Context, baseURL string, opts ...RemoteOption) (*Remote, error) {
	if baseURL == "" {
		return nil, errors.New("oracle: remote oracle needs a server URL")
	}
	rc := remoteConfig{client: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(&rc)
	}

	r := &Remote{baseURL: strings.TrimRight(baseURL, "/"), client: rc.client}
	var res api.NewGameRes
	if err := r.do(ctx, http.MethodPost, "/game/new", rc.req, &res); err != nil {
		return nil, fmt.Errorf("oracle: start remote game: %w", err)
	}
	r.gameID, r.token = res.GameID, res.Token
	r.wordLength, r.maxGuesses, r.date = res.WordLength, res.MaxGuesses, res.Date

	if rc.dict != nil && res.Fingerprint != rc.dict.Fingerprint() {
		_ = r.Close()
		return nil, fmt.Errorf("%w: server %s, local %s", ErrDictionaryMismatch, short(res.Fingerprint), short(rc.dict.Fingerprint()))
	}
	log.Debug().Str("gameId", r.gameID).Str("url", r.baseURL).Msg("remote game started")
	return r, nil
}

// Guess submits word to the server.
func (r *Remote) Guess(ctx context.Context, word string) (game.Response, error) {
	if r.closed {
		return game.Response{}, game.Contractf("oracle.Guess", "cannot guess %q: session closed", word)
	}
	if r.outcome.Terminal() {
		return game.Response{}, game.Contractf("oracle.Guess", "cannot guess %q: game already %s", word, r.outcome)
	}
	if err := game.CheckWord("oracle.Guess", word, r.wordLength); err != nil {
		return game.Response{}, err
	}

	var res api.GuessRes
	if err := r.do(ctx, http.MethodPost, "/game/guess", api.GuessReq{Guess: word}, &res); err != nil {
		return game.Response{}, err
	}
	if len(res.Feedback) != r.wordLength {
		return game.Response{}, fmt.Errorf("oracle: server returned %d feedback entries for %q", len(res.Feedback), word)
	}
	r.outcome = res.Outcome
	return res.Response, nil
}

// GameID identifies the server-side game.
func (r *Remote) GameID() string { return r.gameID }

// Date is the server's day key for a daily game, empty otherwise.
func (r *Remote) Date() string { return r.date }

// MaxGuesses is the server's guess budget.
func (r *Remote) MaxGuesses() int { return r.maxGuesses }

// Close releases the server-side session.
func (r *Remote) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if err := r.do(ctx, http.MethodDelete, "/game", nil, nil); err != nil {
		return fmt.Errorf("oracle: close remote game %s: %w", r.gameID, err)
	}
	return nil
}

// do sends a JSON request and decodes a JSON response into out.
func (r *Remote) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(method, path, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// decodeError maps server error codes back onto the game error taxonomy.
func decodeError(method, path string, resp *http.Response) error {
	var e api.ErrorRes
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
	msg := e.Message
	if msg == "" {
		msg = e.Error
	}
	switch e.Error {
	case api.CodeContract, api.CodeFinished:
		return game.Contractf("oracle.Guess", "server: %s", msg)
	case api.CodeNotAllowed:
		return fmt.Errorf("server: %s: %w", msg, game.ErrNotAllowed)
	}
	return fmt.Errorf("%s %s: server returned %d: %s", method, path, resp.StatusCode, msg)
}

func short(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
