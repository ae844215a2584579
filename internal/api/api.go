// Package api holds the JSON payloads exchanged between the oracle server and
// its clients.
package api

import "github.com/robalobadob/wordle/apps/go-solver/internal/game"

// Error codes returned in ErrorRes.Error.
const (
	CodeBadJSON      = "bad_json"
	CodeContract     = "contract_violation"
	CodeFinished     = "game_finished"
	CodeNotAllowed   = "not_in_word_list"
	CodeNotFound     = "not_found"
	CodeUnauthorized = "unauthorized"
	CodeExhausted    = "no_candidates"
	CodeInternal     = "internal"
)

// ErrorRes is the body of every non-2xx response.
type ErrorRes struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewGameReq starts a game. An empty Answer picks a random word; Daily picks
// the answer of the day.
type NewGameReq struct {
	Answer string `json:"answer,omitempty"`
	Daily  bool   `json:"daily,omitempty"`
}

// NewGameRes carries the session token used for the rest of the game.
type NewGameRes struct {
	GameID      string `json:"gameId"`
	Token       string `json:"token"`
	WordLength  int    `json:"wordLength"`
	MaxGuesses  int    `json:"maxGuesses"`
	Fingerprint string `json:"fingerprint"`
	Date        string `json:"date,omitempty"`
}

// GuessReq submits one guess.
type GuessReq struct {
	Guess string `json:"guess"`
}

// GuessRes is the feedback for one guess.
type GuessRes struct {
	game.Response
	GuessesLeft int `json:"guessesLeft"`
}

// Round is one (guess, feedback pattern) pair, e.g. {"crane", "gybbb"}.
type Round struct {
	Guess    string `json:"guess"`
	Feedback string `json:"feedback"`
}

// SolveReq asks for the candidates consistent with History.
type SolveReq struct {
	History []Round `json:"history"`
	Limit   int     `json:"limit,omitempty"`
}

// SolveRes lists the remaining candidates and a suggested next guess.
type SolveRes struct {
	Count      int      `json:"count"`
	Candidates []string `json:"candidates"`
	Suggestion string   `json:"suggestion"`
	Outcome    string   `json:"outcome"`
}
