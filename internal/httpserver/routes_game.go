// internal/httpserver/routes_game.go
//
// Oracle routes.
//   - POST   /game/new   → start a game (random, fixed answer, or answer of the day)
//   - POST   /game/guess → score a guess (session token required)
//   - DELETE /game       → release the session (session token required)
//
// Status mapping for /game/guess:
//   - 400 contract_violation: malformed guess (wrong length, non a–z)
//   - 409 game_finished:      guess after the game was won or lost
//   - 422 not_in_word_list:   well-formed guess outside the dictionary

package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/api"
	"github.com/robalobadob/wordle/apps/go-solver/internal/daily"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
)

// mountGame registers the oracle routes.
func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Group(func(r chi.Router) {
		r.Use(s.requireSession())
		r.Post("/game/guess", s.handleGuess)
		r.Delete("/game", s.handleEndGame)
	})
}

// handleNewGame creates a game in memory and returns its session token.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req api.NewGameReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, api.CodeBadJSON, err.Error())
		return
	}

	dict := s.dictionary()
	res := api.NewGameRes{
		WordLength:  dict.WordLength(),
		MaxGuesses:  s.maxGuess,
		Fingerprint: dict.Fingerprint(),
	}
	answer := req.Answer
	switch {
	case req.Daily:
		now := s.now()
		answer = daily.Answer(dict, s.salt, now)
		res.Date = daily.DateKey(now)
	case answer == "":
		answer = dict.Random()
	default:
		if err := game.CheckWord("game.New", answer, dict.WordLength()); err != nil {
			writeError(w, http.StatusBadRequest, api.CodeContract, err.Error())
			return
		}
	}

	g, err := game.New(answer, game.WithMaxGuesses(s.maxGuess), game.WithAllowed(dict.Contains))
	if err != nil {
		writeError(w, http.StatusBadRequest, api.CodeContract, err.Error())
		return
	}
	token, _, err := s.sessions.sign(g.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign session token")
		writeError(w, http.StatusInternalServerError, api.CodeInternal, "could not sign token")
		return
	}
	s.expireSessions()
	if err := s.games.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, api.CodeInternal, "save failed")
		return
	}
	liveSessions.Inc()
	log.Debug().Str("gameId", g.ID).Bool("daily", req.Daily).Msg("game started")

	res.GameID, res.Token = g.ID, token
	writeJSON(w, http.StatusOK, res)
}

// handleGuess applies a guess to the session's game.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req api.GuessReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, api.CodeBadJSON, err.Error())
		return
	}
	g, err := s.games.Get(r.Context(), gameIDFrom(r.Context()))
	if err != nil {
		writeError(w, http.StatusNotFound, api.CodeNotFound, "game not found")
		return
	}

	s.applyMu.Lock()
	resp, err := g.Apply(strings.ToLower(strings.TrimSpace(req.Guess)))
	left, finished := g.GuessesLeft(), g.Outcome().Terminal()
	s.applyMu.Unlock()
	switch {
	case err == nil:
	case errors.Is(err, game.ErrNotAllowed):
		oracleGuesses.WithLabelValues(api.CodeNotAllowed).Inc()
		writeError(w, http.StatusUnprocessableEntity, api.CodeNotAllowed, err.Error())
		return
	case errors.Is(err, game.ErrContract) && finished:
		oracleGuesses.WithLabelValues(api.CodeFinished).Inc()
		writeError(w, http.StatusConflict, api.CodeFinished, err.Error())
		return
	case errors.Is(err, game.ErrContract):
		oracleGuesses.WithLabelValues(api.CodeContract).Inc()
		writeError(w, http.StatusBadRequest, api.CodeContract, err.Error())
		return
	default:
		log.Error().Err(err).Str("gameId", g.ID).Msg("apply guess")
		writeError(w, http.StatusInternalServerError, api.CodeInternal, "apply failed")
		return
	}

	oracleGuesses.WithLabelValues(resp.Outcome.String()).Inc()
	writeJSON(w, http.StatusOK, api.GuessRes{Response: resp, GuessesLeft: left})
}

// expireSessions drops games whose session token can no longer be valid.
func (s *Server) expireSessions() {
	if n := s.games.Expire(s.now().Add(-s.sessions.ttl)); n > 0 {
		liveSessions.Sub(float64(n))
		log.Debug().Int("expired", n).Msg("dropped expired game sessions")
	}
}

// handleEndGame releases the session's game.
func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	id := gameIDFrom(r.Context())
	if _, err := s.games.Get(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, api.CodeNotFound, "game not found")
		return
	}
	if err := s.games.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, api.CodeInternal, "delete failed")
		return
	}
	liveSessions.Dec()
	w.WriteHeader(http.StatusNoContent)
}
