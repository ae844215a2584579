// internal/httpserver/server.go
//
// HTTP oracle server.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/debug/words", "/metrics".
//   - Oracle endpoints: POST /game/new, POST /game/guess, DELETE /game (routes_game.go).
//   - Hint endpoint: POST /solve; run history: GET /runs* (routes_solve.go).
//
// Notes:
//   - Game sessions live in memory (store.Games) and are addressed by a signed
//     session token, never by a bare game ID (session.go).
//   - Every error body has the shape {"error": code, "message": detail}.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/api"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/policy"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// Options configures a Server. Dict is required; everything else has a default.
type Options struct {
	Dict         *words.Dictionary
	Games        *store.Games
	Runs         store.Records
	Policy       policy.Policy
	MaxGuesses   int
	DailySalt    string
	JWTSecret    string
	TokenTTL     time.Duration
	ClientOrigin string
	Now          func() time.Time
}

// Server bundles router, session store and run store.
type Server struct {
	r        *chi.Mux
	hs       *http.Server
	dict     atomic.Pointer[words.Dictionary]
	games    *store.Games
	runs     store.Records
	policy   policy.Policy
	maxGuess int
	salt     string
	sessions sessions
	now      func() time.Time

	applyMu sync.Mutex // serializes guesses; game.Game is not safe for concurrent use
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Runs == nil {
		opts.Runs = store.NewMemoryRecords()
	}
	if opts.Policy == nil {
		opts.Policy = policy.MaxMatches{}
	}
	if opts.MaxGuesses <= 0 {
		opts.MaxGuesses = game.MaxGuesses
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Games == nil {
		opts.Games = store.NewGames(store.WithClock(opts.Now))
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}

	s := &Server{
		r:        chi.NewRouter(),
		games:    opts.Games,
		runs:     opts.Runs,
		policy:   opts.Policy,
		maxGuess: opts.MaxGuesses,
		salt:     opts.DailySalt,
		sessions: newSessions(opts.JWTSecret, opts.TokenTTL, opts.Now),
		now:      opts.Now,
	}
	s.dict.Store(opts.Dict)
	s.hs = &http.Server{Handler: s.r, ReadHeaderTimeout: 5 * time.Second}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // one log line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))         // single-origin CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordle-oracle","endpoints":["/health","POST /game/new","POST /game/guess","DELETE /game","POST /solve","/runs"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		d := s.dictionary()
		writeJSON(w, http.StatusOK, map[string]any{
			"words":       d.Len(),
			"wordLength":  d.WordLength(),
			"fingerprint": d.Fingerprint(),
			"sessions":    s.games.Len(),
		})
	})
	s.r.Handle("/metrics", promhttp.Handler())

	s.mountGame(s.r)
	s.mountSolve(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, api.CodeNotFound, r.URL.Path)
	})

	return s
}

// dictionary returns the word list new games and hints use.
func (s *Server) dictionary() *words.Dictionary { return s.dict.Load() }

// SetDictionary swaps the word list. Games already in progress keep the
// list they started with.
func (s *Server) SetDictionary(d *words.Dictionary) {
	s.dict.Store(d)
	log.Info().Int("words", d.Len()).Str("fingerprint", d.Fingerprint()).Msg("dictionary replaced")
}

// Start begins serving HTTP on addr. It blocks until the server stops and
// returns http.ErrServerClosed after Shutdown.
func (s *Server) Start(addr string) error {
	s.hs.Addr = addr
	return s.hs.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.hs.Shutdown(ctx)
}

// Handler exposes the router (useful for tests and custom listeners).
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one structured line per request, tagged with chi's request ID.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		lvl := zerolog.DebugLevel
		if ww.Status() >= 500 {
			lvl = zerolog.ErrorLevel
		}
		log.WithLevel(lvl).
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("http request")
	})
}

// ------------------------------- helpers ------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, api.ErrorRes{Error: code, Message: msg})
}

// decodeJSON decodes the request body into v. An empty body leaves v unchanged.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
