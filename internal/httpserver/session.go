// internal/httpserver/session.go
//
// Session tokens for oracle games.
//
// POST /game/new hands out an HS256 JWT whose subject is the game ID. Every
// other game route requires it as "Authorization: Bearer <token>"; the
// middleware resolves the token to a game ID and stores it in the request
// context.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/robalobadob/wordle/apps/go-solver/internal/api"
)

const defaultTokenTTL = 24 * time.Hour

type sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newSessions(secret string, ttl time.Duration, now func() time.Time) sessions {
	if secret == "" {
		secret = "dev_secret_change_me"
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return sessions{secret: []byte(secret), ttl: ttl, now: now}
}

// sign creates a token for gameID.
func (s sessions) sign(gameID string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   gameID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString(s.secret)
	return ss, exp, err
}

// parse validates a token and returns its game ID.
func (s sessions) parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// bearer extracts a bearer token from the Authorization header.
func bearer(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// ctxGameKey is the context key type for the session's game ID.
type ctxGameKey struct{}

// requireSession enforces a valid session token and injects the game ID into
// the request context.
func (s *Server) requireSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearer(r)
			if tokenStr == "" {
				writeError(w, http.StatusUnauthorized, api.CodeUnauthorized, "missing bearer token")
				return
			}
			id, err := s.sessions.parse(tokenStr)
			if err != nil {
				writeError(w, http.StatusUnauthorized, api.CodeUnauthorized, "invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), ctxGameKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func gameIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxGameKey{}).(string)
	return id
}
