package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vancomm/minesweeper-engine/internal/config"
)

type CtxKey int

const (
	CtxSessionClaims CtxKey = iota
)

// BearerToken reads the session token from the Authorization header or,
// for WebSocket handshakes that cannot set headers, the token query param.
func BearerToken(r *http.Request) (string, bool) {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, found := strings.Cut(h, " ")
		if found && strings.EqualFold(scheme, "Bearer") && token != "" {
			return strings.TrimSpace(token), true
		}
		return "", false
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, true
	}
	return "", false
}

// Auth puts valid session claims into the request context. Requests with
// a missing or bad token pass through without claims; handlers decide
// whether that is acceptable.
func Auth(logger *slog.Logger, j *config.JWT) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				h.ServeHTTP(w, r)
				return
			}
			claims, err := j.Parse(token)
			if err != nil {
				logger.Debug("rejected session token", slog.Any("error", err))
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxSessionClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionClaims(ctx context.Context) (*config.SessionClaims, bool) {
	claims, ok := ctx.Value(CtxSessionClaims).(*config.SessionClaims)
	return claims, ok
}
