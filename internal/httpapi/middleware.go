package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/jiyun-park/fanchannel-service/internal/domain"
)

type contextKey struct{}

var sessionKey contextKey

// Sessions turns a Bearer token into a domain.Session in the request
// context. Requests without a token pass through anonymous; requests
// with an invalid token are rejected.
func Sessions(tokens *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
				writeError(w, domain.ErrUnauthorized)
				return
			}
			sess, err := tokens.Parse(strings.TrimSpace(auth[len("bearer "):]))
			if err != nil {
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
		})
	}
}

func withSession(ctx context.Context, sess domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// sessionFrom returns the session of the request, anonymous if none.
func sessionFrom(ctx context.Context) domain.Session {
	if sess, ok := ctx.Value(sessionKey).(domain.Session); ok {
		return sess
	}
	return domain.Session{}
}
