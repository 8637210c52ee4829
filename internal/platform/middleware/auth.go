package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"unipass/pkg/requestcontext"
)

// CallerClaims is what the identity provider asserts about a caller. The
// core trusts this classification; it does not manage users or roles itself.
type CallerClaims struct {
	SubjectID string
	Role      requestcontext.Role
}

// TokenVerifier validates bearer tokens minted by the identity provider.
type TokenVerifier interface {
	VerifyCallerToken(tokenString string) (*CallerClaims, error)
}

// RequireAuth rejects requests without a valid bearer token and stashes the
// verified subject and role in the request context.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}
			claims, err := verifier.VerifyCallerToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized - invalid caller token",
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				unauthorized(w)
				return
			}
			ctx := requestcontext.WithSubject(r.Context(), claims.SubjectID, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route to the listed roles. Must run after RequireAuth.
func RequireRole(roles ...requestcontext.Role) func(http.Handler) http.Handler {
	allowed := make(map[requestcontext.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowed[requestcontext.CallerRole(r.Context())] {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
