package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"resumebank/internal/auth"
	"resumebank/internal/httputil"
)

// publicRoutes are served without a token, keyed by path or "METHOD path".
// A valid token on a public route still identifies the caller.
var publicRoutes = map[string]bool{
	"/health":          true,
	"/status":          true,
	"/metrics":         true,
	"GET /api/company": true,
}

func isPublic(r *http.Request) bool {
	return publicRoutes[r.URL.Path] || publicRoutes[r.Method+" "+r.URL.Path]
}

// AuthMiddleware requires a valid bearer token and stores its subject as the
// request user id. OPTIONS requests pass through for CORS pre-flight.
func AuthMiddleware(verifier auth.Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			public := isPublic(r)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				if public {
					next.ServeHTTP(w, r)
					return
				}
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "public", public, "error", err)
				if public {
					// served anonymously
					next.ServeHTTP(w, r)
					return
				}
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.Subject))
		})
	}
}

// StaticUser marks every request as coming from userID. Only used when
// authentication is disabled outside production.
func StaticUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, httputil.WithUserID(r, userID))
		})
	}
}
