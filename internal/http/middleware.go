package http

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/arena/internal/arena"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// contextKey is a custom type to avoid key collisions in context.
type contextKey string

const (
	sessionKey contextKey = "session"
	tokenKey   contextKey = "token"
)

// paramsMiddleware logs the request and handles the 'verbose' query parameter.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		// Handle 'verbose' for request-scoped verbose logging.
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(originalLevel)
		}
		next.ServeHTTP(w, r)
	})
}

// sessionMiddleware resolves an "Authorization: Bearer <token>" header to the
// logged-in session and stores both in the request context. Requests without
// a known token carry the zero session.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			next.ServeHTTP(w, r)
			return
		}
		sess, found := s.Sessions.Get(token)
		if !found {
			log.Debug("Unknown session token")
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, sess)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole rejects requests without a session (401) or whose session role
// is not one of roles (403).
func requireRole(roles ...arena.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := sessionFromContext(r)
			if !sess.LoggedIn() {
				respondError(w, arena.ErrNotLoggedIn)
				return
			}
			if !slices.Contains(roles, sess.Role) {
				log.Warn("Request rejected for role", "username", sess.Username, "role", sess.Role, "path", r.URL.Path)
				respondJSON(w, http.StatusForbidden, errorResponse{Error: "not permitted for role " + sess.Role.String()})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sessionFromContext is a helper to safely retrieve the session from the request context.
func sessionFromContext(r *http.Request) arena.Session {
	sess, _ := r.Context().Value(sessionKey).(arena.Session)
	return sess
}

func tokenFromContext(r *http.Request) string {
	token, _ := r.Context().Value(tokenKey).(string)
	return token
}
