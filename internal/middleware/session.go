package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/splitleasesharath/emergency-report/internal/session"
)

// Sessions attaches the caller's session to the request context, creating one and
// setting the cookie when the cookie is missing, malformed or expired.
func Sessions(store *session.Store, cookieName string, ttl time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var s *session.Session
			if c, err := r.Cookie(cookieName); err == nil {
				if id, err := uuid.Parse(c.Value); err == nil {
					s, _ = store.Get(id)
				}
			}

			if s == nil {
				s = store.Create()
				logger.Debug("new session", slog.String("session_id", s.ID.String()))
			}

			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    s.ID.String(),
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}
