package daemon

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"scriptqa/internal/api"
	"scriptqa/internal/services"
)

const sessionCookieMaxAge = 30 * 24 * 60 * 60

// requestIDMiddleware tags every request with a correlation ID, honouring one
// supplied by the caller.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(api.HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(api.HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(services.WithRequestID(r.Context(), id)))
	})
}

// sessionMiddleware resolves the conversation session from the X-Session-ID
// header, then the session cookie, and otherwise issues a new cookie.
func sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(api.HeaderSessionID))
		if id == "" {
			if cookie, err := r.Cookie(api.SessionCookieName); err == nil {
				id = strings.TrimSpace(cookie.Value)
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     api.SessionCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   sessionCookieMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(services.WithSessionID(r.Context(), id)))
	})
}
