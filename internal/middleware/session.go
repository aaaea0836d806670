package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/folio-labs/portfolio-server/internal/errors"
	"github.com/folio-labs/portfolio-server/internal/session"
)

const AdminSessionCookie = "admin_session"

// SessionMiddleware verifies the admin_session cookie and, when valid, puts
// its claims on the request context. Requests without a valid session pass
// through anonymously; RequireAdmin rejects them where a session is needed.
type SessionMiddleware struct {
	authority *session.Authority
}

func NewSessionMiddleware(authority *session.Authority) *SessionMiddleware {
	return &SessionMiddleware{authority: authority}
}

func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(AdminSessionCookie)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.authority.Verify(cookie.Value)
		if err != nil {
			if !errors.Is(err, session.ErrExpired) {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected session cookie")
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(session.WithClaims(r.Context(), claims)))
	})
}

// RequireAdmin rejects requests that carry no verified session.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); !ok {
			writeError(w, apperrors.Unauthorized("Unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminSessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
