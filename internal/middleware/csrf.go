package middleware

import (
	"net/http"
	"time"

	"github.com/folio-labs/portfolio-server/internal/audit"
	apperrors "github.com/folio-labs/portfolio-server/internal/errors"
	"github.com/folio-labs/portfolio-server/internal/session"
	"github.com/folio-labs/portfolio-server/internal/util"
)

const (
	CSRFCookieName = "csrf_token"
	CSRFHeaderName = "X-CSRF-Token"
)

// CSRFMiddleware implements the double-submit cookie pattern: a readable
// csrf_token cookie is issued on any request, and unsafe methods carrying a
// verified admin session must echo it in the X-CSRF-Token header. Requests
// without a session are left to RequireAdmin. Paths in exempt skip the check
// but still get a cookie. It must run after SessionMiddleware.
type CSRFMiddleware struct {
	secure bool
	maxAge time.Duration
	exempt map[string]bool
}

func NewCSRFMiddleware(secure bool, maxAge time.Duration, exemptPaths ...string) *CSRFMiddleware {
	exempt := make(map[string]bool, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt[p] = true
	}
	return &CSRFMiddleware{secure: secure, maxAge: maxAge, exempt: exempt}
}

func (m *CSRFMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CSRFCookieName)
		if err != nil || cookie.Value == "" {
			token, err := util.GenerateToken()
			if err != nil {
				writeError(w, apperrors.Internal("Failed to generate security token").WithCause(err))
				return
			}
			m.setCSRFCookie(w, token)
			cookie = &http.Cookie{Value: token}
		}

		_, authenticated := session.FromContext(r.Context())
		if !authenticated || isSafeMethod(r.Method) || m.exempt[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		headerToken := r.Header.Get(CSRFHeaderName)
		if headerToken == "" || !util.ConstantTimeEqual(cookie.Value, headerToken) {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventCSRFFailure,
				Details: map[string]any{"path": r.URL.Path, "method": r.Method, "header_present": headerToken != ""},
			})
			writeError(w, apperrors.Forbidden("Invalid CSRF token"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *CSRFMiddleware) setCSRFCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: false, // read by the admin UI and echoed in the header
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet ||
		method == http.MethodHead ||
		method == http.MethodOptions
}
