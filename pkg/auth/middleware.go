package auth

import (
	"net/http"
	"strings"
)

const TokenCookieName = "cf-token"

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie(TokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Middleware attaches the caller's AuthContext to the request context. Requests
// without a valid token continue as anonymous.
func (v *TokenVerifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := tokenFromRequest(r); token != "" {
			if a, err := v.Verify(token); err == nil {
				r = r.WithContext(WithAuth(r.Context(), a))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects anonymous callers, including tokens without a subject,
// with 401 and callers lacking role with 403.
func RequireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := FromContext(r.Context())
		if a.IsAnonymous() {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !a.IsAuthorized(role) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}
