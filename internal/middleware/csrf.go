package middleware

import (
	"mime"
	"net/http"
)

// RequireJSON rejects state-changing requests whose body is not JSON with
// 415. Browsers cannot send an application/json body cross-origin without a
// CORS preflight, so together with the CORS policy this stops cross-site
// form posts from riding on the session cookie.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			writeError(w, http.StatusUnsupportedMediaType, "request body must be application/json")
			return
		}

		next.ServeHTTP(w, r)
	})
}
