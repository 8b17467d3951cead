package network

import (
	"net/http"
	"slices"
)

// Origins is the set of browser origins allowed to call the demo server.
type Origins []string

// Allowed reports whether origin may make credentialed requests.
func (o Origins) Allowed(origin string) bool {
	return slices.Contains(o, "*") || slices.Contains(o, origin)
}

// EnableCORS adds CORS headers to responses and answers preflight requests.
func (o Origins) EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && o.Allowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
