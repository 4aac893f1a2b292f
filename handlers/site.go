package handlers

import (
	"net/http"

	"github.com/stedward-parish/directorybackend/config"
)

// Health is the liveness probe for /health/ and /healthz/.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RobotsTxt keeps crawlers away from the whole site.
func RobotsTxt(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("User-agent: *\nDisallow: /\n"))
}

// HomeRedirect sends authenticated visitors to the directory listing and
// everyone else to the login page.
func HomeRedirect(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tokenString, ok := bearerToken(r); ok {
			if _, err := parseToken(cfg, tokenString); err == nil {
				http.Redirect(w, r, "/directory/", http.StatusFound)
				return
			}
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}
