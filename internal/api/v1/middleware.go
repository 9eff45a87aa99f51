package v1

import (
	"crypto/subtle"
	"net/http"
)

// requireMetadata wraps a handler and returns 503 if TMDB is not configured.
func (s *Server) requireMetadata(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Metadata == nil {
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "TMDB not configured")
			return
		}
		next(w, r)
	}
}

// requireAdmin wraps a handler that changes the watch log.
// Requests must carry the configured admin key in X-Api-Key.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AdminKey == "" {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Admin key not configured; changes are disabled")
			return
		}
		key := r.Header.Get("X-Api-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.cfg.AdminKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Only admin can modify the watch log")
			return
		}
		next(w, r)
	}
}
