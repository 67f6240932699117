package web

import (
	"net/http"
	"strings"
	"time"

	"tenpin-app/internal/store"

	"github.com/rs/zerolog/log"
)

const userCookieName = "tenpin_user_id"

func WithCurrentUser(store store.Store, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		if cookie, err := r.Cookie(userCookieName); err == nil {
			if _, ok := store.GetUser(cookie.Value); ok {
				next.ServeHTTP(w, r)
				return
			}
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
}

func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.status).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func isPublicPath(path string) bool {
	if path == "/login" || path == "/register" || path == "/healthz" || path == "/logout" {
		return true
	}
	return strings.HasPrefix(path, "/static/")
}
