package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/recipebox/internal/auth"
	"github.com/Clark-Hu/recipebox/internal/logging"
	"github.com/Clark-Hu/recipebox/internal/metrics"
)

// accessLog records one line and the request metrics per request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if id := middleware.GetReqID(r.Context()); id != "" {
			r = r.WithContext(logging.ContextWithRequestID(r.Context(), id))
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)
		metrics.ObserveHTTP(r.Method, route, status, elapsed)

		event := s.log(r).Info()
		if status >= http.StatusInternalServerError {
			event = s.log(r).Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("latency", elapsed).
			Msg("request")
	})
}

// requireAuth rejects requests without a valid session token and stores
// the user id in the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.TokenFromRequest(r)
		if token == "" {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized, no token")
			return
		}
		userID, err := s.tokens.Parse(token)
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized, token failed")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	})
}

func currentUserID(r *http.Request) string {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}

func (s *Server) log(r *http.Request) *zerolog.Logger {
	l := s.logger
	if id := logging.RequestIDFromContext(r.Context()); id != "" {
		l = l.With().Str("request_id", id).Logger()
	}
	return &l
}
