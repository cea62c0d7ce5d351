package api

import (
	"context"
	"loopy/internal/auth"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	requestIDHeader = "X-Request-ID"
	bearerChallenge = `Bearer realm="` + serviceName + `"`
)

type contextKey int

const requestIDKey contextKey = iota

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func (api *API) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// BearerAuth rejects requests whose bearer credential does not match the
// configured secret. Nothing downstream runs for a rejected request.
func (api *API) BearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.BearerToken(r.Header.Get("Authorization"))
		if err != nil {
			w.Header().Set("WWW-Authenticate", bearerChallenge)
			message := "invalid authorization header"
			if errors.Is(err, auth.ErrMissingCredentials) {
				message = "authorization header required"
			}
			respondWithError(w, http.StatusUnauthorized, "unauthorized", message)
			return
		}

		if !auth.Verify(token, api.opts.APIKey) {
			w.Header().Set("WWW-Authenticate", bearerChallenge+`, error="invalid_token"`)
			respondWithError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// unmatchedRoute is the metrics label for requests no route matched.
const unmatchedRoute = "unmatched"

func (api *API) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			duration := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			route := unmatchedRoute
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}

			api.metrics.ObserveHTTPRequest(r.Method, route, status, duration)
			api.log.Infow("request",
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", status,
				"bytesWritten", ww.BytesWritten(),
				"duration", duration,
				"requestId", requestIDFrom(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
