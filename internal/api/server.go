// Package api serves the practice store over JSON/HTTP for local front ends.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/logger"
)

// Options configures the router.
type Options struct {
	// AllowedOrigins enables CORS for these origins. Empty disables CORS.
	AllowedOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			ExposedHeaders: []string{"Content-Disposition"},
			MaxAge:         300,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/japa", func(r chi.Router) {
			r.Get("/", h.ListJapa)
			r.Post("/", h.CreateJapa)
			r.Delete("/{date}", h.DeleteJapa)
		})

		r.Route("/recitations", func(r chi.Router) {
			r.Get("/", h.ListRecitations)
			r.Post("/", h.CreateRecitation)
			r.Delete("/{date}", h.DeleteRecitation)
		})

		r.Route("/journal", func(r chi.Router) {
			r.Get("/", h.ListGratitude)
			r.Post("/", h.CreateGratitude)
			r.Delete("/{date}", h.DeleteGratitude)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Get("/", h.ListGoals)
			r.Post("/", h.CreateGoal)
			r.Put("/{id}/status", h.UpdateGoalStatus)
			r.Delete("/{id}", h.DeleteGoal)
		})

		r.Get("/insights", h.GetInsights)
		r.Get("/stotras", h.ListStotras)

		r.Get("/export", h.Export)
		r.Post("/import", h.Import)
		r.Delete("/data", h.WipeData)
	})

	return r
}

// requestLogger logs one line per request through the application logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

// Serve runs the HTTP server on ln until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
