package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/splitleasesharath/emergency-report/internal/api/handlers/http/emergency"
	"github.com/splitleasesharath/emergency-report/internal/api/handlers/http/system"
	"github.com/splitleasesharath/emergency-report/internal/config"
	"github.com/splitleasesharath/emergency-report/internal/middleware"
	"github.com/splitleasesharath/emergency-report/internal/render"
	"github.com/splitleasesharath/emergency-report/internal/session"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger, store *session.Store, renderer *render.Renderer) *Server {
	emergencyHandler := emergency.NewHandler(logger, renderer, cfg.Submit.MaxUploadBytes)
	systemHandler := system.NewHandler(logger, store)

	r := InitRouter(ctx, cfg, emergencyHandler, systemHandler, store, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func InitRouter(ctx context.Context, cfg *config.Config, emergencyHandler *emergency.Handler, systemHandler *system.Handler, store *session.Store, logger *slog.Logger) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.Sessions(store, cfg.Session.CookieName, cfg.Session.TTL, logger))

		pr.Get("/", emergencyHandler.Index)
		pr.Post("/auth", emergencyHandler.ToggleAuth)

		pr.Route("/emergency", func(er chi.Router) {
			er.Use(middleware.Limit(ctx, cfg.Submit.RatePerSecond, cfg.Submit.Burst, 10*time.Minute, logger))

			er.Post("/open", emergencyHandler.Open)
			er.Post("/close", emergencyHandler.Close)
			er.Post("/draft", emergencyHandler.Draft)
			er.Post("/submit", emergencyHandler.Submit)
		})
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/health", systemHandler.SystemHealth)
	})

	return r
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
