package components

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/splitleasesharath/emergency-report/internal/api"
	"github.com/splitleasesharath/emergency-report/internal/config"
	"github.com/splitleasesharath/emergency-report/internal/modal"
	"github.com/splitleasesharath/emergency-report/internal/render"
	"github.com/splitleasesharath/emergency-report/internal/reporter"
	"github.com/splitleasesharath/emergency-report/internal/service"
	"github.com/splitleasesharath/emergency-report/internal/session"
	"github.com/splitleasesharath/emergency-report/pkg/logger"
)

type Components struct {
	logger     *slog.Logger
	HttpServer *api.Server
	Sessions   *session.Store
	httpClient *http.Client
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	logger.Info("Initializing templates")
	renderer, err := render.NewRenderer()
	if err != nil {
		logger.Error("Failed to parse templates", slog.Any("error", err))
		return nil, fmt.Errorf("failed to init renderer: %w", err)
	}

	httpClient := &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	store := session.NewStore(SessionFactory(cfg, httpClient, logger), cfg.Session.TTL, logger)

	httpServer := api.NewServer(ctx, cfg, logger, store, renderer)
	logger.Info("Initialized server", slog.String("report_endpoint", cfg.Reporter.Endpoint()))

	return &Components{
		logger:     logger,
		HttpServer: httpServer,
		Sessions:   store,
		httpClient: httpClient,
	}, nil
}

// SessionFactory gives each browser session its own submission client, so one
// session's in-flight report never blocks another. The transport is shared.
func SessionFactory(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) session.Factory {
	return func(id uuid.UUID) (*modal.Modal, *service.ReportService) {
		l := logger.With(slog.String("session_id", id.String()))
		client := reporter.NewClient(cfg.Reporter, l, reporter.WithHTTPClient(httpClient))
		reports := service.NewReportService(client, l)
		m := modal.New(modal.Props{
			OnSubmit:        reports,
			UserBookings:    DemoBookings(),
			IsAuthenticated: true,
			Logger:          l,
			OnClose: func() {
				l.Debug("emergency modal closed")
			},
		})
		return m, reports
	}
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Shutting down components")

	c.httpClient.CloseIdleConnections()
	c.logger.Info("Components stopped",
		slog.Int("sessions", c.Sessions.Len()),
		slog.Duration("latency", time.Since(start)))
}
