package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/splitleasesharath/emergency-report/internal/domain"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go
type ReportClient interface {
	Submit(ctx context.Context, report domain.EmergencyReport) (json.RawMessage, error)
	IsSubmitting() bool
	Err() string
}

// ReportService is the host side of a form submit: it sends the report through the
// client and keeps the backend's answer for display.
type ReportService struct {
	client ReportClient
	logger *slog.Logger

	mu           sync.Mutex
	lastResponse json.RawMessage
}

func NewReportService(client ReportClient, logger *slog.Logger) *ReportService {
	return &ReportService{client: client, logger: logger}
}

// Submit implements form.Submitter. Failures are logged and returned unchanged so
// the caller decides whether the modal stays open.
func (s *ReportService) Submit(ctx context.Context, report domain.EmergencyReport) error {
	resp, err := s.client.Submit(ctx, report)
	if err != nil {
		s.logger.Error("Failed to submit report",
			slog.String("emergency_type", string(report.EmergencyType)),
			slog.String("message", s.client.Err()),
			slog.Any("error", err),
		)
		return err
	}

	s.mu.Lock()
	s.lastResponse = resp
	s.mu.Unlock()

	s.logger.Info("emergency report accepted",
		slog.String("emergency_type", string(report.EmergencyType)),
		slog.String("reservation_id", report.ReservationID),
	)
	return nil
}

func (s *ReportService) LastResponse() json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResponse
}

func (s *ReportService) IsSubmitting() bool { return s.client.IsSubmitting() }

func (s *ReportService) Err() string { return s.client.Err() }
