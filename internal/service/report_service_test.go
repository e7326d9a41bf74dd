package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/splitleasesharath/emergency-report/internal/domain"
	"github.com/splitleasesharath/emergency-report/internal/service"
	mock_service "github.com/splitleasesharath/emergency-report/internal/service/mocks"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func testReport() domain.EmergencyReport {
	return domain.EmergencyReport{
		ReservationID: "1",
		EmergencyType: domain.EmergencyInjuryToGuest,
		Description:   "Guest twisted an ankle on the stairs",
		Photos:        []domain.File{},
	}
}

func TestReportService_Submit_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock_service.NewMockReportClient(ctrl)
	svc := service.NewReportService(client, newTestLogger())

	client.EXPECT().
		Submit(gomock.Any(), testReport()).
		Return(json.RawMessage(`{"id":"rep-1"}`), nil).
		Times(1)

	if err := svc.Submit(context.Background(), testReport()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(svc.LastResponse()) != `{"id":"rep-1"}` {
		t.Fatalf("unexpected last response %s", svc.LastResponse())
	}
}

func TestReportService_Submit_ErrorPassesThrough(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock_service.NewMockReportClient(ctrl)
	svc := service.NewReportService(client, newTestLogger())

	boom := errors.New("boom")
	client.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil, boom).Times(1)
	client.EXPECT().Err().Return("Server busy").AnyTimes()

	if err := svc.Submit(context.Background(), testReport()); err != boom {
		t.Fatalf("expected boom got %v", err)
	}
	if svc.LastResponse() != nil {
		t.Fatalf("failed submit must not record a response")
	}
	if svc.Err() != "Server busy" {
		t.Fatalf("expected hook error, got %q", svc.Err())
	}
}
