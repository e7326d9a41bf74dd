package reporter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitleasesharath/emergency-report/internal/config"
	"github.com/splitleasesharath/emergency-report/internal/domain"
	"github.com/splitleasesharath/emergency-report/internal/reporter"
	"github.com/splitleasesharath/emergency-report/pkg/e"
)

func TestReportToken_RoundTrip(t *testing.T) {
	report := domain.EmergencyReport{ReservationID: "3", EmergencyType: domain.EmergencyPartyAtListing}

	tok, err := reporter.SignReportToken("s3cret", report, time.Now())
	require.NoError(t, err)

	claims, err := reporter.ParseReportToken("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "3", claims.ReservationID)
	assert.Equal(t, string(domain.EmergencyPartyAtListing), claims.EmergencyType)
	assert.Equal(t, reporter.TokenIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestReportToken_Rejected(t *testing.T) {
	report := domain.EmergencyReport{EmergencyType: domain.EmergencyBurstWaterPipe}

	tok, err := reporter.SignReportToken("s3cret", report, time.Now())
	require.NoError(t, err)
	_, err = reporter.ParseReportToken("other", tok)
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	expired, err := reporter.SignReportToken("s3cret", report, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = reporter.ParseReportToken("s3cret", expired)
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestSubmit_SignsTokenWhenSecretSet(t *testing.T) {
	authCh := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authCh <- r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	cfg := config.ReporterConfig{BaseURL: srv.URL, Path: config.DefaultReportPath, APIKey: "k3y", JWTSecret: "s3cret"}
	client := reporter.NewClient(cfg, newTestLogger())

	_, err := client.Submit(context.Background(), domain.EmergencyReport{
		ReservationID: "1",
		EmergencyType: domain.EmergencyInjuryToGuest,
		Description:   "Guest slipped in the shower",
		Photos:        []domain.File{},
	})
	require.NoError(t, err)

	auth := <-authCh
	require.True(t, strings.HasPrefix(auth, "Bearer "))
	claims, err := reporter.ParseReportToken("s3cret", strings.TrimPrefix(auth, "Bearer "))
	require.NoError(t, err)
	assert.Equal(t, "1", claims.ReservationID)
}
