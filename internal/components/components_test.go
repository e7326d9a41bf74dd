package components_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/splitleasesharath/emergency-report/internal/components"
	"github.com/splitleasesharath/emergency-report/internal/config"
	"github.com/splitleasesharath/emergency-report/internal/reporter"
)

func TestInitComponents_EndToEnd(t *testing.T) {
	var hits atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != config.DefaultReportPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		claims, err := reporter.ParseReportToken("s3cret", strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		if err != nil || claims.ReservationID != "3" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.FormValue("reservationId") != "3" || r.FormValue("emergencyType") != "party-at-listing" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"report-42"}`))
	}))
	defer backend.Close()

	cfg := &config.Config{
		Env:      "test",
		Http:     config.HttpConfig{Port: ":0"},
		Reporter: config.ReporterConfig{BaseURL: backend.URL, Path: config.DefaultReportPath, JWTSecret: "s3cret"},
		Submit:   config.SubmitConfig{RatePerSecond: 100, Burst: 100, MaxUploadBytes: 1 << 20},
		Session:  config.SessionConfig{CookieName: "sid", TTL: time.Minute},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
	comps, err := components.InitComponents(ctx, cfg, logger)
	require.NoError(t, err)
	defer comps.ShutdownAll()

	app := httptest.NewServer(comps.HttpServer.Handler())
	defer app.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Post(app.URL+"/emergency/open", "application/x-www-form-urlencoded", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	form := url.Values{
		"reservationId": {"3"},
		"emergencyType": {"party-at-listing"},
		"description":   {"Loud party with far too many guests"},
	}
	resp, err = client.Post(app.URL+"/emergency/submit", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.EqualValues(t, 1, hits.Load())
	require.Equal(t, 1, comps.Sessions.Len())

	resp, err = client.Get(app.URL + "/api/v1/health")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
