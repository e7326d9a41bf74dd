// Package modal is the open/close shell around the report form.
package modal

import (
	"context"
	"log/slog"
	"sync"

	"github.com/splitleasesharath/emergency-report/internal/domain"
	"github.com/splitleasesharath/emergency-report/internal/form"
	"github.com/splitleasesharath/emergency-report/pkg/e"
)

const (
	Title       = "Please report your emergency with details and photos if possible"
	LoginPrompt = "Log In to Continue"
	LoginURL    = "/login"
)

type Props struct {
	OnClose         func()
	OnSubmit        form.Submitter
	UserBookings    []domain.Booking
	IsAuthenticated bool
	Logger          *slog.Logger
}

type Modal struct {
	props  Props
	logger *slog.Logger

	mu            sync.Mutex
	open          bool
	authenticated bool
	form          *form.Form
}

func New(p Props) *Modal {
	if p.UserBookings == nil {
		p.UserBookings = []domain.Booking{}
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Modal{props: p, logger: logger, authenticated: p.IsAuthenticated}
}

// Open mounts a fresh form. Opening an open modal keeps the current form.
func (m *Modal) Open() *form.Form {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open {
		return m.form
	}
	m.open = true
	m.form = form.New(form.Props{
		Bookings:        m.props.UserBookings,
		IsAuthenticated: m.authenticated,
		OnSubmit:        m.props.OnSubmit,
		Logger:          m.logger,
	})
	m.logger.Debug("modal opened", slog.String("form_id", m.form.ID().String()))
	return m.form
}

// Close unmounts the form, discarding its state, and notifies OnClose.
func (m *Modal) Close() {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return
	}
	m.open = false
	m.form = nil
	m.mu.Unlock()

	m.logger.Debug("modal closed")
	if m.props.OnClose != nil {
		m.props.OnClose()
	}
}

func (m *Modal) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Form is the mounted form, nil while closed.
func (m *Modal) Form() *form.Form {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form
}

func (m *Modal) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

func (m *Modal) SetAuthenticated(v bool) {
	m.mu.Lock()
	m.authenticated = v
	f := m.form
	m.mu.Unlock()
	if f != nil {
		f.SetAuthenticated(v)
	}
}

func (m *Modal) Title() string { return Title }

func (m *Modal) ShowLoginPrompt() bool {
	return !m.IsAuthenticated()
}

func (m *Modal) Bookings() []domain.Booking {
	out := make([]domain.Booking, len(m.props.UserBookings))
	copy(out, m.props.UserBookings)
	return out
}

// Submit forwards to the mounted form.
func (m *Modal) Submit(ctx context.Context) error {
	f := m.Form()
	if f == nil {
		return e.ErrModalClosed
	}
	return f.Submit(ctx)
}
