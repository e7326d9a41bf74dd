package emergency

import (
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/splitleasesharath/emergency-report/internal/form"
	"github.com/splitleasesharath/emergency-report/internal/modal"
	"github.com/splitleasesharath/emergency-report/internal/session"
	"github.com/splitleasesharath/emergency-report/pkg/e"
)

var errTooLarge = errors.New("request too large")

// Page is the data of the index template.
type Page struct {
	Title           string
	LoginPrompt     string
	LoginURL        string
	Authenticated   bool
	ShowLoginPrompt bool
	Open            bool
	Form            *form.View
	Flash           *session.Flash
	SubmitError     string
	LastResponse    string
}

func (h *Handler) page(s *session.Session, submitErr string) Page {
	p := Page{
		Title:           s.Modal.Title(),
		LoginPrompt:     modal.LoginPrompt,
		LoginURL:        modal.LoginURL,
		Authenticated:   s.Modal.IsAuthenticated(),
		ShowLoginPrompt: s.Modal.ShowLoginPrompt(),
		Flash:           s.PopFlash(),
		SubmitError:     submitErr,
	}
	if f := s.Modal.Form(); f != nil {
		v := f.View()
		p.Open = true
		p.Form = &v
	}
	if s.Reports != nil {
		p.LastResponse = string(s.Reports.LastResponse())
	}
	return p
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, s *session.Session, status int, submitErr string) {
	if err := h.renderer.Render(w, status, "page", h.page(s, submitErr)); err != nil {
		h.log(r).Error("render failed", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, s *session.Session, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log(r).Error("request failed", slog.Int("status", status), slog.Any("error", err))
	} else {
		h.log(r).Info("request rejected", slog.Int("status", status), slog.Any("error", err))
	}
	h.renderPage(w, r, s, status, "")
}

func statusFor(err error) int {
	switch {
	case fieldErrors(err), errors.Is(err, e.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, e.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, e.ErrSubmitDisabled), errors.Is(err, e.ErrReservationDisabled):
		return http.StatusForbidden
	case errors.Is(err, e.ErrModalClosed):
		return http.StatusConflict
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, e.ErrSubmit):
		return http.StatusBadGateway
	case errors.Is(err, e.ErrDeadline):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}
