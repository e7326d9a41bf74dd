// Package emergency serves the demo page that hosts the emergency report modal.
package emergency

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	"github.com/splitleasesharath/emergency-report/internal/domain"
	"github.com/splitleasesharath/emergency-report/internal/form"
	"github.com/splitleasesharath/emergency-report/internal/render"
	"github.com/splitleasesharath/emergency-report/internal/reporter"
	"github.com/splitleasesharath/emergency-report/internal/schema"
	"github.com/splitleasesharath/emergency-report/internal/session"
	"github.com/splitleasesharath/emergency-report/pkg/e"
)

const (
	MsgSubmitted    = "Emergency report submitted successfully!"
	MsgSubmitFailed = "Failed to submit emergency report. Please try again."

	multipartMemory = 8 << 20
)

type Handler struct {
	logger         *slog.Logger
	renderer       *render.Renderer
	maxUploadBytes int64
}

func NewHandler(logger *slog.Logger, renderer *render.Renderer, maxUploadBytes int64) *Handler {
	return &Handler{
		logger:         logger,
		renderer:       renderer,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.renderPage(w, r, s, http.StatusOK, "")
}

func (h *Handler) ToggleAuth(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	v, err := strconv.ParseBool(r.PostFormValue("authenticated"))
	if err != nil {
		h.handleError(w, r, s, e.Wrap("authenticated", e.ErrInvalidInput))
		return
	}
	s.Modal.SetAuthenticated(v)
	h.log(r).Info("authentication toggled", slog.Bool("authenticated", v))
	redirectHome(w, r)
}

func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Modal.Open()
	redirectHome(w, r)
}

func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Modal.Close()
	redirectHome(w, r)
}

// Draft applies the posted fields and photos to the open form without submitting it.
func (h *Handler) Draft(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	f := s.Modal.Form()
	if f == nil {
		h.handleError(w, r, s, e.ErrModalClosed)
		return
	}
	if err := h.applyForm(w, r, f); err != nil {
		h.handleError(w, r, s, err)
		return
	}
	redirectHome(w, r)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	f := s.Modal.Form()
	if f == nil {
		h.handleError(w, r, s, e.ErrModalClosed)
		return
	}
	if err := h.applyForm(w, r, f); err != nil {
		h.handleError(w, r, s, err)
		return
	}

	err := s.Modal.Submit(r.Context())
	switch {
	case err == nil:
		s.Modal.Close()
		s.SetFlash(session.FlashSuccess, MsgSubmitted)
		h.log(r).Info("emergency report submitted")
		redirectHome(w, r)
	case errors.Is(err, e.ErrSubmit):
		s.SetFlash(session.FlashError, MsgSubmitFailed)
		h.log(r).Error("emergency report submission failed", slog.Any("error", err))
		h.renderPage(w, r, s, http.StatusBadGateway, submitMessage(s, err))
	default:
		h.handleError(w, r, s, err)
	}
}

// applyForm copies the request's fields onto f and runs both uploaders concurrently.
func (h *Handler) applyForm(w http.ResponseWriter, r *http.Request, f *form.Form) error {
	if err := h.parse(w, r); err != nil {
		return err
	}

	if id := r.PostFormValue("reservationId"); id != "" {
		if err := f.SelectReservation(id); err != nil && !errors.Is(err, e.ErrReservationDisabled) {
			return err
		}
	}
	if _, ok := r.PostForm["emergencyType"]; ok {
		f.SetEmergencyType(domain.EmergencyType(r.PostFormValue("emergencyType")))
	}
	if _, ok := r.PostForm["description"]; ok {
		f.SetDescription(r.PostFormValue("description"))
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for slot := 1; slot <= 2; slot++ {
		file, err := formFile(r, reporter.PhotoField(slot-1))
		if err != nil {
			return err
		}
		if file == nil {
			continue
		}
		u, err := f.Photo(slot)
		if err != nil {
			return err
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := u.Select(r.Context(), file); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return e.Wrap(fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit), errTooLarge)
	}
	if err != nil {
		return e.Wrap("parse form", e.ErrInvalidInput)
	}
	return nil
}

// formFile reads the named upload into memory. An absent or empty part yields nil.
func formFile(r *http.Request, field string) (domain.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 || headers[0].Size == 0 {
		return nil, nil
	}
	hdr := headers[0]

	src, err := hdr.Open()
	if err != nil {
		return nil, e.Wrap("open "+field, e.ErrInvalidInput)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, e.Wrap("read "+field, e.ErrInvalidInput)
	}
	return domain.NewMemoryFile(hdr.Filename, sniffContentType(hdr.Header.Get("Content-Type"), data), data), nil
}

// sniffContentType keeps a declared type unless it is missing or generic.
func sniffContentType(declared string, data []byte) string {
	if declared != "" && declared != domain.DefaultContentType {
		return declared
	}
	return mimetype.Detect(data).String()
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		h.log(r).Error("no session in request context")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
	return s, ok
}

func submitMessage(s *session.Session, err error) string {
	if s.Reports != nil {
		if msg := s.Reports.Err(); msg != "" {
			return msg
		}
	}
	var se *reporter.SubmitError
	if errors.As(err, &se) {
		return se.Message
	}
	return reporter.DefaultErrorMessage
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// fieldErrors reports whether err carries per-field validation messages.
func fieldErrors(err error) bool {
	var fe schema.FieldErrors
	return errors.As(err, &fe)
}
