// Package form owns the state of one emergency report form from mount to submit.
package form

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/splitleasesharath/emergency-report/internal/domain"
	"github.com/splitleasesharath/emergency-report/internal/schema"
	"github.com/splitleasesharath/emergency-report/internal/uploader"
	"github.com/splitleasesharath/emergency-report/pkg/e"
)

//go:generate mockgen -source=form.go -destination=mocks/mock.go
type Submitter interface {
	Submit(ctx context.Context, report domain.EmergencyReport) error
}

// SubmitFunc adapts a plain function to Submitter.
type SubmitFunc func(ctx context.Context, report domain.EmergencyReport) error

func (f SubmitFunc) Submit(ctx context.Context, report domain.EmergencyReport) error {
	return f(ctx, report)
}

type Props struct {
	Bookings        []domain.Booking
	IsAuthenticated bool
	OnSubmit        Submitter
	Logger          *slog.Logger
	// Decoder overrides the uploaders' file decoder.
	Decoder uploader.DecodeFunc
}

type Form struct {
	id       uuid.UUID
	logger   *slog.Logger
	onSubmit Submitter
	bookings []domain.Booking
	photo1   *uploader.Uploader
	photo2   *uploader.Uploader

	mu            sync.Mutex
	authenticated bool
	data          domain.EmergencyFormData
	errors        schema.FieldErrors
	attempted     bool
	submitting    bool
}

func New(p Props) *Form {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	f := &Form{
		id:            uuid.New(),
		onSubmit:      p.OnSubmit,
		bookings:      append([]domain.Booking(nil), p.Bookings...),
		authenticated: p.IsAuthenticated,
		errors:        schema.FieldErrors{},
	}
	f.logger = logger.With(slog.String("form_id", f.id.String()))

	opts := []uploader.Option{uploader.WithLogger(f.logger)}
	if p.Decoder != nil {
		opts = append(opts, uploader.WithDecoder(p.Decoder))
	}
	f.photo1 = uploader.New("Photo 1", func(file domain.File) { f.setPhoto(schema.FieldPhoto1, file) }, opts...)
	f.photo2 = uploader.New("Photo 2", func(file domain.File) { f.setPhoto(schema.FieldPhoto2, file) }, opts...)
	return f
}

func (f *Form) ID() uuid.UUID { return f.id }

func (f *Form) Photo1() *uploader.Uploader { return f.photo1 }
func (f *Form) Photo2() *uploader.Uploader { return f.photo2 }

// Photo returns the uploader for slot 1 or 2.
func (f *Form) Photo(slot int) (*uploader.Uploader, error) {
	switch slot {
	case 1:
		return f.photo1, nil
	case 2:
		return f.photo2, nil
	}
	return nil, e.Wrap("form.Photo", e.ErrInvalidInput)
}

func (f *Form) SetAuthenticated(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authenticated = v
}

// SelectReservation picks one of the host's bookings by ID.
func (f *Form) SelectReservation(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.authenticated {
		return e.ErrReservationDisabled
	}
	b, ok := domain.FindBooking(f.bookings, id)
	if !ok {
		return e.Wrap("form.SelectReservation "+id, e.ErrNotFound)
	}
	f.data.Reservation = &b
	f.revalidate(schema.FieldReservation)
	return nil
}

func (f *Form) SetEmergencyType(t domain.EmergencyType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data.EmergencyType = t
	f.revalidate(schema.FieldEmergencyType)
}

func (f *Form) SetDescription(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data.Description = s
	f.revalidate(schema.FieldDescription)
}

func (f *Form) setPhoto(field string, file domain.File) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if field == schema.FieldPhoto1 {
		f.data.Photo1 = file
	} else {
		f.data.Photo2 = file
	}
	f.revalidate(field)
}

// revalidate refreshes the error of one field once a submit has been attempted.
// Must be called with mu held.
func (f *Form) revalidate(field string) {
	if !f.attempted {
		return
	}
	if msg := schema.ValidateField(f.data, field); msg != "" {
		f.errors[field] = msg
		return
	}
	delete(f.errors, field)
}

func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canSubmit()
}

func (f *Form) canSubmit() bool {
	return f.authenticated && !f.submitting
}

// Submit validates the form and hands the report to OnSubmit. A disabled form returns
// e.ErrSubmitDisabled, an invalid one schema.FieldErrors; in both cases OnSubmit is
// not called. The error of OnSubmit is returned as is. A successful submit clears
// the form.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if !f.canSubmit() {
		f.mu.Unlock()
		f.logger.Warn("submit ignored: form disabled")
		return e.ErrSubmitDisabled
	}
	if f.onSubmit == nil {
		f.mu.Unlock()
		return e.Wrap("form.Submit: no submit handler", e.ErrInternal)
	}

	f.attempted = true
	valid, err := schema.Validate(f.data)
	if err != nil {
		var fe schema.FieldErrors
		if errors.As(err, &fe) {
			f.errors = fe
		}
		f.mu.Unlock()
		f.logger.Info("submit blocked by validation", slog.Any("error", err))
		return err
	}
	f.errors = schema.FieldErrors{}
	f.submitting = true
	report := valid.Report()
	f.mu.Unlock()

	f.logger.Info("submitting report",
		slog.String("reservation_id", report.ReservationID),
		slog.String("emergency_type", string(report.EmergencyType)),
		slog.Int("photos", len(report.Photos)),
	)

	if err := f.submit(ctx, report); err != nil {
		f.logger.Warn("submit failed", slog.Any("error", err))
		return err
	}

	f.Reset()
	return nil
}

// submit runs OnSubmit and clears submitting on every path, panics included.
func (f *Form) submit(ctx context.Context, report domain.EmergencyReport) error {
	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()
	return f.onSubmit.Submit(ctx, report)
}

// Reset returns the form to its mounted state. Bookings and authentication stay.
func (f *Form) Reset() {
	f.mu.Lock()
	f.data = domain.EmergencyFormData{}
	f.errors = schema.FieldErrors{}
	f.attempted = false
	f.mu.Unlock()

	f.photo1.Reset()
	f.photo2.Reset()
}

// Data returns a copy of the current field values.
func (f *Form) Data() domain.EmergencyFormData {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.data
	if d.Reservation != nil {
		b := *d.Reservation
		d.Reservation = &b
	}
	return d
}

// View is everything needed to render the form.
type View struct {
	ID                   string
	ShowLoggedOutHint    bool
	Reservation          *domain.Booking
	ReservationLabel     string
	ReservationOptions   []ReservationOption
	ReservationDisabled  bool
	EmergencyType        domain.EmergencyType
	EmergencyTypeOptions []domain.EmergencyTypeOption
	Description          string
	Photo1               uploader.State
	Photo2               uploader.State
	Errors               map[string]string
	Submitting           bool
	SubmitDisabled       bool
}

func (f *Form) View() View {
	f.mu.Lock()
	errs := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		errs[k] = v
	}
	v := View{
		ID:                   f.id.String(),
		ShowLoggedOutHint:    !f.authenticated,
		Reservation:          f.data.Reservation,
		ReservationLabel:     ReservationLabel(f.data.Reservation),
		ReservationOptions:   ReservationOptions(f.bookings, f.data.Reservation),
		ReservationDisabled:  !f.authenticated,
		EmergencyType:        f.data.EmergencyType,
		EmergencyTypeOptions: domain.EmergencyTypeOptions(),
		Description:          f.data.Description,
		Errors:               errs,
		Submitting:           f.submitting,
		SubmitDisabled:       !f.canSubmit(),
	}
	f.mu.Unlock()

	v.Photo1 = f.photo1.State()
	v.Photo2 = f.photo2.State()
	return v
}
