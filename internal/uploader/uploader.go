// Package uploader turns a picked file into a previewable data URL and hands the raw
// file to its owner.
package uploader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/splitleasesharath/emergency-report/internal/domain"
	"github.com/splitleasesharath/emergency-report/pkg/e"
)

type DecodeFunc func(ctx context.Context, f domain.File) (string, error)

// Preview is the outcome of a successful selection.
type Preview struct {
	DataURL string
	File    domain.File
}

// State is a snapshot of one uploader.
type State struct {
	Label   string
	Loading bool
	Preview string
	File    domain.File
	Err     string
}

type Uploader struct {
	label        string
	onFileSelect func(domain.File)
	decode       DecodeFunc
	logger       *slog.Logger

	// cbMu orders callbacks so a superseded selection never reports after its
	// successor.
	cbMu sync.Mutex

	mu      sync.Mutex
	token   uint64
	loading bool
	preview string
	file    domain.File
	errMsg  string
}

type Option func(*Uploader)

func WithDecoder(d DecodeFunc) Option {
	return func(u *Uploader) { u.decode = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(u *Uploader) { u.logger = l }
}

func New(label string, onFileSelect func(domain.File), opts ...Option) *Uploader {
	u := &Uploader{
		label:        label,
		onFileSelect: onFileSelect,
		decode:       DecodeDataURL,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *Uploader) Label() string { return u.label }

// Select stages f. The call blocks for the decode; the latest Select always wins and
// an older one that finishes late returns e.ErrStaleSelection without touching state.
// On decode failure the uploader is left empty with the error message kept for display.
func (u *Uploader) Select(ctx context.Context, f domain.File) (Preview, error) {
	if !domain.Present(f) {
		return Preview{}, e.Wrap("uploader.Select", e.ErrInvalidInput)
	}

	u.mu.Lock()
	u.token++
	token := u.token
	u.loading = true
	u.errMsg = ""
	u.mu.Unlock()

	dataURL, err := u.decode(ctx, f)

	u.mu.Lock()
	if token != u.token {
		u.mu.Unlock()
		u.logger.Debug("stale decode discarded",
			slog.String("label", u.label),
			slog.String("file", f.Name()),
		)
		return Preview{}, e.ErrStaleSelection
	}
	u.loading = false
	if err != nil {
		u.preview = ""
		u.file = nil
		u.errMsg = "Could not read " + f.Name()
		u.mu.Unlock()
		u.logger.Warn("decode failed",
			slog.String("label", u.label),
			slog.String("file", f.Name()),
			slog.Any("error", err),
		)
		return Preview{}, e.WrapError(ctx, "uploader.Select", fmt.Errorf("%w: %w", e.ErrDecode, err))
	}
	u.preview = dataURL
	u.file = f
	u.mu.Unlock()

	u.cbMu.Lock()
	defer u.cbMu.Unlock()
	if !u.current(token) {
		return Preview{}, e.ErrStaleSelection
	}
	if u.onFileSelect != nil {
		u.onFileSelect(f)
	}
	return Preview{DataURL: dataURL, File: f}, nil
}

func (u *Uploader) current(token uint64) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return token == u.token
}

// Reset drops the staged file and invalidates any decode in flight.
func (u *Uploader) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.token++
	u.loading = false
	u.preview = ""
	u.file = nil
	u.errMsg = ""
}

func (u *Uploader) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return State{
		Label:   u.label,
		Loading: u.loading,
		Preview: u.preview,
		File:    u.file,
		Err:     u.errMsg,
	}
}
