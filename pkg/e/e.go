package e

import (
	"context"
	"errors"
	"fmt"
)

func Wrap(message string, err error) error {
	return fmt.Errorf("%s: %w", message, err)
}

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternal            = errors.New("internal error")
	ErrDeadline            = errors.New("deadline exceeded")
	ErrCanceled            = errors.New("context canceled")
	ErrSubmit              = errors.New("submit failed")
	ErrSubmitDisabled      = errors.New("submit is disabled")
	ErrSubmitInFlight      = errors.New("submit already in flight")
	ErrReservationDisabled = errors.New("reservation selection is disabled")
	ErrDecode              = errors.New("file decode failed")
	ErrStaleSelection      = errors.New("file selection superseded")
	ErrModalClosed         = errors.New("modal is closed")
)

// WrapError tags err with op and folds context errors into ErrDeadline/ErrCanceled.
// Anything else keeps its own chain.
func WrapError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, ErrDeadline, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %w", op, ErrCanceled, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
