package reporter

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/splitleasesharath/emergency-report/internal/domain"
	"github.com/splitleasesharath/emergency-report/pkg/e"
)

const (
	FieldReservationID = "reservationId"
	FieldEmergencyType = "emergencyType"
	FieldDescription   = "description"
)

// PhotoField is the form key of the i-th photo, 0-based in, 1-based out.
func PhotoField(i int) string {
	return fmt.Sprintf("photo%d", i+1)
}

// EncodeMultipart serializes r into a multipart/form-data body and returns it with
// the matching Content-Type header value.
func EncodeMultipart(r domain.EmergencyReport) (*bytes.Buffer, string, error) {
	const op = "reporter.EncodeMultipart"

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	fields := [][2]string{
		{FieldReservationID, r.ReservationID},
		{FieldEmergencyType, string(r.EmergencyType)},
		{FieldDescription, r.Description},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", e.Wrap(op, err)
		}
	}

	for i, photo := range r.Photos {
		if err := writePhoto(w, PhotoField(i), photo); err != nil {
			return nil, "", e.Wrap(op, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", e.Wrap(op, err)
	}
	return body, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writePhoto(w *multipart.Writer, field string, photo domain.File) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(photo.Name())))
	h.Set("Content-Type", domain.ResolveContentType(photo))

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}

	rc, err := photo.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", photo.Name(), err)
	}
	defer rc.Close()

	_, err = io.Copy(part, rc)
	return err
}
