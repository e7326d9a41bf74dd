package uploader

import (
	"context"
	"encoding/base64"
	"io"
	"strings"

	"github.com/splitleasesharath/emergency-report/internal/domain"
)

// DecodeDataURL reads f and renders it as "data:<mime>;base64,<payload>".
func DecodeDataURL(ctx context.Context, f domain.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var b strings.Builder
	b.WriteString("data:")
	b.WriteString(domain.ResolveContentType(f))
	b.WriteString(";base64,")

	enc := base64.NewEncoder(base64.StdEncoding, &b)
	if _, err := io.Copy(enc, ctxReader{ctx: ctx, r: rc}); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return b.String(), nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
