package pdf

import (
	"context"
	"fmt"
	"log/slog"

	lpdf "github.com/ledongthuc/pdf"
)

type nativeSource struct {
	logger *slog.Logger
}

func (s nativeSource) pages(ctx context.Context, path string) ([]string, error) {
	f, r, err := lpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	n := r.NumPage()
	out := make([]string, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := pageText(r, i)
		if err != nil {
			s.logger.Warn("pdf.page.unreadable", "path", path, "page", i, "error", err)
			continue
		}
		out[i-1] = text
	}
	return out, nil
}

// pageText reads one page. The library panics on some malformed content
// streams; that is reported as an error for the page only.
func pageText(r *lpdf.Reader, i int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("page %d: panic: %v", i, rec)
		}
	}()
	p := r.Page(i)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}
