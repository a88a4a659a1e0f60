package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/collection-insights/internal/command"
)

type pdftotextSource struct {
	bin    string
	runner command.Runner
}

func (s pdftotextSource) pages(ctx context.Context, path string) ([]string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := s.runner.Run(ctx, nil, s.bin, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w: %s", err, command.Truncate(strings.TrimSpace(string(errb)), 512))
	}
	return splitPages(string(out)), nil
}

// splitPages splits pdftotext output on form feeds. pdftotext terminates every
// page with \f, so the segment after the last one is not a page.
func splitPages(text string) []string {
	if text == "" {
		return nil
	}
	pages := strings.Split(text, "\f")
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}
