package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/collection-insights/constants"
)

// PageInvocation records a single model call for one page of a document.
type PageInvocation struct {
	ID          uuid.UUID            `json:"id"`
	RunID       uuid.UUID            `json:"run_id"`
	Document    string               `json:"document"`
	PageNumber  int                  `json:"page_number"`
	Status      constants.PageStatus `json:"status"`
	DurationMS  int64                `json:"duration_ms"`
	OutputBytes int                  `json:"output_bytes"`
	Sections    int                  `json:"sections"`
	Subsections int                  `json:"subsections"`
	CreatedAt   time.Time            `json:"created_at"`
}
