package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/collection-insights/constants"
)

// CollectionRun represents one processing attempt of a collection directory.
type CollectionRun struct {
	ID           uuid.UUID           `json:"id"`
	Collection   string              `json:"collection"`
	StartedAt    time.Time           `json:"started_at"`
	FinishedAt   *time.Time          `json:"finished_at,omitempty"`
	Status       constants.RunStatus `json:"status"`
	Documents    int                 `json:"documents"`
	PagesInvoked int                 `json:"pages_invoked"`
	Sections     int                 `json:"sections"`
	Subsections  int                 `json:"subsections"`
	Error        *string             `json:"error,omitempty"`
}
