package llm

import (
	"context"
	"time"
)

// Section is a titled region of a page ranked by the model.
type Section struct {
	SectionTitle   Value `json:"section_title"`
	ImportanceRank Value `json:"importance_rank"`
	PageNumber     Value `json:"page_number"`
}

// Subsection is a refined excerpt the model produced for a page.
type Subsection struct {
	RefinedText Value `json:"refined_text"`
	PageNumber  Value `json:"page_number"`
}

// ModelResult is the normalized shape we want from the model for one page.
type ModelResult struct {
	Sections    []Section    `json:"sections"`
	Subsections []Subsection `json:"subsections"`
}

// EmptyResult has non-nil, empty lists so it encodes as [] rather than null.
func EmptyResult() ModelResult {
	return ModelResult{Sections: []Section{}, Subsections: []Subsection{}}
}

// Outcome is the result of one model invocation. A failed invocation carries
// the cause in Err and an empty Output; it is never returned as an error value.
type Outcome struct {
	Output    string
	Err       error
	RequestID string
	Duration  time.Duration
}

func (o Outcome) Failed() bool { return o.Err != nil }

// ParseResult is the result of decoding raw model output. When OK is false,
// Result is EmptyResult() and Reason says why.
type ParseResult struct {
	Result ModelResult
	OK     bool
	Reason string
}

// Parse failure reasons.
const (
	ReasonNoJSONObject = "no_json_object"
	ReasonInvalidJSON  = "invalid_json"
)

// Invoker is the interface the pipeline depends on to reach the model.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) Outcome
}
