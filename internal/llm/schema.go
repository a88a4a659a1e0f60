package llm

// BuildResponseJSONSchema returns the JSON-Schema (draft 2020-12 subset) the
// model is asked to follow. It is used for an advisory check only: the parser
// accepts payloads that fail it.
func BuildResponseJSONSchema() map[string]any {
	section := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"section_title":   map[string]any{"type": "string"},
			"importance_rank": map[string]any{"type": "number"},
			"page_number":     map[string]any{"type": "number"},
		},
		"required": []string{"section_title", "importance_rank"},
	}
	subsection := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"refined_text": map[string]any{"type": "string"},
			"page_number":  map[string]any{"type": "number"},
		},
		"required": []string{"refined_text"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sections":    map[string]any{"type": "array", "items": section},
			"subsections": map[string]any{"type": "array", "items": subsection},
		},
		"required": []string{"sections", "subsections"},
	}
}

// BuildCollectionInputJSONSchema describes challenge1b_input.json. Extra keys
// (challenge_info and the like) are allowed.
func BuildCollectionInputJSONSchema() map[string]any {
	str := map[string]any{"type": "string"}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"persona": map[string]any{
				"type":       "object",
				"properties": map[string]any{"role": str},
				"required":   []string{"role"},
			},
			"job_to_be_done": map[string]any{
				"type":       "object",
				"properties": map[string]any{"task": str},
				"required":   []string{"task"},
			},
			"documents": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":       "object",
					"properties": map[string]any{"filename": str},
					"required":   []string{"filename"},
				},
			},
		},
		"required": []string{"persona", "job_to_be_done", "documents"},
	}
}
