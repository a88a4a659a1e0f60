package llm

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const maxLoggedRaw = 64 << 10

// Parser turns raw model output into a ModelResult. It never fails: anything
// it cannot use degrades to EmptyResult().
type Parser struct {
	logger *slog.Logger
	schema *jsonschema.Schema // nil disables the advisory check
}

func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Parser{logger: logger}
	schema, err := CompileSchema("response.json", BuildResponseJSONSchema())
	if err != nil {
		logger.Warn("llm.parse.schema_unavailable", "error", err)
	} else {
		p.schema = schema
	}
	return p
}

// ExtractJSONObject returns the span from the first '{' to the last '}'.
// Braces inside string values are not understood: stray braces in prose around
// the object widen or shift the span, and the decode then fails.
func ExtractJSONObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

// Parse decodes raw for the given 1-based page. Fields the model supplied are
// kept as written; page is the default for any record with no page_number key.
func (p *Parser) Parse(raw string, page int) ParseResult {
	span, ok := ExtractJSONObject(raw)
	if !ok {
		p.logger.Warn("llm.parse.no_json_object",
			"page", page,
			"raw", truncate(raw, maxLoggedRaw),
		)
		return ParseResult{Result: EmptyResult(), Reason: ReasonNoJSONObject}
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &doc); err != nil || doc == nil {
		p.logger.Warn("llm.parse.invalid_json",
			"page", page,
			"error", err,
			"raw", truncate(raw, maxLoggedRaw),
		)
		return ParseResult{Result: EmptyResult(), Reason: ReasonInvalidJSON}
	}

	if p.schema != nil {
		if err := ValidateJSON(p.schema, []byte(span)); err != nil {
			p.logger.Warn("llm.parse.schema_mismatch", "page", page, "error", err)
		}
	}

	defPage := NumberValue(page)
	out := EmptyResult()
	for _, rec := range records(doc["sections"]) {
		out.Sections = append(out.Sections, Section{
			SectionTitle:   field(rec, "section_title", StringValue("")),
			ImportanceRank: field(rec, "importance_rank", NumberValue(0)),
			PageNumber:     field(rec, "page_number", defPage),
		})
	}
	for _, rec := range records(doc["subsections"]) {
		out.Subsections = append(out.Subsections, Subsection{
			RefinedText: field(rec, "refined_text", StringValue("")),
			PageNumber:  field(rec, "page_number", defPage),
		})
	}
	return ParseResult{Result: out, OK: true}
}

// records decodes a JSON array of objects, skipping elements that are not
// objects. Anything other than an array yields nil.
func records(raw json.RawMessage) []map[string]json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]map[string]json.RawMessage, 0, len(items))
	for _, item := range items {
		var rec map[string]json.RawMessage
		if err := json.Unmarshal(item, &rec); err != nil || rec == nil {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// field returns rec[key] verbatim, null included. Only an absent key gives def.
func field(rec map[string]json.RawMessage, key string, def Value) Value {
	raw, ok := rec[key]
	if !ok {
		return def
	}
	var v Value
	if err := v.UnmarshalJSON(raw); err != nil {
		return def
	}
	return v
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
