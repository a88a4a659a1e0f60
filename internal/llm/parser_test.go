package llm

import (
	"encoding/json"
	"io"
	"log/slog"
	"reflect"
	"testing"
)

func newTestParser() *Parser {
	return NewParser(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestParseValidResponseUnchanged(t *testing.T) {
	raw := `{"sections":[{"section_title":"Intro","importance_rank":1,"page_number":1},` +
		`{"section_title":"Budget","importance_rank":2.5,"page_number":7}],` +
		`"subsections":[{"refined_text":"overview","page_number":1}]}`

	res := newTestParser().Parse(raw, 3)

	if !res.OK {
		t.Fatalf("Parse() not OK, reason %q", res.Reason)
	}
	want := ModelResult{
		Sections: []Section{
			{SectionTitle: `"Intro"`, ImportanceRank: "1", PageNumber: "1"},
			{SectionTitle: `"Budget"`, ImportanceRank: "2.5", PageNumber: "7"},
		},
		Subsections: []Subsection{{RefinedText: `"overview"`, PageNumber: "1"}},
	}
	if !reflect.DeepEqual(res.Result, want) {
		t.Errorf("Parse() = %+v, want %+v", res.Result, want)
	}
}

func TestParseEmptyOnFailure(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason string
	}{
		{name: "empty output", raw: "", reason: ReasonNoJSONObject},
		{name: "prose only", raw: "I could not find anything relevant.", reason: ReasonNoJSONObject},
		{name: "only opening brace", raw: "{ oops", reason: ReasonNoJSONObject},
		{name: "closing before opening", raw: "} then {", reason: ReasonNoJSONObject},
		{name: "malformed object", raw: `{"sections": [ {"section_title": "x", }`, reason: ReasonInvalidJSON},
		{name: "two objects", raw: `{"sections":[]} and {"subsections":[]}`, reason: ReasonInvalidJSON},
		{name: "brace inside trailing prose", raw: `{"sections":[]} note: use {curly} braces`, reason: ReasonInvalidJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestParser().Parse(tt.raw, 1)

			if res.OK {
				t.Fatal("Parse() reported OK")
			}
			if res.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", res.Reason, tt.reason)
			}
			if res.Result.Sections == nil || res.Result.Subsections == nil {
				t.Fatal("empty result must have non-nil lists")
			}
			if len(res.Result.Sections) != 0 || len(res.Result.Subsections) != 0 {
				t.Errorf("expected empty result, got %+v", res.Result)
			}
		})
	}
}

func TestParseFieldDefaults(t *testing.T) {
	raw := "Sure! Here is the JSON:\n```json\n" +
		`{"sections":[{}, "not an object", {"section_title": "Tips"}],` +
		`"subsections":[{"refined_text": "kept"}]}` +
		"\n```"

	res := newTestParser().Parse(raw, 4)

	if !res.OK {
		t.Fatalf("Parse() not OK, reason %q", res.Reason)
	}
	wantSections := []Section{
		{SectionTitle: `""`, ImportanceRank: "0", PageNumber: "4"},
		{SectionTitle: `"Tips"`, ImportanceRank: "0", PageNumber: "4"},
	}
	if !reflect.DeepEqual(res.Result.Sections, wantSections) {
		t.Errorf("Sections = %+v, want %+v", res.Result.Sections, wantSections)
	}
	wantSubs := []Subsection{{RefinedText: `"kept"`, PageNumber: "4"}}
	if !reflect.DeepEqual(res.Result.Subsections, wantSubs) {
		t.Errorf("Subsections = %+v, want %+v", res.Result.Subsections, wantSubs)
	}
}

func TestParseKeepsPresentFieldsVerbatim(t *testing.T) {
	raw := `{"sections":[{"section_title":42,"importance_rank":"high","page_number":"p3"},` +
		`{"section_title":"A","importance_rank":"3","page_number":"3"}],` +
		`"subsections":[{"refined_text":7,"page_number":null},{"refined_text":["a", "b"],"page_number":{"n": 1}}]}`

	res := newTestParser().Parse(raw, 9)
	if !res.OK {
		t.Fatalf("Parse() not OK, reason %q", res.Reason)
	}

	b, err := json.Marshal(res.Result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"sections":[{"section_title":42,"importance_rank":"high","page_number":"p3"},` +
		`{"section_title":"A","importance_rank":"3","page_number":"3"}],` +
		`"subsections":[{"refined_text":7,"page_number":null},{"refined_text":["a","b"],"page_number":{"n":1}}]}`
	if string(b) != want {
		t.Errorf("encoded = %s\nwant      %s", b, want)
	}
}

func TestParseModelPageNumberTrusted(t *testing.T) {
	res := newTestParser().Parse(`{"sections":[{"section_title":"A","importance_rank":1,"page_number":99}],"subsections":[]}`, 2)

	if got := res.Result.Sections[0].PageNumber; got != "99" {
		t.Errorf("PageNumber = %q, want model value 99", got)
	}
}

func TestParseMissingOrWrongKeys(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "no keys", raw: `{}`},
		{name: "sections not a list", raw: `{"sections": {"section_title": "A"}, "subsections": "none"}`},
		{name: "null lists", raw: `{"sections": null, "subsections": null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestParser().Parse(tt.raw, 1)
			if !res.OK {
				t.Fatalf("Parse() not OK: %q", res.Reason)
			}
			if len(res.Result.Sections) != 0 || len(res.Result.Subsections) != 0 {
				t.Errorf("expected no entries, got %+v", res.Result)
			}
		})
	}
}

func TestParsedResultEncodesNumbersVerbatim(t *testing.T) {
	res := newTestParser().Parse(`{"sections":[{"section_title":"A","importance_rank":1.50,"page_number":2}],"subsections":[]}`, 1)

	b, err := json.Marshal(res.Result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"sections":[{"section_title":"A","importance_rank":1.50,"page_number":2}],"subsections":[]}`
	if string(b) != want {
		t.Errorf("encoded = %s, want %s", b, want)
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{raw: `noise {"a":1} noise`, want: `{"a":1}`, wantOK: true},
		{raw: `{"a":{"b":2}}`, want: `{"a":{"b":2}}`, wantOK: true},
		{raw: `no braces`, wantOK: false},
		{raw: `}{`, wantOK: false},
	}
	for _, tt := range tests {
		got, ok := ExtractJSONObject(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ExtractJSONObject(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}
