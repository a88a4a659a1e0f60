package llm

import "testing"

func TestCollectionInputSchema(t *testing.T) {
	schema, err := CompileSchema("input.json", BuildCollectionInputJSONSchema())
	if err != nil {
		t.Fatalf("CompileSchema: %v", err)
	}

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "valid with extra keys",
			doc: `{"challenge_info":{"challenge_id":"round_1b_002"},
				"persona":{"role":"Travel Planner"},
				"job_to_be_done":{"task":"Plan a trip"},
				"documents":[{"filename":"a.pdf","title":"A"}]}`,
		},
		{name: "no documents is fine", doc: `{"persona":{"role":"r"},"job_to_be_done":{"task":"t"},"documents":[]}`},
		{name: "missing persona", doc: `{"job_to_be_done":{"task":"t"},"documents":[]}`, wantErr: true},
		{name: "role not a string", doc: `{"persona":{"role":3},"job_to_be_done":{"task":"t"},"documents":[]}`, wantErr: true},
		{name: "empty strings are accepted", doc: `{"persona":{"role":""},"job_to_be_done":{"task":""},"documents":[{"filename":""}]}`},
		{name: "task not a string", doc: `{"persona":{"role":"r"},"job_to_be_done":{"task":null},"documents":[]}`, wantErr: true},
		{name: "document without filename", doc: `{"persona":{"role":"r"},"job_to_be_done":{"task":"t"},"documents":[{"title":"x"}]}`, wantErr: true},
		{name: "not json", doc: `{persona`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(schema, []byte(tt.doc))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResponseSchemaIsAdvisory(t *testing.T) {
	schema, err := CompileSchema("response.json", BuildResponseJSONSchema())
	if err != nil {
		t.Fatalf("CompileSchema: %v", err)
	}
	ok := `{"sections":[{"section_title":"A","importance_rank":1,"page_number":1}],"subsections":[]}`
	if err := ValidateJSON(schema, []byte(ok)); err != nil {
		t.Errorf("valid response rejected: %v", err)
	}

	bad := `{"sections":[{"importance_rank":"high"}]}`
	if err := ValidateJSON(schema, []byte(bad)); err == nil {
		t.Error("schema should flag a malformed response")
	}
	// the parser still accepts it
	res := newTestParser().Parse(bad, 1)
	if !res.OK || len(res.Result.Sections) != 1 {
		t.Errorf("parser rejected a schema-mismatched payload: %+v", res)
	}
}
