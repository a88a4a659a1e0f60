package llm

import (
	"strings"
	"testing"
)

func TestBuildPromptEmbedsInputsVerbatim(t *testing.T) {
	page := "Day 1: Nice\n  - Old town walk {guided}"
	persona := "Travel Planner"
	task := "Plan a trip of 4 days for a group of 10 college friends."

	got := BuildPrompt(page, persona, task)

	for _, want := range []string{
		"Persona: " + persona,
		"Task: " + task,
		"PDF Page Content:\n" + page,
		`"sections"`,
		`"subsections"`,
		`"section_title"`,
		`"importance_rank"`,
		`"page_number"`,
		`"refined_text"`,
		"ONLY JSON, no explanations or markdown",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	a := BuildPrompt("text", "p", "t")
	b := BuildPrompt("text", "p", "t")
	if a != b {
		t.Error("BuildPrompt is not deterministic")
	}
	if BuildPrompt("other", "p", "t") == a {
		t.Error("page text not reflected in prompt")
	}
}
