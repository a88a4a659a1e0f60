package llm

import "strings"

// BuildPrompt composes the per-page instruction. Persona, task and page text
// are embedded verbatim. The response contract is spelled out because the
// parser only recovers the outermost {...} span of whatever comes back.
func BuildPrompt(pageText, persona, task string) string {
	var b strings.Builder
	b.WriteString("You are an expert assistant. Given the following persona and task, analyze the PDF page content.\n\n")
	b.WriteString("Persona: ")
	b.WriteString(persona)
	b.WriteString("\nTask: ")
	b.WriteString(task)
	b.WriteString("\n\nPDF Page Content:\n")
	b.WriteString(pageText)
	b.WriteString("\n\n")
	b.WriteString("Return strictly valid JSON with two fields:\n")
	b.WriteString(`1. "sections": list of objects (with "section_title", "importance_rank", "page_number")`)
	b.WriteString("\n")
	b.WriteString(`2. "subsections": list of objects (with "refined_text", "page_number")`)
	b.WriteString("\n\n")
	b.WriteString("ONLY JSON, no explanations or markdown. Do not wrap the JSON in code fences.")
	return b.String()
}
