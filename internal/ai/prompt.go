package ai

import (
	"fmt"
	"regexp"
	"strings"
)

const systemPrompt = `You are a teaching assistant that generates concise, well-structured annotations for lecture slides.
Use plain text plus LaTeX-style math delimiters ($...$ for inline, $$...$$ for display). No LaTeX packages, no environments.
Sections with exact headers and order, each 2-4 sentences:

Explanation: (Explain what the slide shows in simple, accessible language. Avoid jargon.)
Equation breakdown: (If there are formulas, rewrite them using LaTeX and explain every symbol and operation. Skip this section if no formulas appear.)
Intuition: (Explain the core idea - why it matters and how to think about it.)
Mental checkpoint: (Explain where we are in the lecture flow and how this connects to the broader topic.)
Connections: (Describe how this concept links to past or upcoming topics.)

Keep it compact and didactic.`

const maxPromptField = 120

func userPrompt(req Request) string {
	course := truncate(req.Course, maxPromptField)
	if course == "" {
		course = "(unspecified)"
	}
	body := req.Body
	if strings.TrimSpace(body) == "" {
		body = "(no text detected)"
	}
	return fmt.Sprintf(`Course: %s

Slide title (if any): %s

Raw slide text:
%s

Write only the annotation content with the exact section headers above, using $...$ or $$...$$ for math.`,
		course, truncate(req.Title, maxPromptField), body)
}

// truncate limits s to n characters, never splitting a multi-byte rune.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// sectionHeaders are the labels the prompt asks for, in order.
var sectionHeaders = []string{
	"Title:",
	"Explanation:",
	"Equation breakdown:",
	"Intuition:",
	"Mental checkpoint:",
	"Connections:",
}

// FormatNote normalizes a raw model response for caching and rendering:
// trims it, replaces non-breaking spaces, and bolds the known section
// headers so they stand out once typeset.
func FormatNote(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", " ")
	for _, h := range sectionHeaders {
		label := strings.TrimSuffix(h, ":")
		re := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(h))
		s = re.ReplaceAllString(s, "**"+label+":**\n")
	}
	return s
}
