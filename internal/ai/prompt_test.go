package ai

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestUserPrompt(t *testing.T) {
	p := userPrompt(Request{
		Course: "Reinforcement Learning",
		Title:  "Bellman Equations",
		Body:   "V(s) = max_a Q(s,a)",
	})
	assert.Contains(t, p, "Course: Reinforcement Learning")
	assert.Contains(t, p, "Slide title (if any): Bellman Equations")
	assert.Contains(t, p, "V(s) = max_a Q(s,a)")
}

func TestUserPrompt_Fallbacks(t *testing.T) {
	p := userPrompt(Request{})
	assert.Contains(t, p, "Course: (unspecified)")
	assert.Contains(t, p, "(no text detected)")
}

func TestUserPrompt_TruncatesLongFields(t *testing.T) {
	long := strings.Repeat("x", 500)
	p := userPrompt(Request{Course: long, Title: long, Body: "body"})
	assert.NotContains(t, p, strings.Repeat("x", maxPromptField+1))
}

func TestUserPrompt_TruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("ü", 500)
	p := userPrompt(Request{Course: long, Title: long, Body: "body"})
	assert.True(t, utf8.ValidString(p), "truncation must not split a rune")
	assert.Contains(t, p, "Course: "+strings.Repeat("ü", maxPromptField)+"\n")
	assert.NotContains(t, p, strings.Repeat("ü", maxPromptField+1))
}

func TestFormatNote_BoldsHeaders(t *testing.T) {
	in := "Explanation: The slide shows a policy.\nIntuition: Policies map states to actions.\nConnections: Builds on MDPs."
	out := FormatNote(in)
	assert.Contains(t, out, "**Explanation:**\n")
	assert.Contains(t, out, "**Intuition:**\n")
	assert.Contains(t, out, "**Connections:**\n")
}

func TestFormatNote_OnlyAtLineStart(t *testing.T) {
	in := "Some text mentioning Intuition: inline stays untouched.\nIntuition: but this is a header."
	out := FormatNote(in)
	assert.Contains(t, out, "mentioning Intuition: inline")
	// only the header itself is rewritten; the text after the colon keeps
	// its leading space
	assert.Contains(t, out, "**Intuition:**\n but this is a header.")
}

func TestFormatNote_NormalizesWhitespace(t *testing.T) {
	out := FormatNote("  body with nbsp  ")
	assert.Equal(t, "body with nbsp", out)
}
