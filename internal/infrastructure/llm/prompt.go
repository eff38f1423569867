package llm

import (
	"fmt"
	"strings"

	"AirworthinessDigest/internal/domain"
)

// PromptBuilder renders candidates into the user prompt.
type PromptBuilder struct {
	Intro        string
	PrimaryLabel string
}

// Build lists every candidate, tagging primary-source ones so the model can rank them first.
func (b PromptBuilder) Build(candidates []domain.Candidate) string {
	var sb strings.Builder

	intro := strings.TrimSpace(b.Intro)
	if intro != "" {
		sb.WriteString(intro)
		sb.WriteString("\n\n")
	}

	for i, c := range candidates {
		header := fmt.Sprintf("Article %d", i+1)
		if c.IsPrimary && b.PrimaryLabel != "" {
			header += " " + b.PrimaryLabel
		}

		fmt.Fprintf(&sb, "%s\nTitle: %s\nSource: %s\nSummary: %s\n---\n",
			header,
			orDefault(c.Title, "No Title"),
			orDefault(c.Link, "#"),
			orDefault(c.Summary, "No summary"),
		)
	}

	return sb.String()
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
