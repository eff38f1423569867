package mail

import (
	"bytes"
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// Renderer turns the Markdown digest produced by the LLM into safe HTML.
type Renderer struct {
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewRenderer builds a renderer with the UGC sanitizing policy.
func NewRenderer() *Renderer {
	return &Renderer{
		markdown: goldmark.New(),
		policy:   bluemonday.UGCPolicy(),
	}
}

// HTML converts body from Markdown and strips anything outside the policy.
func (r *Renderer) HTML(body string) (string, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

// Subject formats "<prefix> - YYYY-MM-DD" for now in loc.
func Subject(prefix string, now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return fmt.Sprintf("%s - %s", prefix, now.In(loc).Format(time.DateOnly))
}
