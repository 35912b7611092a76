package report

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Markdown converts free-text answers to sanitised HTML.
type Markdown struct {
	converter goldmark.Markdown
	policy    *bluemonday.Policy
}

// NewMarkdown returns a converter with hard line breaks, GFM lists and
// links, and the bluemonday UGC policy applied to the output.
func NewMarkdown() *Markdown {
	return &Markdown{
		converter: goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts source and strips anything outside the policy.
func (m *Markdown) Render(source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := m.converter.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(m.policy.Sanitize(buf.String())), nil
}
