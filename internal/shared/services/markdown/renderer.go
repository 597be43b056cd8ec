// Package markdown renders support correspondence written in markdown.
package markdown

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer turns comment and description text into safe HTML or plain text.
type Renderer interface {
	// ToHTML renders markdown and strips anything outside the user-generated-content policy.
	ToHTML(markdown string) (string, error)
	// ToPlainText renders markdown and strips all markup, for text email bodies.
	ToPlainText(markdown string) (string, error)
}

type renderer struct {
	md     goldmark.Markdown
	ugc    *bluemonday.Policy
	strict *bluemonday.Policy
}

func NewRenderer() Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithXHTML(),
		),
	)

	ugc := bluemonday.UGCPolicy()
	ugc.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")
	ugc.RequireNoFollowOnLinks(true)
	ugc.AddTargetBlankToFullyQualifiedLinks(true)

	return &renderer{
		md:     md,
		ugc:    ugc,
		strict: bluemonday.StrictPolicy(),
	}
}

func (r *renderer) convert(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return buf.String(), nil
}

func (r *renderer) ToHTML(markdown string) (string, error) {
	out, err := r.convert(markdown)
	if err != nil {
		return "", err
	}
	return r.ugc.Sanitize(out), nil
}

func (r *renderer) ToPlainText(markdown string) (string, error) {
	out, err := r.convert(markdown)
	if err != nil {
		return "", err
	}
	// StrictPolicy leaves entities encoded
	return strings.TrimSpace(html.UnescapeString(r.strict.Sanitize(out))), nil
}
