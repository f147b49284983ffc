package utils

import (
	"bytes"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)
	htmlPolicy = bluemonday.UGCPolicy()
	textPolicy = bluemonday.StrictPolicy()
)

func init() {
	htmlPolicy.AllowImages()
	htmlPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	htmlPolicy.RequireNoReferrerOnLinks(true)
}

// RenderMarkdown converts a post description to sanitized HTML for the
// detail response.
func RenderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return textPolicy.Sanitize(source) // Fallback
	}
	return string(htmlPolicy.SanitizeBytes(buf.Bytes()))
}

// SanitizeText strips all markup from user-supplied plain text fields
// (comment text, post titles) before storage. The result is plain text,
// not an HTML fragment: entities the sanitizer escaped are folded back,
// so "Tom's & co" stays its own length and stored lengths match what the
// length rules validated.
func SanitizeText(s string) string {
	return html.UnescapeString(textPolicy.Sanitize(s))
}
