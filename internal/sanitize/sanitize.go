// Package sanitize cleans CMS post bodies before they are shown inside a content card.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// shortcodePattern matches CMS shortcodes such as [gallery ids="1,2"] or [/caption],
// including ones spanning several lines.
var shortcodePattern = regexp.MustCompile(`(?s)\[.*?\]`)

// Sanitizer strips embedded media, shortcodes and unsafe markup from post HTML.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a Sanitizer with the card body policy.
func NewSanitizer() *Sanitizer {
	// UGCPolicy keeps headings, lists, links, images and tables.
	p := bluemonday.UGCPolicy()

	p.AllowElements("figure", "figcaption")
	p.AllowAttrs("src", "width", "height", "title", "allowfullscreen", "frameborder").OnElements("iframe")
	p.AllowAttrs("class").OnElements("figure", "img", "p", "span", "div")

	// Videos autoplay on the slide behind the card; the card must not repeat them.
	p.SkipElementsContent("video")

	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)

	return &Sanitizer{policy: p}
}

// Sanitize returns html without shortcodes, <video>/<source> elements,
// unsafe markup or empty paragraphs, trimmed of surrounding whitespace.
func (s *Sanitizer) Sanitize(html string) string {
	// Shortcodes go after the policy so entity-escaped brackets are caught too,
	// and before the paragraph pass since dropping one can empty a <p>.
	out := s.policy.Sanitize(html)
	out = shortcodePattern.ReplaceAllString(out, "")
	out = removeEmptyParagraphs(out)
	return strings.TrimSpace(out)
}

// removeEmptyParagraphs drops <p> elements holding only whitespace or &nbsp;.
// Paragraphs with element children (an image, a line break) are kept.
func removeEmptyParagraphs(html string) string {
	if !strings.Contains(html, "<p") {
		return html
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	removed := 0
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if p.Children().Length() > 0 {
			return
		}
		if strings.TrimSpace(p.Text()) == "" { // TrimSpace also drops U+00A0
			p.Remove()
			removed++
		}
	})
	if removed == 0 {
		return html
	}

	body, err := doc.Find("body").Html()
	if err != nil {
		return html
	}
	return body
}
