// Package binding maps ordered article records onto borrowed HTML templates
// through declarative per-selector slot specs.
package binding

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/spoofpress/internal/config"
)

// LoadTemplate parses a fetched template page and sanitizes it per the page
// configuration: stripped selectors are removed, injected style lands in
// <head> and injected script at the end of <body>. Each call returns an
// independently owned document; binding passes never share a handle.
func LoadTemplate(html string, pc *config.PageConfig) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template HTML: %w", err)
	}

	for _, sel := range pc.Strip {
		doc.Find(sel).Remove()
	}

	if pc.InjectStyle != "" {
		doc.Find("head").AppendHtml("<style>" + pc.InjectStyle + "</style>")
	}
	if pc.InjectScript != "" {
		doc.Find("body").AppendHtml("<script>" + pc.InjectScript + "</script>")
	}

	return doc, nil
}

// Serialize renders the mutated document back to markup.
func Serialize(doc *goquery.Document) (string, error) {
	html, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize document: %w", err)
	}
	return html, nil
}

// ApplyFallbackLinks rewrites every anchor the binder did not point at a
// generated article page to the configured fallback target, so navigation
// chrome borrowed with the template does not dead-link into the mimicked
// site. A fallback of "" leaves the document alone.
func ApplyFallbackLinks(doc *goquery.Document, fallback, articlesPrefix string) {
	if fallback == "" {
		return
	}

	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if ok && strings.HasPrefix(href, articlesPrefix+"/") {
			return
		}
		a.SetAttr("href", fallback)
	})
}
