// Package extract converts raw rich-document structures into flat article
// records: title, subtitle, body, and an optional downloaded image.
package extract

import (
	"context"
	"log"
	"sort"
	"strings"

	"google.golang.org/api/docs/v1"

	"github.com/jonathan/spoofpress/internal/articles"
	"github.com/jonathan/spoofpress/internal/fetch"
)

// ImageStore persists downloaded article images under their derived
// filenames.
type ImageStore interface {
	Save(filename string, data []byte) error
}

// Extractor turns one document into one article. Image bytes travel through
// the injected fetch capability and land in the injected store, so tests and
// the pipeline wire their own.
type Extractor struct {
	Fetch  fetch.Func
	Images ImageStore
}

// Article extracts a full article from a document. name is the document's
// name as reported by the folder listing; it becomes the article title
// unmodified. Extraction never fails outright: an unreadable or empty
// document still yields an article with an empty body, and image problems
// degrade to an article without an image.
func (e *Extractor) Article(ctx context.Context, name string, doc *docs.Document) *articles.FullArticle {
	art := &articles.FullArticle{
		Article: articles.Article{Title: name},
	}

	art.Body = bodyText(name, doc)
	art.Subtitle = subtitleOf(art.Body)
	art.Image = e.downloadImage(ctx, name, doc)

	return art
}

// bodyText concatenates every paragraph's text runs in document order. A run
// whose trimmed content repeats the document's own name is dropped; source
// documents often restate their title as a heading line.
func bodyText(name string, doc *docs.Document) string {
	if doc == nil || doc.Body == nil {
		return ""
	}

	var b strings.Builder
	for _, elem := range doc.Body.Content {
		if elem.Paragraph == nil {
			continue
		}
		for _, pe := range elem.Paragraph.Elements {
			if pe.TextRun == nil {
				continue
			}
			content := pe.TextRun.Content
			if strings.EqualFold(strings.TrimSpace(content), strings.TrimSpace(name)) {
				continue
			}
			b.WriteString(content)
		}
	}
	return strings.TrimSpace(b.String())
}

// subtitleOf returns the body text up to its first line break, or the whole
// body when there is none.
func subtitleOf(body string) string {
	if i := strings.Index(body, "\n"); i >= 0 {
		return body[:i]
	}
	return body
}

// downloadImage fetches the document's first resolvable embedded image and
// stores it as slug.ext, returning the bare filename or "" when the article
// ends up without an image.
func (e *Extractor) downloadImage(ctx context.Context, name string, doc *docs.Document) string {
	uri := firstContentURI(doc)
	if uri == "" {
		return ""
	}
	if e.Fetch == nil || e.Images == nil {
		return ""
	}

	res, err := e.Fetch(ctx, uri)
	if err != nil || !res.OK() {
		log.Printf("image fetch failed for %q (%s): %v", name, uri, err)
		return ""
	}

	ext := res.Subtype()
	if ext == "" {
		log.Printf("image for %q has no usable content type (%q)", name, res.ContentType)
		return ""
	}

	filename := articles.Slug(name) + "." + ext
	if err := e.Images.Save(filename, res.Body); err != nil {
		log.Printf("failed to store image %s for %q: %v", filename, name, err)
		return ""
	}
	return filename
}

// firstContentURI scans the document's embedded media for a resolvable
// content URI: inline objects first, then absolutely-positioned ones. The
// API exposes both as maps, so keys are visited in sorted order to keep the
// pick deterministic.
func firstContentURI(doc *docs.Document) string {
	if doc == nil {
		return ""
	}

	for _, id := range sortedKeys(doc.InlineObjects) {
		obj := doc.InlineObjects[id]
		if obj.InlineObjectProperties == nil {
			continue
		}
		if uri := embeddedURI(obj.InlineObjectProperties.EmbeddedObject); uri != "" {
			return uri
		}
	}
	for _, id := range sortedKeys(doc.PositionedObjects) {
		obj := doc.PositionedObjects[id]
		if obj.PositionedObjectProperties == nil {
			continue
		}
		if uri := embeddedURI(obj.PositionedObjectProperties.EmbeddedObject); uri != "" {
			return uri
		}
	}
	return ""
}

func embeddedURI(obj *docs.EmbeddedObject) string {
	if obj == nil || obj.ImageProperties == nil {
		return ""
	}
	return obj.ImageProperties.ContentUri
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
