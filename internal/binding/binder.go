package binding

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/spoofpress/internal/articles"
	"github.com/jonathan/spoofpress/internal/config"
)

// LinkPrefixes resolves output links relative to the page being bound.
type LinkPrefixes struct {
	// Articles prefixes links to generated article pages.
	Articles string
	// Images prefixes src attributes of downloaded article images.
	Images string
}

// Bind populates a template document from the ordered article sequence.
// Slots are processed in configuration order so higher-priority template
// regions receive higher-priority articles; within a slot, matched elements
// consume articles in document order. Once the supply is exhausted, every
// further matched element is removed from the document, so a template with
// more repeated card elements than real articles degrades gracefully.
// Re-running Bind on an already-pruned document with the same inputs is a
// no-op beyond rewriting the same values.
func Bind(doc *goquery.Document, slots config.SlotConfig, arts []*articles.FullArticle, alloc *Allocator, prefixes LinkPrefixes) {
	cursor := 0
	for _, slot := range slots {
		doc.Find(slot.Selector).Each(func(_ int, el *goquery.Selection) {
			if cursor >= len(arts) {
				el.Remove()
				return
			}
			bindSlot(el, slot.Spec, arts[cursor], alloc, prefixes)
			cursor++
		})
	}
}

// bindSlot writes one article into one matched element. Empty Title/Href
// sub-selectors target the element itself; empty Subtitle/Image/Author
// sub-selectors leave those fields untouched. A heading literal from the
// shorthand configuration form, if any, is superseded by the article's own
// title here.
func bindSlot(el *goquery.Selection, spec config.SlotSpec, art *articles.FullArticle, alloc *Allocator, prefixes LinkPrefixes) {
	title := el
	if spec.Title != "" {
		title = el.Find(spec.Title)
	}
	title.SetText(art.Title)

	href := el
	if spec.Href != "" {
		href = el.Find(spec.Href)
	}
	href.SetAttr("href", prefixes.Articles+"/"+art.PageName())

	if spec.Image != "" {
		img := el.Find(spec.Image)
		if art.Image == "" {
			// No dangling placeholder: an imageless article loses the node.
			img.Remove()
		} else {
			img.SetAttr("src", prefixes.Images+"/"+art.Image)
		}
	}

	if spec.Subtitle != "" {
		el.Find(spec.Subtitle).SetText(art.Subtitle)
	}

	if spec.Author != "" {
		el.Find(spec.Author).Each(func(i int, node *goquery.Selection) {
			node.SetText(alloc.Assign(art.Title, i))
		})
	}
}

// BindArticlePage populates one article's own page: the detail field
// selectors, the page <title> (article title plus configured suffix), and
// the cross-article link slots bound against the full ordered sequence.
func BindArticlePage(doc *goquery.Document, cfg *config.ArticlePageConfig, art *articles.FullArticle, all []*articles.FullArticle, alloc *Allocator, prefixes LinkPrefixes) {
	if cfg.Title != "" {
		doc.Find(cfg.Title).SetText(art.Title)
	}
	if cfg.Subtitle != "" {
		doc.Find(cfg.Subtitle).SetText(art.Subtitle)
	}
	if cfg.Body != "" {
		doc.Find(cfg.Body).SetHtml(bodyHTML(art.Body))
	}
	if cfg.Image != "" {
		img := doc.Find(cfg.Image)
		if art.Image == "" {
			img.Remove()
		} else {
			img.SetAttr("src", prefixes.Images+"/"+art.Image)
		}
	}
	if cfg.Author != "" {
		doc.Find(cfg.Author).Each(func(i int, node *goquery.Selection) {
			node.SetText(alloc.Assign(art.Title, i))
		})
	}

	doc.Find("title").SetText(art.Title + cfg.TitleSuffix)

	Bind(doc, cfg.Links, all, alloc, prefixes)
}

// bodyHTML escapes the plain-text body and keeps its line breaks visible.
func bodyHTML(body string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return strings.Join(lines, "<br/>")
}
