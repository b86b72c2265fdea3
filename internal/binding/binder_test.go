package binding

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/spoofpress/internal/articles"
	"github.com/jonathan/spoofpress/internal/config"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func fullArticle(title string) *articles.FullArticle {
	return &articles.FullArticle{
		Article: articles.Article{Title: title, Subtitle: title + " deck"},
		Body:    title + " body",
	}
}

var testPrefixes = LinkPrefixes{Articles: "articles", Images: "images"}

const cardTemplate = `
<html><body>
	<div class="top-story"><h1></h1><a class="link"></a></div>
	<div class="top-story"><h1></h1><a class="link"></a></div>
	<div class="card"><h3></h3></div>
	<div class="card"><h3></h3></div>
	<div class="card"><h3></h3></div>
	<div class="card"><h3></h3></div>
	<div class="card"><h3></h3></div>
</body></html>`

func cardSlots() config.SlotConfig {
	return config.SlotConfig{
		{Selector: ".top-story", Spec: config.SlotSpec{Title: "h1", Href: "a.link"}},
		{Selector: ".card", Spec: config.SlotSpec{Title: "h3"}},
	}
}

func TestBind_ConsumptionWindowAndPruning(t *testing.T) {
	doc := mustDoc(t, cardTemplate)
	arts := []*articles.FullArticle{fullArticle("One"), fullArticle("Two"), fullArticle("Three")}

	Bind(doc, cardSlots(), arts, NewAllocator(nil), testPrefixes)

	// First selector matched two elements and consumed articles 1-2.
	tops := doc.Find(".top-story")
	require.Equal(t, 2, tops.Length())
	assert.Equal(t, "One", tops.Eq(0).Find("h1").Text())
	assert.Equal(t, "Two", tops.Eq(1).Find("h1").Text())
	assert.Equal(t, "articles/one.html", attr(t, tops.Eq(0).Find("a.link"), "href"))

	// Second selector got article 3 in its first element; the surplus four
	// card elements are gone.
	cards := doc.Find(".card")
	require.Equal(t, 1, cards.Length())
	assert.Equal(t, "Three", cards.Find("h3").Text())
}

func TestBind_Idempotent(t *testing.T) {
	doc := mustDoc(t, cardTemplate)
	arts := []*articles.FullArticle{fullArticle("One"), fullArticle("Two"), fullArticle("Three")}

	Bind(doc, cardSlots(), arts, NewAllocator(nil), testPrefixes)
	first, err := Serialize(doc)
	require.NoError(t, err)

	Bind(doc, cardSlots(), arts, NewAllocator(nil), testPrefixes)
	second, err := Serialize(doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBind_SequentialSelectorsPrune(t *testing.T) {
	// The first selector exhausts the supply; the second sees an already
	// partly-pruned document and must remove all of its own matches.
	doc := mustDoc(t, `
		<html><body>
			<div class="a"></div><div class="a"></div><div class="a"></div>
			<div class="b"></div><div class="b"></div>
		</body></html>`)
	arts := []*articles.FullArticle{fullArticle("Only"), fullArticle("Two")}

	slots := config.SlotConfig{
		{Selector: ".a", Spec: config.SlotSpec{}},
		{Selector: ".b", Spec: config.SlotSpec{}},
	}
	Bind(doc, slots, arts, NewAllocator(nil), testPrefixes)

	assert.Equal(t, 2, doc.Find(".a").Length())
	assert.Equal(t, 0, doc.Find(".b").Length())
}

func TestBind_DefaultTargetsAreTheElementItself(t *testing.T) {
	doc := mustDoc(t, `<html><body><a class="headline"></a></body></html>`)
	arts := []*articles.FullArticle{fullArticle("Solo Story")}

	slots := config.SlotConfig{{Selector: "a.headline", Spec: config.SlotSpec{}}}
	Bind(doc, slots, arts, NewAllocator(nil), testPrefixes)

	link := doc.Find("a.headline")
	assert.Equal(t, "Solo Story", link.Text())
	assert.Equal(t, "articles/solo-story.html", attr(t, link, "href"))
}

func TestBind_ImageNodeRemovedWhenArticleHasNone(t *testing.T) {
	doc := mustDoc(t, `
		<html><body>
			<div class="story"><h2></h2><img class="thumb" src="placeholder.jpg"/></div>
			<div class="story"><h2></h2><img class="thumb" src="placeholder.jpg"/></div>
		</body></html>`)

	withImage := fullArticle("Pictured")
	withImage.Image = "pictured.png"
	without := fullArticle("Plain")

	slots := config.SlotConfig{{Selector: ".story", Spec: config.SlotSpec{Title: "h2", Image: "img.thumb"}}}
	Bind(doc, slots, []*articles.FullArticle{withImage, without}, NewAllocator(nil), testPrefixes)

	stories := doc.Find(".story")
	assert.Equal(t, "images/pictured.png", attr(t, stories.Eq(0).Find("img.thumb"), "src"))
	assert.Equal(t, 0, stories.Eq(1).Find("img.thumb").Length())

	html, err := Serialize(doc)
	require.NoError(t, err)
	assert.NotContains(t, html, "placeholder.jpg")
}

func TestBind_SubtitleAndAuthors(t *testing.T) {
	doc := mustDoc(t, `
		<html><body>
			<div class="story">
				<h2></h2>
				<p class="deck"></p>
				<span class="byline"></span>
				<span class="byline"></span>
			</div>
		</body></html>`)

	art := fullArticle("Headline")
	slots := config.SlotConfig{{Selector: ".story", Spec: config.SlotSpec{
		Title:    "h2",
		Subtitle: ".deck",
		Author:   ".byline",
	}}}
	alloc := NewAllocator([]string{"Alice", "Bob"})
	Bind(doc, slots, []*articles.FullArticle{art}, alloc, testPrefixes)

	assert.Equal(t, "Headline deck", doc.Find(".deck").Text())
	bylines := doc.Find(".byline")
	assert.Equal(t, "Alice", bylines.Eq(0).Text())
	assert.Equal(t, "Bob", bylines.Eq(1).Text())
}

func TestBind_AuthorsStableAcrossPasses(t *testing.T) {
	alloc := NewAllocator([]string{"Alice", "Bob", "Carol"})
	arts := []*articles.FullArticle{fullArticle("First"), fullArticle("Second")}
	slots := config.SlotConfig{{Selector: ".story", Spec: config.SlotSpec{Title: "h2", Author: ".byline"}}}

	const tmpl = `<html><body>
		<div class="story"><h2></h2><span class="byline"></span></div>
		<div class="story"><h2></h2><span class="byline"></span></div>
	</body></html>`

	front := mustDoc(t, tmpl)
	Bind(front, slots, arts, alloc, testPrefixes)
	frontBylines := []string{
		front.Find(".story").Eq(0).Find(".byline").Text(),
		front.Find(".story").Eq(1).Find(".byline").Text(),
	}

	// A second pass over a fresh template with the same allocator must
	// reproduce the same bylines per article.
	detail := mustDoc(t, tmpl)
	Bind(detail, slots, arts, alloc, testPrefixes)
	assert.Equal(t, frontBylines[0], detail.Find(".story").Eq(0).Find(".byline").Text())
	assert.Equal(t, frontBylines[1], detail.Find(".story").Eq(1).Find(".byline").Text())
}

func TestBindArticlePage(t *testing.T) {
	doc := mustDoc(t, `
		<html><head><title>Borrowed Page</title></head><body>
			<h1 class="headline"></h1>
			<p class="standfirst"></p>
			<div class="story-body"></div>
			<img class="lead" src="old.jpg"/>
			<span class="byline"></span>
			<nav><a class="related"></a><a class="related"></a><a class="related"></a></nav>
		</body></html>`)

	art := fullArticle("Lead Story")
	art.Image = "lead-story.png"
	art.Body = "First line.\nSecond line with <markup>."
	all := []*articles.FullArticle{art, fullArticle("Other"), fullArticle("Third")}

	cfg := &config.ArticlePageConfig{
		Title:       ".headline",
		Subtitle:    ".standfirst",
		Body:        ".story-body",
		Image:       "img.lead",
		Author:      ".byline",
		TitleSuffix: " | The Daily Spoof",
		Links: config.SlotConfig{
			{Selector: "a.related", Spec: config.SlotSpec{}},
		},
	}

	alloc := NewAllocator([]string{"Alice"})
	BindArticlePage(doc, cfg, art, all, alloc, testPrefixes)

	assert.Equal(t, "Lead Story", doc.Find(".headline").Text())
	assert.Equal(t, "Lead Story deck", doc.Find(".standfirst").Text())
	assert.Equal(t, "Lead Story | The Daily Spoof", doc.Find("title").Text())
	assert.Equal(t, "images/lead-story.png", attr(t, doc.Find("img.lead"), "src"))
	assert.Equal(t, "Alice", doc.Find(".byline").Text())

	bodyHTML, err := doc.Find(".story-body").Html()
	require.NoError(t, err)
	assert.Contains(t, bodyHTML, "First line.<br/>Second line with &lt;markup&gt;.")

	// All three ordered articles fill the related links, this one included.
	related := doc.Find("a.related")
	require.Equal(t, 3, related.Length())
	assert.Equal(t, "Lead Story", related.Eq(0).Text())
	assert.Equal(t, "articles/other.html", attr(t, related.Eq(1), "href"))
}

func TestLoadTemplate_StripAndInject(t *testing.T) {
	pc := &config.PageConfig{
		Strip:        []string{".ad", "#tracker"},
		InjectStyle:  "body { color: red; }",
		InjectScript: "console.log('hi');",
	}
	doc, err := LoadTemplate(`
		<html><head><title>T</title></head><body>
			<div class="ad">buy things</div>
			<script id="tracker"></script>
			<main>content</main>
		</body></html>`, pc)
	require.NoError(t, err)

	html, err := Serialize(doc)
	require.NoError(t, err)
	assert.NotContains(t, html, "buy things")
	assert.NotContains(t, html, "tracker")
	assert.Contains(t, html, "<style>body { color: red; }</style>")
	assert.Contains(t, html, "<script>console.log('hi');</script>")
}

func TestApplyFallbackLinks(t *testing.T) {
	doc := mustDoc(t, `
		<html><body>
			<a class="nav" href="https://original.example.com/section">Section</a>
			<a class="bound" href="articles/one.html">One</a>
			<a class="bare">No href</a>
		</body></html>`)

	ApplyFallbackLinks(doc, "https://fallback.example.com/", "articles")

	assert.Equal(t, "https://fallback.example.com/", attr(t, doc.Find("a.nav"), "href"))
	assert.Equal(t, "articles/one.html", attr(t, doc.Find("a.bound"), "href"))
	assert.Equal(t, "https://fallback.example.com/", attr(t, doc.Find("a.bare"), "href"))
}

func TestApplyFallbackLinks_EmptyFallbackIsNoop(t *testing.T) {
	doc := mustDoc(t, `<html><body><a href="https://original.example.com/">x</a></body></html>`)
	ApplyFallbackLinks(doc, "", "articles")
	assert.Equal(t, "https://original.example.com/", attr(t, doc.Find("a"), "href"))
}

func attr(t *testing.T, sel *goquery.Selection, name string) string {
	t.Helper()
	val, ok := sel.Attr(name)
	require.True(t, ok, "attribute %q missing", name)
	return val
}
