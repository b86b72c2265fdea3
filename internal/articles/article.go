// Package articles defines the article records produced by document
// extraction and consumed by template binding.
package articles

import (
	"regexp"
	"strings"
)

// Article holds the summary fields bound into front-page slots.
type Article struct {
	// Title is the document name as reported by the folder listing. It is
	// the article's identity: output filenames derive from it, and title
	// collisions are not deduplicated (last write wins).
	Title    string
	Subtitle string
	// Image is the bare output filename ("slug.ext") of the downloaded
	// embedded image, or "" when the article has none.
	Image string
}

// FullArticle adds the detail fields bound into individual article pages.
type FullArticle struct {
	Article
	// ID is the source document id, used only for ordering resolution.
	ID string
	// Body is the concatenated plain text of the document, trimmed.
	Body string
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives the filesystem/URL-safe name for a title: lowercased, with
// every run of non-alphanumeric characters collapsed to a single hyphen.
// The mapping is deterministic; a trailing hyphen is acceptable.
func Slug(title string) string {
	return slugPattern.ReplaceAllString(strings.ToLower(title), "-")
}

// Slug returns the article's derived filename stem.
func (a *Article) Slug() string {
	return Slug(a.Title)
}

// PageName returns the article's output page filename.
func (a *Article) PageName() string {
	return a.Slug() + ".html"
}
