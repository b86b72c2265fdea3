package site

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/spoofpress/internal/articles"
	"github.com/jonathan/spoofpress/internal/binding"
	"github.com/jonathan/spoofpress/internal/config"
	"github.com/jonathan/spoofpress/internal/drive"
	"github.com/jonathan/spoofpress/internal/extract"
	"github.com/jonathan/spoofpress/internal/fetch"
)

const (
	articlesDir = "articles"
	imagesDir   = "images"
)

// Builder wires the external capabilities into one site build. Source and
// the fetch functions are injected so tests run against fakes.
type Builder struct {
	Source    drive.Source
	Fetch     fetch.Func // images
	PageFetch fetch.Func // template pages; defaults to Fetch when nil
	Config    *config.Config
	FolderRef string
	OutDir    string
	// Order lists document ids in priority order. Ids absent from the
	// listing are ignored; listed documents missing from Order keep their
	// listing position after the ordered prefix.
	Order []string
}

// Run executes the whole pipeline. It either produces a complete site
// directory or fails before writing anything beyond directories and already
// downloaded images.
func (b *Builder) Run(ctx context.Context) error {
	files, err := b.Source.ListDocuments(ctx, b.FolderRef)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return &EmptyFolderError{FolderRef: b.FolderRef}
	}

	for _, dir := range []string{b.OutDir, filepath.Join(b.OutDir, articlesDir), filepath.Join(b.OutDir, imagesDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	extracted, err := b.extractAll(ctx, files)
	if err != nil {
		return err
	}

	ordered := resolveOrder(files, extracted, b.Order)
	if len(ordered) == 0 {
		return &EmptyFolderError{FolderRef: b.FolderRef}
	}

	alloc := binding.NewAllocator(b.Config.Authors)

	if err := b.buildFrontpage(ctx, ordered, alloc); err != nil {
		return err
	}
	return b.buildArticlePages(ctx, ordered, alloc)
}

// extractAll fans out per-document extraction. Each document is independent:
// its own id, its own image filename. A failed content fetch drops that one
// article and the batch continues.
func (b *Builder) extractAll(ctx context.Context, files []drive.File) (map[string]*articles.FullArticle, error) {
	extractor := &extract.Extractor{
		Fetch:  b.Fetch,
		Images: extract.Dir(filepath.Join(b.OutDir, imagesDir)),
	}

	var mu sync.Mutex
	byID := make(map[string]*articles.FullArticle, len(files))

	g, gCtx := errgroup.WithContext(ctx)
	for _, f := range files {
		f := f
		g.Go(func() error {
			doc, err := b.Source.DocumentContent(gCtx, f.ID)
			if err != nil {
				log.Printf("skipping %q: %v", f.Name, err)
				return nil
			}
			art := extractor.Article(gCtx, f.Name, doc)
			art.ID = f.ID

			mu.Lock()
			byID[f.ID] = art
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return byID, nil
}

// resolveOrder turns the unordered extraction results into the single
// article sequence both binding passes share: ids named by the ordering
// first, then the remaining documents in listing order.
func resolveOrder(files []drive.File, byID map[string]*articles.FullArticle, order []string) []*articles.FullArticle {
	placed := make(map[string]bool, len(order))
	var out []*articles.FullArticle

	for _, id := range order {
		if art, ok := byID[id]; ok && !placed[id] {
			out = append(out, art)
			placed[id] = true
		}
	}
	for _, f := range files {
		if art, ok := byID[f.ID]; ok && !placed[f.ID] {
			out = append(out, art)
			placed[f.ID] = true
		}
	}
	return out
}

func (b *Builder) pageFetch() fetch.Func {
	if b.PageFetch != nil {
		return b.PageFetch
	}
	return b.Fetch
}

// loadTemplate fetches and sanitizes one template page. Any failure here is
// fatal: without a template there is no output to produce.
func (b *Builder) loadTemplate(ctx context.Context, pc *config.PageConfig) (string, error) {
	res, err := b.pageFetch()(ctx, pc.SourceURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch template page: %w", err)
	}
	return string(res.Body), nil
}

func (b *Builder) buildFrontpage(ctx context.Context, ordered []*articles.FullArticle, alloc *binding.Allocator) error {
	html, err := b.loadTemplate(ctx, &b.Config.Frontpage.PageConfig)
	if err != nil {
		return err
	}
	doc, err := binding.LoadTemplate(html, &b.Config.Frontpage.PageConfig)
	if err != nil {
		return err
	}

	prefixes := binding.LinkPrefixes{Articles: articlesDir, Images: imagesDir}
	binding.Bind(doc, b.Config.Frontpage.Articles, ordered, alloc, prefixes)
	binding.ApplyFallbackLinks(doc, b.Config.FallbackLink, articlesDir)

	out, err := binding.Serialize(doc)
	if err != nil {
		return err
	}
	return b.writePage(filepath.Join(b.OutDir, "index.html"), out)
}

// buildArticlePages fetches the article template once and binds each article
// against an independently parsed copy, so page builds never share a
// mutable document.
func (b *Builder) buildArticlePages(ctx context.Context, ordered []*articles.FullArticle, alloc *binding.Allocator) error {
	html, err := b.loadTemplate(ctx, &b.Config.Article.PageConfig)
	if err != nil {
		return err
	}

	prefixes := binding.LinkPrefixes{Articles: ".", Images: "../" + imagesDir}
	for _, art := range ordered {
		doc, err := binding.LoadTemplate(html, &b.Config.Article.PageConfig)
		if err != nil {
			return err
		}

		binding.BindArticlePage(doc, &b.Config.Article, art, ordered, alloc, prefixes)
		binding.ApplyFallbackLinks(doc, b.Config.FallbackLink, ".")

		out, err := binding.Serialize(doc)
		if err != nil {
			return err
		}
		if err := b.writePage(filepath.Join(b.OutDir, articlesDir, art.PageName()), out); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) writePage(path, html string) error {
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
