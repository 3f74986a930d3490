// ABOUTME: Article-level cache namespaces layered over the flat-file store
// ABOUTME: Caches fetched HTML and extracted markdown per article identity

package cache

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/harper/mdnews/internal/identity"
)

// FetchFunc retrieves a URL and returns its body as UTF-8 text.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// ConvertFunc runs the extraction engine over a locally cached HTML file and
// returns plain markdown text.
type ConvertFunc func(path string) (string, error)

// Articles caches the per-article artifacts: raw HTML keyed <id>.html and
// extracted markdown keyed <id>.md. A hit never re-fetches or re-extracts;
// a live page could change between runs and break reproducibility.
type Articles struct {
	store   *Store
	fetch   FetchFunc
	convert ConvertFunc
}

// NewArticles wires an article cache over store using the given fetcher and
// extraction converter.
func NewArticles(store *Store, fetch FetchFunc, convert ConvertFunc) *Articles {
	return &Articles{store: store, fetch: fetch, convert: convert}
}

// HTMLPath returns the path of the cached HTML for link, fetching and
// persisting it first on a miss.
func (a *Articles) HTMLPath(ctx context.Context, link string) (string, error) {
	name := identity.ForSeed(link).String() + ".html"
	if a.store.Has(name) {
		return a.store.Path(name), nil
	}

	log.Info("miss html", "link", link)

	body, err := a.fetch(ctx, link)
	if err != nil {
		return "", fmt.Errorf("fetching article %s: %w", link, err)
	}
	if err := a.store.Put(name, body); err != nil {
		return "", err
	}
	return a.store.Path(name), nil
}

// Markdown returns the extracted markdown for link, populating the cache via
// HTMLPath plus the extraction engine on a miss.
func (a *Articles) Markdown(ctx context.Context, link string) (string, error) {
	name := identity.ForSeed(link).String() + ".md"
	data, err := a.store.GetOrPopulate(name, func() ([]byte, error) {
		log.Info("miss markdown", "link", link)

		htmlPath, err := a.HTMLPath(ctx, link)
		if err != nil {
			return nil, err
		}
		text, err := a.convert(htmlPath)
		if err != nil {
			return nil, fmt.Errorf("extracting %s: %w", link, err)
		}
		return []byte(text), nil
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
