// ABOUTME: Feed ingestion: fetches feeds, maps items to Articles, drives the per-article pipeline
// ABOUTME: Persists a raw-parse dump per feed and isolates per-feed failures from the run

package feed

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"github.com/harper/mdnews/internal/cache"
	"github.com/harper/mdnews/internal/config"
	"github.com/harper/mdnews/internal/fetch"
	"github.com/harper/mdnews/internal/identity"
	"github.com/harper/mdnews/internal/media"
	"github.com/harper/mdnews/internal/models"
	"github.com/harper/mdnews/internal/scrub"
)

// Ingestor turns configured feeds into fully normalized Articles. Items are
// processed sequentially: fetch, extract, scrub, media rewrite, one at a
// time.
type Ingestor struct {
	articles *cache.Articles
	media    *media.Processor
	parser   *gofeed.Parser
	feedDir  string
}

// NewIngestor wires an Ingestor over the article cache and media processor.
// Raw-parse dumps are written under feedDir.
func NewIngestor(articles *cache.Articles, media *media.Processor, feedDir string) *Ingestor {
	return &Ingestor{
		articles: articles,
		media:    media,
		parser:   gofeed.NewParser(),
		feedDir:  feedDir,
	}
}

// IngestAll processes every configured feed in order. Skipped feeds are
// counted without being fetched, and a failing feed is counted and left
// behind while the run moves on to the next one. report, when non-nil, is
// called once per feed with its outcome. The combined articles come back
// date-sorted, newest first.
func (in *Ingestor) IngestAll(ctx context.Context, feeds []config.Feed, report func(fc config.Feed, arts []models.Article, err error)) (arts []models.Article, skipped, failed int) {
	for _, fc := range feeds {
		if fc.Skip {
			skipped++
			if report != nil {
				report(fc, nil, nil)
			}
			continue
		}

		found, err := in.Ingest(ctx, fc)
		if err != nil {
			failed++
		} else {
			arts = append(arts, found...)
		}
		if report != nil {
			report(fc, found, err)
		}
	}

	models.SortArticles(arts)
	return arts, skipped, failed
}

// Ingest fetches and processes one configured feed. An error is fatal for
// this feed only; callers keep going with the remaining feeds.
func (in *Ingestor) Ingest(ctx context.Context, fc config.Feed) ([]models.Article, error) {
	body, _, err := fetch.Raw(ctx, fc.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", fc.Name, err)
	}

	parsed, err := in.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", fc.Name, err)
	}

	if err := in.dump(fc.Name, parsed); err != nil {
		return nil, err
	}

	var arts []models.Article
	for _, item := range parsed.Items {
		if len(item.Links) == 0 {
			continue
		}

		art, err := in.ingestItem(ctx, fc, parsed.Title, item)
		if err != nil {
			return nil, err
		}
		if art == nil {
			continue
		}
		arts = append(arts, *art)
	}

	return arts, nil
}

// ingestItem maps one feed item to an Article and runs it through the
// normalization pipeline. A nil, nil return means the item was skipped.
func (in *Ingestor) ingestItem(ctx context.Context, fc config.Feed, feedTitle string, item *gofeed.Item) (*models.Article, error) {
	// Feeds declare multiple link variants; the last one is canonical.
	link := item.Links[len(item.Links)-1]

	date, ok := itemDate(item)
	if !ok {
		log.Warn("skipping item without usable date", "feed", fc.Name, "link", link)
		return nil, nil
	}

	art := models.Article{
		Title:       item.Title,
		Description: item.Description,
		Link:        link,
		Date:        date,
		Image:       coverCandidate(item.Enclosures),
		GUID:        identity.ForItem(item.GUID, link),
		Attr:        feedTitle,
		Format:      fc.Format,
	}

	text, err := in.articles.Markdown(ctx, link)
	if err != nil {
		return nil, err
	}

	art.Content = scrub.Clean(text)
	art.Content, art.Image = in.media.Rewrite(ctx, art.Content, art.Image)

	return &art, nil
}

// coverCandidate picks the enclosure with the largest declared byte length.
// Absent or malformed lengths count as zero; ties keep the first one seen.
func coverCandidate(enclosures []*gofeed.Enclosure) string {
	var best *gofeed.Enclosure
	var bestLen int64
	for _, enc := range enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		length, _ := strconv.ParseInt(enc.Length, 10, 64)
		if best == nil || length > bestLen {
			best = enc
			bestLen = length
		}
	}
	if best == nil {
		return ""
	}
	return best.URL
}

// itemDate resolves the publication timestamp, falling back to parsing the
// raw RFC-2822 date string when the parser did not.
func itemDate(item *gofeed.Item) (time.Time, bool) {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed, true
	}
	for _, layout := range []string{time.RFC1123Z, time.RFC1123} {
		if t, err := time.Parse(layout, item.Published); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dump persists the parsed feed for audit under the feed's configured name.
func (in *Ingestor) dump(name string, parsed *gofeed.Feed) error {
	data, err := yaml.Marshal(parsed)
	if err != nil {
		return fmt.Errorf("marshaling feed dump %s: %w", name, err)
	}
	path := filepath.Join(in.feedDir, name+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing feed dump %s: %w", name, err)
	}
	return nil
}
