// ABOUTME: Run command executing the full ingest-normalize-render pipeline
// ABOUTME: Sequential per-feed processing with colored progress output and a summary

package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/mdnews/internal/cache"
	"github.com/harper/mdnews/internal/config"
	"github.com/harper/mdnews/internal/extract"
	"github.com/harper/mdnews/internal/feed"
	"github.com/harper/mdnews/internal/fetch"
	"github.com/harper/mdnews/internal/media"
	"github.com/harper/mdnews/internal/models"
	"github.com/harper/mdnews/internal/render"
)

var runDate string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch all feeds and render the digest and e-book",
	Long: `Fetch every non-skipped feed, normalize each article, and render the
digest page and the EPUB e-book into the build directory.

Feeds are processed one at a time; a failing feed is reported and skipped
without aborting the run. Already-cached articles and images are never
re-fetched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		day := time.Now()
		if runDate != "" {
			parsed, err := time.ParseInLocation("2006-01-02", runDate, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
			day = parsed
		}

		feeds, err := config.LoadFeeds(feedsPath)
		if err != nil {
			return err
		}

		p := paths()
		if err := p.Ensure(); err != nil {
			return err
		}

		articles := cache.NewArticles(cache.NewStore(p.CacheDir()), fetch.HTML, extract.File)
		processor := media.NewProcessor(cache.NewStore(p.ContentDir()), cache.NewStore(p.CacheDir()), fetch.Raw)
		ingestor := feed.NewIngestor(articles, processor, p.FeedDir())

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()

		arts, skipped, failed := ingestor.IngestAll(cmd.Context(), feeds, func(fc config.Feed, found []models.Article, err error) {
			switch {
			case fc.Skip:
				fmt.Printf("Skipping %s %s\n", fc.Name, faint("(configured skip)"))
			case err != nil:
				fmt.Printf("Ingesting %s... %s %s\n", fc.Name, red("x"), err.Error())
			default:
				fmt.Printf("Ingesting %s... %s %d articles\n", fc.Name, green("v"), len(found))
			}
		})

		renderer := render.New(p.ContentDir())
		if err := renderer.WritePage(day, arts); err != nil {
			return err
		}
		fmt.Printf("Digest page written %s\n", faint(p.ContentDir()+"/README.md"))

		ebookErr := renderer.WriteEbook(cmd.Context(), day, arts)
		if ebookErr != nil {
			fmt.Printf("%s e-book failed: %v\n", red("x"), ebookErr)
		} else {
			fmt.Printf("E-book written %s\n", faint(fmt.Sprintf("%s/news-%s.epub", p.ContentDir(), day.Format("2006-01-02"))))
		}

		fmt.Println()
		fmt.Printf("Summary: %d article(s) from %d feed(s)\n", len(arts), len(feeds)-skipped-failed)
		if skipped > 0 {
			fmt.Printf("  %s %d skipped\n", faint("-"), skipped)
		}
		if failed > 0 {
			fmt.Printf("  %s %d failed\n", red("x"), failed)
		}

		// A page without an e-book is still a partial success; surface the
		// compiler failure after the summary.
		return ebookErr
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runDate, "date", "", "render date as YYYY-MM-DD (default: today)")
}
