// ABOUTME: Renders the sorted article list into the two durable artifacts
// ABOUTME: E-book manuscript compiled via pandoc, and the grouped digest page

package render

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/mdnews/internal/identity"
	"github.com/harper/mdnews/internal/models"
)

//go:embed newspaper.svg
var coverTemplate string

// coverDatePlaceholder is the marker substituted with the render date in the
// generated cover.
const coverDatePlaceholder = "YYYY-MM-DD"

const dateLayout = "2006-01-02"

// Renderer writes artifacts into the content directory. Both renders are
// functions of the already-normalized article list plus the render date;
// nothing is re-fetched or re-normalized here.
type Renderer struct {
	dir string
}

// New returns a Renderer writing into dir.
func New(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// WritePage emits the digest page, grouping articles under date headings.
// The list must already be sorted date-descending: a new heading is inserted
// whenever the date changes while iterating.
func (r *Renderer) WritePage(day time.Time, arts []models.Article) error {
	var b strings.Builder
	current := day.Format(dateLayout)
	b.WriteString("## " + current + "\n\n")

	for i := range arts {
		if d := arts[i].Date.Format(dateLayout); d != current {
			current = d
			b.WriteString("## " + current + "\n\n")
		}
		b.WriteString(arts[i].MarkdownDetails())
	}

	path := filepath.Join(r.dir, "README.md")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing digest page: %w", err)
	}
	return nil
}

// WriteEbook emits the manuscript and cover, then compiles the e-book via
// pandoc. A compiler failure is fatal for the e-book artifact only; the
// manuscript and cover are already on disk when it runs.
func (r *Renderer) WriteEbook(ctx context.Context, day time.Time, arts []models.Article) error {
	if err := r.writeCover(day); err != nil {
		return err
	}
	if err := r.writeManuscript(day, arts); err != nil {
		return err
	}
	return r.compile(ctx, day)
}

// writeManuscript assembles the pandoc input: EPUB metadata frontmatter
// followed by every article in list order.
func (r *Renderer) writeManuscript(day time.Time, arts []models.Article) error {
	date := day.Format(dateLayout)

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title:\n")
	b.WriteString("  - type: main\n")
	b.WriteString("    text: " + date + "\n")
	b.WriteString("identifier:\n")
	b.WriteString("  - scheme: URN\n")
	b.WriteString("    text: urn:uuid:" + identity.ForSeed(date).String() + "\n")
	b.WriteString("belongs-to-collection: mdnews\n")
	b.WriteString("---\n\n")

	for i := range arts {
		b.WriteString(arts[i].Markdown())
	}

	path := filepath.Join(r.dir, "news.md")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing manuscript: %w", err)
	}
	return nil
}

// writeCover writes the cover template verbatim and a date-stamped copy.
func (r *Renderer) writeCover(day time.Time) error {
	icon := filepath.Join(r.dir, "newspaper.svg")
	if err := os.WriteFile(icon, []byte(coverTemplate), 0o644); err != nil {
		return fmt.Errorf("writing cover icon: %w", err)
	}

	stamped := strings.ReplaceAll(coverTemplate, coverDatePlaceholder, day.Format(dateLayout))
	cover := filepath.Join(r.dir, "cover.svg")
	if err := os.WriteFile(cover, []byte(stamped), 0o644); err != nil {
		return fmt.Errorf("writing cover: %w", err)
	}
	return nil
}

// compile invokes pandoc over the finished manuscript. Safe to re-run: it
// only reads the manuscript and overwrites the dated output file.
func (r *Renderer) compile(ctx context.Context, day time.Time) error {
	output := fmt.Sprintf("news-%s.epub", day.Format(dateLayout))

	log.Info("compiling ebook", "output", output)

	cmd := exec.CommandContext(ctx, "pandoc",
		"--epub-cover-image=cover.svg",
		"--toc", "--toc-depth=1",
		"-o", output,
		"--from=markdown", "--to=epub",
		"news.md")
	cmd.Dir = r.dir

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("pandoc failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
