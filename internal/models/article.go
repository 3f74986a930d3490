// ABOUTME: Article model, the unit of content flowing through the pipeline
// ABOUTME: Carries identity, feed attribution, and the two markdown renderings

package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Article is one feed item on its way to the rendered artifacts. Content and
// Image start raw and are progressively rewritten by the scrub and media
// stages; GUID is immutable once assigned — it is what makes the cache
// content-addressed and reruns idempotent.
type Article struct {
	Title       string
	Description string
	Link        string
	Date        time.Time
	Image       string
	GUID        uuid.UUID
	Attr        string
	Format      string
	Content     string
}

const dateLayout = "2006-01-02"

// Markdown renders the article as an e-book manuscript section.
func (a *Article) Markdown() string {
	var b strings.Builder
	b.WriteString("# " + a.Title + "\n\n")
	if a.Image != "" {
		b.WriteString("![](" + a.Image + ")\n")
	}
	b.WriteString("\n*" + a.Date.Format(dateLayout) + " - " + a.Attr + "*\n\n")
	b.WriteString("*" + a.Description + "*\n\n")
	b.WriteString(a.Content)
	b.WriteString("\n*" + a.GUID.String() + "*\n")
	b.WriteString("\n---\n\n")
	return b.String()
}

// MarkdownDetails renders the article as a collapsible digest-page block.
func (a *Article) MarkdownDetails() string {
	var b strings.Builder
	b.WriteString("<details><summary><strong>")
	b.WriteString(a.Title)
	b.WriteString("</strong></summary>\n\n")
	if a.Image != "" {
		b.WriteString("![](" + a.Image + ")\n\n")
	}
	b.WriteString(a.Content + "\n")
	b.WriteString("\n<small>" + a.GUID.String() + "</small>\n")
	b.WriteString("\n</details>\n\n")
	b.WriteString("*" + a.Description + "*\n\n")
	b.WriteString("<small>" + a.Date.Format(dateLayout) + " - " + a.Attr + "</small>\n")
	b.WriteString("\n---\n")
	return b.String()
}

// SortArticles orders articles by date descending, most recent first. The
// sort is stable: equal timestamps keep their discovery order.
func SortArticles(arts []Article) {
	sort.SliceStable(arts, func(i, j int) bool {
		return arts[i].Date.After(arts[j].Date)
	})
}
