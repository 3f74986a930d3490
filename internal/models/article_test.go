// ABOUTME: Tests for the Article model
// ABOUTME: Validates markdown renderings and the date-descending sort invariant

package models_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/harper/mdnews/internal/models"
)

func sampleArticle() models.Article {
	return models.Article{
		Title:       "Sample Title",
		Description: "A short description",
		Link:        "https://example.com/a",
		Date:        time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		Image:       "cover.jpg",
		GUID:        uuid.MustParse("c4f7fd61-9589-452a-a3b2-1c8ff4f72fcd"),
		Attr:        "Example News",
		Content:     "Body text here.",
	}
}

func TestMarkdown(t *testing.T) {
	art := sampleArticle()
	md := art.Markdown()

	for _, want := range []string{
		"# Sample Title\n",
		"![](cover.jpg)\n",
		"*2026-08-30 - Example News*",
		"*A short description*",
		"Body text here.",
		"*c4f7fd61-9589-452a-a3b2-1c8ff4f72fcd*",
		"\n---\n",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q:\n%s", want, md)
		}
	}
}

func TestMarkdown_NoImage(t *testing.T) {
	art := sampleArticle()
	art.Image = ""
	if strings.Contains(art.Markdown(), "![](") {
		t.Error("image reference rendered for article without image")
	}
}

func TestMarkdownDetails(t *testing.T) {
	art := sampleArticle()
	md := art.MarkdownDetails()

	if !strings.HasPrefix(md, "<details><summary><strong>Sample Title</strong></summary>") {
		t.Errorf("details block malformed:\n%s", md)
	}
	for _, want := range []string{
		"![](cover.jpg)",
		"Body text here.",
		"<small>c4f7fd61-9589-452a-a3b2-1c8ff4f72fcd</small>",
		"</details>",
		"*A short description*",
		"<small>2026-08-30 - Example News</small>",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("MarkdownDetails missing %q:\n%s", want, md)
		}
	}
}

func TestSortArticles(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 8, d, 12, 0, 0, 0, time.UTC)
	}
	arts := []models.Article{
		{Title: "old", Date: day(1)},
		{Title: "newest", Date: day(30)},
		{Title: "mid", Date: day(15)},
	}

	models.SortArticles(arts)

	for i := 0; i < len(arts)-1; i++ {
		if arts[i].Date.Before(arts[i+1].Date) {
			t.Errorf("sort invariant violated at %d: %v < %v", i, arts[i].Date, arts[i+1].Date)
		}
	}
	if arts[0].Title != "newest" || arts[2].Title != "old" {
		t.Errorf("unexpected order: %s, %s, %s", arts[0].Title, arts[1].Title, arts[2].Title)
	}
}

func TestSortArticles_StableOnTies(t *testing.T) {
	tie := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	arts := []models.Article{
		{Title: "first", Date: tie},
		{Title: "second", Date: tie},
		{Title: "third", Date: tie},
	}

	models.SortArticles(arts)

	if arts[0].Title != "first" || arts[1].Title != "second" || arts[2].Title != "third" {
		t.Errorf("tie order not preserved: %s, %s, %s", arts[0].Title, arts[1].Title, arts[2].Title)
	}
}
