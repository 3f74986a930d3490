// ABOUTME: Tests for the artifact renderer
// ABOUTME: Validates date grouping on the digest page and manuscript structure

package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/harper/mdnews/internal/identity"
	"github.com/harper/mdnews/internal/models"
)

func art(title string, date time.Time) models.Article {
	return models.Article{
		Title:   title,
		Date:    date,
		GUID:    identity.ForSeed("https://example.com/" + title),
		Attr:    "Example News",
		Content: "Body of " + title + ".",
	}
}

func TestWritePage_GroupsByDate(t *testing.T) {
	dir := t.TempDir()
	r := New(dir)

	day := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	arts := []models.Article{
		art("today-one", time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)),
		art("today-two", time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC)),
		art("yesterday", time.Date(2026, 8, 30, 22, 0, 0, 0, time.UTC)),
	}

	if err := r.WritePage(day, arts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "README.md"))
	if err != nil {
		t.Fatal(err)
	}
	page := string(data)

	// One heading per distinct date, in order.
	if strings.Count(page, "## 2026-08-31") != 1 {
		t.Errorf("expected exactly one heading for the run day:\n%s", page)
	}
	if strings.Count(page, "## 2026-08-30") != 1 {
		t.Errorf("expected exactly one heading for the previous day:\n%s", page)
	}
	if strings.Index(page, "today-one") > strings.Index(page, "## 2026-08-30") {
		t.Error("today's article rendered under the wrong heading")
	}
	if strings.Index(page, "## 2026-08-30") > strings.Index(page, "yesterday") {
		t.Error("date heading not inserted before the older article")
	}
	if !strings.Contains(page, "<details><summary><strong>today-one</strong></summary>") {
		t.Errorf("collapsible block missing:\n%s", page)
	}
}

func TestWriteManuscript(t *testing.T) {
	dir := t.TempDir()
	r := New(dir)

	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	arts := []models.Article{
		art("lead", day),
		art("second", day.Add(-time.Hour)),
	}

	if err := r.writeManuscript(day, arts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "news.md"))
	if err != nil {
		t.Fatal(err)
	}
	ms := string(data)

	if !strings.HasPrefix(ms, "---\n") {
		t.Error("manuscript missing frontmatter")
	}
	if !strings.Contains(ms, "text: 2026-08-31") {
		t.Errorf("manuscript title missing:\n%s", ms)
	}
	wantID := "urn:uuid:" + identity.ForSeed("2026-08-31").String()
	if !strings.Contains(ms, wantID) {
		t.Errorf("manuscript identifier missing %q:\n%s", wantID, ms)
	}
	if !strings.Contains(ms, "belongs-to-collection: mdnews") {
		t.Error("collection marker missing")
	}
	if strings.Index(ms, "# lead") > strings.Index(ms, "# second") {
		t.Error("articles rendered out of list order")
	}
}

func TestWriteManuscript_IdentifierStable(t *testing.T) {
	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	a := identity.ForSeed(day.Format("2006-01-02"))
	b := identity.ForSeed(day.Format("2006-01-02"))
	if a != b || a == uuid.Nil {
		t.Errorf("manuscript identifier unstable: %s vs %s", a, b)
	}
}

func TestWriteCover(t *testing.T) {
	dir := t.TempDir()
	r := New(dir)

	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	if err := r.writeCover(day); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cover, err := os.ReadFile(filepath.Join(dir, "cover.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(cover), "2026-08-31") {
		t.Error("cover not date-stamped")
	}
	if strings.Contains(string(cover), coverDatePlaceholder) {
		t.Error("placeholder left in cover")
	}

	icon, err := os.ReadFile(filepath.Join(dir, "newspaper.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(icon), coverDatePlaceholder) {
		t.Error("template copy should keep the placeholder")
	}
}
