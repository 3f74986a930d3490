// ABOUTME: Tests for the flat-file store and the article cache namespaces
// ABOUTME: Validates hit/miss behavior, populate-once semantics, and error propagation

package cache_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/harper/mdnews/internal/cache"
	"github.com/harper/mdnews/internal/identity"
)

func TestStore_GetOrPopulate(t *testing.T) {
	store := cache.NewStore(t.TempDir())

	calls := 0
	populate := func() ([]byte, error) {
		calls++
		return []byte("payload"), nil
	}

	first, err := store.GetOrPopulate("entry.txt", populate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := store.GetOrPopulate("entry.txt", populate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(first) != "payload" || string(second) != "payload" {
		t.Errorf("got %q then %q, want %q both times", first, second, "payload")
	}
	if calls != 1 {
		t.Errorf("populate ran %d times, want 1", calls)
	}
}

func TestStore_PopulateErrorWritesNothing(t *testing.T) {
	store := cache.NewStore(t.TempDir())

	wantErr := errors.New("upstream down")
	_, err := store.GetOrPopulate("entry.txt", func() ([]byte, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected populate error, got %v", err)
	}
	if store.Has("entry.txt") {
		t.Error("failed populate left a file behind")
	}
}

func TestStore_ExistingEntryWins(t *testing.T) {
	store := cache.NewStore(t.TempDir())
	if err := store.Put("entry.txt", []byte("original")); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetOrPopulate("entry.txt", func() ([]byte, error) {
		t.Error("populate ran despite existing entry")
		return []byte("refetched"), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "original" {
		t.Errorf("got %q, want the original entry", got)
	}
}

func TestArticles_HTMLFetchedOnce(t *testing.T) {
	store := cache.NewStore(t.TempDir())

	fetches := 0
	arts := cache.NewArticles(store,
		func(ctx context.Context, url string) ([]byte, error) {
			fetches++
			return []byte("<html>body</html>"), nil
		},
		func(path string) (string, error) {
			data, err := os.ReadFile(path)
			return string(data), err
		},
	)

	link := "https://example.com/a"
	for i := 0; i < 2; i++ {
		path, err := arts.HTMLPath(context.Background(), link)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "<html>body</html>" {
			t.Errorf("cached HTML = %q", data)
		}
	}
	if fetches != 1 {
		t.Errorf("fetched %d times, want 1", fetches)
	}
}

func TestArticles_MarkdownPopulatesThroughHTML(t *testing.T) {
	store := cache.NewStore(t.TempDir())

	converts := 0
	arts := cache.NewArticles(store,
		func(ctx context.Context, url string) ([]byte, error) {
			return []byte("<p>hello</p>"), nil
		},
		func(path string) (string, error) {
			converts++
			return "hello", nil
		},
	)

	link := "https://example.com/b"
	md, err := arts.Markdown(context.Background(), link)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if md != "hello" {
		t.Errorf("markdown = %q, want %q", md, "hello")
	}

	// Both namespaces populated under the link's identity.
	id := identity.ForSeed(link).String()
	if !store.Has(id + ".html") {
		t.Error("html entry missing")
	}
	if !store.Has(id + ".md") {
		t.Error("markdown entry missing")
	}

	// Second call must come from the markdown file, not the converter.
	if _, err := arts.Markdown(context.Background(), link); err != nil {
		t.Fatal(err)
	}
	if converts != 1 {
		t.Errorf("converted %d times, want 1", converts)
	}
}

func TestArticles_FetchFailurePropagates(t *testing.T) {
	store := cache.NewStore(t.TempDir())

	arts := cache.NewArticles(store,
		func(ctx context.Context, url string) ([]byte, error) {
			return nil, fmt.Errorf("connection refused")
		},
		func(path string) (string, error) {
			return "", nil
		},
	)

	if _, err := arts.Markdown(context.Background(), "https://down.example.com/x"); err == nil {
		t.Fatal("expected fetch error to propagate")
	}
}
