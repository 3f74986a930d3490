// ABOUTME: Feed configuration loading and build-tree path bootstrap
// ABOUTME: Parses feeds.yml and creates the cache/content/feed directories at startup

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Feed is one configured feed source. Skipped feeds are excluded from the
// run entirely; Name keys the raw-parse audit dump; Format carries per-feed
// processing hints onto every article of that feed.
type Feed struct {
	URL    string `yaml:"url"`
	Name   string `yaml:"name"`
	Format string `yaml:"format"`
	Skip   bool   `yaml:"skip,omitempty"`
}

// LoadFeeds reads an ordered feed list from a YAML file. Names must be
// unique among non-skipped feeds because they key cache files.
func LoadFeeds(path string) ([]Feed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading feed config: %w", err)
	}

	var feeds []Feed
	if err := yaml.Unmarshal(data, &feeds); err != nil {
		return nil, fmt.Errorf("parsing feed config: %w", err)
	}

	seen := make(map[string]bool)
	for _, f := range feeds {
		if f.Skip {
			continue
		}
		if f.URL == "" {
			return nil, fmt.Errorf("feed %q has no url", f.Name)
		}
		if f.Name == "" {
			return nil, fmt.Errorf("feed %s has no name", f.URL)
		}
		if strings.ContainsAny(f.Name, `/\`) {
			return nil, fmt.Errorf("feed name %q contains a path separator", f.Name)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("duplicate feed name %q", f.Name)
		}
		seen[f.Name] = true
	}

	return feeds, nil
}

// Paths names the build tree. Directory creation is an explicit startup
// step via Ensure, not an import-time side effect.
type Paths struct {
	// Build is the root of all persisted state. Defaults to "build".
	Build string
}

// CacheDir holds raw HTML, extracted markdown, and original image bytes,
// keyed by article/image identity.
func (p Paths) CacheDir() string {
	return filepath.Join(p.root(), "cache")
}

// ContentDir holds the rendered artifacts and the transcoded images they
// reference.
func (p Paths) ContentDir() string {
	return filepath.Join(p.root(), "content")
}

// FeedDir holds the per-feed raw-parse dumps.
func (p Paths) FeedDir() string {
	return filepath.Join(p.root(), "feed")
}

func (p Paths) root() string {
	if p.Build == "" {
		return "build"
	}
	return p.Build
}

// Ensure creates the build tree. Call once at program start.
func (p Paths) Ensure() error {
	for _, dir := range []string{p.CacheDir(), p.ContentDir(), p.FeedDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}
