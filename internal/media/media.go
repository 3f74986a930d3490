// ABOUTME: Image pipeline: fetch, validate, flatten, downscale, transcode to JPEG
// ABOUTME: Rewrites article content references to local filenames, content-addressed by source URL

package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	// Register decoders for every accepted source format; output is always JPEG.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/harper/mdnews/internal/cache"
	"github.com/harper/mdnews/internal/identity"
)

// Placeholder is the filename a failed fetch maps to. References to it are
// stripped from content at the end of processing, so it never renders.
const Placeholder = "missing-image.jpg"

const (
	maxWidth    = 1024
	jpegQuality = 75
)

// ErrUnsupportedType marks a non-image or unsupported Content-Type; the
// reference is left unrewritten rather than degraded.
var ErrUnsupportedType = errors.New("unsupported content type")

// imageRefPattern matches markdown image syntax, tolerating escaped brackets
// and parens in alt text and URL.
var imageRefPattern = regexp.MustCompile(`!\[((?:[^\]\\]|\\.)*)\]\(((?:[^)\\]|\\.)*)\)`)

// placeholderRefPattern accepts the same alt-text forms as imageRefPattern
// so every reference the scan found can also be stripped.
var placeholderRefPattern = regexp.MustCompile(`!\[(?:[^\]\\]|\\.)*\]\(` + regexp.QuoteMeta(Placeholder) + `\)`)

// RawFetchFunc retrieves a URL, returning body bytes and the declared
// Content-Type.
type RawFetchFunc func(ctx context.Context, url string) (body []byte, contentType string, err error)

// Processor downloads and transcodes every image an article references and
// rewrites the references to local filenames. Identity is content-addressed
// by source URL, so an already-seen URL is never re-downloaded.
type Processor struct {
	images *cache.Store // transcoded JPEGs, served alongside the rendered artifacts
	raw    *cache.Store // original fetched bytes, kept for audit
	fetch  RawFetchFunc
}

// NewProcessor wires a Processor over the transcoded-image store and the raw
// cache store.
func NewProcessor(images, raw *cache.Store, fetch RawFetchFunc) *Processor {
	return &Processor{images: images, raw: raw, fetch: fetch}
}

// Rewrite processes every image referenced by content plus the cover
// candidate, returning the rewritten content and cover. Fetch failures
// degrade to the placeholder (and are stripped); unsupported types leave
// their reference untouched. Never returns an error: media trouble must not
// sink an article.
func (p *Processor) Rewrite(ctx context.Context, content, cover string) (string, string) {
	var urls []string
	for _, m := range imageRefPattern.FindAllStringSubmatch(content, -1) {
		urls = append(urls, m[2])
	}
	if cover != "" {
		urls = append(urls, cover)
	}
	if len(urls) == 0 {
		return content, cover
	}

	// Mapping is applied in discovery order so output is deterministic even
	// when one URL is a prefix of another.
	mapping := make(map[string]string)
	var order []string

	for _, u := range urls {
		if _, seen := mapping[u]; seen {
			continue
		}

		name := identity.ForSeed(u).String() + ".jpg"
		if p.images.Has(name) {
			mapping[u] = name
			order = append(order, u)
			continue
		}

		local, err := p.transcode(ctx, u, name)
		switch {
		case errors.Is(err, ErrUnsupportedType):
			log.Debug("skipping image", "url", u, "err", err)
			continue
		case err != nil:
			log.Warn("image failed", "url", u, "err", err)
			mapping[u] = Placeholder
			order = append(order, u)
		default:
			mapping[u] = local
			order = append(order, u)
		}
	}

	for _, u := range order {
		content = strings.ReplaceAll(content, u, mapping[u])
	}
	if mapped, ok := mapping[cover]; ok {
		cover = mapped
	}

	// Failed images become blank, not broken references.
	content = placeholderRefPattern.ReplaceAllString(content, "")
	if cover == Placeholder {
		cover = ""
	}

	return content, cover
}

// transcode fetches one image and writes its canonical JPEG copy under name.
func (p *Processor) transcode(ctx context.Context, url, name string) (string, error) {
	log.Info("downloading image", "url", url)

	body, contentType, err := p.fetch(ctx, url)
	if err != nil {
		return "", err
	}

	ext, ok := extensionFor(contentType)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	// Original bytes kept next to the HTML cache for audit.
	id := identity.ForSeed(url).String()
	if err := p.raw.Put(id+ext, body); err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", url, err)
	}

	if !isOpaque(img) {
		img = flatten(img)
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("encoding %s: %w", url, err)
	}
	if err := p.images.Put(name, buf.Bytes()); err != nil {
		return "", err
	}

	return name, nil
}

// extensionFor maps an accepted Content-Type to the raw-copy extension.
// Only the JPEG/PNG/GIF/WebP families are accepted.
func extensionFor(contentType string) (string, bool) {
	mediaType := contentType
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	mediaType = strings.TrimSpace(strings.ToLower(mediaType))

	switch {
	case mediaType == "image/jpeg":
		return ".jpg", true
	case mediaType == "image/png":
		return ".png", true
	case mediaType == "image/gif":
		return ".gif", true
	case strings.HasSuffix(mediaType, "webp"):
		return ".webp", true
	}
	return "", false
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

// flatten composites the image onto an opaque white background.
func flatten(img image.Image) image.Image {
	bg := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
