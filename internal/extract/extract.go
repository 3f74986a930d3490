// ABOUTME: Extraction-engine adapter converting cached HTML files to markdown
// ABOUTME: Wraps html-to-markdown as a black-box converter keyed by file path

package extract

import (
	"fmt"
	"os"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// File converts a locally cached HTML file to markdown text. The converter
// is generic and not site-aware; scrubbing site boilerplate out of its
// output is the scrub package's job.
func File(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	markdown, err := htmltomarkdown.ConvertString(string(data))
	if err != nil {
		return "", fmt.Errorf("converting %s: %w", path, err)
	}
	return markdown, nil
}
