// ABOUTME: HTTP fetcher for feed documents, article pages, and images with SSRF and DoS protection.
// ABOUTME: Article HTML is charset-normalized to UTF-8 so cached pages extract cleanly.

package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/html/charset"
)

const MaxResponseSize = 10 * 1024 * 1024 // 10MB

var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// isPrivateIP checks if an IP address is in a private range (excluding loopback for tests).
func isPrivateIP(ip net.IP) bool {
	// Allow loopback addresses (localhost) for tests
	if ip.IsLoopback() {
		return false
	}
	return ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast()
}

// Raw retrieves a URL and returns the response body and its Content-Type.
// Returns an error for non-200 status codes. Includes SSRF protection by
// blocking private IP ranges and DoS protection via a response size limit.
// There are no retries: a transient failure is the caller's to absorb.
func Raw(ctx context.Context, urlStr string) ([]byte, string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, "", fmt.Errorf("invalid URL: %w", err)
	}

	// SSRF protection: block private IP ranges
	if ips, err := net.LookupIP(parsedURL.Hostname()); err == nil {
		for _, ip := range ips {
			if isPrivateIP(ip) {
				return nil, "", fmt.Errorf("access to private IP ranges is not allowed")
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "mdnews/1.0 (feed digest)")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	limitedReader := io.LimitReader(resp.Body, MaxResponseSize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(body)) > MaxResponseSize {
		return nil, "", fmt.Errorf("response too large (exceeds %d bytes)", MaxResponseSize)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// HTML retrieves an article page and decodes it to UTF-8 using the declared
// Content-Type charset (news sites still serve ISO-8859-2 and friends). The
// decoded form is what gets cached, so extraction never sees mojibake.
func HTML(ctx context.Context, urlStr string) ([]byte, error) {
	body, contentType, err := Raw(ctx, urlStr)
	if err != nil {
		return nil, err
	}

	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		// Undetectable charset: cache the body as-is rather than fail the article.
		return body, nil
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	return decoded, nil
}
