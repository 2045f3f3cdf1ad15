package opengraph

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/CYule/vibe-gallery/internal/config"
)

// Data holds the best-effort Open Graph metadata of a page. Fields the page
// doesn't provide are empty strings.
type Data struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Scraper fetches a URL and extracts its Open Graph metadata.
type Scraper struct {
	userAgent  string
	httpClient *http.Client
}

// New creates a new Open Graph scraper.
func New(cfg *config.ScraperConfig) *Scraper {
	userAgent := "Mozilla/5.0 (compatible; VibeGalleryBot/1.0; +https://vibegallery.app)"
	timeout := 10 * time.Second
	if cfg != nil {
		if cfg.UserAgent != "" {
			userAgent = cfg.UserAgent
		}
		if cfg.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
	}
	return &Scraper{
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// maxBodySize caps how much HTML the scraper reads. The meta tags live in
// the document head, anything beyond a few MB is not worth parsing.
const maxBodySize = 2 << 20

// Tags can list the content attribute before or after the property
// attribute, and some sites use name= instead of property=. One pattern per
// attribute order, tried in sequence.
func metaPatterns(property string) []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)<meta[^>]+(?:property|name)=["']og:` + property + `["'][^>]+content=["']([^"']+)["']`),
		regexp.MustCompile(`(?i)<meta[^>]+content=["']([^"']+)["'][^>]+(?:property|name)=["']og:` + property + `["']`),
	}
}

var (
	titlePatterns       = metaPatterns("title")
	descriptionPatterns = metaPatterns("description")
	imagePatterns       = metaPatterns("image")
	titleTagPattern     = regexp.MustCompile(`(?i)<title[^>]*>([^<]+)</title>`)
)

// Scrape fetches the URL and extracts og:title, og:description and og:image.
// Missing tags and non-2xx responses are not errors: the result just has
// empty fields. Only a failed fetch is reported as an error.
func (s *Scraper) Scrape(ctx context.Context, url string) (*Data, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Data{}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	html := string(body)

	data := &Data{
		Title:       matchMeta(html, titlePatterns),
		Description: matchMeta(html, descriptionPatterns),
		Image:       matchMeta(html, imagePatterns),
	}
	if data.Title == "" {
		if m := titleTagPattern.FindStringSubmatch(html); m != nil {
			data.Title = strings.TrimSpace(m[1])
		}
	}
	return data, nil
}

func matchMeta(html string, patterns []*regexp.Regexp) string {
	for _, pattern := range patterns {
		if m := pattern.FindStringSubmatch(html); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}
