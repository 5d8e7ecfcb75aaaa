package extractor

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rag-knowledge-be/internal/apperror"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelector lists the elements stripped before text extraction.
const noiseSelector = "script, style, nav, footer, header, aside, form, noscript"

// minLineLength filters out fragments that are likely navigation noise.
const minLineLength = 15

// WebScraper extracts the readable text of a page: noise tags removed,
// whitespace normalized, short fragments and exact duplicates dropped.
type WebScraper struct {
	client *http.Client
}

var _ WebExtractor = &WebScraper{}

func NewWebScraper(timeout time.Duration) *WebScraper {
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	return &WebScraper{
		client: &http.Client{Timeout: timeout},
	}
}

func (s *WebScraper) Scrape(ctx context.Context, rawUrl string) (string, error) {
	parsed, err := url.Parse(rawUrl)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", apperror.Newf(apperror.KindExtraction, "invalid URL scheme: %s", rawUrl)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawUrl, nil)
	if err != nil {
		return "", apperror.Wrap(apperror.KindExtraction, "create request", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if apperror.IsTimeout(err) {
			return "", apperror.Wrap(apperror.KindTimeout, "scrape timed out", err)
		}
		return "", apperror.Wrap(apperror.KindExtraction, "fetch page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperror.Newf(apperror.KindExtraction, "fetch page: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", apperror.Wrap(apperror.KindExtraction, "parse html", err)
	}

	doc.Find(noiseSelector).Remove()

	return filterText(doc.Find("body").Text()), nil
}

// filterText normalizes whitespace per line, drops short fragments and
// case-insensitive duplicates, and joins what remains.
func filterText(raw string) string {
	var texts []string
	seen := make(map[string]struct{})

	for _, line := range strings.Split(raw, "\n") {
		text := strings.Join(strings.Fields(line), " ")
		if len(text) < minLineLength {
			continue
		}
		key := strings.ToLower(text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		texts = append(texts, text)
	}

	return strings.Join(texts, "\n\n")
}
