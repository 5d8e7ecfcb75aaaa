package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rag-knowledge-be/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "short fragments dropped",
			raw:  "Home\nAbout\nThis line is long enough to keep around",
			want: "This line is long enough to keep around",
		},
		{
			name: "whitespace collapsed per line",
			raw:  "  A   sentence   with   ragged    spacing here  ",
			want: "A sentence with ragged spacing here",
		},
		{
			name: "case insensitive duplicates dropped",
			raw:  "Subscribe to our newsletter\nSUBSCRIBE TO OUR NEWSLETTER\nActual article body text",
			want: "Subscribe to our newsletter\n\nActual article body text",
		},
		{
			name: "empty input",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filterText(tt.raw))
		})
	}
}

func TestScrapeStripsNoiseTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<nav>Site navigation links everywhere</nav>
			<script>var tracking = "should never appear";</script>
			<p>The actual readable article content of the page.</p>
			<footer>Copyright notice and legal boilerplate</footer>
		</body></html>`))
	}))
	defer srv.Close()

	scraper := NewWebScraper(2 * time.Second)
	text, err := scraper.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "The actual readable article content of the page.")
	assert.NotContains(t, text, "Site navigation")
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "Copyright")
}

func TestScrapeRejectsNonHttpScheme(t *testing.T) {
	scraper := NewWebScraper(2 * time.Second)

	for _, raw := range []string{"ftp://example.com/file", "file:///etc/passwd", "not a url"} {
		_, err := scraper.Scrape(context.Background(), raw)
		require.Error(t, err, raw)
		assert.True(t, apperror.IsKind(err, apperror.KindExtraction), raw)
	}
}

func TestScrapeNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	scraper := NewWebScraper(2 * time.Second)
	_, err := scraper.Scrape(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindExtraction))
}

func TestExtractVideoId(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractVideoId(tt.url), tt.url)
	}
}
