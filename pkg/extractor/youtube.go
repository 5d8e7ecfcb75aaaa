package extractor

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rag-knowledge-be/internal/apperror"
)

// YoutubeTranscriber fetches published captions for a video via the
// timedtext endpoint, trying languages in preference order. Videos without
// captions fail with an extraction error; there is no audio fallback.
type YoutubeTranscriber struct {
	client    *http.Client
	languages []string
}

var _ TranscriptExtractor = &YoutubeTranscriber{}

func NewYoutubeTranscriber(languages []string) *YoutubeTranscriber {
	if len(languages) == 0 {
		languages = []string{"fr", "en"}
	}
	return &YoutubeTranscriber{
		client:    &http.Client{Timeout: 15 * time.Second},
		languages: languages,
	}
}

type timedText struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Body string `xml:",chardata"`
	} `xml:"text"`
}

// extractVideoId handles youtu.be short links and youtube.com watch URLs.
// Anything else is passed through as an id.
func extractVideoId(videoUrl string) string {
	parsed, err := url.Parse(videoUrl)
	if err != nil {
		return videoUrl
	}
	if strings.Contains(parsed.Host, "youtu.be") {
		return strings.TrimPrefix(parsed.Path, "/")
	}
	if strings.Contains(parsed.Host, "youtube.com") {
		if v := parsed.Query().Get("v"); v != "" {
			return v
		}
	}
	return videoUrl
}

func (t *YoutubeTranscriber) fetchTranscript(ctx context.Context, videoId, language string) (string, error) {
	endpoint := fmt.Sprintf("https://video.google.com/timedtext?lang=%s&v=%s",
		url.QueryEscape(language), url.QueryEscape(videoId))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("timedtext status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var transcript timedText
	if err := xml.Unmarshal(body, &transcript); err != nil {
		return "", err
	}

	snippets := make([]string, 0, len(transcript.Texts))
	for _, text := range transcript.Texts {
		cleaned := strings.TrimSpace(html.UnescapeString(text.Body))
		if cleaned != "" {
			snippets = append(snippets, cleaned)
		}
	}
	if len(snippets) == 0 {
		return "", fmt.Errorf("no transcript in language %s", language)
	}

	return strings.Join(snippets, " "), nil
}

func (t *YoutubeTranscriber) Transcribe(ctx context.Context, videoUrl string) (string, error) {
	videoId := extractVideoId(videoUrl)

	var lastErr error
	for _, language := range t.languages {
		text, err := t.fetchTranscript(ctx, videoId, language)
		if err == nil {
			return text, nil
		}
		if apperror.IsTimeout(err) {
			return "", apperror.Wrap(apperror.KindTimeout, "transcript fetch timed out", err)
		}
		lastErr = err
	}

	return "", apperror.Wrap(apperror.KindExtraction,
		fmt.Sprintf("transcription for video %s failed", videoId), lastErr)
}
