package extractor

import "context"

// WebExtractor pulls readable text from a web page.
type WebExtractor interface {
	Scrape(ctx context.Context, url string) (string, error)
}

// TranscriptExtractor pulls spoken text from a video source.
type TranscriptExtractor interface {
	Transcribe(ctx context.Context, videoUrl string) (string, error)
}
