package dto

import "github.com/google/uuid"

// IngestRequest targets exactly one source reference; the kind decides
// which extractor runs.
type IngestRequest struct {
	Url      string `json:"url,omitempty" validate:"omitempty,url"`
	VideoUrl string `json:"video_url,omitempty" validate:"omitempty,url"`
	Path     string `json:"path,omitempty"`
}

type IngestResponse struct {
	SourceId uuid.UUID `json:"source_id"`
	Ingested int       `json:"ingested"`
}
