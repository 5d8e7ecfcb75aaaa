package dto

import (
	"time"

	"rag-knowledge-be/internal/entity"

	"github.com/google/uuid"
)

type AskRequest struct {
	Question string `json:"question" validate:"required,min=5"`
	Language string `json:"language,omitempty" validate:"omitempty,oneof=fr en"`
	// Zero values fall back to the configured defaults.
	TopK       int `json:"top_k,omitempty" validate:"omitempty,min=1"`
	MinK       int `json:"min_k,omitempty" validate:"omitempty,min=1"`
	TokenLimit int `json:"token_limit,omitempty" validate:"omitempty,min=1"`
}

type AskResponse struct {
	Answer  string            `json:"answer"`
	Sources []*SourceResponse `json:"sources"`
}

type SourceResponse struct {
	Id              uuid.UUID `json:"id"`
	Path            string    `json:"path"`
	Kind            string    `json:"kind"`
	IsAccepted      bool      `json:"is_accepted"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewSourceResponse(source *entity.Source) *SourceResponse {
	response := &SourceResponse{
		Id:         source.Id,
		Path:       source.Path,
		Kind:       string(source.Kind),
		IsAccepted: source.IsAccepted,
		CreatedAt:  source.CreatedAt,
	}
	if source.RejectionReason != nil {
		reason := string(*source.RejectionReason)
		response.RejectionReason = &reason
	}
	return response
}
