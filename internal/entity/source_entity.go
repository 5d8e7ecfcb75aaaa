package entity

import (
	"time"

	"github.com/google/uuid"
)

type SourceKind string

const (
	SourceKindDefault SourceKind = "default"
	SourceKindWeb     SourceKind = "web"
	SourceKindYoutube SourceKind = "youtube"
	SourceKindPdf     SourceKind = "pdf"
)

func (k SourceKind) Valid() bool {
	switch k {
	case SourceKindDefault, SourceKindWeb, SourceKindYoutube, SourceKindPdf:
		return true
	}
	return false
}

type RejectReason string

const (
	RejectReasonInappropriate RejectReason = "inappropriate"
	RejectReasonDuplicate     RejectReason = "duplicated"
	RejectReasonLowQuality    RejectReason = "low_quality"
	RejectReasonOutdated      RejectReason = "obsolete"
)

// Source is the deduplication anchor for ingested material. At most one
// Source exists per distinct path.
type Source struct {
	Id              uuid.UUID
	Path            string
	Kind            SourceKind
	IsAccepted      bool
	RejectionReason *RejectReason
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
