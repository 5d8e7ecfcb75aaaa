package model

import (
	"time"

	"github.com/google/uuid"
)

type Source struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Path            string    `gorm:"type:varchar(500);uniqueIndex:idx_source_path;not null"`
	Kind            string    `gorm:"type:varchar(20);not null"`
	IsAccepted      bool      `gorm:"not null;default:true;index:idx_source_status"`
	RejectionReason *string   `gorm:"type:varchar(30)"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       *time.Time
}

func (Source) TableName() string {
	return "sources"
}
