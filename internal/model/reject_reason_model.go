package model

import "github.com/google/uuid"

type RejectReason struct {
	Id       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Reason   string    `gorm:"type:varchar(30);uniqueIndex;not null"`
	Severity int       `gorm:"not null;default:3"`
}

func (RejectReason) TableName() string {
	return "reject_reasons"
}
