package domain

import (
	"time"
)

// RejectedLine is a raw feed line that failed ingestion, kept for diagnostics.
type RejectedLine struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Line      string    `json:"line"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
