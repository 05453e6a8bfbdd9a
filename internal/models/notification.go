package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// nil for the admin channel
	UserID   *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Audience string     `gorm:"size:10;not null" json:"audience"`

	Title    string `gorm:"size:150;not null" json:"title"`
	Message  string `gorm:"type:text" json:"message"`
	Kind     string `gorm:"size:50" json:"kind"`
	Metadata string `gorm:"type:text" json:"metadata"`

	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
}
