package models

import (
	"time"

	"github.com/google/uuid"
)

type Tasting struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"appointment_id"`

	ProposedDate string `gorm:"size:10" json:"proposed_date"`
	ProposedTime string `gorm:"size:5" json:"proposed_time"`

	Token          string    `gorm:"size:512" json:"-"`
	TokenExpiresAt time.Time `json:"token_expires_at"`

	Status      string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	ConfirmedAt *time.Time `json:"confirmed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
