package models

import (
	"time"

	"github.com/google/uuid"
)

type CancellationRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;index;not null" json:"appointment_id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`

	Reason        string `gorm:"type:text;not null" json:"reason"`
	AttachmentURL string `gorm:"size:512" json:"attachment_url"`
	Status        string `gorm:"size:20;not null;default:'pending'" json:"status"`
	AdminNotes    string `gorm:"type:text" json:"admin_notes"`

	ProcessedBy *uuid.UUID `gorm:"type:uuid" json:"processed_by"`
	ProcessedAt *time.Time `json:"processed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RescheduleRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;index;not null" json:"appointment_id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`

	CurrentEventDate string `gorm:"size:10" json:"current_event_date"`
	CurrentEventTime string `gorm:"size:5" json:"current_event_time"`
	NewEventDate     string `gorm:"size:10;not null" json:"new_event_date"`
	NewEventTime     string `gorm:"size:5;not null" json:"new_event_time"`
	Reason           string `gorm:"type:text" json:"reason"`

	PenaltyApplied bool    `json:"penalty_applied"`
	PenaltyAmount  float64 `json:"penalty_amount"`
	NewTotalAmount float64 `json:"new_total_amount"`

	Status     string `gorm:"size:20;not null;default:'pending'" json:"status"`
	AdminNotes string `gorm:"type:text" json:"admin_notes"`

	ProcessedBy *uuid.UUID `gorm:"type:uuid" json:"processed_by"`
	ProcessedAt *time.Time `json:"processed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
