package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentTransaction struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;index;not null" json:"appointment_id"`
	UserID        uuid.UUID `gorm:"type:uuid" json:"user_id"`

	Amount      float64 `json:"amount"`
	PaymentType string  `gorm:"size:20;not null" json:"payment_type"`
	Method      string  `gorm:"size:20;not null" json:"method"`
	Status      string  `gorm:"size:20;index;not null" json:"status"`

	// snapshot of the appointment payment_status, rewritten when the transaction is processed
	AppointmentPaymentStatus string `gorm:"size:20" json:"appointment_payment_status"`

	ProofURL    string  `gorm:"size:512" json:"proof_url"`
	ProviderRef *string `gorm:"size:100;uniqueIndex" json:"provider_ref"`
	AdminNotes  string  `gorm:"type:text" json:"admin_notes"`

	ProcessedBy *uuid.UUID `gorm:"type:uuid" json:"processed_by"`
	ProcessedAt *time.Time `json:"processed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
