package models

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`

	EventType  string `gorm:"size:50" json:"event_type"`
	EventDate  string `gorm:"size:10;index;not null" json:"event_date"`
	EventTime  string `gorm:"size:5;not null" json:"event_time"`
	GuestCount int    `json:"guest_count"`
	Venue      string `gorm:"size:255" json:"venue"`

	MenuSelections []string `gorm:"type:text;serializer:json" json:"menu_selections"`

	TotalPackageAmount float64 `json:"total_package_amount"`
	DownPaymentAmount  float64 `json:"down_payment_amount"`
	RemainingBalance   float64 `json:"remaining_balance"`
	AmountPaid         float64 `json:"amount_paid"`
	PenaltyAmount      float64 `json:"penalty_amount"`

	Status             string  `gorm:"size:40;index;not null" json:"status"`
	PaymentStatus      string  `gorm:"size:20;not null;default:'unpaid'" json:"payment_status"`
	PendingPaymentType *string `gorm:"size:20" json:"pending_payment_type"`

	AdminNotes string `gorm:"type:text" json:"admin_notes"`

	Version int `gorm:"not null;default:0" json:"-"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
