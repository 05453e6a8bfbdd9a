package dto

import (
	"github.com/google/uuid"

	"github.com/BruksfildServices01/catering-booking/internal/models"
)

type AppointmentListDTO struct {
	ID                 uuid.UUID `json:"id"`
	EventType          string    `json:"event_type"`
	EventDate          string    `json:"event_date"`
	EventTime          string    `json:"event_time"`
	GuestCount         int       `json:"guest_count"`
	Venue              string    `json:"venue"`
	Status             string    `json:"status"`
	PaymentStatus      string    `json:"payment_status"`
	PendingPaymentType *string   `json:"pending_payment_type"`
	TotalPackageAmount float64   `json:"total_package_amount"`
	RemainingBalance   float64   `json:"remaining_balance"`
}

func NewAppointmentListDTO(ap models.Appointment) AppointmentListDTO {
	return AppointmentListDTO{
		ID:                 ap.ID,
		EventType:          ap.EventType,
		EventDate:          ap.EventDate,
		EventTime:          ap.EventTime,
		GuestCount:         ap.GuestCount,
		Venue:              ap.Venue,
		Status:             ap.Status,
		PaymentStatus:      ap.PaymentStatus,
		PendingPaymentType: ap.PendingPaymentType,
		TotalPackageAmount: ap.TotalPackageAmount,
		RemainingBalance:   ap.RemainingBalance,
	}
}

type PendingRequestDTO struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	CreatedAt string    `json:"created_at"`
}

type AppointmentDetailDTO struct {
	Appointment     *models.Appointment         `json:"appointment"`
	Tasting         *models.Tasting             `json:"tasting"`
	Payments        []models.PaymentTransaction `json:"payments"`
	PendingRequests []PendingRequestDTO         `json:"pending_requests"`
}
