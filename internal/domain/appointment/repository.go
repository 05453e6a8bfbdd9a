package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/catering-booking/internal/models"
)

type AppointmentFilter struct {
	UserID *uuid.UUID
	Status string
	// Month is YYYY-MM and matches event_date
	Month string
}

type PendingRequest struct {
	ID        uuid.UUID
	Kind      RequestKind
	CreatedAt time.Time
}

// Repository returns httperr not_found errors for missing rows and an httperr conflict
// when UpdateAppointment loses a concurrent write.
type Repository interface {
	// -------- Transactions --------
	WithinTx(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Appointment --------
	GetAppointment(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Appointment, error)

	// GetAppointmentForUpdate locks the row until the surrounding transaction ends.
	GetAppointmentForUpdate(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Appointment, error)

	ListAppointments(
		ctx context.Context,
		filter AppointmentFilter,
	) ([]models.Appointment, error)

	ListActiveAppointments(
		ctx context.Context,
	) ([]models.Appointment, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Tasting --------
	CreateTasting(
		ctx context.Context,
		t *models.Tasting,
	) error

	GetTasting(
		ctx context.Context,
		appointmentID uuid.UUID,
	) (*models.Tasting, error)

	GetTastingByID(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Tasting, error)

	UpdateTasting(
		ctx context.Context,
		t *models.Tasting,
	) error

	// -------- Payments --------
	CreatePaymentTransaction(
		ctx context.Context,
		tx *models.PaymentTransaction,
	) error

	UpdatePaymentTransaction(
		ctx context.Context,
		tx *models.PaymentTransaction,
	) error

	ListPaymentTransactions(
		ctx context.Context,
		appointmentID uuid.UUID,
	) ([]models.PaymentTransaction, error)

	FindPaymentByProviderRef(
		ctx context.Context,
		ref string,
	) (*models.PaymentTransaction, error)

	// -------- Requests --------
	CreateCancellationRequest(
		ctx context.Context,
		req *models.CancellationRequest,
	) error

	GetCancellationRequest(
		ctx context.Context,
		id uuid.UUID,
	) (*models.CancellationRequest, error)

	UpdateCancellationRequest(
		ctx context.Context,
		req *models.CancellationRequest,
	) error

	ListCancellationRequests(
		ctx context.Context,
		status string,
	) ([]models.CancellationRequest, error)

	CreateRescheduleRequest(
		ctx context.Context,
		req *models.RescheduleRequest,
	) error

	GetRescheduleRequest(
		ctx context.Context,
		id uuid.UUID,
	) (*models.RescheduleRequest, error)

	UpdateRescheduleRequest(
		ctx context.Context,
		req *models.RescheduleRequest,
	) error

	ListRescheduleRequests(
		ctx context.Context,
		status string,
	) ([]models.RescheduleRequest, error)

	ListPendingRequests(
		ctx context.Context,
		appointmentID uuid.UUID,
		kind RequestKind,
	) ([]PendingRequest, error)
}

// Notifier delivery is best effort; implementations must not fail the caller.
type Notifier interface {
	NotifyUser(ctx context.Context, userID uuid.UUID, title, message, kind string)
	NotifyAdmin(ctx context.Context, title, message, kind string, metadata map[string]any)
}

// Locker serialises mutations of a single appointment across processes.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
