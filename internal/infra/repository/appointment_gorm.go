package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func notFound(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code, message)
	}
	return err
}

func duplicatePending(err error) error {
	if httperr.IsUniqueViolation(err) {
		return httperr.ErrDuplicateRequest(
			"pending_request_exists",
			"There is already a pending request for this booking.",
		)
	}
	return err
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

func (r *AppointmentGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// row locks are only issued where the dialect supports FOR UPDATE
func (r *AppointmentGormRepository) locking(q *gorm.DB) *gorm.DB {
	if r.db.Dialector.Name() == "postgres" {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "appointment_not_found", "Appointment not found.")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.locking(r.db.WithContext(ctx)).
		First(&ap, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "appointment_not_found", "Appointment not found.")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	filter domain.AppointmentFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{})

	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Month != "" {
		q = q.Where("event_date LIKE ?", filter.Month+"-%")
	}

	var apps []models.Appointment
	if err := q.Order("event_date ASC, event_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListActiveAppointments(
	ctx context.Context,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("status NOT IN ?", []string{string(domain.StatusCancelled), string(domain.StatusCompleted)}).
		Order("created_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

// UpdateAppointment writes every column, conditional on the version that was read.
func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	read := ap.Version
	ap.Version = read + 1

	res := r.db.WithContext(ctx).
		Model(ap).
		Where("version = ?", read).
		Select("*").
		Omit("id", "created_at").
		Updates(ap)
	if res.Error != nil {
		ap.Version = read
		return res.Error
	}
	if res.RowsAffected == 0 {
		ap.Version = read
		return httperr.ErrConflict(
			"appointment_modified",
			"The appointment was changed by someone else, reload and try again.",
		)
	}
	return nil
}

// --------------------------------------------------
// Tasting
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateTasting(
	ctx context.Context,
	t *models.Tasting,
) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *AppointmentGormRepository) GetTasting(
	ctx context.Context,
	appointmentID uuid.UUID,
) (*models.Tasting, error) {

	var t models.Tasting
	if err := r.db.WithContext(ctx).
		First(&t, "appointment_id = ?", appointmentID).Error; err != nil {
		return nil, notFound(err, "tasting_not_found", "Tasting not found.")
	}
	return &t, nil
}

func (r *AppointmentGormRepository) GetTastingByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Tasting, error) {

	var t models.Tasting
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "tasting_not_found", "Tasting not found.")
	}
	return &t, nil
}

func (r *AppointmentGormRepository) UpdateTasting(
	ctx context.Context,
	t *models.Tasting,
) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// --------------------------------------------------
// Payments
// --------------------------------------------------

func (r *AppointmentGormRepository) CreatePaymentTransaction(
	ctx context.Context,
	tx *models.PaymentTransaction,
) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		if tx.ProviderRef != nil && httperr.IsUniqueViolation(err) {
			return httperr.ErrAlreadyProcessed("payment_already_recorded", "Payment was already recorded.")
		}
		return err
	}
	return nil
}

func (r *AppointmentGormRepository) UpdatePaymentTransaction(
	ctx context.Context,
	tx *models.PaymentTransaction,
) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

func (r *AppointmentGormRepository) ListPaymentTransactions(
	ctx context.Context,
	appointmentID uuid.UUID,
) ([]models.PaymentTransaction, error) {

	var txs []models.PaymentTransaction
	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("created_at ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *AppointmentGormRepository) FindPaymentByProviderRef(
	ctx context.Context,
	ref string,
) (*models.PaymentTransaction, error) {

	var tx models.PaymentTransaction
	if err := r.db.WithContext(ctx).First(&tx, "provider_ref = ?", ref).Error; err != nil {
		return nil, notFound(err, "payment_not_found", "Payment not found.")
	}
	return &tx, nil
}

// --------------------------------------------------
// Cancellation requests
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateCancellationRequest(
	ctx context.Context,
	req *models.CancellationRequest,
) error {
	return duplicatePending(r.db.WithContext(ctx).Create(req).Error)
}

func (r *AppointmentGormRepository) GetCancellationRequest(
	ctx context.Context,
	id uuid.UUID,
) (*models.CancellationRequest, error) {

	var req models.CancellationRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "request_not_found", "Cancellation request not found.")
	}
	return &req, nil
}

func (r *AppointmentGormRepository) UpdateCancellationRequest(
	ctx context.Context,
	req *models.CancellationRequest,
) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *AppointmentGormRepository) ListCancellationRequests(
	ctx context.Context,
	status string,
) ([]models.CancellationRequest, error) {

	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var out []models.CancellationRequest
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Reschedule requests
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateRescheduleRequest(
	ctx context.Context,
	req *models.RescheduleRequest,
) error {
	return duplicatePending(r.db.WithContext(ctx).Create(req).Error)
}

func (r *AppointmentGormRepository) GetRescheduleRequest(
	ctx context.Context,
	id uuid.UUID,
) (*models.RescheduleRequest, error) {

	var req models.RescheduleRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "request_not_found", "Reschedule request not found.")
	}
	return &req, nil
}

func (r *AppointmentGormRepository) UpdateRescheduleRequest(
	ctx context.Context,
	req *models.RescheduleRequest,
) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *AppointmentGormRepository) ListRescheduleRequests(
	ctx context.Context,
	status string,
) ([]models.RescheduleRequest, error) {

	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var out []models.RescheduleRequest
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Pending requests
// --------------------------------------------------

func (r *AppointmentGormRepository) ListPendingRequests(
	ctx context.Context,
	appointmentID uuid.UUID,
	kind domain.RequestKind,
) ([]domain.PendingRequest, error) {

	var table string
	switch kind {
	case domain.KindCancellation:
		table = "cancellation_requests"
	case domain.KindReschedule:
		table = "reschedule_requests"
	default:
		return nil, httperr.ErrValidation("invalid_request_kind", "Unknown request kind.")
	}

	var out []domain.PendingRequest
	if err := r.db.WithContext(ctx).
		Table(table).
		Select("id", "created_at").
		Where("appointment_id = ? AND status = ?", appointmentID, string(domain.RequestPending)).
		Order("created_at ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}

	for i := range out {
		out[i].Kind = kind
	}
	return out, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
