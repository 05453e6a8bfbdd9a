package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/catering-booking/internal/audit"
	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/logger"
	"github.com/BruksfildServices01/catering-booking/internal/models"
)

// ======================================================
// DEPENDENCIES
// ======================================================

// Deps is shared by every booking use case. Zero fields get safe defaults.
type Deps struct {
	Repo     domain.Repository
	Locker   domain.Locker
	Notifier domain.Notifier
	Audit    *audit.Dispatcher
	Log      *logger.Logger
	Policy   domain.Policy
	Location *time.Location
	Now      func() time.Time
}

// Actor is the authenticated caller.
type Actor struct {
	ID    uuid.UUID
	Admin bool
}

type base struct {
	repo     domain.Repository
	locker   domain.Locker
	notifier domain.Notifier
	audit    *audit.Dispatcher
	log      *logger.Logger
	policy   domain.Policy
	loc      *time.Location
	now      func() time.Time
}

type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }

type noopNotifier struct{}

func (noopNotifier) NotifyUser(context.Context, uuid.UUID, string, string, string) {}
func (noopNotifier) NotifyAdmin(context.Context, string, string, string, map[string]any) {}

func newBase(d Deps) base {
	b := base{
		repo:     d.Repo,
		locker:   d.Locker,
		notifier: d.Notifier,
		audit:    d.Audit,
		log:      d.Log,
		policy:   d.Policy,
		loc:      d.Location,
		now:      d.Now,
	}

	if b.locker == nil {
		b.locker = noopLocker{}
	}
	if b.notifier == nil {
		b.notifier = noopNotifier{}
	}
	if b.log == nil {
		b.log = logger.Discard()
	}
	if b.policy == (domain.Policy{}) {
		b.policy = domain.DefaultPolicy()
	}
	if b.loc == nil {
		b.loc = time.UTC
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

func (b base) clock() time.Time {
	return b.now().In(b.loc)
}

// ======================================================
// MUTATION
// ======================================================

// mutate serialises writers of one appointment: distributed lock, then a transaction
// holding the row lock. fn reports whether the appointment itself must be written;
// UpdateAppointment enforces the version read at the top of the transaction.
func (b base) mutate(
	ctx context.Context,
	appointmentID uuid.UUID,
	fn func(tx domain.Repository, ap *models.Appointment) (bool, error),
) (*models.Appointment, error) {

	unlock, err := b.locker.Lock(ctx, "appointment:"+appointmentID.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out *models.Appointment
	err = b.repo.WithinTx(ctx, func(tx domain.Repository) error {
		ap, err := tx.GetAppointmentForUpdate(ctx, appointmentID)
		if err != nil {
			return err
		}

		changed, err := fn(tx, ap)
		if err != nil {
			return err
		}

		if changed {
			if err := tx.UpdateAppointment(ctx, ap); err != nil {
				return err
			}
		}

		out = ap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ======================================================
// HELPERS
// ======================================================

// ensureOwner hides other customers' bookings behind not_found.
func ensureOwner(ap *models.Appointment, actor Actor) error {
	if actor.Admin || ap.UserID == actor.ID {
		return nil
	}
	return httperr.ErrNotFound("appointment_not_found", "Appointment not found.")
}

func (b base) record(actor Actor, action string, entityID uuid.UUID, meta any) {
	var actorID *uuid.UUID
	if actor.ID != uuid.Nil {
		id := actor.ID
		actorID = &id
	}

	b.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   action,
		Entity:   "appointment",
		EntityID: &entityID,
		Metadata: meta,
	})
}

func meta(ap *models.Appointment, kv ...any) map[string]any {
	m := map[string]any{
		"appointment_id": ap.ID.String(),
		"status":         ap.Status,
		"payment_status": ap.PaymentStatus,
		"event_date":     ap.EventDate,
	}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			m[k] = kv[i+1]
		}
	}
	return m
}

func pendingTx(txs []models.PaymentTransaction) *models.PaymentTransaction {
	for i := len(txs) - 1; i >= 0; i-- {
		if domain.TxStatus(txs[i].Status) == domain.TxPending {
			return &txs[i]
		}
	}
	return nil
}

func holdsMoney(txs []models.PaymentTransaction) bool {
	for _, tx := range txs {
		switch domain.TxStatus(tx.Status) {
		case domain.TxPending, domain.TxVerified:
			return true
		}
	}
	return false
}

// optionalTasting tolerates bookings without a tasting row.
func optionalTasting(ctx context.Context, tx domain.Repository, appointmentID uuid.UUID) (*models.Tasting, error) {
	t, err := tx.GetTasting(ctx, appointmentID)
	if err == nil {
		return t, nil
	}
	if httperr.KindOf(err) == httperr.KindNotFound {
		return nil, nil
	}
	return nil, err
}
