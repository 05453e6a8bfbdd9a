package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/models"
)

// CancelAppointment is the customer's direct cancellation. Once money is involved the
// customer has to go through a cancellation request instead.
type CancelAppointment struct {
	base
}

func NewCancelAppointment(deps Deps) *CancelAppointment {
	return &CancelAppointment{base: newBase(deps)}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	now := uc.clock()

	ap, err := uc.mutate(ctx, appointmentID, func(tx domain.Repository, ap *models.Appointment) (bool, error) {
		if err := ensureOwner(ap, actor); err != nil {
			return false, err
		}

		txs, err := tx.ListPaymentTransactions(ctx, ap.ID)
		if err != nil {
			return false, err
		}

		t, err := optionalTasting(ctx, tx, ap.ID)
		if err != nil {
			return false, err
		}

		if err := domain.CancelByUser(ap, t, holdsMoney(txs), now); err != nil {
			return false, err
		}
		domain.AppendNote(ap, domain.NoteCancelledByUser, now, "by "+actor.ID.String())

		if t != nil {
			if err := tx.UpdateTasting(ctx, t); err != nil {
				return false, err
			}
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.LogAppointment("cancel", ap.ID.String(), "cancelled by customer")

	uc.notifier.NotifyUser(ctx, ap.UserID,
		"Booking cancelled",
		fmt.Sprintf("Your %s on %s was cancelled.", ap.EventType, ap.EventDate),
		NotifyAppointmentCancelled,
	)
	uc.notifier.NotifyAdmin(ctx,
		"Booking cancelled by customer",
		fmt.Sprintf("The %s on %s was cancelled by the customer.", ap.EventType, ap.EventDate),
		NotifyAppointmentCancelled,
		meta(ap),
	)

	uc.record(actor, "appointment_cancelled", ap.ID, meta(ap))
	return ap, nil
}
