package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/models"
)

type CompleteAppointment struct {
	base
}

func NewCompleteAppointment(deps Deps) *CompleteAppointment {
	return &CompleteAppointment{base: newBase(deps)}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	admin Actor,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	now := uc.clock()

	ap, err := uc.mutate(ctx, appointmentID, func(_ domain.Repository, ap *models.Appointment) (bool, error) {
		if err := domain.Complete(ap, now); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.LogAppointment("complete", ap.ID.String(), "payment_status="+ap.PaymentStatus)

	uc.notifier.NotifyUser(ctx, ap.UserID,
		"Thank you",
		fmt.Sprintf("Your %s on %s is complete. Thank you for choosing us.", ap.EventType, ap.EventDate),
		NotifyAppointmentCompleted,
	)

	uc.record(admin, "appointment_completed", ap.ID, meta(ap))
	return ap, nil
}
