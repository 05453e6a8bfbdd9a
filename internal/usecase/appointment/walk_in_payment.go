package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/models"
)

type WalkInPaymentInput struct {
	Amount float64 `validate:"gt=0"`
	Notes  string  `validate:"max=1000"`
}

// RecordWalkInPayment books cash taken at the counter; it is verified on entry.
type RecordWalkInPayment struct {
	base
}

func NewRecordWalkInPayment(deps Deps) *RecordWalkInPayment {
	return &RecordWalkInPayment{base: newBase(deps)}
}

func (uc *RecordWalkInPayment) Execute(
	ctx context.Context,
	admin Actor,
	appointmentID uuid.UUID,
	in WalkInPaymentInput,
) (*PaymentResult, error) {

	if err := validateInput(in); err != nil {
		return nil, err
	}
	now := uc.clock()
	amount := domain.RoundCents(in.Amount)

	var ptx *models.PaymentTransaction

	ap, err := uc.mutate(ctx, appointmentID, func(tx domain.Repository, ap *models.Appointment) (bool, error) {
		if err := verifiable(ap); err != nil {
			return false, err
		}
		if ap.PendingPaymentType != nil {
			return false, httperr.ErrDuplicateRequest(
				"payment_pending",
				"Resolve the payment awaiting verification before recording another one.",
			)
		}
		if amount > ap.RemainingBalance {
			return false, httperr.ErrValidation(
				"amount_exceeds_balance",
				fmt.Sprintf("The remaining balance is %.2f.", ap.RemainingBalance),
			)
		}

		if err := domain.ApplyVerifiedPayment(ap, domain.PaymentTypeCash, amount); err != nil {
			return false, err
		}
		domain.AppendNote(ap, domain.NoteWalkInPayment, now, fmt.Sprintf("%.2f by %s", amount, admin.ID))

		adminID := admin.ID
		ptx = &models.PaymentTransaction{
			AppointmentID:            ap.ID,
			UserID:                   ap.UserID,
			Amount:                   amount,
			PaymentType:              string(domain.PaymentTypeCash),
			Method:                   string(domain.MethodWalkIn),
			Status:                   string(domain.TxVerified),
			AppointmentPaymentStatus: ap.PaymentStatus,
			AdminNotes:               in.Notes,
			ProcessedBy:              &adminID,
			ProcessedAt:              &now,
		}
		if err := tx.CreatePaymentTransaction(ctx, ptx); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.LogPayment("walk_in", ap.ID.String(), fmt.Sprintf("%.2f payment_status=%s", amount, ap.PaymentStatus))

	uc.notifier.NotifyUser(ctx, ap.UserID,
		"Payment received",
		fmt.Sprintf("We received your payment of %.2f. Remaining balance: %.2f.", amount, ap.RemainingBalance),
		NotifyPaymentVerified,
	)

	uc.record(admin, "payment_walk_in", ap.ID, meta(ap, "amount", amount))
	return &PaymentResult{Appointment: ap, Transaction: ptx}, nil
}

// verifiable rejects appointments that cannot take another verified payment.
func verifiable(ap *models.Appointment) error {
	if _, err := domain.Next(domain.Status(ap.Status), domain.EventPaymentVerified); err != nil {
		return err
	}
	if domain.PaymentStatus(ap.PaymentStatus) == domain.PaymentFullyPaid {
		return httperr.ErrInvalidTransition("already_fully_paid", "This booking is already fully paid.")
	}
	return nil
}
