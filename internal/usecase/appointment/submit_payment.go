package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/models"
)

type SubmitPaymentInput struct {
	PaymentType string `validate:"required,oneof=down_payment full_payment remaining_balance"`
	Proof       *Attachment
}

type PaymentResult struct {
	Appointment *models.Appointment        `json:"appointment"`
	Transaction *models.PaymentTransaction `json:"transaction,omitempty"`
}

// SubmitPayment records an online payment the customer made and leaves it for admin review.
type SubmitPayment struct {
	base
	uploader Uploader
}

func NewSubmitPayment(deps Deps, uploader Uploader) *SubmitPayment {
	return &SubmitPayment{
		base:     newBase(deps),
		uploader: uploader,
	}
}

func (uc *SubmitPayment) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uuid.UUID,
	in SubmitPaymentInput,
) (*PaymentResult, error) {

	if err := validateInput(in); err != nil {
		return nil, err
	}
	pt, _ := domain.ParsePendingType(in.PaymentType)

	proofURL, err := storeImage(ctx, uc.uploader, "payment-proofs", in.Proof)
	if err != nil {
		return nil, err
	}

	var ptx *models.PaymentTransaction

	ap, err := uc.mutate(ctx, appointmentID, func(tx domain.Repository, ap *models.Appointment) (bool, error) {
		if err := ensureOwner(ap, actor); err != nil {
			return false, err
		}

		amount, err := domain.DueAmount(ap, pt)
		if err != nil {
			return false, err
		}
		if amount <= 0 {
			return false, httperr.ErrInvalidTransition("nothing_due", "There is nothing left to pay.")
		}

		snapshot := ap.PaymentStatus
		if err := domain.MarkPaymentPending(ap, pt); err != nil {
			return false, err
		}

		ptx = &models.PaymentTransaction{
			AppointmentID:            ap.ID,
			UserID:                   ap.UserID,
			Amount:                   amount,
			PaymentType:              string(pt),
			Method:                   string(domain.MethodOnline),
			Status:                   string(domain.TxPending),
			AppointmentPaymentStatus: snapshot,
			ProofURL:                 proofURL,
		}
		if err := tx.CreatePaymentTransaction(ctx, ptx); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.LogPayment("submit", ap.ID.String(), fmt.Sprintf("%s %.2f", ptx.PaymentType, ptx.Amount))

	uc.notifier.NotifyAdmin(ctx,
		"Payment awaiting verification",
		fmt.Sprintf("A %s of %.2f was submitted for the %s on %s.", ptx.PaymentType, ptx.Amount, ap.EventType, ap.EventDate),
		NotifyPaymentSubmitted,
		meta(ap, "transaction_id", ptx.ID.String(), "amount", ptx.Amount),
	)

	uc.record(actor, "payment_submitted", ap.ID, meta(ap, "transaction_id", ptx.ID.String()))

	return &PaymentResult{Appointment: ap, Transaction: ptx}, nil
}
