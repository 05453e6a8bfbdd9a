package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/models"
)

type VerifyPaymentInput struct {
	Action string `validate:"required,oneof=verify reject"`
	Notes  string `validate:"max=1000"`
}

type VerifyResult struct {
	PaymentResult
	// Noop is set when a fully paid appointment had nothing left to verify.
	Noop bool `json:"noop"`
}

type VerifyPayment struct {
	base
}

func NewVerifyPayment(deps Deps) *VerifyPayment {
	return &VerifyPayment{base: newBase(deps)}
}

func (uc *VerifyPayment) Execute(
	ctx context.Context,
	admin Actor,
	appointmentID uuid.UUID,
	in VerifyPaymentInput,
) (*VerifyResult, error) {

	if err := validateInput(in); err != nil {
		return nil, err
	}
	action := domain.PaymentAction(in.Action)
	now := uc.clock()

	var (
		ptx  *models.PaymentTransaction
		noop bool
	)

	ap, err := uc.mutate(ctx, appointmentID, func(tx domain.Repository, ap *models.Appointment) (bool, error) {
		txs, err := tx.ListPaymentTransactions(ctx, ap.ID)
		if err != nil {
			return false, err
		}
		ptx = pendingTx(txs)

		nothingPending := ap.PendingPaymentType == nil && ptx == nil
		if nothingPending && domain.PaymentStatus(ap.PaymentStatus) == domain.PaymentFullyPaid {
			noop = true
			return false, nil
		}

		ev := domain.EventPaymentVerified
		if action == domain.ActionReject {
			ev = domain.EventPaymentRejected
		}
		if _, err := domain.Next(domain.Status(ap.Status), ev); err != nil {
			return false, err
		}
		if nothingPending {
			return false, httperr.ErrInvalidTransition("no_pending_payment", "There is no payment awaiting verification.")
		}

		pt, amount, err := pendingPayment(ap, ptx)
		if err != nil {
			return false, err
		}

		switch action {
		case domain.ActionVerify:
			if err := domain.ApplyVerifiedPayment(ap, pt, amount); err != nil {
				return false, err
			}
			domain.AppendNote(ap, domain.NotePaymentVerified, now,
				fmt.Sprintf("%s %.2f by %s", pt, amount, admin.ID))
		default:
			if err := domain.ApplyRejectedPayment(ap); err != nil {
				return false, err
			}
			domain.AppendNote(ap, domain.NotePaymentRejected, now,
				fmt.Sprintf("%s %.2f by %s: %s", pt, amount, admin.ID, in.Notes))
		}

		if ptx != nil {
			closeTransaction(ptx, action, ap, admin.ID, in.Notes, now)
			if err := tx.UpdatePaymentTransaction(ctx, ptx); err != nil {
				return false, err
			}
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	res := &VerifyResult{PaymentResult: PaymentResult{Appointment: ap, Transaction: ptx}, Noop: noop}
	if noop {
		uc.log.LogPayment("verify", ap.ID.String(), "already fully paid, nothing to do")
		return res, nil
	}

	uc.log.LogPayment(in.Action, ap.ID.String(), "payment_status="+ap.PaymentStatus+" status="+ap.Status)

	if action == domain.ActionVerify {
		uc.notifier.NotifyUser(ctx, ap.UserID,
			"Payment verified",
			fmt.Sprintf("We received your payment. Amount paid so far: %.2f, remaining balance: %.2f.", ap.AmountPaid, ap.RemainingBalance),
			NotifyPaymentVerified,
		)
	} else {
		msg := "Your payment could not be verified."
		if in.Notes != "" {
			msg += " Reason: " + in.Notes
		}
		uc.notifier.NotifyUser(ctx, ap.UserID, "Payment rejected", msg, NotifyPaymentRejected)
	}

	uc.record(admin, "payment_"+in.Action, ap.ID, meta(ap, "notes", in.Notes))
	return res, nil
}

// pendingPayment resolves type and amount of the payment under review. Rows created before
// transactions were recorded only carry the pending flag on the appointment.
func pendingPayment(ap *models.Appointment, ptx *models.PaymentTransaction) (domain.PaymentType, float64, error) {
	var pt domain.PaymentType

	switch {
	case ap.PendingPaymentType != nil:
		t, ok := domain.ParsePendingType(*ap.PendingPaymentType)
		if !ok {
			return "", 0, httperr.ErrValidation("invalid_payment_type", "Unknown pending payment type.")
		}
		pt = t
	default:
		pt = domain.PaymentType(ptx.PaymentType)
	}

	if ptx != nil {
		return pt, ptx.Amount, nil
	}

	amount, err := domain.DueAmount(ap, pt)
	return pt, amount, err
}

func closeTransaction(
	ptx *models.PaymentTransaction,
	action domain.PaymentAction,
	ap *models.Appointment,
	adminID uuid.UUID,
	notes string,
	now time.Time,
) {
	if action == domain.ActionVerify {
		ptx.Status = string(domain.TxVerified)
	} else {
		ptx.Status = string(domain.TxRejected)
	}
	ptx.AppointmentPaymentStatus = ap.PaymentStatus
	ptx.AdminNotes = notes
	ptx.ProcessedBy = &adminID
	ptx.ProcessedAt = &now
}
