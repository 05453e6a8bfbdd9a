package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/infra/payments"
	"github.com/BruksfildServices01/catering-booking/internal/models"
)

type PaymentGateway interface {
	CreateCheckout(ctx context.Context, req payments.CheckoutRequest) (payments.Checkout, error)
	GetPayment(ctx context.Context, id string) (payments.Payment, error)
}

// ======================================================
// CHECKOUT
// ======================================================

type CreateCheckout struct {
	base
	gateway PaymentGateway
}

func NewCreateCheckout(deps Deps, gateway PaymentGateway) *CreateCheckout {
	return &CreateCheckout{
		base:    newBase(deps),
		gateway: gateway,
	}
}

func (uc *CreateCheckout) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uuid.UUID,
	paymentType string,
) (*payments.Checkout, error) {

	if uc.gateway == nil {
		return nil, httperr.ErrValidation("gateway_disabled", "Online checkout is not available.")
	}

	pt, ok := domain.ParsePendingType(paymentType)
	if !ok {
		return nil, httperr.ErrValidation("invalid_payment_type", "Unknown payment type.")
	}

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(ap, actor); err != nil {
		return nil, err
	}
	if err := verifiable(ap); err != nil {
		return nil, err
	}

	amount, err := domain.DueAmount(ap, pt)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, httperr.ErrInvalidTransition("nothing_due", "There is nothing left to pay.")
	}

	checkout, err := uc.gateway.CreateCheckout(ctx, payments.CheckoutRequest{
		AppointmentID: ap.ID.String(),
		PaymentType:   string(pt),
		Title:         fmt.Sprintf("%s on %s (%s)", ap.EventType, ap.EventDate, pt),
		Amount:        amount,
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout: %w", err)
	}

	uc.log.LogPayment("checkout", ap.ID.String(), fmt.Sprintf("%s %.2f preference=%s", pt, amount, checkout.PreferenceID))
	return &checkout, nil
}

// ======================================================
// WEBHOOK
// ======================================================

type GatewayResult struct {
	PaymentResult
	// Ignored is set for payments that are not approved yet.
	Ignored bool `json:"ignored"`
}

// RecordGatewayPayment turns an approved gateway payment into a verified transaction.
// Replayed notifications for the same provider payment are rejected as already processed.
type RecordGatewayPayment struct {
	base
	gateway PaymentGateway
}

func NewRecordGatewayPayment(deps Deps, gateway PaymentGateway) *RecordGatewayPayment {
	return &RecordGatewayPayment{
		base:    newBase(deps),
		gateway: gateway,
	}
}

func (uc *RecordGatewayPayment) Execute(
	ctx context.Context,
	providerPaymentID string,
) (*GatewayResult, error) {

	if uc.gateway == nil {
		return nil, httperr.ErrValidation("gateway_disabled", "Online checkout is not available.")
	}

	p, err := uc.gateway.GetPayment(ctx, providerPaymentID)
	if err != nil {
		return nil, fmt.Errorf("fetch gateway payment: %w", err)
	}
	if p.Status != payments.StatusApproved {
		uc.log.LogPayment("gateway", p.AppointmentID, "ignored payment "+p.ID+" status="+p.Status)
		return &GatewayResult{Ignored: true}, nil
	}

	appointmentID, err := uuid.Parse(p.AppointmentID)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_reference", "Payment does not reference a booking.")
	}
	pt, ok := domain.ParsePendingType(p.PaymentType)
	if !ok {
		return nil, httperr.ErrValidation("invalid_payment_type", "Unknown payment type.")
	}

	now := uc.clock()
	amount := domain.RoundCents(p.Amount)
	ref := p.ID

	var ptx *models.PaymentTransaction

	ap, err := uc.mutate(ctx, appointmentID, func(tx domain.Repository, ap *models.Appointment) (bool, error) {
		if _, err := tx.FindPaymentByProviderRef(ctx, ref); err == nil {
			return false, httperr.ErrAlreadyProcessed("payment_already_recorded", "Payment was already recorded.")
		} else if httperr.KindOf(err) != httperr.KindNotFound {
			return false, err
		}

		if _, err := domain.Next(domain.Status(ap.Status), domain.EventPaymentVerified); err != nil {
			return false, err
		}

		// the gateway payment replaces an online proof still under review
		txs, err := tx.ListPaymentTransactions(ctx, ap.ID)
		if err != nil {
			return false, err
		}
		if pending := pendingTx(txs); pending != nil {
			closeTransaction(pending, domain.ActionReject, ap, uuid.Nil, "superseded by gateway payment "+ref, now)
			pending.ProcessedBy = nil
			if err := tx.UpdatePaymentTransaction(ctx, pending); err != nil {
				return false, err
			}
		}
		ap.PendingPaymentType = nil

		if err := domain.ApplyVerifiedPayment(ap, pt, amount); err != nil {
			return false, err
		}
		domain.AppendNote(ap, domain.NoteGatewayPayment, now, fmt.Sprintf("%s %.2f ref %s", pt, amount, ref))

		ptx = &models.PaymentTransaction{
			AppointmentID:            ap.ID,
			UserID:                   ap.UserID,
			Amount:                   amount,
			PaymentType:              string(pt),
			Method:                   string(domain.MethodGateway),
			Status:                   string(domain.TxVerified),
			AppointmentPaymentStatus: ap.PaymentStatus,
			ProviderRef:              &ref,
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

	uc.log.LogPayment("gateway", ap.ID.String(), fmt.Sprintf("%s %.2f ref=%s", pt, amount, ref))

	uc.notifier.NotifyUser(ctx, ap.UserID,
		"Payment confirmed",
		fmt.Sprintf("Your online payment of %.2f was confirmed. Remaining balance: %.2f.", amount, ap.RemainingBalance),
		NotifyPaymentVerified,
	)
	uc.notifier.NotifyAdmin(ctx,
		"Online payment received",
		fmt.Sprintf("%.2f received for the %s on %s.", amount, ap.EventType, ap.EventDate),
		NotifyPaymentVerified,
		meta(ap, "provider_ref", ref),
	)

	uc.record(Actor{}, "payment_gateway", ap.ID, meta(ap, "provider_ref", ref))
	return &GatewayResult{PaymentResult: PaymentResult{Appointment: ap, Transaction: ptx}}, nil
}
