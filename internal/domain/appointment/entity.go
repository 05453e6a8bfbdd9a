package appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/models"
)

// Markers prefixed to every admin note line.
const (
	NoteTastingRepaired    = "TASTING_STATUS_REPAIRED"
	NotePaymentVerified    = "PAYMENT_VERIFIED"
	NotePaymentRejected    = "PAYMENT_REJECTED"
	NoteWalkInPayment      = "WALK_IN_PAYMENT"
	NoteGatewayPayment     = "GATEWAY_PAYMENT"
	NoteCancellationResult = "CANCELLATION_REQUEST"
	NoteRescheduleApproved = "RESCHEDULE_APPROVED"
	NotePriceRecalculated  = "PRICE_RECALCULATED"
	NoteCancelledByUser    = "CANCELLED_BY_USER"
)

// ===============================
// Helpers
// ===============================

func apply(ap *models.Appointment, ev Event) error {
	to, err := Next(Status(ap.Status), ev)
	if err != nil {
		return err
	}
	ap.Status = string(to)
	return nil
}

// AppendNote adds "MARKER: <RFC3339> detail" to the admin notes; existing lines are never rewritten.
func AppendNote(ap *models.Appointment, marker string, now time.Time, detail string) {
	line := fmt.Sprintf("%s: %s %s", marker, now.Format(time.RFC3339), detail)
	if ap.AdminNotes == "" {
		ap.AdminNotes = line
		return
	}
	ap.AdminNotes = strings.TrimRight(ap.AdminNotes, "\n") + "\n" + line
}

func refreshBalance(ap *models.Appointment) {
	ap.RemainingBalance = RoundCents(ap.TotalPackageAmount - ap.AmountPaid)
	if ap.RemainingBalance < 0 {
		ap.RemainingBalance = 0
	}
}

// DerivePaymentStatus computes payment_status from the verified amount alone.
func DerivePaymentStatus(ap *models.Appointment) PaymentStatus {
	switch {
	case ap.AmountPaid <= 0:
		return PaymentUnpaid
	case ap.RemainingBalance <= 0:
		return PaymentFullyPaid
	default:
		return PaymentPartiallyPaid
	}
}

func ensurePending(status string) error {
	if RequestStatus(status) != RequestPending {
		return httperr.ErrAlreadyProcessed(
			"request_already_processed",
			fmt.Sprintf("Request was already %s.", status),
		)
	}
	return nil
}

// ===============================
// Tasting
// ===============================

// ConfirmTasting is idempotent: a tasting that is already confirmed never errors and
// only pulls a lagging appointment forward. It reports whether anything changed.
func ConfirmTasting(t *models.Tasting, ap *models.Appointment, now time.Time) (bool, error) {
	if TastingStatus(t.Status) == TastingConfirmed {
		if Status(ap.Status) != StatusPendingTasting {
			return false, nil
		}
		ap.Status = string(StatusTastingConfirmed)
		AppendNote(ap, NoteTastingRepaired, now, "appointment status aligned with confirmed tasting")
		return true, nil
	}

	if TastingStatus(t.Status) != TastingPending {
		return false, httperr.ErrInvalidTransition(
			"tasting_not_pending",
			fmt.Sprintf("Tasting is %s.", t.Status),
		)
	}

	if err := apply(ap, EventTastingConfirmed); err != nil {
		return false, err
	}

	t.Status = string(TastingConfirmed)
	t.ConfirmedAt = &now
	return true, nil
}

func SkipTasting(t *models.Tasting, ap *models.Appointment) error {
	if err := apply(ap, EventTastingSkipped); err != nil {
		return err
	}
	t.Status = string(TastingSkipped)
	return nil
}

func RequestTastingReschedule(t *models.Tasting, ap *models.Appointment) error {
	if err := apply(ap, EventTastingRescheduleRequest); err != nil {
		return err
	}
	t.Status = string(TastingRescheduled)
	return nil
}

// RescheduleTasting books the new slot and re-arms the confirmation token.
func RescheduleTasting(
	t *models.Tasting,
	ap *models.Appointment,
	date, clock, token string,
	expiresAt time.Time,
) error {
	if err := apply(ap, EventTastingRescheduled); err != nil {
		return err
	}

	t.ProposedDate = date
	t.ProposedTime = clock
	t.Token = token
	t.TokenExpiresAt = expiresAt
	t.Status = string(TastingPending)
	t.ConfirmedAt = nil
	return nil
}

func CompleteTasting(t *models.Tasting, ap *models.Appointment) error {
	if TastingStatus(t.Status) != TastingConfirmed {
		return httperr.ErrInvalidTransition("tasting_not_confirmed", "Tasting has not been confirmed.")
	}
	return apply(ap, EventTastingCompleted)
}

// ===============================
// Payments
// ===============================

// DueAmount is what a payment of type pt has to cover right now.
func DueAmount(ap *models.Appointment, pt PaymentType) (float64, error) {
	switch pt {
	case PaymentTypeDownPayment:
		if ap.AmountPaid > 0 {
			return 0, httperr.ErrValidation("down_payment_already_paid", "The down payment was already received.")
		}
		return ap.DownPaymentAmount, nil
	case PaymentTypeFullPayment:
		return ap.RemainingBalance, nil
	case PaymentTypeRemainingBalance:
		if ap.AmountPaid <= 0 {
			return 0, httperr.ErrValidation("no_down_payment", "Pay the down payment or the full amount first.")
		}
		return ap.RemainingBalance, nil
	}
	return 0, httperr.ErrValidation("invalid_payment_type", "Unknown payment type.")
}

// MarkPaymentPending records that a submitted payment of type pt awaits admin verification.
func MarkPaymentPending(ap *models.Appointment, pt PaymentType) error {
	if !Can(Status(ap.Status), EventPaymentVerified) {
		if IsTerminal(Status(ap.Status)) {
			_, err := Next(Status(ap.Status), EventPaymentVerified)
			return err
		}
		return httperr.ErrInvalidTransition(
			"payment_not_allowed",
			"Payments are accepted once the tasting is completed or skipped.",
		)
	}
	if ap.PendingPaymentType != nil {
		return httperr.ErrDuplicateRequest("payment_pending", "A payment is already awaiting verification.")
	}
	if PaymentStatus(ap.PaymentStatus) == PaymentFullyPaid {
		return httperr.ErrInvalidTransition("already_fully_paid", "This booking is already fully paid.")
	}

	v := string(pt)
	ap.PendingPaymentType = &v
	return nil
}

// ApplyVerifiedPayment credits amount and moves the appointment to its paid state.
// Full and remaining-balance payments settle the booking; anything else settles it only
// when the balance reaches zero.
func ApplyVerifiedPayment(ap *models.Appointment, pt PaymentType, amount float64) error {
	if err := apply(ap, EventPaymentVerified); err != nil {
		return err
	}

	ap.AmountPaid = RoundCents(ap.AmountPaid + amount)
	refreshBalance(ap)

	if pt.settles() {
		ap.PaymentStatus = string(PaymentFullyPaid)
	} else {
		ap.PaymentStatus = string(DerivePaymentStatus(ap))
	}

	ap.PendingPaymentType = nil
	return nil
}

// ApplyRejectedPayment resets the booking to unpaid and drops it back to TASTING_COMPLETED
// so the customer can resubmit. AmountPaid keeps the verified money, so the next verification
// derives the real payment status again.
func ApplyRejectedPayment(ap *models.Appointment) error {
	if err := apply(ap, EventPaymentRejected); err != nil {
		return err
	}

	ap.PaymentStatus = string(PaymentUnpaid)
	ap.PendingPaymentType = nil
	return nil
}

// ===============================
// Cancellation
// ===============================

const supportMessage = "A payment has already been made for this booking. Please contact support to cancel it."

// CancelByUser requires that no money is held for the booking. hasPayments reports
// verified or pending transactions.
func CancelByUser(ap *models.Appointment, t *models.Tasting, hasPayments bool, now time.Time) error {
	to, err := Next(Status(ap.Status), EventCancelledByUser)
	if err != nil {
		return err
	}

	ps := PaymentStatus(ap.PaymentStatus)
	if hasPayments || ps == PaymentPartiallyPaid || ps == PaymentFullyPaid || ap.PendingPaymentType != nil {
		return httperr.ErrPaymentExists("payment_exists", supportMessage)
	}

	if t != nil {
		t.Status = string(TastingCancelled)
	}
	ap.Status = string(to)
	ap.CancelledAt = &now
	return nil
}

func ApproveCancellation(
	ap *models.Appointment,
	t *models.Tasting,
	req *models.CancellationRequest,
	adminID uuid.UUID,
	notes string,
	now time.Time,
) error {
	if err := ensurePending(req.Status); err != nil {
		return err
	}
	if err := apply(ap, EventCancellationApproved); err != nil {
		return err
	}

	req.Status = string(RequestApproved)
	req.AdminNotes = notes
	req.ProcessedBy = &adminID
	req.ProcessedAt = &now

	if t != nil {
		t.Status = string(TastingCancelled)
	}
	ap.CancelledAt = &now
	AppendNote(ap, NoteCancellationResult, now, fmt.Sprintf("approved by %s", adminID))
	return nil
}

// RejectCancellation restores the booking to confirmed. A request against an appointment
// that already reached a terminal state is closed without touching the appointment.
func RejectCancellation(
	ap *models.Appointment,
	req *models.CancellationRequest,
	adminID uuid.UUID,
	notes string,
	now time.Time,
) error {
	if err := ensurePending(req.Status); err != nil {
		return err
	}

	if !IsTerminal(Status(ap.Status)) {
		if err := apply(ap, EventCancellationRejected); err != nil {
			return err
		}
		AppendNote(ap, NoteCancellationResult, now, fmt.Sprintf("rejected by %s", adminID))
	}

	req.Status = string(RequestRejected)
	req.AdminNotes = notes
	req.ProcessedBy = &adminID
	req.ProcessedAt = &now
	return nil
}

// ===============================
// Reschedule
// ===============================

// CanRequestReschedule guards creation of an event reschedule request.
func CanRequestReschedule(ap *models.Appointment) error {
	_, err := Next(Status(ap.Status), EventRescheduleApproved)
	return err
}

func ApproveReschedule(
	ap *models.Appointment,
	req *models.RescheduleRequest,
	policy Policy,
	adminID uuid.UUID,
	notes string,
	now time.Time,
) error {
	if err := ensurePending(req.Status); err != nil {
		return err
	}
	if err := apply(ap, EventRescheduleApproved); err != nil {
		return err
	}

	detail := fmt.Sprintf("by %s: %s %s -> %s %s",
		adminID, ap.EventDate, ap.EventTime, req.NewEventDate, req.NewEventTime)

	ap.EventDate = req.NewEventDate
	ap.EventTime = req.NewEventTime

	if req.PenaltyApplied {
		before, beforeDown := ap.TotalPackageAmount, ap.DownPaymentAmount

		ap.PenaltyAmount = RoundCents(ap.PenaltyAmount + req.PenaltyAmount)
		ap.TotalPackageAmount = RoundCents(ap.TotalPackageAmount + req.PenaltyAmount)
		ap.DownPaymentAmount = policy.DownPayment(ap.TotalPackageAmount)
		refreshBalance(ap)
		if ap.AmountPaid > 0 {
			ap.PaymentStatus = string(DerivePaymentStatus(ap))
		}

		detail += fmt.Sprintf("; penalty %.2f; total %.2f -> %.2f; down payment %.2f -> %.2f",
			req.PenaltyAmount, before, ap.TotalPackageAmount, beforeDown, ap.DownPaymentAmount)
	}

	AppendNote(ap, NoteRescheduleApproved, now, detail)

	req.Status = string(RequestApproved)
	req.AdminNotes = notes
	req.ProcessedBy = &adminID
	req.ProcessedAt = &now
	return nil
}

func RejectReschedule(req *models.RescheduleRequest, adminID uuid.UUID, notes string, now time.Time) error {
	if err := ensurePending(req.Status); err != nil {
		return err
	}

	req.Status = string(RequestRejected)
	req.AdminNotes = notes
	req.ProcessedBy = &adminID
	req.ProcessedAt = &now
	return nil
}

// ===============================
// Completion / pricing
// ===============================

func Complete(ap *models.Appointment, now time.Time) error {
	if err := apply(ap, EventCompleted); err != nil {
		return err
	}
	ap.CompletedAt = &now
	return nil
}

// ApplyRepricing sets a freshly computed base price (penalties are kept on top).
// It reports false when the total is unchanged.
func ApplyRepricing(ap *models.Appointment, base float64, policy Policy, now time.Time) (bool, error) {
	if IsTerminal(Status(ap.Status)) {
		_, err := Next(Status(ap.Status), EventCompleted)
		return false, err
	}

	total := RoundCents(base + ap.PenaltyAmount)
	if total == ap.TotalPackageAmount {
		return false, nil
	}

	before := ap.TotalPackageAmount
	ap.TotalPackageAmount = total
	ap.DownPaymentAmount = policy.DownPayment(total)
	refreshBalance(ap)
	if ap.AmountPaid > 0 {
		ap.PaymentStatus = string(DerivePaymentStatus(ap))
	}

	AppendNote(ap, NotePriceRecalculated, now, fmt.Sprintf("total %.2f -> %.2f", before, total))
	return true, nil
}
