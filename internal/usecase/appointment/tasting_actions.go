package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/models"
	"github.com/BruksfildServices01/catering-booking/internal/tokens"
)

// withTasting runs fn against the locked appointment and its tasting. The tasting row is
// written before the appointment.
func (b base) withTasting(
	ctx context.Context,
	appointmentID uuid.UUID,
	actor Actor,
	fn func(t *models.Tasting, ap *models.Appointment) error,
) (*TastingResult, error) {

	var tasting *models.Tasting

	ap, err := b.mutate(ctx, appointmentID, func(tx domain.Repository, ap *models.Appointment) (bool, error) {
		if err := ensureOwner(ap, actor); err != nil {
			return false, err
		}

		t, err := tx.GetTasting(ctx, ap.ID)
		if err != nil {
			return false, err
		}

		if err := fn(t, ap); err != nil {
			return false, err
		}

		if err := tx.UpdateTasting(ctx, t); err != nil {
			return false, err
		}

		tasting = t
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return &TastingResult{Appointment: ap, Tasting: tasting}, nil
}

// ======================================================
// SKIP
// ======================================================

type SkipTasting struct {
	base
}

func NewSkipTasting(deps Deps) *SkipTasting {
	return &SkipTasting{base: newBase(deps)}
}

func (uc *SkipTasting) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uuid.UUID,
) (*TastingResult, error) {

	res, err := uc.withTasting(ctx, appointmentID, actor, domain.SkipTasting)
	if err != nil {
		return nil, err
	}

	ap := res.Appointment
	uc.log.LogAppointment("tasting_skip", ap.ID.String(), "status="+ap.Status)

	uc.notifier.NotifyAdmin(ctx,
		"Tasting skipped",
		fmt.Sprintf("The customer skipped the tasting for the %s on %s.", ap.EventType, ap.EventDate),
		NotifyTastingSkipped,
		meta(ap),
	)

	uc.record(actor, "tasting_skipped", ap.ID, meta(ap))
	return res, nil
}

// ======================================================
// CUSTOMER RESCHEDULE REQUEST
// ======================================================

type RequestTastingReschedule struct {
	base
}

func NewRequestTastingReschedule(deps Deps) *RequestTastingReschedule {
	return &RequestTastingReschedule{base: newBase(deps)}
}

func (uc *RequestTastingReschedule) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uuid.UUID,
	reason string,
) (*TastingResult, error) {

	res, err := uc.withTasting(ctx, appointmentID, actor, func(t *models.Tasting, ap *models.Appointment) error {
		if err := domain.RequestTastingReschedule(t, ap); err != nil {
			return err
		}
		if reason != "" {
			domain.AppendNote(ap, "TASTING_RESCHEDULE_REQUESTED", uc.clock(), reason)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ap := res.Appointment
	uc.log.LogAppointment("tasting_reschedule_request", ap.ID.String(), reason)

	uc.notifier.NotifyAdmin(ctx,
		"Tasting reschedule requested",
		"The customer asked for a new tasting date. Reason: "+reason,
		NotifyTastingRescheduleAsked,
		meta(ap, "reason", reason),
	)

	uc.record(actor, "tasting_reschedule_requested", ap.ID, meta(ap, "reason", reason))
	return res, nil
}

// ======================================================
// ADMIN RESCHEDULE
// ======================================================

type RescheduleTasting struct {
	base
	tokens  *tokens.TastingTokens
	linkURL string
}

func NewRescheduleTasting(
	deps Deps,
	tastingTokens *tokens.TastingTokens,
	publicBaseURL string,
) *RescheduleTasting {
	return &RescheduleTasting{
		base:    newBase(deps),
		tokens:  tastingTokens,
		linkURL: TastingLink(publicBaseURL),
	}
}

type RescheduleTastingInput struct {
	Date string `validate:"required,datetime=2006-01-02"`
	Time string `validate:"required,datetime=15:04"`
}

func (uc *RescheduleTasting) Execute(
	ctx context.Context,
	admin Actor,
	appointmentID uuid.UUID,
	in RescheduleTastingInput,
) (*TastingResult, error) {

	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := uc.clock()
	slot, err := domain.FutureSlot(in.Date, in.Time, uc.loc, now)
	if err != nil {
		return nil, err
	}

	res, err := uc.withTasting(ctx, appointmentID, admin, func(t *models.Tasting, ap *models.Appointment) error {
		eventStart, err := domain.EventStart(ap.EventDate, ap.EventTime, uc.loc)
		if err != nil {
			return err
		}
		if !slot.Before(eventStart) {
			return httperr.ErrValidation("tasting_after_event", "The tasting must happen before the event.")
		}

		token, exp, err := uc.tokens.Issue(t.ID, ap.ID, now)
		if err != nil {
			return fmt.Errorf("issue tasting token: %w", err)
		}

		return domain.RescheduleTasting(t, ap, in.Date, in.Time, token, exp)
	})
	if err != nil {
		return nil, err
	}

	ap, t := res.Appointment, res.Tasting
	uc.log.LogAppointment("tasting_reschedule", ap.ID.String(), t.ProposedDate+" "+t.ProposedTime)

	uc.notifier.NotifyUser(ctx, ap.UserID,
		"New tasting date",
		fmt.Sprintf("Your tasting was moved to %s at %s. Confirm it here: %s%s",
			t.ProposedDate, t.ProposedTime, uc.linkURL, t.Token),
		NotifyTastingRescheduled,
	)

	uc.record(admin, "tasting_rescheduled", ap.ID, meta(ap, "date", t.ProposedDate, "time", t.ProposedTime))
	return res, nil
}

// ======================================================
// COMPLETE
// ======================================================

type CompleteTasting struct {
	base
}

func NewCompleteTasting(deps Deps) *CompleteTasting {
	return &CompleteTasting{base: newBase(deps)}
}

func (uc *CompleteTasting) Execute(
	ctx context.Context,
	admin Actor,
	appointmentID uuid.UUID,
) (*TastingResult, error) {

	res, err := uc.withTasting(ctx, appointmentID, admin, domain.CompleteTasting)
	if err != nil {
		return nil, err
	}

	ap := res.Appointment
	uc.log.LogAppointment("tasting_complete", ap.ID.String(), "status="+ap.Status)

	uc.notifier.NotifyUser(ctx, ap.UserID,
		"Tasting completed",
		fmt.Sprintf("Thanks for attending the tasting. The next step is the down payment of %.2f.", ap.DownPaymentAmount),
		NotifyTastingCompleted,
	)

	uc.record(admin, "tasting_completed", ap.ID, meta(ap))
	return res, nil
}
