package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/models"
)

type RescheduleRequestInput struct {
	NewEventDate string `validate:"required,datetime=2006-01-02"`
	NewEventTime string `validate:"required,datetime=15:04"`
	Reason       string `validate:"max=2000"`
}

// ======================================================
// CREATE
// ======================================================

type CreateRescheduleRequest struct {
	base
}

func NewCreateRescheduleRequest(deps Deps) *CreateRescheduleRequest {
	return &CreateRescheduleRequest{base: newBase(deps)}
}

func (uc *CreateRescheduleRequest) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uuid.UUID,
	in RescheduleRequestInput,
) (*models.RescheduleRequest, error) {

	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := uc.clock()
	if _, err := domain.FutureSlot(in.NewEventDate, in.NewEventTime, uc.loc, now); err != nil {
		return nil, err
	}

	var req *models.RescheduleRequest

	ap, err := uc.mutate(ctx, appointmentID, func(tx domain.Repository, ap *models.Appointment) (bool, error) {
		if err := ensureOwner(ap, actor); err != nil {
			return false, err
		}
		if err := domain.CanRequestReschedule(ap); err != nil {
			return false, err
		}
		if in.NewEventDate == ap.EventDate && in.NewEventTime == ap.EventTime {
			return false, httperr.ErrValidation("same_schedule", "Pick a different date or time.")
		}
		if err := ensureNoPending(ctx, tx, ap.ID, domain.KindReschedule); err != nil {
			return false, err
		}

		eventStart, err := domain.EventStart(ap.EventDate, ap.EventTime, uc.loc)
		if err != nil {
			return false, err
		}
		applied, penalty := uc.policy.PenaltyFor(ap.TotalPackageAmount, now, eventStart)

		req = &models.RescheduleRequest{
			AppointmentID:    ap.ID,
			UserID:           ap.UserID,
			CurrentEventDate: ap.EventDate,
			CurrentEventTime: ap.EventTime,
			NewEventDate:     in.NewEventDate,
			NewEventTime:     in.NewEventTime,
			Reason:           in.Reason,
			PenaltyApplied:   applied,
			PenaltyAmount:    penalty,
			NewTotalAmount:   domain.RoundCents(ap.TotalPackageAmount + penalty),
			Status:           string(domain.RequestPending),
		}
		return false, tx.CreateRescheduleRequest(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	uc.log.LogRequest(string(domain.KindReschedule), req.ID.String(),
		fmt.Sprintf("created for %s penalty=%t %.2f", ap.ID, req.PenaltyApplied, req.PenaltyAmount))

	uc.notifier.NotifyAdmin(ctx,
		"Reschedule requested",
		fmt.Sprintf("The customer asked to move the %s from %s %s to %s %s.",
			ap.EventType, req.CurrentEventDate, req.CurrentEventTime, req.NewEventDate, req.NewEventTime),
		NotifyRescheduleRequested,
		meta(ap, "request_id", req.ID.String(), "penalty_applied", req.PenaltyApplied, "penalty_amount", req.PenaltyAmount),
	)

	uc.record(actor, "reschedule_requested", ap.ID, meta(ap, "request_id", req.ID.String()))
	return req, nil
}

// ======================================================
// RESOLVE
// ======================================================

type RescheduleOutcome struct {
	Request     *models.RescheduleRequest `json:"request"`
	Appointment *models.Appointment       `json:"appointment"`
}

type ResolveRescheduleRequest struct {
	base
}

func NewResolveRescheduleRequest(deps Deps) *ResolveRescheduleRequest {
	return &ResolveRescheduleRequest{base: newBase(deps)}
}

func (uc *ResolveRescheduleRequest) Execute(
	ctx context.Context,
	admin Actor,
	requestID uuid.UUID,
	in ResolveInput,
) (*RescheduleOutcome, error) {

	if err := validateInput(in); err != nil {
		return nil, err
	}
	decision := domain.Decision(in.Decision)
	now := uc.clock()

	found, err := uc.repo.GetRescheduleRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	var req *models.RescheduleRequest

	ap, err := uc.mutate(ctx, found.AppointmentID, func(tx domain.Repository, ap *models.Appointment) (bool, error) {
		r, err := tx.GetRescheduleRequest(ctx, requestID)
		if err != nil {
			return false, err
		}
		req = r

		changed := false
		if decision == domain.DecisionApprove {
			if _, err := domain.FutureSlot(req.NewEventDate, req.NewEventTime, uc.loc, now); err != nil {
				return false, err
			}
			if err := domain.ApproveReschedule(ap, req, uc.policy, admin.ID, in.Notes, now); err != nil {
				return false, err
			}
			changed = true
		} else if err := domain.RejectReschedule(req, admin.ID, in.Notes, now); err != nil {
			return false, err
		}

		if err := tx.UpdateRescheduleRequest(ctx, req); err != nil {
			return false, err
		}
		return changed, nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.LogRequest(string(domain.KindReschedule), req.ID.String(), req.Status+" by "+admin.ID.String())

	msg := fmt.Sprintf("Your request to move the %s to %s %s was %s.", ap.EventType, req.NewEventDate, req.NewEventTime, req.Status)
	if decision == domain.DecisionApprove && req.PenaltyApplied {
		msg += fmt.Sprintf(" A late-notice fee of %.2f was added; the new total is %.2f.", req.PenaltyAmount, ap.TotalPackageAmount)
	}
	if in.Notes != "" {
		msg += " Notes: " + in.Notes
	}
	uc.notifier.NotifyUser(ctx, ap.UserID, "Reschedule request "+req.Status, msg, NotifyRescheduleResolved)
	uc.notifier.NotifyAdmin(ctx,
		"Reschedule request "+req.Status,
		msg,
		NotifyRescheduleResolved,
		meta(ap, "request_id", req.ID.String(), "decision", in.Decision),
	)

	uc.record(admin, "reschedule_"+req.Status, ap.ID, meta(ap, "request_id", req.ID.String(), "notes", in.Notes))
	return &RescheduleOutcome{Request: req, Appointment: ap}, nil
}
