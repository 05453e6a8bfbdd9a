package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/models"
)

type CancellationRequestInput struct {
	Reason     string `validate:"required,max=2000"`
	Attachment *Attachment
}

type ResolveInput struct {
	Decision string `validate:"required,oneof=approve reject"`
	Notes    string `validate:"max=2000"`
}

// ensureNoPending is the locked half of the one-pending-request rule; the partial unique
// index catches whatever slips past it.
func ensureNoPending(ctx context.Context, tx domain.Repository, appointmentID uuid.UUID, kind domain.RequestKind) error {
	pending, err := tx.ListPendingRequests(ctx, appointmentID, kind)
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		return httperr.ErrDuplicateRequest(
			"pending_request_exists",
			fmt.Sprintf("A %s request is already pending for this booking.", kind),
		)
	}
	return nil
}

// ======================================================
// CREATE
// ======================================================

type CreateCancellationRequest struct {
	base
	uploader Uploader
}

func NewCreateCancellationRequest(deps Deps, uploader Uploader) *CreateCancellationRequest {
	return &CreateCancellationRequest{
		base:     newBase(deps),
		uploader: uploader,
	}
}

func (uc *CreateCancellationRequest) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uuid.UUID,
	in CancellationRequestInput,
) (*models.CancellationRequest, error) {

	if err := validateInput(in); err != nil {
		return nil, err
	}

	attachmentURL, err := storeDocument(ctx, uc.uploader, "cancellation-attachments", in.Attachment)
	if err != nil {
		return nil, err
	}

	var req *models.CancellationRequest

	ap, err := uc.mutate(ctx, appointmentID, func(tx domain.Repository, ap *models.Appointment) (bool, error) {
		if err := ensureOwner(ap, actor); err != nil {
			return false, err
		}
		if !domain.Can(domain.Status(ap.Status), domain.EventCancellationApproved) {
			_, err := domain.Next(domain.Status(ap.Status), domain.EventCancellationApproved)
			return false, err
		}
		if err := ensureNoPending(ctx, tx, ap.ID, domain.KindCancellation); err != nil {
			return false, err
		}

		req = &models.CancellationRequest{
			AppointmentID: ap.ID,
			UserID:        ap.UserID,
			Reason:        in.Reason,
			AttachmentURL: attachmentURL,
			Status:        string(domain.RequestPending),
		}
		return false, tx.CreateCancellationRequest(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	uc.log.LogRequest(string(domain.KindCancellation), req.ID.String(), "created for "+ap.ID.String())

	uc.notifier.NotifyAdmin(ctx,
		"Cancellation requested",
		fmt.Sprintf("The customer asked to cancel the %s on %s. Reason: %s", ap.EventType, ap.EventDate, in.Reason),
		NotifyCancellationRequested,
		meta(ap, "request_id", req.ID.String(), "attachment_url", attachmentURL),
	)

	uc.record(actor, "cancellation_requested", ap.ID, meta(ap, "request_id", req.ID.String()))
	return req, nil
}

// ======================================================
// RESOLVE
// ======================================================

type CancellationOutcome struct {
	Request     *models.CancellationRequest `json:"request"`
	Appointment *models.Appointment         `json:"appointment"`
}

type ResolveCancellationRequest struct {
	base
}

func NewResolveCancellationRequest(deps Deps) *ResolveCancellationRequest {
	return &ResolveCancellationRequest{base: newBase(deps)}
}

func (uc *ResolveCancellationRequest) Execute(
	ctx context.Context,
	admin Actor,
	requestID uuid.UUID,
	in ResolveInput,
) (*CancellationOutcome, error) {

	if err := validateInput(in); err != nil {
		return nil, err
	}
	decision := domain.Decision(in.Decision)
	now := uc.clock()

	found, err := uc.repo.GetCancellationRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	var req *models.CancellationRequest

	ap, err := uc.mutate(ctx, found.AppointmentID, func(tx domain.Repository, ap *models.Appointment) (bool, error) {
		r, err := tx.GetCancellationRequest(ctx, requestID)
		if err != nil {
			return false, err
		}
		req = r

		changed := !domain.IsTerminal(domain.Status(ap.Status))

		if decision == domain.DecisionApprove {
			t, err := optionalTasting(ctx, tx, ap.ID)
			if err != nil {
				return false, err
			}
			if err := domain.ApproveCancellation(ap, t, req, admin.ID, in.Notes, now); err != nil {
				return false, err
			}
			if t != nil {
				if err := tx.UpdateTasting(ctx, t); err != nil {
					return false, err
				}
			}
		} else if err := domain.RejectCancellation(ap, req, admin.ID, in.Notes, now); err != nil {
			return false, err
		}

		if err := tx.UpdateCancellationRequest(ctx, req); err != nil {
			return false, err
		}
		return changed, nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.LogRequest(string(domain.KindCancellation), req.ID.String(), req.Status+" by "+admin.ID.String())

	msg := fmt.Sprintf("Your cancellation request for the %s on %s was %s.", ap.EventType, ap.EventDate, req.Status)
	if in.Notes != "" {
		msg += " Notes: " + in.Notes
	}
	uc.notifier.NotifyUser(ctx, ap.UserID, "Cancellation request "+req.Status, msg, NotifyCancellationResolved)
	uc.notifier.NotifyAdmin(ctx,
		"Cancellation request "+req.Status,
		msg,
		NotifyCancellationResolved,
		meta(ap, "request_id", req.ID.String(), "decision", in.Decision),
	)

	uc.record(admin, "cancellation_"+req.Status, ap.ID, meta(ap, "request_id", req.ID.String(), "notes", in.Notes))
	return &CancellationOutcome{Request: req, Appointment: ap}, nil
}
