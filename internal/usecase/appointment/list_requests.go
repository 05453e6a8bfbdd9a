package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/models"
)

type RequestQueue struct {
	Cancellations []models.CancellationRequest `json:"cancellations"`
	Reschedules   []models.RescheduleRequest   `json:"reschedules"`
}

// ListRequests feeds the admin review queue. An empty status lists every request.
type ListRequests struct {
	repo domain.Repository
}

func NewListRequests(repo domain.Repository) *ListRequests {
	return &ListRequests{repo: repo}
}

func (uc *ListRequests) Execute(
	ctx context.Context,
	kind string,
	status string,
) (*RequestQueue, error) {

	switch domain.RequestStatus(status) {
	case "", domain.RequestPending, domain.RequestApproved, domain.RequestRejected:
	default:
		return nil, httperr.ErrValidation("invalid_status", "Unknown request status.")
	}

	out := &RequestQueue{
		Cancellations: []models.CancellationRequest{},
		Reschedules:   []models.RescheduleRequest{},
	}

	switch domain.RequestKind(kind) {
	case "", domain.KindCancellation, domain.KindReschedule:
	default:
		return nil, httperr.ErrValidation("invalid_request_kind", "Unknown request kind.")
	}

	if kind == "" || domain.RequestKind(kind) == domain.KindCancellation {
		reqs, err := uc.repo.ListCancellationRequests(ctx, status)
		if err != nil {
			return nil, err
		}
		out.Cancellations = append(out.Cancellations, reqs...)
	}

	if kind == "" || domain.RequestKind(kind) == domain.KindReschedule {
		reqs, err := uc.repo.ListRescheduleRequests(ctx, status)
		if err != nil {
			return nil, err
		}
		out.Reschedules = append(out.Reschedules, reqs...)
	}

	return out, nil
}
