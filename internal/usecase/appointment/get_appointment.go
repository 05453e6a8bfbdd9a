package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/dto"
)

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uuid.UUID,
) (*dto.AppointmentDetailDTO, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(ap, actor); err != nil {
		return nil, err
	}

	tasting, err := optionalTasting(ctx, uc.repo, ap.ID)
	if err != nil {
		return nil, err
	}

	payments, err := uc.repo.ListPaymentTransactions(ctx, ap.ID)
	if err != nil {
		return nil, err
	}

	out := &dto.AppointmentDetailDTO{
		Appointment:     ap,
		Tasting:         tasting,
		Payments:        payments,
		PendingRequests: []dto.PendingRequestDTO{},
	}

	for _, kind := range []domain.RequestKind{domain.KindCancellation, domain.KindReschedule} {
		pending, err := uc.repo.ListPendingRequests(ctx, ap.ID, kind)
		if err != nil {
			return nil, err
		}
		for _, p := range pending {
			out.PendingRequests = append(out.PendingRequests, dto.PendingRequestDTO{
				ID:        p.ID,
				Kind:      string(p.Kind),
				CreatedAt: p.CreatedAt.Format(time.RFC3339),
			})
		}
	}

	return out, nil
}
