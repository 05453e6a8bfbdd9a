package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/dto"
	"github.com/BruksfildServices01/catering-booking/internal/httperr"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(
	repo domain.Repository,
) *ListAppointments {
	return &ListAppointments{
		repo: repo,
	}
}

// Execute scopes customers to their own bookings; admins may filter by status and month.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	actor Actor,
	status string,
	month string,
) ([]dto.AppointmentListDTO, error) {

	if month != "" && validate.Var(month, "datetime=2006-01") != nil {
		return nil, httperr.ErrValidation("invalid_month", "Month must be YYYY-MM.")
	}

	filter := domain.AppointmentFilter{
		Status: status,
		Month:  month,
	}
	if !actor.Admin {
		id := actor.ID
		filter.UserID = &id
	}

	appointments, err := uc.repo.ListAppointments(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.NewAppointmentListDTO(ap))
	}

	return out, nil
}
