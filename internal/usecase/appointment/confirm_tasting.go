package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/models"
	"github.com/BruksfildServices01/catering-booking/internal/tokens"
)

type TastingResult struct {
	Appointment *models.Appointment `json:"appointment"`
	Tasting     *models.Tasting     `json:"tasting"`
}

// ConfirmTasting is reached from the emailed link, so the token is the only credential.
type ConfirmTasting struct {
	base
	tokens *tokens.TastingTokens
}

func NewConfirmTasting(
	deps Deps,
	tastingTokens *tokens.TastingTokens,
) *ConfirmTasting {
	return &ConfirmTasting{
		base:   newBase(deps),
		tokens: tastingTokens,
	}
}

func (uc *ConfirmTasting) Execute(
	ctx context.Context,
	token string,
) (*TastingResult, error) {

	now := uc.clock()

	claims, err := uc.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	appointmentID, err := uuid.Parse(claims.AppointmentID)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_token", "Invalid confirmation link.")
	}

	var (
		tasting *models.Tasting
		changed bool
	)

	ap, err := uc.mutate(ctx, appointmentID, func(tx domain.Repository, ap *models.Appointment) (bool, error) {
		t, err := tx.GetTasting(ctx, ap.ID)
		if err != nil {
			return false, err
		}
		if t.ID.String() != claims.TastingID || t.Token != token {
			return false, httperr.ErrValidation("invalid_token", "This confirmation link is no longer valid.")
		}

		wasConfirmed := domain.TastingStatus(t.Status) == domain.TastingConfirmed

		// an expired link still re-confirms (and repairs) a tasting that is already confirmed
		if !wasConfirmed {
			rowExpired := !t.TokenExpiresAt.IsZero() && !now.Before(t.TokenExpiresAt)
			if rowExpired || claims.Expired(now) {
				return false, httperr.ErrValidation("token_expired", "This confirmation link has expired.")
			}
		}

		changed, err = domain.ConfirmTasting(t, ap, now)
		if err != nil {
			return false, err
		}

		if changed && !wasConfirmed {
			if err := tx.UpdateTasting(ctx, t); err != nil {
				return false, err
			}
		}

		tasting = t
		return changed, nil
	})
	if err != nil {
		return nil, err
	}

	if !changed {
		return &TastingResult{Appointment: ap, Tasting: tasting}, nil
	}

	uc.log.LogAppointment("tasting_confirm", ap.ID.String(), "status="+ap.Status)

	uc.notifier.NotifyUser(ctx, ap.UserID,
		"Tasting confirmed",
		"Your tasting on "+tasting.ProposedDate+" at "+tasting.ProposedTime+" is confirmed.",
		NotifyTastingConfirmed,
	)
	uc.notifier.NotifyAdmin(ctx,
		"Tasting confirmed",
		"A customer confirmed the tasting for "+tasting.ProposedDate+" "+tasting.ProposedTime+".",
		NotifyTastingConfirmed,
		meta(ap, "tasting_id", tasting.ID.String()),
	)

	uc.record(Actor{ID: ap.UserID}, "tasting_confirmed", ap.ID, meta(ap))

	return &TastingResult{Appointment: ap, Tasting: tasting}, nil
}
