package appointment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/domain/pricing"
	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/models"
	"github.com/BruksfildServices01/catering-booking/internal/tokens"
)

// ======================================================
// PORTS
// ======================================================

type CatalogSource interface {
	Snapshot(ctx context.Context) (*pricing.StaticCatalog, error)
}

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	UserID uuid.UUID `validate:"required"`

	EventType  string `validate:"required,max=50"`
	EventDate  string `validate:"required,datetime=2006-01-02"`
	EventTime  string `validate:"required,datetime=15:04"`
	GuestCount int    `validate:"gt=0"`
	Venue      string `validate:"required,max=255"`

	MenuSelections []string `validate:"required,min=1,dive,required"`

	TastingDate string `validate:"required,datetime=2006-01-02"`
	TastingTime string `validate:"required,datetime=15:04"`
}

type BookingResult struct {
	Appointment *models.Appointment `json:"appointment"`
	Tasting     *models.Tasting     `json:"tasting"`
	Pricing     pricing.Result      `json:"pricing"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	base
	catalog CatalogSource
	tokens  *tokens.TastingTokens
	strict  bool
	linkURL string
}

func NewCreateBooking(
	deps Deps,
	catalog CatalogSource,
	tastingTokens *tokens.TastingTokens,
	strictMenu bool,
	publicBaseURL string,
) *CreateBooking {
	return &CreateBooking{
		base:    newBase(deps),
		catalog: catalog,
		tokens:  tastingTokens,
		strict:  strictMenu,
		linkURL: TastingLink(publicBaseURL),
	}
}

// TastingLink is the public confirmation endpoint the token is appended to.
func TastingLink(publicBaseURL string) string {
	return strings.TrimRight(publicBaseURL, "/") + "/api/public/tasting/confirm?token="
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*BookingResult, error) {

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := uc.clock()

	eventStart, err := domain.FutureSlot(in.EventDate, in.EventTime, uc.loc, now)
	if err != nil {
		return nil, err
	}
	tastingStart, err := domain.FutureSlot(in.TastingDate, in.TastingTime, uc.loc, now)
	if err != nil {
		return nil, err
	}
	if !tastingStart.Before(eventStart) {
		return nil, httperr.ErrValidation("tasting_after_event", "The tasting must happen before the event.")
	}

	// --------------------------------------------------
	// 2. Pricing
	// --------------------------------------------------
	catalog, err := uc.catalog.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	price, err := pricing.Compute(pricing.Input{
		GuestCount: in.GuestCount,
		Selections: in.MenuSelections,
		Strict:     uc.strict,
	}, catalog)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Appointment + tasting in one transaction
	// --------------------------------------------------
	ap := &models.Appointment{
		ID:                 uuid.New(),
		UserID:             in.UserID,
		EventType:          in.EventType,
		EventDate:          in.EventDate,
		EventTime:          in.EventTime,
		GuestCount:         in.GuestCount,
		Venue:              in.Venue,
		MenuSelections:     in.MenuSelections,
		TotalPackageAmount: price.TotalAmount,
		DownPaymentAmount:  price.DownPayment,
		RemainingBalance:   price.TotalAmount,
		Status:             string(domain.InitialStatus()),
		PaymentStatus:      string(domain.PaymentUnpaid),
	}

	tasting := &models.Tasting{
		ID:            uuid.New(),
		AppointmentID: ap.ID,
		ProposedDate:  in.TastingDate,
		ProposedTime:  in.TastingTime,
		Status:        string(domain.TastingPending),
	}

	token, exp, err := uc.tokens.Issue(tasting.ID, ap.ID, now)
	if err != nil {
		return nil, fmt.Errorf("issue tasting token: %w", err)
	}
	tasting.Token = token
	tasting.TokenExpiresAt = exp

	if len(price.Unresolved) > 0 {
		domain.AppendNote(ap, "UNRESOLVED_MENU_ITEMS", now, strings.Join(price.Unresolved, ", "))
	}

	if err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}
		return tx.CreateTasting(ctx, tasting)
	}); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Side effects
	// --------------------------------------------------
	uc.log.LogAppointment("create", ap.ID.String(), fmt.Sprintf("total=%.2f guests=%d", ap.TotalPackageAmount, ap.GuestCount))

	uc.notifier.NotifyUser(ctx, ap.UserID,
		"Confirm your tasting",
		fmt.Sprintf("Your tasting is proposed for %s at %s. Confirm it here: %s%s",
			tasting.ProposedDate, tasting.ProposedTime, uc.linkURL, token),
		NotifyBookingCreated,
	)
	uc.notifier.NotifyAdmin(ctx,
		"New booking",
		fmt.Sprintf("%s for %d guests on %s %s.", ap.EventType, ap.GuestCount, ap.EventDate, ap.EventTime),
		NotifyBookingCreated,
		meta(ap, "total", ap.TotalPackageAmount),
	)

	uc.record(Actor{ID: in.UserID}, "appointment_created", ap.ID, meta(ap))

	return &BookingResult{Appointment: ap, Tasting: tasting, Pricing: price}, nil
}
