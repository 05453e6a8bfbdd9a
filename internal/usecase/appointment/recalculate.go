package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/catering-booking/internal/audit"
	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/domain/pricing"
	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/models"
)

type Outcome string

const (
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

type RecalcItem struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	Outcome       Outcome   `json:"outcome"`
	OldTotal      float64   `json:"old_total"`
	NewTotal      float64   `json:"new_total"`
	Error         string    `json:"error,omitempty"`
}

// RecalcReport is returned even when some appointments failed.
type RecalcReport struct {
	Category  string       `json:"category,omitempty"`
	Total     int          `json:"total"`
	Updated   int          `json:"updated"`
	Unchanged int          `json:"unchanged"`
	Skipped   int          `json:"skipped"`
	Failed    int          `json:"failed"`
	Items     []RecalcItem `json:"items"`
}

func (r *RecalcReport) add(item RecalcItem) {
	r.Items = append(r.Items, item)
	switch item.Outcome {
	case OutcomeUpdated:
		r.Updated++
	case OutcomeUnchanged:
		r.Unchanged++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
}

// ======================================================
// RECALCULATE
// ======================================================

// RecalculatePricing reprices every active booking against the current catalog. Each
// booking is updated in its own transaction; a failure is reported and the pass goes on.
type RecalculatePricing struct {
	base
	catalog CatalogSource
}

func NewRecalculatePricing(deps Deps, catalog CatalogSource) *RecalculatePricing {
	return &RecalculatePricing{
		base:    newBase(deps),
		catalog: catalog,
	}
}

// Execute limits the pass to bookings referencing category when it is not empty.
func (uc *RecalculatePricing) Execute(
	ctx context.Context,
	admin Actor,
	category string,
) (*RecalcReport, error) {

	catalog, err := uc.catalog.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	active, err := uc.repo.ListActiveAppointments(ctx)
	if err != nil {
		return nil, err
	}

	report := &RecalcReport{Category: category, Total: len(active), Items: []RecalcItem{}}
	now := uc.clock()

	for i := range active {
		listed := &active[i]

		if category != "" && !pricing.References(listed.MenuSelections, category, catalog) {
			report.add(RecalcItem{
				AppointmentID: listed.ID,
				Outcome:       OutcomeSkipped,
				OldTotal:      listed.TotalPackageAmount,
				NewTotal:      listed.TotalPackageAmount,
			})
			continue
		}

		item := uc.reprice(ctx, listed, catalog, now)
		report.add(item)

		if item.Outcome == OutcomeFailed {
			uc.log.Warn("PRICING", fmt.Sprintf("recalculation failed for %s: %s", listed.ID, item.Error))
		}
	}

	uc.log.Info("PRICING", fmt.Sprintf("recalculated category=%q total=%d updated=%d unchanged=%d skipped=%d failed=%d",
		category, report.Total, report.Updated, report.Unchanged, report.Skipped, report.Failed))

	if report.Updated > 0 || report.Failed > 0 {
		uc.notifier.NotifyAdmin(ctx,
			"Prices recalculated",
			fmt.Sprintf("%d bookings updated, %d failed.", report.Updated, report.Failed),
			NotifyPriceRecalculated,
			map[string]any{"category": category, "updated": report.Updated, "failed": report.Failed},
		)
	}

	return report, nil
}

func (uc *RecalculatePricing) reprice(
	ctx context.Context,
	listed *models.Appointment,
	catalog pricing.Catalog,
	now time.Time,
) RecalcItem {

	item := RecalcItem{AppointmentID: listed.ID, OldTotal: listed.TotalPackageAmount}
	var changed bool

	ap, err := uc.mutate(ctx, listed.ID, func(_ domain.Repository, ap *models.Appointment) (bool, error) {
		item.OldTotal = ap.TotalPackageAmount

		price, err := pricing.Compute(pricing.Input{
			GuestCount: ap.GuestCount,
			Selections: ap.MenuSelections,
		}, catalog)
		if err != nil {
			return false, err
		}

		changed, err = domain.ApplyRepricing(ap, price.TotalAmount, uc.policy, now)
		return changed, err
	})
	if err != nil {
		item.Outcome = OutcomeFailed
		item.NewTotal = item.OldTotal
		item.Error = httperr.FromError(err).Code
		if item.Error == "internal_error" {
			item.Error = err.Error()
		}
		return item
	}

	item.NewTotal = ap.TotalPackageAmount
	if !changed {
		item.Outcome = OutcomeUnchanged
		return item
	}

	item.Outcome = OutcomeUpdated
	uc.log.LogAppointment("reprice", ap.ID.String(), fmt.Sprintf("%.2f -> %.2f", item.OldTotal, item.NewTotal))

	uc.notifier.NotifyUser(ctx, ap.UserID,
		"Booking price updated",
		fmt.Sprintf("The total for your %s on %s is now %.2f (remaining balance %.2f).",
			ap.EventType, ap.EventDate, ap.TotalPackageAmount, ap.RemainingBalance),
		NotifyPriceRecalculated,
	)
	return item
}

// ======================================================
// CATEGORY PRICE
// ======================================================

type CatalogWriter interface {
	SetCategoryPrice(ctx context.Context, name string, price float64) error
}

// UpdateCategoryPrice changes one per-guest rate and reprices the bookings that use it.
type UpdateCategoryPrice struct {
	writer CatalogWriter
	recalc *RecalculatePricing
}

func NewUpdateCategoryPrice(writer CatalogWriter, recalc *RecalculatePricing) *UpdateCategoryPrice {
	return &UpdateCategoryPrice{
		writer: writer,
		recalc: recalc,
	}
}

func (uc *UpdateCategoryPrice) Execute(
	ctx context.Context,
	admin Actor,
	category string,
	price float64,
) (*RecalcReport, error) {

	if category == "" {
		return nil, httperr.ErrValidation("invalid_category", "Category is required.")
	}
	if price < 0 {
		return nil, httperr.ErrValidation("invalid_price", "Price cannot be negative.")
	}

	if err := uc.writer.SetCategoryPrice(ctx, category, domain.RoundCents(price)); err != nil {
		return nil, err
	}

	uc.recalc.log.Info("PRICING", fmt.Sprintf("category %q set to %.2f per guest", category, price))
	uc.recalc.audit.Dispatch(audit.Event{
		ActorID:  &admin.ID,
		Action:   "category_price_updated",
		Entity:   "menu_category",
		Metadata: map[string]any{"category": category, "price": price},
	})

	return uc.recalc.Execute(ctx, admin, category)
}
