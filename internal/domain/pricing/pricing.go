package pricing

import (
	"math"
	"sort"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
)

const DownPaymentRatio = 0.5

type Input struct {
	GuestCount int
	Selections []string
	// Strict turns unresolved selections into a validation error.
	Strict bool
}

type Line struct {
	Selection     string  `json:"selection"`
	Item          string  `json:"item"`
	Category      string  `json:"category"`
	PerGuestPrice float64 `json:"per_guest_price"`
	Placeholder   bool    `json:"placeholder,omitempty"`
}

type Result struct {
	TotalAmount float64  `json:"total_amount"`
	DownPayment float64  `json:"down_payment"`
	Categories  []string `json:"categories"`
	Lines       []Line   `json:"lines"`
	Unresolved  []string `json:"unresolved,omitempty"`
}

// Compute prices a menu: each distinct selected category is charged once per guest at its
// rate, whatever the number of items picked from it. Same input and catalog, same result.
func Compute(in Input, catalog Catalog) (Result, error) {
	if in.GuestCount <= 0 {
		return Result{}, httperr.ErrValidation("invalid_guest_count", "Guest count must be greater than zero.")
	}

	var (
		res   Result
		rates = map[string]float64{}
	)

	for _, sel := range in.Selections {
		item, ok := catalog.ResolveMenuItem(sel)
		if !ok {
			if in.Strict {
				return Result{}, httperr.ErrValidation("unknown_menu_item", "Menu selection not found: "+sel)
			}
			res.Unresolved = append(res.Unresolved, sel)
			res.Lines = append(res.Lines, Line{Selection: sel, Item: sel, Placeholder: true})
			continue
		}

		cat, ok := catalog.Category(item.Category)
		if !ok {
			if in.Strict {
				return Result{}, httperr.ErrValidation("unknown_menu_category", "Menu category not found: "+item.Category)
			}
			res.Unresolved = append(res.Unresolved, sel)
			res.Lines = append(res.Lines, Line{Selection: sel, Item: item.Name, Category: item.Category, Placeholder: true})
			continue
		}

		rates[cat.Name] = cat.PerGuestPrice
		res.Lines = append(res.Lines, Line{
			Selection:     sel,
			Item:          item.Name,
			Category:      cat.Name,
			PerGuestPrice: cat.PerGuestPrice,
		})
	}

	for name := range rates {
		res.Categories = append(res.Categories, name)
	}
	sort.Strings(res.Categories)

	var perGuest float64
	for _, name := range res.Categories {
		perGuest += rates[name]
	}

	res.TotalAmount = math.Round(float64(in.GuestCount)*perGuest*100) / 100
	res.DownPayment = math.Round(res.TotalAmount * DownPaymentRatio)
	return res, nil
}

// References reports whether any selection resolves to the given category.
func References(selections []string, category string, catalog Catalog) bool {
	for _, sel := range selections {
		item, ok := catalog.ResolveMenuItem(sel)
		if ok && normalize(item.Category) == normalize(category) {
			return true
		}
	}
	return false
}
