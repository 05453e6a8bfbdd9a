package appointment

import (
	"math"
	"time"

	"github.com/BruksfildServices01/catering-booking/internal/domain/pricing"
)

// Business terms: late reschedules pay 10% of the package, bookings are held by a 50% deposit.
const (
	PenaltyRate         = 0.10
	DownPaymentRatio    = pricing.DownPaymentRatio
	LateNoticeThreshold = 24 * time.Hour
)

type Policy struct {
	PenaltyRate      float64
	DownPaymentRatio float64
	LateNotice       time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		PenaltyRate:      PenaltyRate,
		DownPaymentRatio: DownPaymentRatio,
		LateNotice:       LateNoticeThreshold,
	}
}

// WithLateNotice overrides the notice window; a non-positive value keeps the default.
func (p Policy) WithLateNotice(d time.Duration) Policy {
	if d > 0 {
		p.LateNotice = d
	}
	return p
}

// IsLate reports whether a request submitted at submittedAt falls inside the notice window.
// Exactly LateNotice ahead is on time.
func (p Policy) IsLate(submittedAt, eventStart time.Time) bool {
	return eventStart.Sub(submittedAt) < p.LateNotice
}

func (p Policy) Penalty(total float64) float64 {
	return math.Round(total * p.PenaltyRate)
}

func (p Policy) DownPayment(total float64) float64 {
	return math.Round(total * p.DownPaymentRatio)
}

// PenaltyFor returns whether a reschedule submitted at submittedAt is penalised and by how much.
func (p Policy) PenaltyFor(total float64, submittedAt, eventStart time.Time) (bool, float64) {
	if !p.IsLate(submittedAt, eventStart) {
		return false, 0
	}
	return true, p.Penalty(total)
}

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
