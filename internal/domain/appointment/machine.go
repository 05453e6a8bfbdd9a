package appointment

import (
	"fmt"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
)

type Event string

const (
	EventTastingConfirmed         Event = "tasting_confirmed"
	EventTastingSkipped           Event = "tasting_skipped"
	EventTastingRescheduleRequest Event = "tasting_reschedule_requested"
	EventTastingRescheduled       Event = "tasting_rescheduled"
	EventTastingCompleted         Event = "tasting_completed"
	EventPaymentVerified          Event = "payment_verified"
	EventPaymentRejected          Event = "payment_rejected"
	EventCancelledByUser          Event = "cancelled_by_user"
	EventCancellationApproved     Event = "cancellation_approved"
	EventCancellationRejected     Event = "cancellation_rejected"
	EventRescheduleApproved       Event = "reschedule_approved"
	EventCompleted                Event = "completed"
)

var nonTerminal = []Status{
	StatusPendingTasting,
	StatusTastingConfirmed,
	StatusTastingRescheduleRequested,
	StatusTastingCompleted,
	StatusConfirmed,
	StatusRescheduled,
}

// transitions is the only place a status change is allowed to come from.
var transitions = map[Status]map[Event]Status{
	StatusPendingTasting: {
		EventTastingConfirmed:         StatusTastingConfirmed,
		EventTastingSkipped:           StatusConfirmed,
		EventTastingRescheduleRequest: StatusTastingRescheduleRequested,
	},
	StatusTastingConfirmed: {
		EventTastingRescheduleRequest: StatusTastingRescheduleRequested,
		EventTastingCompleted:         StatusTastingCompleted,
	},
	StatusTastingRescheduleRequested: {
		EventTastingRescheduled: StatusPendingTasting,
	},
	StatusTastingCompleted: {
		EventPaymentVerified: StatusConfirmed,
		EventPaymentRejected: StatusTastingCompleted,
	},
	StatusConfirmed: {
		EventPaymentVerified:    StatusConfirmed,
		EventPaymentRejected:    StatusTastingCompleted,
		EventRescheduleApproved: StatusRescheduled,
		EventCompleted:          StatusCompleted,
	},
	StatusRescheduled: {
		EventPaymentVerified:    StatusRescheduled,
		EventPaymentRejected:    StatusTastingCompleted,
		EventRescheduleApproved: StatusRescheduled,
		EventCompleted:          StatusCompleted,
	},
}

func init() {
	// customers cancel directly only once the tasting is behind them; earlier bookings go
	// through a cancellation request
	transitions[StatusConfirmed][EventCancelledByUser] = StatusCancelled
	transitions[StatusTastingCompleted][EventCancelledByUser] = StatusCancelled

	for _, s := range nonTerminal {
		transitions[s][EventCancellationApproved] = StatusCancelled
		transitions[s][EventCancellationRejected] = StatusConfirmed
	}
}

// Next returns the status reached by applying ev to from.
func Next(from Status, ev Event) (Status, error) {
	if IsTerminal(from) {
		return "", httperr.ErrInvalidTransition(
			"appointment_terminal",
			fmt.Sprintf("Appointment is already %s.", from),
		)
	}

	to, ok := transitions[from][ev]
	if !ok {
		return "", httperr.ErrInvalidTransition(
			"invalid_transition",
			fmt.Sprintf("Cannot apply %s while appointment is %s.", ev, from),
		)
	}

	return to, nil
}

// Can reports whether ev is legal from the given status.
func Can(from Status, ev Event) bool {
	_, err := Next(from, ev)
	return err == nil
}
