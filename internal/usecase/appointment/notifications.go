package appointment

// Notification kinds shared by every channel.
const (
	NotifyBookingCreated         = "booking_created"
	NotifyTastingConfirmed       = "tasting_confirmed"
	NotifyTastingSkipped         = "tasting_skipped"
	NotifyTastingRescheduleAsked = "tasting_reschedule_requested"
	NotifyTastingRescheduled     = "tasting_rescheduled"
	NotifyTastingCompleted       = "tasting_completed"
	NotifyPaymentSubmitted       = "payment_submitted"
	NotifyPaymentVerified        = "payment_verified"
	NotifyPaymentRejected        = "payment_rejected"
	NotifyAppointmentCancelled   = "appointment_cancelled"
	NotifyAppointmentCompleted   = "appointment_completed"
	NotifyCancellationRequested  = "cancellation_requested"
	NotifyCancellationResolved   = "cancellation_resolved"
	NotifyRescheduleRequested    = "reschedule_requested"
	NotifyRescheduleResolved     = "reschedule_resolved"
	NotifyPriceRecalculated      = "price_recalculated"
)
