package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPendingTasting             Status = "PENDING_TASTING_CONFIRMATION"
	StatusTastingConfirmed           Status = "TASTING_CONFIRMED"
	StatusTastingRescheduleRequested Status = "TASTING_RESCHEDULE_REQUESTED"
	StatusTastingCompleted           Status = "TASTING_COMPLETED"
	StatusConfirmed                  Status = "confirmed"
	StatusRescheduled                Status = "rescheduled"
	StatusCancelled                  Status = "cancelled"
	StatusCompleted                  Status = "completed"
)

func InitialStatus() Status {
	return StatusPendingTasting
}

func IsTerminal(s Status) bool {
	return s == StatusCancelled || s == StatusCompleted
}

// ===============================
// Payment
// ===============================

type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentFullyPaid     PaymentStatus = "fully_paid"
	PaymentRefunded      PaymentStatus = "refunded"
)

type PaymentType string

const (
	PaymentTypeDownPayment      PaymentType = "down_payment"
	PaymentTypeFullPayment      PaymentType = "full_payment"
	PaymentTypeRemainingBalance PaymentType = "remaining_balance"
	PaymentTypeCash             PaymentType = "cash"
)

// settles reports whether a verified payment of this type clears the balance.
func (t PaymentType) settles() bool {
	return t == PaymentTypeFullPayment || t == PaymentTypeRemainingBalance
}

func ParsePendingType(s string) (PaymentType, bool) {
	switch PaymentType(s) {
	case PaymentTypeDownPayment, PaymentTypeFullPayment, PaymentTypeRemainingBalance:
		return PaymentType(s), true
	}
	return "", false
}

type TxStatus string

const (
	TxPending  TxStatus = "pending"
	TxVerified TxStatus = "verified"
	TxRejected TxStatus = "rejected"
)

type Method string

const (
	MethodOnline  Method = "online"
	MethodWalkIn  Method = "walk_in"
	MethodGateway Method = "gateway"
)

// ===============================
// Tasting
// ===============================

type TastingStatus string

const (
	TastingPending     TastingStatus = "pending"
	TastingConfirmed   TastingStatus = "confirmed"
	TastingSkipped     TastingStatus = "skipped"
	TastingCancelled   TastingStatus = "cancelled"
	TastingRescheduled TastingStatus = "rescheduled"
)

// ===============================
// Requests
// ===============================

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

type RequestKind string

const (
	KindCancellation RequestKind = "cancellation"
	KindReschedule   RequestKind = "reschedule"
)

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

type PaymentAction string

const (
	ActionVerify PaymentAction = "verify"
	ActionReject PaymentAction = "reject"
)
