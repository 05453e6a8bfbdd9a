package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/models"
)

// ======================================================
// Direct cancellation
// ======================================================

func TestCancelWithoutPaymentsSucceeds(t *testing.T) {
	f := newFixture()
	ap := f.seed(domain.StatusTastingCompleted)

	got, err := NewCancelAppointment(f.deps).Execute(context.Background(), f.customer, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), got.Status)
	require.NotNil(t, got.CancelledAt)
	assert.Equal(t, string(domain.TastingCancelled), f.tasting(ap.ID).Status)
}

func TestCancelBeforeTastingCompletedFails(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusPendingTasting, domain.StatusTastingConfirmed, domain.StatusRescheduled} {
		f := newFixture()
		ap := f.seed(status)

		_, err := NewCancelAppointment(f.deps).Execute(context.Background(), f.customer, ap.ID)
		assert.True(t, httperr.IsBusiness(err, "invalid_transition"), status)
		assert.Equal(t, string(status), f.appointment(ap.ID).Status)
		assert.Empty(t, f.notifier.sent)
	}
}

func TestCancelWithVerifiedPaymentFails(t *testing.T) {
	f := newFixture()
	ap := f.seed(domain.StatusConfirmed)
	f.addPayment(ap, domain.TxVerified, domain.PaymentTypeDownPayment, 3750)

	_, err := NewCancelAppointment(f.deps).Execute(context.Background(), f.customer, ap.ID)
	assert.Equal(t, httperr.KindPaymentExists, httperr.KindOf(err))

	got := f.appointment(ap.ID)
	assert.Equal(t, string(domain.StatusConfirmed), got.Status)
	assert.Equal(t, string(domain.TastingConfirmed), f.tasting(ap.ID).Status)
	assert.Empty(t, f.notifier.sent)
}

func TestCancelWithPendingPaymentFails(t *testing.T) {
	f := newFixture()
	ap := f.seed(domain.StatusTastingCompleted, pending(domain.PaymentTypeDownPayment))

	_, err := NewCancelAppointment(f.deps).Execute(context.Background(), f.customer, ap.ID)
	assert.True(t, httperr.IsBusiness(err, "payment_exists"))
}

func TestTerminalAppointmentsNeverChange(t *testing.T) {
	f := newFixture()
	ap := f.seed(domain.StatusCompleted, func(ap *models.Appointment) {
		ap.PaymentStatus = string(domain.PaymentPartiallyPaid)
		ap.PendingPaymentType = strPtr(string(domain.PaymentTypeRemainingBalance))
	})
	before := f.appointment(ap.ID)

	_, err := NewCancelAppointment(f.deps).Execute(context.Background(), f.customer, ap.ID)
	assert.Equal(t, httperr.KindInvalidTransition, httperr.KindOf(err))

	_, err = NewVerifyPayment(f.deps).Execute(context.Background(), f.admin, ap.ID, VerifyPaymentInput{Action: "verify"})
	assert.Equal(t, httperr.KindInvalidTransition, httperr.KindOf(err))

	_, err = NewVerifyPayment(f.deps).Execute(context.Background(), f.admin, ap.ID, VerifyPaymentInput{Action: "reject"})
	assert.Equal(t, httperr.KindInvalidTransition, httperr.KindOf(err))

	_, err = NewCompleteAppointment(f.deps).Execute(context.Background(), f.admin, ap.ID)
	assert.True(t, httperr.IsBusiness(err, "appointment_terminal"))

	_, err = NewCreateCancellationRequest(f.deps, nil).Execute(context.Background(), f.customer, ap.ID,
		CancellationRequestInput{Reason: "too late"})
	assert.Equal(t, httperr.KindInvalidTransition, httperr.KindOf(err))

	assert.Equal(t, before, f.appointment(ap.ID))
}

func strPtr(s string) *string { return &s }

// ======================================================
// Cancellation requests
// ======================================================

func TestSecondPendingCancellationRequestFails(t *testing.T) {
	f := newFixture()
	ap := f.seed(domain.StatusConfirmed, partiallyPaid)
	uc := NewCreateCancellationRequest(f.deps, nil)

	first, err := uc.Execute(context.Background(), f.customer, ap.ID, CancellationRequestInput{Reason: "venue closed"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestPending), first.Status)

	_, err = uc.Execute(context.Background(), f.customer, ap.ID, CancellationRequestInput{Reason: "again"})
	assert.Equal(t, httperr.KindDuplicateRequest, httperr.KindOf(err))

	pending, _ := f.repo.ListPendingRequests(context.Background(), ap.ID, domain.KindCancellation)
	assert.Len(t, pending, 1)
}

func TestCancellationRequestNeedsReason(t *testing.T) {
	f := newFixture()
	ap := f.seed(domain.StatusConfirmed)

	_, err := NewCreateCancellationRequest(f.deps, nil).Execute(context.Background(), f.customer, ap.ID,
		CancellationRequestInput{})
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))
}

func TestCancellationRequestStoresPDF(t *testing.T) {
	f := newFixture()
	ap := f.seed(domain.StatusConfirmed)
	up := &memUploader{}

	req, err := NewCreateCancellationRequest(f.deps, up).Execute(context.Background(), f.customer, ap.ID,
		CancellationRequestInput{
			Reason:     "medical",
			Attachment: &Attachment{Data: []byte("%PDF-1.4\n%...")},
		})
	require.NoError(t, err)
	require.Len(t, up.uploads, 1)
	assert.Equal(t, up.uploads[0], req.AttachmentURL)
	assert.Contains(t, req.AttachmentURL, ".pdf")
}

func TestApproveCancellationRequest(t *testing.T) {
	f := newFixture()
	ap := f.seed(domain.StatusConfirmed, partiallyPaid)

	req, err := NewCreateCancellationRequest(f.deps, nil).Execute(context.Background(), f.customer, ap.ID,
		CancellationRequestInput{Reason: "venue closed"})
	require.NoError(t, err)

	resolve := NewResolveCancellationRequest(f.deps)
	out, err := resolve.Execute(context.Background(), f.admin, req.ID, ResolveInput{Decision: "approve", Notes: "refund 50%"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestApproved), out.Request.Status)
	assert.Equal(t, string(domain.StatusCancelled), f.appointment(ap.ID).Status)
	assert.Equal(t, string(domain.TastingCancelled), f.tasting(ap.ID).Status)
	assert.Equal(t, f.admin.ID, *f.repo.state.cancellations[req.ID].ProcessedBy)

	_, err = resolve.Execute(context.Background(), f.admin, req.ID, ResolveInput{Decision: "reject"})
	assert.Equal(t, httperr.KindAlreadyProcessed, httperr.KindOf(err))
	assert.Equal(t, string(domain.RequestApproved), f.repo.state.cancellations[req.ID].Status)
}

func TestRejectCancellationRequestRestoresConfirmed(t *testing.T) {
	f := newFixture()
	ap := f.seed(domain.StatusRescheduled, partiallyPaid)

	req, err := NewCreateCancellationRequest(f.deps, nil).Execute(context.Background(), f.customer, ap.ID,
		CancellationRequestInput{Reason: "changed mind"})
	require.NoError(t, err)

	_, err = NewResolveCancellationRequest(f.deps).Execute(context.Background(), f.admin, req.ID,
		ResolveInput{Decision: "reject", Notes: "non refundable"})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), f.appointment(ap.ID).Status)
	assert.Equal(t, string(domain.RequestRejected), f.repo.state.cancellations[req.ID].Status)

	// the appointment can be asked about again once the previous request is closed
	_, err = NewCreateCancellationRequest(f.deps, nil).Execute(context.Background(), f.customer, ap.ID,
		CancellationRequestInput{Reason: "second try"})
	assert.NoError(t, err)
}

// ======================================================
// Reschedule requests
// ======================================================

func TestReschedulePenaltyWindow(t *testing.T) {
	cases := []struct {
		name    string
		before  time.Duration
		applied bool
		penalty float64
	}{
		{name: "23h before", before: 23 * time.Hour, applied: true, penalty: 750},
		{name: "48h before", before: 48 * time.Hour, applied: false, penalty: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			ap := f.seed(domain.StatusConfirmed, partiallyPaid)

			eventStart := time.Date(2026, 4, 20, 18, 0, 0, 0, time.UTC)
			deps := f.deps
			deps.Now = func() time.Time { return eventStart.Add(-tc.before) }

			req, err := NewCreateRescheduleRequest(deps).Execute(context.Background(), f.customer, ap.ID,
				RescheduleRequestInput{NewEventDate: "2026-05-02", NewEventTime: "17:00"})
			require.NoError(t, err)

			assert.Equal(t, tc.applied, req.PenaltyApplied)
			assert.Equal(t, tc.penalty, req.PenaltyAmount)
			assert.Equal(t, 7500+tc.penalty, req.NewTotalAmount)
			assert.Equal(t, "2026-04-20", req.CurrentEventDate)
		})
	}
}

func TestApproveLateReschedule(t *testing.T) {
	f := newFixture()
	ap := f.seed(domain.StatusConfirmed, partiallyPaid)

	deps := f.deps
	deps.Now = func() time.Time { return time.Date(2026, 4, 20, 8, 0, 0, 0, time.UTC) }

	req, err := NewCreateRescheduleRequest(deps).Execute(context.Background(), f.customer, ap.ID,
		RescheduleRequestInput{NewEventDate: "2026-05-02", NewEventTime: "17:00", Reason: "storm"})
	require.NoError(t, err)

	_, err = NewCreateRescheduleRequest(deps).Execute(context.Background(), f.customer, ap.ID,
		RescheduleRequestInput{NewEventDate: "2026-05-03", NewEventTime: "17:00"})
	assert.True(t, httperr.IsBusiness(err, "pending_request_exists"))

	out, err := NewResolveRescheduleRequest(deps).Execute(context.Background(), f.admin, req.ID,
		ResolveInput{Decision: "approve"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestApproved), out.Request.Status)

	got := f.appointment(ap.ID)
	assert.Equal(t, string(domain.StatusRescheduled), got.Status)
	assert.Equal(t, "2026-05-02", got.EventDate)
	assert.Equal(t, "17:00", got.EventTime)
	assert.Equal(t, 8250.0, got.TotalPackageAmount)
	assert.Equal(t, 4125.0, got.DownPaymentAmount)
	assert.Equal(t, 750.0, got.PenaltyAmount)
	assert.Equal(t, 4500.0, got.RemainingBalance)
	assert.Contains(t, got.AdminNotes, domain.NoteRescheduleApproved)
	assert.Contains(t, got.AdminNotes, "7500.00 -> 8250.00")
	assert.Contains(t, got.AdminNotes, f.admin.ID.String())
}

func TestRejectRescheduleLeavesAppointment(t *testing.T) {
	f := newFixture()
	ap := f.seed(domain.StatusConfirmed)
	before := f.appointment(ap.ID)

	req, err := NewCreateRescheduleRequest(f.deps).Execute(context.Background(), f.customer, ap.ID,
		RescheduleRequestInput{NewEventDate: "2026-05-02", NewEventTime: "17:00"})
	require.NoError(t, err)

	out, err := NewResolveRescheduleRequest(f.deps).Execute(context.Background(), f.admin, req.ID,
		ResolveInput{Decision: "reject", Notes: "fully booked"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestRejected), out.Request.Status)
	assert.Equal(t, before, f.appointment(ap.ID))
}

func TestRescheduleRequiresConfirmedBooking(t *testing.T) {
	f := newFixture()
	ap := f.seed(domain.StatusTastingCompleted)

	_, err := NewCreateRescheduleRequest(f.deps).Execute(context.Background(), f.customer, ap.ID,
		RescheduleRequestInput{NewEventDate: "2026-05-02", NewEventTime: "17:00"})
	assert.Equal(t, httperr.KindInvalidTransition, httperr.KindOf(err))

	confirmed := f.seed(domain.StatusConfirmed)
	_, err = NewCreateRescheduleRequest(f.deps).Execute(context.Background(), f.customer, confirmed.ID,
		RescheduleRequestInput{NewEventDate: "2026-03-01", NewEventTime: "17:00"})
	assert.True(t, httperr.IsBusiness(err, "date_in_past"))
}

func TestListRequestsFiltersByKindAndStatus(t *testing.T) {
	f := newFixture()
	ap := f.seed(domain.StatusConfirmed)

	_, err := NewCreateCancellationRequest(f.deps, nil).Execute(context.Background(), f.customer, ap.ID,
		CancellationRequestInput{Reason: "x"})
	require.NoError(t, err)
	_, err = NewCreateRescheduleRequest(f.deps).Execute(context.Background(), f.customer, ap.ID,
		RescheduleRequestInput{NewEventDate: "2026-05-02", NewEventTime: "17:00"})
	require.NoError(t, err)

	uc := NewListRequests(f.repo)

	all, err := uc.Execute(context.Background(), "", "pending")
	require.NoError(t, err)
	assert.Len(t, all.Cancellations, 1)
	assert.Len(t, all.Reschedules, 1)

	only, err := uc.Execute(context.Background(), "reschedule", "")
	require.NoError(t, err)
	assert.Empty(t, only.Cancellations)
	assert.Len(t, only.Reschedules, 1)

	_, err = uc.Execute(context.Background(), "refund", "")
	assert.True(t, httperr.IsBusiness(err, "invalid_request_kind"))
}
