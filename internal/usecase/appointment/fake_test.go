package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/domain/pricing"
	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/models"
)

// ======================================================
// In-memory repository
// ======================================================

type memState struct {
	appointments  map[uuid.UUID]models.Appointment
	tastings      map[uuid.UUID]models.Tasting
	payments      []models.PaymentTransaction
	cancellations map[uuid.UUID]models.CancellationRequest
	reschedules   map[uuid.UUID]models.RescheduleRequest
}

func (s memState) clone() memState {
	out := memState{
		appointments:  map[uuid.UUID]models.Appointment{},
		tastings:      map[uuid.UUID]models.Tasting{},
		payments:      append([]models.PaymentTransaction(nil), s.payments...),
		cancellations: map[uuid.UUID]models.CancellationRequest{},
		reschedules:   map[uuid.UUID]models.RescheduleRequest{},
	}
	for k, v := range s.appointments {
		out.appointments[k] = v
	}
	for k, v := range s.tastings {
		out.tastings[k] = v
	}
	for k, v := range s.cancellations {
		out.cancellations[k] = v
	}
	for k, v := range s.reschedules {
		out.reschedules[k] = v
	}
	return out
}

type memRepo struct {
	mu    *sync.Mutex
	state *memState
	// failUpdate makes UpdateAppointment fail for the given id
	failUpdate map[uuid.UUID]error
}

func newMemRepo() *memRepo {
	st := memState{}.clone()
	return &memRepo{mu: &sync.Mutex{}, state: &st, failUpdate: map[uuid.UUID]error{}}
}

var errNotFound = httperr.ErrNotFound("not_found", "Not found.")

func (r *memRepo) WithinTx(ctx context.Context, fn func(tx domain.Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.state.clone()
	if err := fn(r); err != nil {
		*r.state = snapshot
		return err
	}
	return nil
}

func (r *memRepo) GetAppointment(_ context.Context, id uuid.UUID) (*models.Appointment, error) {
	ap, ok := r.state.appointments[id]
	if !ok {
		return nil, httperr.ErrNotFound("appointment_not_found", "Appointment not found.")
	}
	return &ap, nil
}

func (r *memRepo) GetAppointmentForUpdate(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	return r.GetAppointment(ctx, id)
}

func (r *memRepo) ListAppointments(_ context.Context, f domain.AppointmentFilter) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.state.appointments {
		if f.UserID != nil && ap.UserID != *f.UserID {
			continue
		}
		if f.Status != "" && ap.Status != f.Status {
			continue
		}
		if f.Month != "" && ap.EventDate[:7] != f.Month {
			continue
		}
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventDate < out[j].EventDate })
	return out, nil
}

func (r *memRepo) ListActiveAppointments(_ context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.state.appointments {
		if !domain.IsTerminal(domain.Status(ap.Status)) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r *memRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	if ap.ID == uuid.Nil {
		ap.ID = uuid.New()
	}
	r.state.appointments[ap.ID] = *ap
	return nil
}

func (r *memRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	if err := r.failUpdate[ap.ID]; err != nil {
		return err
	}
	stored, ok := r.state.appointments[ap.ID]
	if !ok {
		return httperr.ErrNotFound("appointment_not_found", "Appointment not found.")
	}
	if stored.Version != ap.Version {
		return httperr.ErrConflict("appointment_modified", "The appointment was changed by someone else.")
	}
	ap.Version++
	r.state.appointments[ap.ID] = *ap
	return nil
}

func (r *memRepo) CreateTasting(_ context.Context, t *models.Tasting) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.state.tastings[t.ID] = *t
	return nil
}

func (r *memRepo) GetTasting(_ context.Context, appointmentID uuid.UUID) (*models.Tasting, error) {
	for _, t := range r.state.tastings {
		if t.AppointmentID == appointmentID {
			return &t, nil
		}
	}
	return nil, httperr.ErrNotFound("tasting_not_found", "Tasting not found.")
}

func (r *memRepo) GetTastingByID(_ context.Context, id uuid.UUID) (*models.Tasting, error) {
	t, ok := r.state.tastings[id]
	if !ok {
		return nil, httperr.ErrNotFound("tasting_not_found", "Tasting not found.")
	}
	return &t, nil
}

func (r *memRepo) UpdateTasting(_ context.Context, t *models.Tasting) error {
	r.state.tastings[t.ID] = *t
	return nil
}

func (r *memRepo) CreatePaymentTransaction(_ context.Context, tx *models.PaymentTransaction) error {
	if tx.ProviderRef != nil {
		for _, p := range r.state.payments {
			if p.ProviderRef != nil && *p.ProviderRef == *tx.ProviderRef {
				return httperr.ErrAlreadyProcessed("payment_already_recorded", "Payment was already recorded.")
			}
		}
	}
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.CreatedAt = time.Now()
	r.state.payments = append(r.state.payments, *tx)
	return nil
}

func (r *memRepo) UpdatePaymentTransaction(_ context.Context, tx *models.PaymentTransaction) error {
	for i := range r.state.payments {
		if r.state.payments[i].ID == tx.ID {
			r.state.payments[i] = *tx
			return nil
		}
	}
	return errNotFound
}

func (r *memRepo) ListPaymentTransactions(_ context.Context, appointmentID uuid.UUID) ([]models.PaymentTransaction, error) {
	var out []models.PaymentTransaction
	for _, p := range r.state.payments {
		if p.AppointmentID == appointmentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memRepo) FindPaymentByProviderRef(_ context.Context, ref string) (*models.PaymentTransaction, error) {
	for _, p := range r.state.payments {
		if p.ProviderRef != nil && *p.ProviderRef == ref {
			return &p, nil
		}
	}
	return nil, httperr.ErrNotFound("payment_not_found", "Payment not found.")
}

func (r *memRepo) CreateCancellationRequest(_ context.Context, req *models.CancellationRequest) error {
	for _, c := range r.state.cancellations {
		if c.AppointmentID == req.AppointmentID && c.Status == string(domain.RequestPending) {
			return httperr.ErrDuplicateRequest("pending_request_exists", "A request is already pending.")
		}
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.CreatedAt = time.Now()
	r.state.cancellations[req.ID] = *req
	return nil
}

func (r *memRepo) GetCancellationRequest(_ context.Context, id uuid.UUID) (*models.CancellationRequest, error) {
	req, ok := r.state.cancellations[id]
	if !ok {
		return nil, httperr.ErrNotFound("request_not_found", "Request not found.")
	}
	return &req, nil
}

func (r *memRepo) UpdateCancellationRequest(_ context.Context, req *models.CancellationRequest) error {
	r.state.cancellations[req.ID] = *req
	return nil
}

func (r *memRepo) ListCancellationRequests(_ context.Context, status string) ([]models.CancellationRequest, error) {
	var out []models.CancellationRequest
	for _, c := range r.state.cancellations {
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memRepo) CreateRescheduleRequest(_ context.Context, req *models.RescheduleRequest) error {
	for _, c := range r.state.reschedules {
		if c.AppointmentID == req.AppointmentID && c.Status == string(domain.RequestPending) {
			return httperr.ErrDuplicateRequest("pending_request_exists", "A request is already pending.")
		}
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.CreatedAt = time.Now()
	r.state.reschedules[req.ID] = *req
	return nil
}

func (r *memRepo) GetRescheduleRequest(_ context.Context, id uuid.UUID) (*models.RescheduleRequest, error) {
	req, ok := r.state.reschedules[id]
	if !ok {
		return nil, httperr.ErrNotFound("request_not_found", "Request not found.")
	}
	return &req, nil
}

func (r *memRepo) UpdateRescheduleRequest(_ context.Context, req *models.RescheduleRequest) error {
	r.state.reschedules[req.ID] = *req
	return nil
}

func (r *memRepo) ListRescheduleRequests(_ context.Context, status string) ([]models.RescheduleRequest, error) {
	var out []models.RescheduleRequest
	for _, c := range r.state.reschedules {
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memRepo) ListPendingRequests(_ context.Context, appointmentID uuid.UUID, kind domain.RequestKind) ([]domain.PendingRequest, error) {
	var out []domain.PendingRequest
	switch kind {
	case domain.KindCancellation:
		for _, c := range r.state.cancellations {
			if c.AppointmentID == appointmentID && c.Status == string(domain.RequestPending) {
				out = append(out, domain.PendingRequest{ID: c.ID, Kind: kind, CreatedAt: c.CreatedAt})
			}
		}
	case domain.KindReschedule:
		for _, c := range r.state.reschedules {
			if c.AppointmentID == appointmentID && c.Status == string(domain.RequestPending) {
				out = append(out, domain.PendingRequest{ID: c.ID, Kind: kind, CreatedAt: c.CreatedAt})
			}
		}
	}
	return out, nil
}

// ======================================================
// Recorders
// ======================================================

type sentNotification struct {
	UserID uuid.UUID
	Admin  bool
	Title  string
	Body   string
	Kind   string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *recordingNotifier) NotifyUser(_ context.Context, userID uuid.UUID, title, message, kind string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{UserID: userID, Title: title, Body: message, Kind: kind})
}

func (n *recordingNotifier) NotifyAdmin(_ context.Context, title, message, kind string, _ map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{Admin: true, Title: title, Body: message, Kind: kind})
}

func (n *recordingNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, s := range n.sent {
		out = append(out, s.Kind)
	}
	return out
}

type memUploader struct {
	uploads []string
}

func (u *memUploader) Upload(_ context.Context, folder, ext, _ string, _ []byte) (string, error) {
	url := "https://files.test/" + folder + "/" + uuid.NewString() + ext
	u.uploads = append(u.uploads, url)
	return url, nil
}

type staticCatalog struct {
	catalog *pricing.StaticCatalog
}

func (c *staticCatalog) Snapshot(context.Context) (*pricing.StaticCatalog, error) {
	return c.catalog, nil
}

func (c *staticCatalog) SetCategoryPrice(_ context.Context, name string, price float64) error {
	if _, ok := c.catalog.Category(name); !ok {
		return httperr.ErrNotFound("category_not_found", "Category not found.")
	}
	c.catalog = c.catalog.WithCategoryPrice(name, price)
	return nil
}

// ======================================================
// Fixtures
// ======================================================

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repo     *memRepo
	notifier *recordingNotifier
	deps     Deps
	customer Actor
	admin    Actor
}

func newFixture() *fixture {
	repo := newMemRepo()
	notifier := &recordingNotifier{}
	return &fixture{
		repo:     repo,
		notifier: notifier,
		deps: Deps{
			Repo:     repo,
			Notifier: notifier,
			Now:      func() time.Time { return testNow },
		},
		customer: Actor{ID: uuid.New()},
		admin:    Actor{ID: uuid.New(), Admin: true},
	}
}

func (f *fixture) seed(status domain.Status, mutate ...func(ap *models.Appointment)) *models.Appointment {
	ap := &models.Appointment{
		ID:                 uuid.New(),
		UserID:             f.customer.ID,
		EventType:          "wedding",
		EventDate:          "2026-04-20",
		EventTime:          "18:00",
		GuestCount:         50,
		Venue:              "Garden Hall",
		MenuSelections:     []string{"Roast Chicken", "Carbonara", "Leche Flan", "Iced Tea"},
		TotalPackageAmount: 7500,
		DownPaymentAmount:  3750,
		RemainingBalance:   7500,
		Status:             string(status),
		PaymentStatus:      string(domain.PaymentUnpaid),
	}
	for _, m := range mutate {
		m(ap)
	}
	f.repo.state.appointments[ap.ID] = *ap

	t := models.Tasting{
		ID:            uuid.New(),
		AppointmentID: ap.ID,
		ProposedDate:  "2026-03-20",
		ProposedTime:  "14:00",
		Status:        string(domain.TastingPending),
	}
	switch status {
	case domain.StatusTastingConfirmed, domain.StatusTastingCompleted, domain.StatusConfirmed, domain.StatusRescheduled:
		t.Status = string(domain.TastingConfirmed)
	}
	f.repo.state.tastings[t.ID] = t
	return ap
}

func (f *fixture) appointment(id uuid.UUID) models.Appointment {
	return f.repo.state.appointments[id]
}

func (f *fixture) tasting(appointmentID uuid.UUID) models.Tasting {
	t, _ := f.repo.GetTasting(context.Background(), appointmentID)
	return *t
}

func (f *fixture) addPayment(ap *models.Appointment, status domain.TxStatus, pt domain.PaymentType, amount float64) models.PaymentTransaction {
	p := models.PaymentTransaction{
		ID:            uuid.New(),
		AppointmentID: ap.ID,
		UserID:        ap.UserID,
		Amount:        amount,
		PaymentType:   string(pt),
		Method:        string(domain.MethodOnline),
		Status:        string(status),
	}
	f.repo.state.payments = append(f.repo.state.payments, p)
	return p
}

func testCatalog() *pricing.StaticCatalog {
	return pricing.NewStaticCatalog(
		[]pricing.MenuItem{
			{ID: 1, Name: "Roast Chicken", Category: "chicken"},
			{ID: 2, Name: "Beef Caldereta", Category: "beef"},
			{ID: 3, Name: "Carbonara", Category: "pasta"},
			{ID: 4, Name: "Leche Flan", Category: "dessert"},
			{ID: 5, Name: "Iced Tea", Category: "beverage"},
		},
		[]pricing.Category{
			{Name: "chicken", PerGuestPrice: 60},
			{Name: "beef", PerGuestPrice: 80},
			{Name: "pasta", PerGuestPrice: 40},
			{Name: "dessert", PerGuestPrice: 25},
			{Name: "beverage", PerGuestPrice: 25},
		},
	)
}
