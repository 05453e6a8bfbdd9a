package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/catering-booking/internal/config"
	"github.com/BruksfildServices01/catering-booking/internal/db"
	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/handlers"
	infraRepo "github.com/BruksfildServices01/catering-booking/internal/infra/repository"
	"github.com/BruksfildServices01/catering-booking/internal/logger"
	"github.com/BruksfildServices01/catering-booking/internal/models"
	"github.com/BruksfildServices01/catering-booking/internal/notify"
	"github.com/BruksfildServices01/catering-booking/internal/routes"
	"github.com/BruksfildServices01/catering-booking/internal/tokens"
	ucAppointment "github.com/BruksfildServices01/catering-booking/internal/usecase/appointment"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type server struct {
	t        *testing.T
	db       *gorm.DB
	engine   *gin.Engine
	cfg      *config.Config
	customer uuid.UUID
	admin    uuid.UUID
}

func newServer(t *testing.T) *server {
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))

	require.NoError(t, gdb.Create(&[]models.MenuCategory{
		{Name: "chicken", Kind: "main_course", PerGuestPrice: 60},
		{Name: "pasta", Kind: "flat", PerGuestPrice: 40},
	}).Error)
	require.NoError(t, gdb.Create(&[]models.MenuItem{
		{Name: "Roast Chicken", Category: "chicken", Active: true},
		{Name: "Carbonara", Category: "pasta", Active: true},
	}).Error)

	cfg := &config.Config{JWTSecret: "test-secret", PublicBaseURL: "http://localhost:8080"}
	log := logger.Discard()

	repo := infraRepo.NewAppointmentGormRepository(gdb)
	catalog := infraRepo.NewCatalogGormRepository(gdb)
	inbox := notify.NewInApp(gdb)

	deps := ucAppointment.Deps{
		Repo:     repo,
		Log:      log,
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
	}
	tastingTokens := tokens.NewTastingTokens(cfg.JWTSecret, 72*time.Hour)
	recalc := ucAppointment.NewRecalculatePricing(deps, catalog)

	h := routes.Handlers{
		Appointments: handlers.NewAppointmentHandler(
			ucAppointment.NewCreateBooking(deps, catalog, tastingTokens, false, cfg.PublicBaseURL),
			ucAppointment.NewListAppointments(repo),
			ucAppointment.NewGetAppointment(repo),
			ucAppointment.NewCancelAppointment(deps),
			ucAppointment.NewCompleteAppointment(deps),
		),
		Tastings: handlers.NewTastingHandler(
			ucAppointment.NewConfirmTasting(deps, tastingTokens),
			ucAppointment.NewSkipTasting(deps),
			ucAppointment.NewRequestTastingReschedule(deps),
			ucAppointment.NewRescheduleTasting(deps, tastingTokens, cfg.PublicBaseURL),
			ucAppointment.NewCompleteTasting(deps),
		),
		Payments: handlers.NewPaymentHandler(
			ucAppointment.NewSubmitPayment(deps, nil),
			ucAppointment.NewVerifyPayment(deps),
			ucAppointment.NewRecordWalkInPayment(deps),
			ucAppointment.NewCreateCheckout(deps, nil),
		),
		Requests: handlers.NewRequestHandler(
			ucAppointment.NewCreateCancellationRequest(deps, nil),
			ucAppointment.NewResolveCancellationRequest(deps),
			ucAppointment.NewCreateRescheduleRequest(deps),
			ucAppointment.NewResolveRescheduleRequest(deps),
			ucAppointment.NewListRequests(repo),
		),
		Menu: handlers.NewMenuHandler(
			catalog,
			ucAppointment.NewUpdateCategoryPrice(catalog, recalc),
			recalc,
		),
		AuditLogs:     handlers.NewAuditLogsHandler(gdb),
		Notifications: handlers.NewNotificationHandler(inbox),
		Webhooks:      handlers.NewWebhookHandler(ucAppointment.NewRecordGatewayPayment(deps, nil)),
	}

	r := gin.New()
	routes.RegisterRoutes(r, cfg, log, h)

	return &server{
		t:        t,
		db:       gdb,
		engine:   r,
		cfg:      cfg,
		customer: uuid.New(),
		admin:    uuid.New(),
	}
}

func (s *server) bearer(id uuid.UUID, role string) string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  id.String(),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(s.cfg.JWTSecret))
	require.NoError(s.t, err)
	return "Bearer " + tok
}

func (s *server) do(method, path, auth string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *server) form(path, auth string, fields map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(s.t, mw.WriteField(k, v))
	}
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", auth)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type bookingBody struct {
	Appointment models.Appointment `json:"appointment"`
	Tasting     models.Tasting     `json:"tasting"`
}

func (s *server) book() bookingBody {
	w := s.do(http.MethodPost, "/api/appointments", s.bearer(s.customer, "customer"), map[string]any{
		"event_type":      "wedding",
		"event_date":      "2026-04-20",
		"event_time":      "18:00",
		"guest_count":     50,
		"venue":           "Garden Hall",
		"menu_selections": []string{"Roast Chicken", "Carbonara"},
		"tasting_date":    "2026-04-01",
		"tasting_time":    "15:00",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[bookingBody](s.t, w)
}

func (s *server) tastingToken(appointmentID uuid.UUID) string {
	var t models.Tasting
	require.NoError(s.t, s.db.Where("appointment_id = ?", appointmentID).First(&t).Error)
	return t.Token
}

func TestBookingConfirmAndPay(t *testing.T) {
	s := newServer(t)
	customer := s.bearer(s.customer, "customer")
	admin := s.bearer(s.admin, "admin")

	b := s.book()
	assert.Equal(t, 5000.0, b.Appointment.TotalPackageAmount)
	assert.Equal(t, 2500.0, b.Appointment.DownPaymentAmount)
	assert.Equal(t, string(domain.StatusPendingTasting), b.Appointment.Status)

	apPath := "/api/appointments/" + b.Appointment.ID.String()
	adminPath := "/api/admin/appointments/" + b.Appointment.ID.String()

	// the emailed link may be clicked twice
	token := s.tastingToken(b.Appointment.ID)
	for i := 0; i < 2; i++ {
		w := s.do(http.MethodGet, "/api/public/tasting/confirm?token="+token, "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		res := decode[bookingBody](t, w)
		assert.Equal(t, string(domain.StatusTastingConfirmed), res.Appointment.Status)
	}

	w := s.do(http.MethodPatch, adminPath+"/tasting/complete", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.form(apPath+"/payments", customer, map[string]string{"payment_type": "down_payment"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPatch, adminPath+"/payments/verify", customer, map[string]string{"action": "verify"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPatch, adminPath+"/payments/verify", admin, map[string]string{"action": "verify"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var verified struct {
		Appointment models.Appointment `json:"appointment"`
		Noop        bool               `json:"noop"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verified))
	assert.False(t, verified.Noop)
	assert.Equal(t, string(domain.StatusConfirmed), verified.Appointment.Status)
	assert.Equal(t, string(domain.PaymentPartiallyPaid), verified.Appointment.PaymentStatus)
	assert.Equal(t, 2500.0, verified.Appointment.RemainingBalance)

	w = s.do(http.MethodGet, apPath, customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"payments"`)
}

func TestCancellationRequestConflicts(t *testing.T) {
	s := newServer(t)
	customer := s.bearer(s.customer, "customer")

	b := s.book()
	path := "/api/appointments/" + b.Appointment.ID.String() + "/cancellation-requests"

	w := s.form(path, customer, map[string]string{"reason": "venue closed"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.form(path, customer, map[string]string{"reason": "again"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "pending_request_exists", decode[map[string]any](t, w)["error_code"])

	w = s.do(http.MethodGet, "/api/admin/requests?kind=cancellation", s.bearer(s.admin, "admin"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	queue := decode[ucAppointment.RequestQueue](t, w)
	assert.Len(t, queue.Cancellations, 1)
}

func TestOtherCustomersBookingIsHidden(t *testing.T) {
	s := newServer(t)
	b := s.book()

	stranger := s.bearer(uuid.New(), "customer")

	w := s.do(http.MethodGet, "/api/appointments/"+b.Appointment.ID.String(), stranger, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/appointments/not-a-uuid", stranger, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/appointments", stranger, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode[map[string]any](t, w)["total"])
}

func TestConfirmRejectsForgedToken(t *testing.T) {
	s := newServer(t)
	s.book()

	w := s.do(http.MethodGet, "/api/public/tasting/confirm", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/public/tasting/confirm?token=garbage", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookAcknowledgesUnrelatedTopics(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/public/webhooks/mercadopago", "", map[string]any{
		"type": "merchant_order",
		"data": map[string]string{"id": "123"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ignored", decode[map[string]any](t, w)["status"])

	w = s.do(http.MethodPost, "/api/public/webhooks/mercadopago?type=payment&data.id=99", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rejected", decode[map[string]any](t, w)["status"])
}

func TestCategoryPriceRepricesBookings(t *testing.T) {
	s := newServer(t)
	b := s.book()

	w := s.do(http.MethodPut, "/api/admin/menu/categories/chicken/price", s.bearer(s.admin, "admin"),
		map[string]float64{"per_guest_price": 70})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	report := decode[ucAppointment.RecalcReport](t, w)
	assert.Equal(t, 1, report.Updated)

	var ap models.Appointment
	require.NoError(t, s.db.First(&ap, "id = ?", b.Appointment.ID).Error)
	assert.Equal(t, 5500.0, ap.TotalPackageAmount)
}

type notificationList struct {
	Data []models.Notification `json:"data"`
}

func TestNotificationsInbox(t *testing.T) {
	s := newServer(t)
	inbox := notify.NewInApp(s.db)
	require.NoError(t, inbox.Send(context.Background(), notify.Message{
		UserID:   &s.customer,
		Audience: notify.AudienceUser,
		Title:    "hello",
		Kind:     "test",
	}))

	customer := s.bearer(s.customer, "customer")

	w := s.do(http.MethodGet, "/api/notifications?unread=true", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[notificationList](t, w)
	require.Len(t, list.Data, 1)

	w = s.do(http.MethodPatch, "/api/notifications/"+list.Data[0].ID.String()+"/read", customer, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodPatch, "/api/notifications/"+list.Data[0].ID.String()+"/read", s.bearer(uuid.New(), "customer"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
