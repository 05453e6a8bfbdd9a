package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/catering-booking/internal/audit"
	"github.com/BruksfildServices01/catering-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/catering-booking/internal/db"
	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/handlers"
	"github.com/BruksfildServices01/catering-booking/internal/infra/lock"
	"github.com/BruksfildServices01/catering-booking/internal/infra/mail"
	"github.com/BruksfildServices01/catering-booking/internal/infra/messaging"
	"github.com/BruksfildServices01/catering-booking/internal/infra/payments"
	infraRepo "github.com/BruksfildServices01/catering-booking/internal/infra/repository"
	"github.com/BruksfildServices01/catering-booking/internal/infra/storage"
	"github.com/BruksfildServices01/catering-booking/internal/logger"
	"github.com/BruksfildServices01/catering-booking/internal/notify"
	"github.com/BruksfildServices01/catering-booking/internal/routes"
	"github.com/BruksfildServices01/catering-booking/internal/tokens"
	ucAppointment "github.com/BruksfildServices01/catering-booking/internal/usecase/appointment"
)

func main() {

	cfg := config.Load()

	appLog, err := logger.New(cfg.LogDir, "catering")
	if err != nil {
		log.Fatalf("failed to open log: %v", err)
	}
	defer appLog.Close()

	db := dbpkg.NewDB(cfg)

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	catalogRepo := infraRepo.NewCatalogGormRepository(db)

	var locker domain.Locker = lock.Noop{}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, cfg.Redis.LockTTL)
	}

	var uploader ucAppointment.Uploader
	if cfg.S3.Enabled() {
		uploader = storage.NewS3Uploader(cfg.S3)
	} else {
		appLog.Warn("STARTUP", "S3 not configured, uploads disabled")
	}

	var gateway ucAppointment.PaymentGateway
	if cfg.Payments.MercadoPagoToken != "" {
		mp, err := payments.NewMercadoPago(
			cfg.Payments.MercadoPagoToken,
			strings.TrimRight(cfg.PublicBaseURL, "/")+"/api/public/webhooks/mercadopago",
		)
		if err != nil {
			log.Fatalf("failed to init mercado pago: %v", err)
		}
		gateway = mp
	}

	// ======================================================
	// NOTIFICATIONS + AUDIT
	// ======================================================
	inbox := notify.NewInApp(db)
	sinks := []notify.Sink{inbox}

	if cfg.SMTP.Enabled() {
		sinks = append(sinks, notify.NewEmail(db, mail.NewMailer(cfg.SMTP), cfg.SMTP.AdminEmails, cfg.SMTP.VerifyDomain))
	}

	if cfg.Kafka.Enabled {
		producer := messaging.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		sinks = append(sinks, notify.NewStream(producer))
	}

	notifier := notify.NewDispatcher(appLog, sinks...)
	auditDispatcher := audit.NewDispatcher(audit.New(db), appLog)

	// ======================================================
	// USE CASES
	// ======================================================
	policy := domain.DefaultPolicy()
	if cfg.RescheduleNotice > 0 {
		policy = policy.WithLateNotice(cfg.RescheduleNotice)
	}

	deps := ucAppointment.Deps{
		Repo:     appointmentRepo,
		Locker:   locker,
		Notifier: notifier,
		Audit:    auditDispatcher,
		Log:      appLog,
		Policy:   policy,
		Location: cfg.Location(),
	}

	tastingTokens := tokens.NewTastingTokens(cfg.JWTSecret, cfg.TastingTokenTTL)
	recalcUC := ucAppointment.NewRecalculatePricing(deps, catalogRepo)

	h := routes.Handlers{
		Appointments: handlers.NewAppointmentHandler(
			ucAppointment.NewCreateBooking(deps, catalogRepo, tastingTokens, cfg.StrictMenuResolution, cfg.PublicBaseURL),
			ucAppointment.NewListAppointments(appointmentRepo),
			ucAppointment.NewGetAppointment(appointmentRepo),
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
			ucAppointment.NewSubmitPayment(deps, uploader),
			ucAppointment.NewVerifyPayment(deps),
			ucAppointment.NewRecordWalkInPayment(deps),
			ucAppointment.NewCreateCheckout(deps, gateway),
		),
		Requests: handlers.NewRequestHandler(
			ucAppointment.NewCreateCancellationRequest(deps, uploader),
			ucAppointment.NewResolveCancellationRequest(deps),
			ucAppointment.NewCreateRescheduleRequest(deps),
			ucAppointment.NewResolveRescheduleRequest(deps),
			ucAppointment.NewListRequests(appointmentRepo),
		),
		Menu: handlers.NewMenuHandler(
			catalogRepo,
			ucAppointment.NewUpdateCategoryPrice(catalogRepo, recalcUC),
			recalcUC,
		),
		AuditLogs:     handlers.NewAuditLogsHandler(db),
		Notifications: handlers.NewNotificationHandler(inbox),
		Webhooks:      handlers.NewWebhookHandler(ucAppointment.NewRecordGatewayPayment(deps, gateway)),
	}

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, cfg, appLog, h)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		appLog.Info("STARTUP", "server running on "+cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error("SHUTDOWN", err.Error())
	}

	// drain queued notifications and audit events before the db goes away
	notifier.Close()
	auditDispatcher.Close()
}
