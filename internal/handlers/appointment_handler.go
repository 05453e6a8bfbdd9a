package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/catering-booking/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC   *ucAppointment.CreateBooking
	listUC     *ucAppointment.ListAppointments
	getUC      *ucAppointment.GetAppointment
	cancelUC   *ucAppointment.CancelAppointment
	completeUC *ucAppointment.CompleteAppointment
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateBooking,
	listUC *ucAppointment.ListAppointments,
	getUC *ucAppointment.GetAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	completeUC *ucAppointment.CompleteAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:   createUC,
		listUC:     listUC,
		getUC:      getUC,
		cancelUC:   cancelUC,
		completeUC: completeUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	// admins may book on behalf of a customer
	UserID *uuid.UUID `json:"user_id"`

	EventType      string   `json:"event_type" binding:"required"`
	EventDate      string   `json:"event_date" binding:"required"`
	EventTime      string   `json:"event_time" binding:"required"`
	GuestCount     int      `json:"guest_count" binding:"required"`
	Venue          string   `json:"venue" binding:"required"`
	MenuSelections []string `json:"menu_selections" binding:"required"`

	TastingDate string `json:"tasting_date" binding:"required"`
	TastingTime string `json:"tasting_time" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	actor := actorFrom(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	userID := actor.ID
	if actor.Admin && req.UserID != nil {
		userID = *req.UserID
	}

	res, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateBookingInput{
		UserID:         userID,
		EventType:      req.EventType,
		EventDate:      req.EventDate,
		EventTime:      req.EventTime,
		GuestCount:     req.GuestCount,
		Venue:          req.Venue,
		MenuSelections: req.MenuSelections,
		TastingDate:    req.TastingDate,
		TastingTime:    req.TastingTime,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, res)
}

// ======================================================
// LIST / DETAIL
// ======================================================

// List accepts ?status= and ?month=YYYY-MM. Customers only see their own bookings.
func (h *AppointmentHandler) List(c *gin.Context) {
	items, err := h.listUC.Execute(
		c.Request.Context(),
		actorFrom(c),
		c.Query("status"),
		c.Query("month"),
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, items)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.getUC.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, detail)
}

// ======================================================
// CANCEL / COMPLETE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.cancelUC.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.completeUC.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}
