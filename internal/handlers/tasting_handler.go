package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/catering-booking/internal/usecase/appointment"
)

type TastingHandler struct {
	confirmUC           *ucAppointment.ConfirmTasting
	skipUC              *ucAppointment.SkipTasting
	requestRescheduleUC *ucAppointment.RequestTastingReschedule
	rescheduleUC        *ucAppointment.RescheduleTasting
	completeUC          *ucAppointment.CompleteTasting
}

func NewTastingHandler(
	confirmUC *ucAppointment.ConfirmTasting,
	skipUC *ucAppointment.SkipTasting,
	requestRescheduleUC *ucAppointment.RequestTastingReschedule,
	rescheduleUC *ucAppointment.RescheduleTasting,
	completeUC *ucAppointment.CompleteTasting,
) *TastingHandler {
	return &TastingHandler{
		confirmUC:           confirmUC,
		skipUC:              skipUC,
		requestRescheduleUC: requestRescheduleUC,
		rescheduleUC:        rescheduleUC,
		completeUC:          completeUC,
	}
}

type TastingRescheduleRequest struct {
	Reason string `json:"reason"`
}

type RescheduleTastingRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// Confirm is reached from the emailed link, so the token travels in the query string.
// Repeated clicks return the same confirmed booking.
func (h *TastingHandler) Confirm(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		httperr.BadRequest(c, "missing_token", "Token is required.")
		return
	}

	res, err := h.confirmUC.Execute(c.Request.Context(), token)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *TastingHandler) Skip(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	res, err := h.skipUC.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *TastingHandler) RequestReschedule(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req TastingRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	res, err := h.requestRescheduleUC.Execute(c.Request.Context(), actorFrom(c), id, req.Reason)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *TastingHandler) Reschedule(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req RescheduleTastingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	res, err := h.rescheduleUC.Execute(c.Request.Context(), actorFrom(c), id, ucAppointment.RescheduleTastingInput{
		Date: req.Date,
		Time: req.Time,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *TastingHandler) Complete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	res, err := h.completeUC.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}
