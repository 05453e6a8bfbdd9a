package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/catering-booking/internal/usecase/appointment"
)

// RequestHandler serves the cancellation and reschedule request workflows.
type RequestHandler struct {
	createCancellationUC  *ucAppointment.CreateCancellationRequest
	resolveCancellationUC *ucAppointment.ResolveCancellationRequest
	createRescheduleUC    *ucAppointment.CreateRescheduleRequest
	resolveRescheduleUC   *ucAppointment.ResolveRescheduleRequest
	listUC                *ucAppointment.ListRequests
}

func NewRequestHandler(
	createCancellationUC *ucAppointment.CreateCancellationRequest,
	resolveCancellationUC *ucAppointment.ResolveCancellationRequest,
	createRescheduleUC *ucAppointment.CreateRescheduleRequest,
	resolveRescheduleUC *ucAppointment.ResolveRescheduleRequest,
	listUC *ucAppointment.ListRequests,
) *RequestHandler {
	return &RequestHandler{
		createCancellationUC:  createCancellationUC,
		resolveCancellationUC: resolveCancellationUC,
		createRescheduleUC:    createRescheduleUC,
		resolveRescheduleUC:   resolveRescheduleUC,
		listUC:                listUC,
	}
}

type RescheduleRequestBody struct {
	NewEventDate string `json:"new_event_date" binding:"required"`
	NewEventTime string `json:"new_event_time" binding:"required"`
	Reason       string `json:"reason"`
}

type ResolveRequestBody struct {
	Decision string `json:"decision" binding:"required"`
	Notes    string `json:"notes"`
}

// CreateCancellation takes a multipart form: reason plus an optional "attachment".
func (h *RequestHandler) CreateCancellation(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	file, err := formFile(c, "attachment")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	req, err := h.createCancellationUC.Execute(c.Request.Context(), actorFrom(c), id, ucAppointment.CancellationRequestInput{
		Reason:     c.PostForm("reason"),
		Attachment: file,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, req)
}

func (h *RequestHandler) CreateReschedule(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var body RescheduleRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		invalidRequest(c, err)
		return
	}

	req, err := h.createRescheduleUC.Execute(c.Request.Context(), actorFrom(c), id, ucAppointment.RescheduleRequestInput{
		NewEventDate: body.NewEventDate,
		NewEventTime: body.NewEventTime,
		Reason:       body.Reason,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, req)
}

func (h *RequestHandler) ResolveCancellation(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var body ResolveRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		invalidRequest(c, err)
		return
	}

	out, err := h.resolveCancellationUC.Execute(c.Request.Context(), actorFrom(c), id, ucAppointment.ResolveInput{
		Decision: body.Decision,
		Notes:    body.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, out)
}

func (h *RequestHandler) ResolveReschedule(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var body ResolveRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		invalidRequest(c, err)
		return
	}

	out, err := h.resolveRescheduleUC.Execute(c.Request.Context(), actorFrom(c), id, ucAppointment.ResolveInput{
		Decision: body.Decision,
		Notes:    body.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, out)
}

// List accepts ?kind=cancellation|reschedule and ?status=pending|approved|rejected.
func (h *RequestHandler) List(c *gin.Context) {
	queue, err := h.listUC.Execute(c.Request.Context(), c.Query("kind"), c.DefaultQuery("status", "pending"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, queue)
}
