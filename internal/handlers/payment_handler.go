package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/catering-booking/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type PaymentHandler struct {
	submitUC   *ucAppointment.SubmitPayment
	verifyUC   *ucAppointment.VerifyPayment
	walkInUC   *ucAppointment.RecordWalkInPayment
	checkoutUC *ucAppointment.CreateCheckout
}

func NewPaymentHandler(
	submitUC *ucAppointment.SubmitPayment,
	verifyUC *ucAppointment.VerifyPayment,
	walkInUC *ucAppointment.RecordWalkInPayment,
	checkoutUC *ucAppointment.CreateCheckout,
) *PaymentHandler {
	return &PaymentHandler{
		submitUC:   submitUC,
		verifyUC:   verifyUC,
		walkInUC:   walkInUC,
		checkoutUC: checkoutUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type VerifyPaymentRequest struct {
	Action string `json:"action" binding:"required"`
	Notes  string `json:"notes"`
}

type WalkInPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Notes  string  `json:"notes"`
}

type CheckoutRequest struct {
	PaymentType string `json:"payment_type" binding:"required"`
}

// ======================================================
// CUSTOMER
// ======================================================

// Submit takes a multipart form: payment_type plus an optional "proof" file.
func (h *PaymentHandler) Submit(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	proof, err := formFile(c, "proof")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	res, err := h.submitUC.Execute(c.Request.Context(), actorFrom(c), id, ucAppointment.SubmitPaymentInput{
		PaymentType: c.PostForm("payment_type"),
		Proof:       proof,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, res)
}

func (h *PaymentHandler) Checkout(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	checkout, err := h.checkoutUC.Execute(c.Request.Context(), actorFrom(c), id, req.PaymentType)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, checkout)
}

// ======================================================
// ADMIN
// ======================================================

func (h *PaymentHandler) Verify(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	res, err := h.verifyUC.Execute(c.Request.Context(), actorFrom(c), id, ucAppointment.VerifyPaymentInput{
		Action: req.Action,
		Notes:  req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *PaymentHandler) WalkIn(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req WalkInPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	res, err := h.walkInUC.Execute(c.Request.Context(), actorFrom(c), id, ucAppointment.WalkInPaymentInput{
		Amount: req.Amount,
		Notes:  req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, res)
}
