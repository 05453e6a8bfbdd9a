package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	ucAppointment "github.com/BruksfildServices01/catering-booking/internal/usecase/appointment"
)

type WebhookHandler struct {
	gatewayUC *ucAppointment.RecordGatewayPayment
}

func NewWebhookHandler(gatewayUC *ucAppointment.RecordGatewayPayment) *WebhookHandler {
	return &WebhookHandler{gatewayUC: gatewayUC}
}

type mercadoPagoNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// paymentID accepts both the JSON body and the legacy query-string form
// (?topic=payment&id=... or ?type=payment&data.id=...).
func paymentID(c *gin.Context) (string, bool) {
	var n mercadoPagoNotification
	if err := c.ShouldBindJSON(&n); err == nil && n.Data.ID != "" {
		return n.Data.ID, n.Type == "payment"
	}

	kind := c.Query("type")
	if kind == "" {
		kind = c.Query("topic")
	}
	id := c.Query("data.id")
	if id == "" {
		id = c.Query("id")
	}
	return id, kind == "payment" && id != ""
}

// MercadoPago acknowledges everything it does not need to act on with 200 so the
// provider stops retrying; only unexpected failures answer 5xx.
func (h *WebhookHandler) MercadoPago(c *gin.Context) {
	id, ok := paymentID(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	res, err := h.gatewayUC.Execute(c.Request.Context(), id)
	if err != nil {
		switch httperr.KindOf(err) {
		case httperr.KindAlreadyProcessed:
			c.JSON(http.StatusOK, gin.H{"status": "already_processed"})
		case httperr.KindInternal:
			httperr.Respond(c, err)
		default:
			c.JSON(http.StatusOK, gin.H{"status": "rejected", "result": httperr.FromError(err)})
		}
		return
	}

	if res.Ignored {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "recorded", "payment": res})
}
