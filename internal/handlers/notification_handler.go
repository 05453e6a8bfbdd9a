package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/httpresp"
	"github.com/BruksfildServices01/catering-booking/internal/notify"
)

// NotificationHandler exposes the in-app inbox. Admins read the shared admin channel.
type NotificationHandler struct {
	inbox *notify.InApp
	now   func() time.Time
}

func NewNotificationHandler(inbox *notify.InApp) *NotificationHandler {
	return &NotificationHandler{inbox: inbox, now: time.Now}
}

func inboxOwner(c *gin.Context) *uuid.UUID {
	actor := actorFrom(c)
	if actor.Admin {
		return nil
	}
	return &actor.ID
}

func (h *NotificationHandler) List(c *gin.Context) {
	items, err := h.inbox.List(c.Request.Context(), inboxOwner(c), c.Query("unread") == "true")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, items)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.inbox.MarkRead(c.Request.Context(), id, inboxOwner(c), h.now()); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(204)
}
