package handlers

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/media"
	"github.com/BruksfildServices01/catering-booking/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/catering-booking/internal/usecase/appointment"
)

func actorFrom(c *gin.Context) ucAppointment.Actor {
	return ucAppointment.Actor{
		ID:    c.MustGet(middleware.ContextUserID).(uuid.UUID),
		Admin: c.GetString(middleware.ContextUserRole) == middleware.RoleAdmin,
	}
}

// uuidParam writes a 400 and returns false when the path param is not a uuid.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid "+name+".")
		return uuid.Nil, false
	}
	return id, true
}

// formFile reads an optional multipart file. A missing field yields nil.
func formFile(c *gin.Context, field string) (*ucAppointment.Attachment, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	return readAttachment(fh)
}

func readAttachment(fh *multipart.FileHeader) (*ucAppointment.Attachment, error) {
	if fh.Size > media.MaxUploadBytes {
		return nil, httperr.ErrValidation("file_too_large", "Uploaded file exceeds 8MB.")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, media.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > media.MaxUploadBytes {
		return nil, httperr.ErrValidation("file_too_large", "Uploaded file exceeds 8MB.")
	}
	return &ucAppointment.Attachment{Data: data}, nil
}

func invalidRequest(c *gin.Context, err error) {
	c.JSON(400, gin.H{
		"error":   "invalid_request",
		"details": err.Error(),
	})
}
