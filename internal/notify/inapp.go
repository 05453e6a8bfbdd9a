package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/models"
)

// InApp stores messages as notification rows and serves the inbox endpoints.
type InApp struct {
	db *gorm.DB
}

func NewInApp(db *gorm.DB) *InApp {
	return &InApp{db: db}
}

func (s *InApp) Name() string { return "in_app" }

func (s *InApp) Send(ctx context.Context, msg Message) error {
	var meta string
	if len(msg.Metadata) > 0 {
		if b, err := json.Marshal(msg.Metadata); err == nil {
			meta = string(b)
		}
	}

	return s.db.WithContext(ctx).Create(&models.Notification{
		UserID:   msg.UserID,
		Audience: msg.Audience,
		Title:    msg.Title,
		Message:  msg.Body,
		Kind:     msg.Kind,
		Metadata: meta,
	}).Error
}

// List returns the user's inbox, or the admin channel when userID is nil.
func (s *InApp) List(ctx context.Context, userID *uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(100)
	if userID == nil {
		q = q.Where("audience = ?", AudienceAdmin)
	} else {
		q = q.Where("user_id = ?", *userID)
	}
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}

	var out []models.Notification
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *InApp) MarkRead(ctx context.Context, id uuid.UUID, userID *uuid.UUID, now time.Time) error {
	q := s.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id)
	if userID == nil {
		q = q.Where("audience = ?", AudienceAdmin)
	} else {
		q = q.Where("user_id = ?", *userID)
	}
	res := q.Update("read_at", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("notification_not_found", "Notification not found.")
	}
	return nil
}
