package notify

import (
	"context"
	"encoding/json"
)

type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// Stream publishes every message as a lifecycle event for downstream consumers.
type Stream struct {
	pub Publisher
}

func NewStream(pub Publisher) *Stream {
	return &Stream{pub: pub}
}

func (s *Stream) Name() string { return "kafka" }

type streamEvent struct {
	Kind     string         `json:"kind"`
	Audience string         `json:"audience"`
	UserID   string         `json:"user_id,omitempty"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
	SentAt   string         `json:"sent_at"`
}

func (s *Stream) Send(ctx context.Context, msg Message) error {
	ev := streamEvent{
		Kind:     msg.Kind,
		Audience: msg.Audience,
		Title:    msg.Title,
		Message:  msg.Body,
		Metadata: msg.Metadata,
		SentAt:   msg.SentAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if msg.UserID != nil {
		ev.UserID = msg.UserID.String()
	}

	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	key := msg.Kind
	if id, ok := msg.Metadata["appointment_id"].(string); ok && id != "" {
		key = id
	}
	return s.pub.Publish(ctx, key, b)
}
