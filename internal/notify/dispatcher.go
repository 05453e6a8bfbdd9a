package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/catering-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/catering-booking/internal/logger"
)

const AudienceUser, AudienceAdmin = "user", "admin"

type Message struct {
	UserID   *uuid.UUID
	Audience string
	Title    string
	Body     string
	Kind     string
	Metadata map[string]any
	SentAt   time.Time
}

// Sink delivers a message over one channel.
type Sink interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Dispatcher fans messages out to every sink on a background worker. Delivery errors are
// logged and never reach the caller.
type Dispatcher struct {
	sinks []Sink
	log   *logger.Logger
	queue chan Message
	wg    sync.WaitGroup
	now   func() time.Time

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(log *logger.Logger, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks: sinks,
		log:   log,
		queue: make(chan Message, 256),
		now:   time.Now,
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			if err := s.Send(ctx, msg); err != nil {
				d.log.Warn("NOTIFY", s.Name()+": "+err.Error())
			} else {
				d.log.LogNotify(s.Name(), msg.Kind+" "+msg.Title)
			}
			cancel()
		}
	}
}

func (d *Dispatcher) enqueue(msg Message) {
	msg.SentAt = d.now()

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn("NOTIFY", "dispatcher closed, dropping "+msg.Kind)
		return
	}

	select {
	case d.queue <- msg:
	default:
		d.log.Warn("NOTIFY", "queue full, dropping "+msg.Kind)
	}
}

func (d *Dispatcher) NotifyUser(_ context.Context, userID uuid.UUID, title, message, kind string) {
	d.enqueue(Message{
		UserID:   &userID,
		Audience: AudienceUser,
		Title:    title,
		Body:     message,
		Kind:     kind,
	})
}

func (d *Dispatcher) NotifyAdmin(_ context.Context, title, message, kind string, metadata map[string]any) {
	d.enqueue(Message{
		Audience: AudienceAdmin,
		Title:    title,
		Body:     message,
		Kind:     kind,
		Metadata: metadata,
	})
}

// Close flushes queued messages. Later messages are dropped; closing twice is a no-op.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

var _ domain.Notifier = (*Dispatcher)(nil)
