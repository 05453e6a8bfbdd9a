package audit

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/catering-booking/internal/logger"
)

type Event struct {
	ActorID  *uuid.UUID
	Action   string
	Entity   string
	EntityID *uuid.UUID
	Metadata any
}

type Sink interface {
	Log(ctx context.Context, actorID *uuid.UUID, action, entity string, entityID *uuid.UUID, metadata any) error
}

type Dispatcher struct {
	sink  Sink
	log   *logger.Logger
	queue chan Event
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sink Sink, log *logger.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		log:   log,
		queue: make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.sink.Log(
			context.Background(),
			ev.ActorID,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			d.log.Error("AUDIT", "audit error: "+err.Error())
		}
	}
}

// Dispatch never blocks the caller; a full queue drops the event. A nil dispatcher is a no-op.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn("AUDIT", "audit dispatcher closed, dropping event "+ev.Action)
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("AUDIT", "audit queue full, dropping event "+ev.Action)
	}
}

// Close drains the queue. Events dispatched afterwards are dropped.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
