package session

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/RikuRonka/LoveLetter/internal/game"
)

// SendQueueSize is how many events may wait on one connection before it is
// dropped as too slow.
const SendQueueSize = 64

// outbox owns the writes to one connection. Events are queued under the game
// lock and written by a dedicated goroutine, in order.
type outbox struct {
	mu     sync.Mutex
	closed bool
	events chan game.GameEvent
	done   chan struct{}

	write func(ctx context.Context, ev game.GameEvent) error
	log   *logrus.Entry
}

func newOutbox(write func(context.Context, game.GameEvent) error, logger *logrus.Entry) *outbox {
	ob := &outbox{
		events: make(chan game.GameEvent, SendQueueSize),
		done:   make(chan struct{}),
		write:  write,
		log:    logger,
	}
	go ob.run()
	return ob
}

// enqueue never blocks. It reports false when the queue is full or closed.
func (ob *outbox) enqueue(ev game.GameEvent) bool {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	if ob.closed {
		return false
	}
	select {
	case ob.events <- ev:
		return true
	default:
		return false
	}
}

// close stops accepting events. Anything already queued is still written.
func (ob *outbox) close() {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	if !ob.closed {
		ob.closed = true
		close(ob.events)
	}
}

func (ob *outbox) run() {
	defer close(ob.done)
	failed := false
	for ev := range ob.events {
		if failed {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), WriteTimeout)
		err := ob.write(ctx, ev)
		cancel()
		if err != nil {
			failed = true
			ob.log.WithError(err).WithField("event", ev.Type).Warn("Failed writing event, discarding the rest of the queue.")
		}
	}
}
