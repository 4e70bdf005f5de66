package service

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
	"github.com/devricklin/tg-relay-bridge/internal/biz/usecase"
	"github.com/devricklin/tg-relay-bridge/internal/metrics"
)

// RelayHandler handles private messages
type RelayHandler interface {
	HandlePrivateMessage(ctx context.Context, msg domain.Message) (usecase.Outcome, error)
}

// EditHandler handles edited private messages
type EditHandler interface {
	HandleEdit(ctx context.Context, msg domain.Message)
}

// ReplyHandler handles staffed-group messages
type ReplyHandler interface {
	HandleGroupMessage(ctx context.Context, msg domain.Message) (bool, error)
}

// CallbackHandler handles inline control presses
type CallbackHandler interface {
	HandleCallback(ctx context.Context, cb domain.Callback) error
}

// Dispatcher routes each classified event to exactly one handler.
// It is the error boundary: failures and panics are logged and never propagate.
type Dispatcher struct {
	relay     RelayHandler
	edits     EditHandler
	replies   ReplyHandler
	callbacks CallbackHandler
	log       *logrus.Entry
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(relay RelayHandler, edits EditHandler, replies ReplyHandler, callbacks CallbackHandler) *Dispatcher {
	return &Dispatcher{
		relay:     relay,
		edits:     edits,
		replies:   replies,
		callbacks: callbacks,
		log:       logrus.WithField("component", "dispatcher"),
	}
}

// Dispatch handles one event
func (d *Dispatcher) Dispatch(ctx context.Context, ev domain.Event) {
	log := d.log.WithField("event_id", uuid.NewString()).WithField("kind", ev.Kind())

	defer func() {
		if r := recover(); r != nil {
			metrics.HandlerPanics.Inc()
			log.WithField("panic", fmt.Sprint(r)).Errorf("Recovered panic while handling event\n%s", debug.Stack())
		}
	}()

	metrics.InboundEvents.WithLabelValues(string(ev.Kind())).Inc()

	switch e := ev.(type) {
	case domain.PrivateMessageEvent:
		log = log.WithField("correspondent", e.Message.Sender.ID)
		outcome, err := d.relay.HandlePrivateMessage(ctx, e.Message)
		metrics.PipelineOutcomes.WithLabelValues(string(outcome)).Inc()
		if err != nil {
			log.WithError(err).WithField("outcome", outcome).Warn("Private message handling failed")
			return
		}
		log.WithField("outcome", outcome).Debug("Private message handled")

	case domain.EditedMessageEvent:
		d.edits.HandleEdit(ctx, e.Message)

	case domain.GroupMessageEvent:
		if _, err := d.replies.HandleGroupMessage(ctx, e.Message); err != nil {
			log.WithError(err).WithField("thread", e.Message.ThreadID).Warn("Admin reply failed")
		}

	case domain.CallbackEvent:
		if err := d.callbacks.HandleCallback(ctx, e.Callback); err != nil {
			log.WithError(err).WithField("data", e.Callback.Data).Warn("Callback handling failed")
		}

	default:
		log.Debug("Unhandled event kind")
	}
}
