package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/halogen-browser/halogen/backend/internal/infrastructure/monitoring"
	"github.com/halogen-browser/halogen/backend/internal/logging"
	"github.com/halogen-browser/halogen/backend/internal/shared/types"
	"go.uber.org/zap"
)

// HandlerFunc handles one request/response operation. Failures are returned
// as failed Results, not errors: the caller on the UI side always gets a
// structured outcome.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) *types.Result

// NotifyFunc handles one fire-and-forget operation. It has nothing to return
// and nowhere to return it.
type NotifyFunc func(payload json.RawMessage)

// Dispatcher routes incoming bridge messages to registered handlers on the
// privileged side. Registration happens once at wiring time; the maps are
// read-only afterwards, so dispatch needs no locking.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	notifies map[string]NotifyFunc
	log      *logging.Logger
	metrics  *monitoring.Metrics
}

// NewDispatcher creates an empty dispatcher. A nil metrics collector
// disables instrumentation.
func NewDispatcher(log *logging.Logger, metrics *monitoring.Metrics) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		notifies: make(map[string]NotifyFunc),
		log:      log,
		metrics:  metrics,
	}
}

// Handle registers a request/response handler for op.
func (d *Dispatcher) Handle(op string, fn HandlerFunc) {
	d.handlers[op] = fn
}

// HandleNotify registers a fire-and-forget handler for op.
func (d *Dispatcher) HandleNotify(op string, fn NotifyFunc) {
	d.notifies[op] = fn
}

// Dispatch processes one incoming message. For requests it returns the
// correlated response message; for notifications it returns nil. Unknown
// request ops produce a failed result; unknown notifications are dropped
// with a log line, since there is no response leg to carry the failure.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *types.Message) *types.Message {
	switch msg.Kind {
	case types.KindRequest:
		return d.dispatchRequest(ctx, msg)
	case types.KindNotify:
		d.dispatchNotify(msg)
		return nil
	default:
		d.log.Warn("dropping bridge message with unexpected kind",
			zap.String("kind", string(msg.Kind)), zap.String("op", msg.Op))
		return nil
	}
}

func (d *Dispatcher) dispatchRequest(ctx context.Context, msg *types.Message) *types.Message {
	start := time.Now()

	fn, ok := d.handlers[msg.Op]
	var result *types.Result
	if !ok {
		result = types.Fail(fmt.Sprintf("unknown operation: %s", msg.Op))
	} else {
		result = fn(ctx, msg.Payload)
	}

	if d.metrics != nil {
		d.metrics.RecordBridgeRequest(msg.Op, result.Success, time.Since(start))
	}
	if !result.Success {
		d.log.Warn("bridge request failed",
			zap.String("op", msg.Op), zap.String("error", result.Error))
	}

	return &types.Message{
		Kind:   types.KindResponse,
		ID:     msg.ID,
		Op:     msg.Op,
		Result: result,
	}
}

func (d *Dispatcher) dispatchNotify(msg *types.Message) {
	fn, ok := d.notifies[msg.Op]
	if !ok {
		d.log.Warn("dropping unknown notification", zap.String("op", msg.Op))
		return
	}
	if d.metrics != nil {
		d.metrics.RecordNotification(msg.Op)
	}
	fn(msg.Payload)
}
