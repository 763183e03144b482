package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/halogen-browser/halogen/backend/internal/logging"
	"github.com/halogen-browser/halogen/backend/internal/shared/types"
	"go.uber.org/zap"
)

// ErrClosed is returned by calls issued on or interrupted by a closed client.
var ErrClosed = errors.New("bridge client closed")

// Client is the UI-process side of the bridge. Requests are correlated by
// uuid and awaited; notifications are one-way. Calls carry no timeout of
// their own; a hung privileged-side handler stalls the corresponding await
// until the caller's context is cancelled or the connection drops.
type Client struct {
	conn *websocket.Conn
	log  *logging.Logger

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]chan *types.Result

	closeOnce sync.Once
	closed    chan struct{}
}

// Dial connects to the privileged process at url (ws://host:port/bridge).
func Dial(ctx context.Context, url string, log *logging.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial bridge: %w", err)
	}

	c := &Client{
		conn:    conn,
		log:     log,
		pending: make(map[string]chan *types.Result),
		closed:  make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Call issues a request and awaits its correlated response. The payload may
// be nil for operations without one.
func (c *Client) Call(ctx context.Context, op string, payload interface{}) (*types.Result, error) {
	msg := types.Message{
		Kind: types.KindRequest,
		ID:   uuid.NewString(),
		Op:   op,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", op, err)
		}
		msg.Payload = data
	}

	ch := make(chan *types.Result, 1)
	c.pendingMu.Lock()
	c.pending[msg.ID] = ch
	c.pendingMu.Unlock()

	if err := c.write(&msg); err != nil {
		c.forget(msg.ID)
		return nil, err
	}

	select {
	case result := <-ch:
		return result, nil
	case <-ctx.Done():
		c.forget(msg.ID)
		return nil, ctx.Err()
	case <-c.closed:
		c.forget(msg.ID)
		return nil, ErrClosed
	}
}

// Notify sends a fire-and-forget operation. No response is expected or read.
func (c *Client) Notify(op string) error {
	return c.write(&types.Message{Kind: types.KindNotify, Op: op})
}

// Close tears down the connection and fails all pending calls.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.conn.Close()
	})
	return err
}

func (c *Client) write(msg *types.Message) error {
	select {
	case <-c.closed:
		return ErrClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("write %s: %w", msg.Op, err)
	}
	return nil
}

func (c *Client) readLoop() {
	defer c.Close()

	for {
		var msg types.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			select {
			case <-c.closed:
			default:
				c.log.Warn("bridge client read error", zap.Error(err))
			}
			return
		}
		if msg.Kind != types.KindResponse {
			c.log.Warn("bridge client ignoring unexpected message",
				zap.String("kind", string(msg.Kind)), zap.String("op", msg.Op))
			continue
		}

		c.pendingMu.Lock()
		ch, ok := c.pending[msg.ID]
		if ok {
			delete(c.pending, msg.ID)
		}
		c.pendingMu.Unlock()

		if !ok {
			c.log.Warn("bridge client got response with no pending call",
				zap.String("op", msg.Op), zap.String("id", msg.ID))
			continue
		}
		result := msg.Result
		if result == nil {
			result = types.Fail("response carried no result")
		}
		ch <- result
	}
}

func (c *Client) forget(id string) {
	c.pendingMu.Lock()
	delete(c.pending, id)
	c.pendingMu.Unlock()
}
