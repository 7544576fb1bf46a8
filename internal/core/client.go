package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ErrClosed is returned by calls made after the connection is gone.
var ErrClosed = errors.New("core connection closed")

// HandlerFunc processes one incoming call. The returned value is
// marshaled into the response frame; a returned error becomes the call's
// error result on the core side.
type HandlerFunc func(ctx context.Context, from string, data json.RawMessage) (any, error)

// Client is a connection to the host core. Handlers registered with
// Handle serve incoming calls; Call and SendEvent go the other way.
type Client struct {
	name   string
	logger *slog.Logger

	conn    *websocket.Conn
	writeMu sync.Mutex

	handlersMu sync.RWMutex
	handlers   map[string]HandlerFunc

	pendingMu sync.Mutex
	pending   map[string]chan Frame
	closed    bool
}

// Dial connects to the host core at the given WebSocket URL and starts
// the read loop. name identifies this adapter in outgoing frames.
func Dial(url, name string, log *slog.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial core: %w", err)
	}
	return NewClient(conn, name, log), nil
}

// NewClient wraps an established WebSocket connection and starts the
// read loop.
func NewClient(conn *websocket.Conn, name string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	c := &Client{
		name:     name,
		logger:   log.With(slog.String("component", "core")),
		conn:     conn,
		handlers: map[string]HandlerFunc{},
		pending:  map[string]chan Frame{},
	}
	go c.readLoop()
	return c
}

// Handle registers a handler for a named call. Later registrations for
// the same action replace earlier ones.
func (c *Client) Handle(action string, fn HandlerFunc) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.handlers[action] = fn
}

// Call sends a named call to the core and blocks until the correlated
// response arrives or ctx is done.
func (c *Client) Call(ctx context.Context, action string, data any) (json.RawMessage, error) {
	id := uuid.NewString()
	ch := make(chan Frame, 1)

	c.pendingMu.Lock()
	if c.closed {
		c.pendingMu.Unlock()
		return nil, ErrClosed
	}
	c.pending[id] = ch
	c.pendingMu.Unlock()

	frame, err := callFrame(id, c.name, action, data)
	if err != nil {
		c.dropPending(id)
		return nil, fmt.Errorf("encode call %s: %w", action, err)
	}
	if err := c.write(frame); err != nil {
		c.dropPending(id)
		return nil, err
	}

	select {
	case <-ctx.Done():
		c.dropPending(id)
		return nil, ctx.Err()
	case resp, ok := <-ch:
		if !ok {
			return nil, ErrClosed
		}
		if resp.Error != "" {
			return nil, fmt.Errorf("core call %s: %s", action, resp.Error)
		}
		return resp.Data, nil
	}
}

// SendEvent publishes a named event to the core. Events are
// fire-and-forget; there is no response.
func (c *Client) SendEvent(_ context.Context, event string, data any) error {
	frame, err := eventFrame(c.name, event, data)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event, err)
	}
	return c.write(frame)
}

// dataFolderResult mirrors the core's get_data_folder response.
type dataFolderResult struct {
	Exist bool   `json:"exist"`
	Data  string `json:"data"`
}

// DataFolder asks the core for this adapter's data directory.
func (c *Client) DataFolder(ctx context.Context) (string, error) {
	raw, err := c.Call(ctx, "get_data_folder", nil)
	if err != nil {
		return "", err
	}
	var result dataFolderResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decode data folder: %w", err)
	}
	if !result.Exist {
		return "", fmt.Errorf("core has no data folder for this adapter")
	}
	return result.Data, nil
}

// Close tears down the connection. Pending calls fail with ErrClosed.
func (c *Client) Close() error {
	err := c.conn.Close()
	c.failPending()
	return err
}

func (c *Client) write(frame Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(frame)
}

func (c *Client) readLoop() {
	for {
		var frame Frame
		if err := c.conn.ReadJSON(&frame); err != nil {
			c.logger.Info("read loop ended", slog.Any("error", err))
			c.failPending()
			return
		}
		switch frame.Type {
		case frameResponse:
			c.deliver(frame)
		case frameCall:
			go c.dispatch(frame)
		default:
			// Events pushed by the core are not consumed by this adapter.
		}
	}
}

func (c *Client) dispatch(frame Frame) {
	c.handlersMu.RLock()
	fn, ok := c.handlers[frame.Action]
	c.handlersMu.RUnlock()
	if !ok {
		_ = c.write(responseFrame(frame.ID, c.name, nil, fmt.Errorf("unknown action: %s", frame.Action)))
		return
	}
	result, err := fn(context.Background(), frame.From, frame.Data)
	if err != nil {
		c.logger.Warn("call failed", slog.String("action", frame.Action), slog.Any("error", err))
	}
	if writeErr := c.write(responseFrame(frame.ID, c.name, result, err)); writeErr != nil {
		c.logger.Error("write response failed", slog.String("action", frame.Action), slog.Any("error", writeErr))
	}
}

func (c *Client) deliver(frame Frame) {
	c.pendingMu.Lock()
	ch, ok := c.pending[frame.ID]
	if ok {
		delete(c.pending, frame.ID)
	}
	c.pendingMu.Unlock()
	if ok {
		ch <- frame
	}
}

func (c *Client) dropPending(id string) {
	c.pendingMu.Lock()
	delete(c.pending, id)
	c.pendingMu.Unlock()
}

func (c *Client) failPending() {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}
