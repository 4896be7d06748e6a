package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rackline/rackline/internal/wire"
)

// Caller issues a single method call and waits for the server's answer.
// Method names follow the "<objectType>.<verb>" convention, e.g.
// "machine.create_partition". Implemented by *Conn; stores and tests
// depend on this interface rather than a live connection.
type Caller interface {
	CallMethod(ctx context.Context, method string, params map[string]any) (json.RawMessage, error)
}

// Ensure Conn implements Caller at compile time.
var _ Caller = (*Conn)(nil)

// NotifyFunc receives a push notification for one object type.
type NotifyFunc func(action string, data json.RawMessage)

// ErrClosed is returned for calls made on, or in flight across, a closed
// connection.
var ErrClosed = errors.New("channel: connection closed")

// Config holds the settings for dialing a control channel.
type Config struct {
	// Address is the server's host:port.
	Address string
	// DialTimeout bounds connection establishment. Zero means only the
	// dial context's deadline applies.
	DialTimeout time.Duration
	// Logger is used for structured logging. If nil, slog.Default() is
	// used. Every connection logs under a unique "conn" id.
	Logger *slog.Logger
}

// Conn is a duplex control channel to the Foundry server. Requests are
// correlated to responses by id; notify frames are dispatched to
// registered notifiers from a single goroutine in arrival order, so
// observers see changes in the same order the server emitted them.
//
// Conn performs no retries and no reconnection. When the stream fails,
// every pending call is rejected and Done is closed; reconnect policy
// belongs to the caller.
type Conn struct {
	conn   net.Conn
	logger *slog.Logger

	writeMu sync.Mutex
	enc     *json.Encoder

	mu        sync.Mutex
	nextID    uint64
	pending   map[uint64]chan callResult
	notifiers map[string][]NotifyFunc
	err       error

	done      chan struct{}
	closeOnce sync.Once
}

type callResult struct {
	result json.RawMessage
	err    error
}

// Dial connects to the server and starts the read loop.
func Dial(ctx context.Context, cfg Config) (*Conn, error) {
	dialer := net.Dialer{Timeout: cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("channel: dial %s: %w", cfg.Address, err)
	}
	return NewConn(conn, cfg), nil
}

// NewConn wraps an established stream. Used directly by tests with
// net.Pipe; production code goes through Dial.
func NewConn(conn net.Conn, cfg Config) *Conn {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Conn{
		conn:      conn,
		logger:    logger.With("conn", uuid.NewString()),
		enc:       json.NewEncoder(conn),
		pending:   make(map[uint64]chan callResult),
		notifiers: make(map[string][]NotifyFunc),
		done:      make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// CallMethod sends one request frame and waits for its response. A
// success response resolves with the raw result payload; an error
// response resolves with a *wire.CallError carrying the server's payload
// unchanged. Cancelling the context abandons the call — the response, if
// it ever arrives, is discarded.
func (c *Conn) CallMethod(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return nil, err
	}
	c.nextID++
	id := c.nextID
	ch := make(chan callResult, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	frame := wire.Message{
		Type:      wire.MsgRequest,
		RequestID: id,
		Method:    method,
		Params:    params,
	}
	c.writeMu.Lock()
	err := c.enc.Encode(&frame)
	c.writeMu.Unlock()
	if err != nil {
		c.forget(id)
		return nil, fmt.Errorf("channel: send %s: %w", method, err)
	}

	select {
	case <-ctx.Done():
		c.forget(id)
		return nil, ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return nil, res.err
		}
		return res.result, nil
	}
}

// RegisterNotifier subscribes fn to push notifications for one object
// type. Multiple notifiers per type are invoked in registration order.
func (c *Conn) RegisterNotifier(objectType string, fn NotifyFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifiers[objectType] = append(c.notifiers[objectType], fn)
}

// Done is closed once the connection is no longer usable.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Err reports why the connection stopped, nil while it is live.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close tears down the connection. Pending calls fail with ErrClosed.
func (c *Conn) Close() error {
	c.fail(ErrClosed)
	return nil
}

func (c *Conn) readLoop() {
	dec := json.NewDecoder(c.conn)
	for {
		var msg wire.Message
		if err := dec.Decode(&msg); err != nil {
			c.fail(fmt.Errorf("channel: connection lost: %w", err))
			return
		}
		if err := msg.Validate(); err != nil {
			c.logger.Warn("dropping malformed frame", "error", err)
			continue
		}
		switch msg.Type {
		case wire.MsgResponse:
			c.deliver(msg)
		case wire.MsgNotify:
			// Dispatched inline on the read goroutine: arrival order is
			// delivery order.
			c.dispatch(msg)
		default:
			c.logger.Warn("unexpected frame type from server", "type", int(msg.Type))
		}
	}
}

func (c *Conn) deliver(msg wire.Message) {
	c.mu.Lock()
	ch, ok := c.pending[msg.RequestID]
	delete(c.pending, msg.RequestID)
	c.mu.Unlock()
	if !ok {
		// Expected when the caller's context was cancelled first.
		c.logger.Debug("response for abandoned request", "request_id", msg.RequestID)
		return
	}
	if msg.RType == wire.ResponseError {
		ch <- callResult{err: wire.ParseCallError(msg.Error)}
		return
	}
	ch <- callResult{result: msg.Result}
}

func (c *Conn) dispatch(msg wire.Message) {
	c.mu.Lock()
	fns := make([]NotifyFunc, len(c.notifiers[msg.Name]))
	copy(fns, c.notifiers[msg.Name])
	c.mu.Unlock()
	for _, fn := range fns {
		fn(msg.Action, msg.Data)
	}
}

func (c *Conn) forget(id uint64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// fail records the terminal error, rejects every pending call, and closes
// the underlying stream. First caller wins.
func (c *Conn) fail(err error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.err = err
		for id, ch := range c.pending {
			ch <- callResult{err: err}
			delete(c.pending, id)
		}
		c.mu.Unlock()
		close(c.done)
		_ = c.conn.Close()
		if !errors.Is(err, ErrClosed) {
			c.logger.Warn("control channel failed", "error", err)
		}
	})
}
