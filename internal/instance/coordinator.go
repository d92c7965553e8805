// Package instance ensures a single primary wordbubbled process and lets
// later launches ask the primary to bring its window forward.
package instance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ActivatePayload is the message a secondary launch sends to the primary.
const ActivatePayload = "activate"

// DefaultName is the rendezvous name shared by every launch.
const DefaultName = "WordBubbleApp"

var (
	// ErrNotPrimary is returned when an operation requires the primary role.
	ErrNotPrimary = errors.New("instance is not primary")
	// ErrClosed is returned when the endpoint has been released.
	ErrClosed = errors.New("instance endpoint closed")
)

// BindError reports that this process won the startup race but could not
// bind the endpoint. It is fatal for the caller.
type BindError struct {
	Endpoint string
	Cause    error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("failed to bind instance endpoint %s: %v", e.Endpoint, e.Cause)
}

func (e *BindError) Unwrap() error {
	return e.Cause
}

// Endpoint is an OS-visible rendezvous point that at most one process binds.
type Endpoint interface {
	// Acquire tries to bind the endpoint. It returns true when this process
	// is now primary and false when a responsive primary already exists.
	// A *BindError means the endpoint was free but could not be bound.
	Acquire(ctx context.Context) (bool, error)
	// Send delivers payload to the current primary.
	Send(ctx context.Context, payload []byte) error
	// Serve starts accepting payloads in the background. Only valid on the primary.
	Serve(handler func(payload []byte)) error
	// Close releases everything the endpoint holds.
	Close() error
	// String names the endpoint for logs.
	String() string
}

// NewEndpoint builds the endpoint for a backend name. "dbus" uses the
// session bus; anything else uses a unix socket in RuntimeDir.
func NewEndpoint(backend, name string, timeout time.Duration, logger *slog.Logger) Endpoint {
	if name == "" {
		name = DefaultName
	}
	if backend == "dbus" {
		return NewDBusEndpoint(name, logger)
	}
	return NewSocketEndpoint(name, "", timeout, logger)
}

// State is a coordinator lifecycle phase.
type State int

const (
	StateUnstarted State = iota
	StatePrimary
	StateSecondaryExiting
	StateShuttingDown
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StatePrimary:
		return "primary"
	case StateSecondaryExiting:
		return "secondary-exiting"
	case StateShuttingDown:
		return "shutting-down"
	default:
		return "released"
	}
}

// Coordinator runs the primary/secondary handshake over an Endpoint.
type Coordinator struct {
	endpoint Endpoint
	logger   *slog.Logger

	mu         sync.Mutex
	state      State
	onActivate func()
}

// NewCoordinator creates a coordinator in the Unstarted state.
func NewCoordinator(endpoint Endpoint, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		endpoint: endpoint,
		logger:   logger,
		state:    StateUnstarted,
	}
}

// OnActivate sets the callback run when an activate payload arrives.
// The callback runs on the endpoint's goroutine; GUI callers should hop
// onto their main loop.
func (c *Coordinator) OnActivate(cb func()) {
	c.mu.Lock()
	c.onActivate = cb
	c.mu.Unlock()
}

// State returns the current lifecycle phase.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TryBecomePrimary races for the endpoint. On success the coordinator
// starts accepting activation payloads.
func (c *Coordinator) TryBecomePrimary(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.state != StateUnstarted {
		state := c.state
		c.mu.Unlock()
		return state == StatePrimary, nil
	}
	c.mu.Unlock()

	primary, err := c.endpoint.Acquire(ctx)
	if err != nil {
		return false, err
	}

	if !primary {
		c.setState(StateSecondaryExiting)
		c.logger.Info("another instance is already running", "endpoint", c.endpoint.String())
		return false, nil
	}

	if err := c.endpoint.Serve(c.handle); err != nil {
		_ = c.endpoint.Close()
		return false, &BindError{Endpoint: c.endpoint.String(), Cause: err}
	}

	c.setState(StatePrimary)
	c.logger.Info("acquired primary instance", "endpoint", c.endpoint.String())
	return true, nil
}

// SendActivate asks the primary to bring its window forward.
func (c *Coordinator) SendActivate(ctx context.Context) error {
	if err := c.endpoint.Send(ctx, []byte(ActivatePayload)); err != nil {
		return fmt.Errorf("failed to send activate: %w", err)
	}
	c.logger.Debug("sent activate to primary", "endpoint", c.endpoint.String())
	return nil
}

// Close releases the endpoint. On the primary this frees the name for a
// future launch.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	state := c.state
	switch state {
	case StateReleased, StateShuttingDown:
		c.mu.Unlock()
		return nil
	case StatePrimary:
		c.state = StateShuttingDown
	}
	c.mu.Unlock()

	err := c.endpoint.Close()

	if state != StateSecondaryExiting {
		c.setState(StateReleased)
	}
	if state == StatePrimary {
		c.logger.Info("released primary instance", "endpoint", c.endpoint.String())
	}
	return err
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// handle dispatches one received payload. Anything other than the exact
// activate payload is ignored.
func (c *Coordinator) handle(payload []byte) {
	if string(payload) != ActivatePayload {
		c.logger.Debug("ignoring instance payload", "bytes", len(payload))
		return
	}

	c.mu.Lock()
	cb := c.onActivate
	c.mu.Unlock()

	c.logger.Debug("activate received")
	if cb != nil {
		cb()
	}
}
