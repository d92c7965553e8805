// Package notify sends desktop notifications through the freedesktop
// notification service, falling back to a writer when no service answers.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	busName   = "org.freedesktop.Notifications"
	busPath   = "/org/freedesktop/Notifications"
	notifyFun = busName + ".Notify"
)

// Urgency is the freedesktop urgency hint.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Icon returns the stock icon name for the urgency.
func (u Urgency) Icon() string {
	switch u {
	case UrgencyLow:
		return "dialog-information"
	case UrgencyCritical:
		return "dialog-error"
	default:
		return "dialog-warning"
	}
}

// Message is one notification.
type Message struct {
	Summary string
	Body    string
	Urgency Urgency
	Timeout time.Duration
}

// Client sends notifications on the session bus.
type Client struct {
	appName  string
	logger   *slog.Logger
	fallback io.Writer
	connect  func() (*dbus.Conn, error)
}

func sessionBus() (*dbus.Conn, error) {
	return dbus.ConnectSessionBus()
}

// New creates a client that names itself appName.
func New(appName string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		appName:  appName,
		logger:   logger,
		fallback: os.Stderr,
		connect:  sessionBus,
	}
}

// SetFallback sets where messages go when the bus is unavailable.
func (c *Client) SetFallback(w io.Writer) {
	c.fallback = w
}

// Send delivers msg to the notification service and returns its ID.
func (c *Client) Send(ctx context.Context, msg Message) (uint32, error) {
	conn, err := c.connect()
	if err != nil {
		return 0, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer conn.Close()

	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(msg.Urgency)),
		"transient":     dbus.MakeVariant(true),
		"desktop-entry": dbus.MakeVariant(c.appName),
	}
	timeout := int32(-1)
	if msg.Timeout > 0 {
		timeout = int32(msg.Timeout.Milliseconds())
	}

	var id uint32
	obj := conn.Object(busName, busPath)
	call := obj.CallWithContext(ctx, notifyFun, 0,
		c.appName, uint32(0), msg.Urgency.Icon(), msg.Summary, msg.Body,
		[]string{}, hints, timeout)
	if call.Err != nil {
		return 0, fmt.Errorf("notify: %w", call.Err)
	}
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("notify: %w", err)
	}
	return id, nil
}

// Notify sends msg, writing it to the fallback writer if the service
// cannot be reached. It never fails.
func (c *Client) Notify(ctx context.Context, msg Message) {
	if _, err := c.Send(ctx, msg); err != nil {
		c.logger.Debug("desktop notification failed, using fallback", "error", err)
		if c.fallback == nil {
			return
		}
		if msg.Body == "" {
			fmt.Fprintln(c.fallback, msg.Summary)
		} else {
			fmt.Fprintf(c.fallback, "%s: %s\n", msg.Summary, msg.Body)
		}
	}
}
