package instance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	// DBusInterface is the activation interface name.
	DBusInterface = "io.github.jmylchreest.WordBubble.Instance"
	// DBusPath is the activation object path.
	DBusPath = "/io/github/jmylchreest/WordBubble"
	// busNamePrefix is prepended to the instance name to form the bus name.
	busNamePrefix = "io.github.jmylchreest.wordbubble."
)

// DBusEndpoint uses session bus name ownership as the rendezvous. The bus
// daemon arbitrates the race, so no lock file is needed.
type DBusEndpoint struct {
	busName string
	logger  *slog.Logger
	connect func() (*dbus.Conn, error)

	mu      sync.Mutex
	conn    *dbus.Conn
	owner   bool
	closed  bool
	handler func([]byte)
}

// NewDBusEndpoint creates a session bus endpoint for name.
func NewDBusEndpoint(name string, logger *slog.Logger) *DBusEndpoint {
	if logger == nil {
		logger = slog.Default()
	}
	return &DBusEndpoint{
		busName: BusName(name),
		logger:  logger,
		connect: sessionBus,
	}
}

func sessionBus() (*dbus.Conn, error) {
	return dbus.ConnectSessionBus()
}

// BusName derives a valid well-known bus name from an instance name.
func BusName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	elem := b.String()
	if elem == "" || (elem[0] >= '0' && elem[0] <= '9') {
		elem = "_" + elem
	}
	return busNamePrefix + elem
}

// String returns the bus name.
func (e *DBusEndpoint) String() string {
	return e.busName
}

func (e *DBusEndpoint) ensureConn() (*dbus.Conn, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	if e.conn != nil {
		return e.conn, nil
	}
	conn, err := e.connect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	e.conn = conn
	return conn, nil
}

// Acquire requests the bus name without queueing.
func (e *DBusEndpoint) Acquire(ctx context.Context) (bool, error) {
	conn, err := e.ensureConn()
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	reply, err := conn.RequestName(e.busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return false, &BindError{Endpoint: e.busName, Cause: err}
	}

	switch reply {
	case dbus.RequestNameReplyPrimaryOwner, dbus.RequestNameReplyAlreadyOwner:
		e.mu.Lock()
		e.owner = true
		e.mu.Unlock()
		return true, nil
	case dbus.RequestNameReplyExists:
		return false, nil
	default:
		return false, &BindError{Endpoint: e.busName, Cause: fmt.Errorf("unexpected request name reply %d", reply)}
	}
}

// Send calls Deliver on the current name owner.
func (e *DBusEndpoint) Send(ctx context.Context, payload []byte) error {
	conn, err := e.ensureConn()
	if err != nil {
		return err
	}
	obj := conn.Object(e.busName, DBusPath)
	call := obj.CallWithContext(ctx, DBusInterface+".Deliver", 0, string(payload))
	if call.Err != nil {
		return fmt.Errorf("deliver to %s: %w", e.busName, call.Err)
	}
	return nil
}

// Serve exports the activation object.
func (e *DBusEndpoint) Serve(handler func(payload []byte)) error {
	e.mu.Lock()
	conn, owner, closed := e.conn, e.owner, e.closed
	e.handler = handler
	e.mu.Unlock()

	if closed {
		return ErrClosed
	}
	if !owner || conn == nil {
		return ErrNotPrimary
	}

	if err := conn.Export(&receiver{endpoint: e}, DBusPath, DBusInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: DBusPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name: DBusInterface,
				Methods: []introspect.Method{
					{
						Name: "Deliver",
						Args: []introspect.Arg{{Name: "payload", Type: "s", Direction: "in"}},
					},
				},
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), DBusPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}
	return nil
}

// Close releases the bus name and closes the private connection.
func (e *DBusEndpoint) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	conn, owner := e.conn, e.owner
	e.conn = nil
	e.mu.Unlock()

	if conn == nil {
		return nil
	}
	if owner {
		if _, err := conn.ReleaseName(e.busName); err != nil {
			e.logger.Debug("failed to release bus name", "name", e.busName, "error", err)
		}
	}
	return conn.Close()
}

func (e *DBusEndpoint) deliver(payload string) {
	e.mu.Lock()
	h := e.handler
	e.mu.Unlock()
	if h != nil {
		h([]byte(payload))
	}
}

// receiver is the exported object. Kept separate so only Deliver is
// visible on the bus.
type receiver struct {
	endpoint *DBusEndpoint
}

// Deliver is the D-Bus method secondaries call.
func (r *receiver) Deliver(payload string) *dbus.Error {
	r.endpoint.deliver(payload)
	return nil
}
