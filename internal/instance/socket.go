package instance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultConnectTimeout bounds how long a launch waits for an existing primary.
const DefaultConnectTimeout = 500 * time.Millisecond

// maxPayload caps how much a connection may send.
const maxPayload = 256

// SocketEndpoint is a unix domain socket endpoint. An advisory lock file
// next to the socket serializes the connect-or-bind race between launches.
type SocketEndpoint struct {
	name     string
	sockPath string
	lockPath string
	timeout  time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	listener *net.UnixListener
	closed   bool
	wg       sync.WaitGroup
}

// RuntimeDir returns the directory for instance sockets.
// Uses XDG_RUNTIME_DIR if set, otherwise the system temp dir.
func RuntimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir
	}
	return os.TempDir()
}

// NewSocketEndpoint creates an endpoint for name inside dir.
func NewSocketEndpoint(name, dir string, timeout time.Duration, logger *slog.Logger) *SocketEndpoint {
	if logger == nil {
		logger = slog.Default()
	}
	if dir == "" {
		dir = RuntimeDir()
	}
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	return &SocketEndpoint{
		name:     name,
		sockPath: filepath.Join(dir, name+".sock"),
		lockPath: filepath.Join(dir, name+".lock"),
		timeout:  timeout,
		logger:   logger,
	}
}

// String returns the socket path.
func (e *SocketEndpoint) String() string {
	return e.sockPath
}

// Acquire probes for a live primary and binds the socket if there is none.
func (e *SocketEndpoint) Acquire(ctx context.Context) (bool, error) {
	lock, err := acquireLock(ctx, e.lockPath)
	if err != nil {
		return false, fmt.Errorf("failed to acquire instance lock: %w", err)
	}
	defer lock.release()

	if e.probe(ctx) {
		return false, nil
	}

	// Nothing answered: any socket file left behind belongs to a dead process.
	if err := os.Remove(e.sockPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		e.logger.Debug("failed to remove stale socket", "path", e.sockPath, "error", err)
	}

	addr := &net.UnixAddr{Name: e.sockPath, Net: "unix"}
	l, err := net.ListenUnix("unix", addr)
	if err != nil {
		return false, &BindError{Endpoint: e.sockPath, Cause: err}
	}

	e.mu.Lock()
	e.listener = l
	e.mu.Unlock()
	return true, nil
}

// probe reports whether a primary accepts connections within the timeout.
func (e *SocketEndpoint) probe(ctx context.Context) bool {
	dialer := net.Dialer{Timeout: e.timeout}
	conn, err := dialer.DialContext(ctx, "unix", e.sockPath)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Send connects to the primary, writes payload and disconnects.
func (e *SocketEndpoint) Send(ctx context.Context, payload []byte) error {
	dialer := net.Dialer{Timeout: e.timeout}
	conn, err := dialer.DialContext(ctx, "unix", e.sockPath)
	if err != nil {
		return fmt.Errorf("connect %s: %w", e.sockPath, err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(e.timeout)); err != nil {
		return err
	}
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("write %s: %w", e.sockPath, err)
	}
	return nil
}

// Serve accepts connections until Close, passing each payload to handler.
func (e *SocketEndpoint) Serve(handler func(payload []byte)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if e.listener == nil {
		return ErrNotPrimary
	}

	l := e.listener
	e.wg.Add(1)
	go e.acceptLoop(l, handler)
	return nil
}

func (e *SocketEndpoint) acceptLoop(l *net.UnixListener, handler func([]byte)) {
	defer e.wg.Done()
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			e.logger.Warn("instance accept failed", "error", err)
			continue
		}
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			e.handleConn(conn, handler)
		}()
	}
}

func (e *SocketEndpoint) handleConn(conn net.Conn, handler func([]byte)) {
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(e.timeout)); err != nil {
		return
	}
	data, err := io.ReadAll(io.LimitReader(conn, maxPayload))
	if err != nil && len(data) == 0 {
		e.logger.Debug("instance read failed", "error", err)
		return
	}
	if len(data) == 0 {
		// Liveness probe from a launch racing for the endpoint.
		return
	}
	handler(data)
}

// Close stops accepting and removes the socket.
func (e *SocketEndpoint) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	l := e.listener
	e.listener = nil
	e.mu.Unlock()

	var err error
	if l != nil {
		// UnixListener unlinks the socket file on close.
		err = l.Close()
	}
	e.wg.Wait()
	return err
}
