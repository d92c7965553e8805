package instance

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCoordinator(t *testing.T, dir, name string) *Coordinator {
	t.Helper()
	ep := NewSocketEndpoint(name, dir, 200*time.Millisecond, nil)
	c := NewCoordinator(ep, nil)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestCoordinator_PrimaryThenSecondary(t *testing.T) {
	dir := t.TempDir()
	ctx := testContext(t)

	primary := newTestCoordinator(t, dir, "wb")
	var activations atomic.Int32
	primary.OnActivate(func() { activations.Add(1) })

	ok, err := primary.TryBecomePrimary(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, StatePrimary, primary.State())

	secondary := newTestCoordinator(t, dir, "wb")
	ok, err = secondary.TryBecomePrimary(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, StateSecondaryExiting, secondary.State())

	require.NoError(t, secondary.SendActivate(ctx))
	require.Eventually(t, func() bool { return activations.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	// The liveness probe from the secondary must not count as an activation.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), activations.Load())
}

func TestCoordinator_IgnoresOtherPayloads(t *testing.T) {
	dir := t.TempDir()
	ctx := testContext(t)

	primary := newTestCoordinator(t, dir, "wb")
	var activations atomic.Int32
	primary.OnActivate(func() { activations.Add(1) })
	ok, err := primary.TryBecomePrimary(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	sender := NewSocketEndpoint("wb", dir, 200*time.Millisecond, nil)
	require.NoError(t, sender.Send(ctx, []byte("hello")))
	require.NoError(t, sender.Send(ctx, []byte("activate\n")))
	require.NoError(t, sender.Send(ctx, []byte("ACTIVATE")))
	require.NoError(t, sender.Send(ctx, []byte(ActivatePayload)))

	require.Eventually(t, func() bool { return activations.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), activations.Load())
}

func TestCoordinator_StaleSocketIsReplaced(t *testing.T) {
	dir := t.TempDir()
	ctx := testContext(t)

	sockPath := filepath.Join(dir, "wb.sock")
	l, err := net.ListenUnix("unix", &net.UnixAddr{Name: sockPath, Net: "unix"})
	require.NoError(t, err)
	l.SetUnlinkOnClose(false)
	require.NoError(t, l.Close())
	_, err = os.Stat(sockPath)
	require.NoError(t, err, "stale socket file should remain")

	c := newTestCoordinator(t, dir, "wb")
	ok, err := c.TryBecomePrimary(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCoordinator_ReleaseAllowsNewPrimary(t *testing.T) {
	dir := t.TempDir()
	ctx := testContext(t)

	first := newTestCoordinator(t, dir, "wb")
	ok, err := first.TryBecomePrimary(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, first.Close())
	assert.Equal(t, StateReleased, first.State())
	require.NoError(t, first.Close())

	second := newTestCoordinator(t, dir, "wb")
	ok, err = second.TryBecomePrimary(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCoordinator_ConcurrentLaunches(t *testing.T) {
	dir := t.TempDir()
	ctx := testContext(t)

	const launches = 8
	var (
		wg        sync.WaitGroup
		primaries atomic.Int32
	)
	for range launches {
		c := newTestCoordinator(t, dir, "wb")
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := c.TryBecomePrimary(ctx)
			assert.NoError(t, err)
			if ok {
				primaries.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), primaries.Load())
}

func TestCoordinator_BindFailure(t *testing.T) {
	dir := t.TempDir()
	ctx := testContext(t)

	// Longer than the unix socket path limit.
	c := newTestCoordinator(t, dir, strings.Repeat("n", 120))
	ok, err := c.TryBecomePrimary(ctx)
	assert.False(t, ok)

	var bindErr *BindError
	require.ErrorAs(t, err, &bindErr)
	assert.Contains(t, bindErr.Error(), "failed to bind")
	assert.Equal(t, StateUnstarted, c.State())
}

func TestCoordinator_SendWithoutPrimary(t *testing.T) {
	c := newTestCoordinator(t, t.TempDir(), "wb")
	err := c.SendActivate(testContext(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send activate")
}

type fakeEndpoint struct {
	serveErr error
	closed   bool
}

func (f *fakeEndpoint) Acquire(context.Context) (bool, error) { return true, nil }
func (f *fakeEndpoint) Send(context.Context, []byte) error    { return nil }
func (f *fakeEndpoint) Serve(func([]byte)) error              { return f.serveErr }
func (f *fakeEndpoint) Close() error                          { f.closed = true; return nil }
func (f *fakeEndpoint) String() string                        { return "fake" }

func TestCoordinator_ServeFailureIsBindError(t *testing.T) {
	ep := &fakeEndpoint{serveErr: errors.New("boom")}
	c := NewCoordinator(ep, nil)

	ok, err := c.TryBecomePrimary(context.Background())
	assert.False(t, ok)
	var bindErr *BindError
	require.ErrorAs(t, err, &bindErr)
	assert.True(t, ep.closed)
}

func TestCoordinator_TryBecomePrimaryIdempotent(t *testing.T) {
	ep := &fakeEndpoint{}
	c := NewCoordinator(ep, nil)

	ok, err := c.TryBecomePrimary(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.TryBecomePrimary(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unstarted", StateUnstarted.String())
	assert.Equal(t, "primary", StatePrimary.String())
	assert.Equal(t, "secondary-exiting", StateSecondaryExiting.String())
	assert.Equal(t, "shutting-down", StateShuttingDown.String())
	assert.Equal(t, "released", StateReleased.String())
}

func TestBusName(t *testing.T) {
	assert.Equal(t, "io.github.jmylchreest.wordbubble.WordBubbleApp", BusName(DefaultName))
	assert.Equal(t, "io.github.jmylchreest.wordbubble.my_app", BusName("my-app"))
	assert.Equal(t, "io.github.jmylchreest.wordbubble._9lives", BusName("9lives"))
	assert.Equal(t, "io.github.jmylchreest.wordbubble._", BusName(""))
}

func TestDBusEndpoint_ConnectFailure(t *testing.T) {
	e := NewDBusEndpoint("Test", nil)
	require.NotNil(t, e.connect)

	e.connect = func() (*dbus.Conn, error) {
		return nil, errors.New("no session bus")
	}
	primary, err := NewCoordinator(e, nil).TryBecomePrimary(context.Background())
	require.Error(t, err)
	assert.False(t, primary)
	assert.Contains(t, err.Error(), "session bus")
}

func TestNewEndpoint(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	ep := NewEndpoint("socket", "", 0, nil)
	sock, ok := ep.(*SocketEndpoint)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(sock.String(), DefaultName+".sock"))

	_, ok = NewEndpoint("dbus", "Test", 0, nil).(*DBusEndpoint)
	assert.True(t, ok)
}
