package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offlineClient(buf *bytes.Buffer) *Client {
	c := New("wordbubble", nil)
	c.connect = func() (*dbus.Conn, error) {
		return nil, errors.New("no session bus")
	}
	c.SetFallback(buf)
	return c
}

func TestNew_ConnectsToSessionBus(t *testing.T) {
	assert.NotNil(t, New("wordbubble", nil).connect)
}

func TestSend_NoBus(t *testing.T) {
	var buf bytes.Buffer
	_, err := offlineClient(&buf).Send(context.Background(), Message{Summary: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session bus")
}

func TestNotify_Fallback(t *testing.T) {
	var buf bytes.Buffer
	c := offlineClient(&buf)

	c.Notify(context.Background(), Message{Summary: "Application is already running!"})
	c.Notify(context.Background(), Message{Summary: "Error", Body: "bind failed", Urgency: UrgencyCritical})

	assert.Equal(t, "Application is already running!\nError: bind failed\n", buf.String())
}

func TestUrgencyIcon(t *testing.T) {
	assert.Equal(t, "dialog-information", UrgencyLow.Icon())
	assert.Equal(t, "dialog-warning", UrgencyNormal.Icon())
	assert.Equal(t, "dialog-error", UrgencyCritical.Icon())
}
