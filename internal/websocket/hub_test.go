package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed while expecting a message")
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
	return nil
}

func assertNoMessage(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if ok {
			t.Fatalf("unexpected message: %s", msg)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_BroadcastIncludesSender(t *testing.T) {
	hub := newTestHub(t)

	a := NewClient(hub, nil, uuid.New())
	b := NewClient(hub, nil, uuid.New())
	c := NewClient(hub, nil, uuid.New())

	hub.Register(a)
	hub.Register(b)
	hub.Register(c)

	payload := []byte(`{"event":"chat message","data":"hello"}`)
	hub.Broadcast(payload)

	assert.Equal(t, payload, receive(t, a))
	assert.Equal(t, payload, receive(t, b))
	assert.Equal(t, payload, receive(t, c))
}

func TestHub_DisconnectedClientExcluded(t *testing.T) {
	hub := newTestHub(t)

	a := NewClient(hub, nil, uuid.New())
	b := NewClient(hub, nil, uuid.New())
	c := NewClient(hub, nil, uuid.New())

	hub.Register(a)
	hub.Register(b)
	hub.Register(c)

	hub.Unregister(b)

	payload := []byte(`{"event":"chat message","data":"after b left"}`)
	hub.Broadcast(payload)

	assert.Equal(t, payload, receive(t, a))
	assert.Equal(t, payload, receive(t, c))
	assertNoMessage(t, b)
}

func TestHub_ClientCount(t *testing.T) {
	hub := newTestHub(t)

	a := NewClient(hub, nil, uuid.New())
	b := NewClient(hub, nil, uuid.New())

	hub.Register(a)
	hub.Register(b)

	// Broadcast round-trips through the Run loop, so registrations before it
	// are visible afterwards.
	hub.Broadcast([]byte(`{"event":"chat message","data":"sync"}`))
	receive(t, a)
	receive(t, b)
	assert.Equal(t, 2, hub.ClientCount())

	hub.Unregister(a)
	hub.Broadcast([]byte(`{"event":"chat message","data":"sync"}`))
	receive(t, b)
	assert.Equal(t, 1, hub.ClientCount())
}

func TestHub_OrderingPerSender(t *testing.T) {
	hub := newTestHub(t)

	a := NewClient(hub, nil, uuid.New())
	hub.Register(a)

	first := []byte(`{"event":"chat message","data":"first"}`)
	second := []byte(`{"event":"chat message","data":"second"}`)
	hub.Broadcast(first)
	hub.Broadcast(second)

	require.Equal(t, first, receive(t, a))
	require.Equal(t, second, receive(t, a))
}

func TestClient_UserID(t *testing.T) {
	hub := NewHub()
	id := uuid.New()

	c := NewClient(hub, nil, id)
	assert.Equal(t, id, c.UserID())
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := NewClient(hub, nil, uuid.New())
	hub.Register(a)

	hub.Stop()

	_, ok := <-a.send
	assert.False(t, ok, "client send channel should be closed after Stop")
	assert.Equal(t, 0, hub.ClientCount())
}
