package websocket

import (
	"sync"
	"testing"
	"time"

	"ai-memo-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil, noopLogger{})
	go hub.Run()
	return hub
}

func registerClient(t *testing.T, hub *Hub, userID uuid.UUID, buffer int) *Client {
	t.Helper()
	client := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, buffer)}
	hub.register <- client

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients[userID]) > 0
	}, time.Second, 5*time.Millisecond)

	return client
}

func clientCount(hub *Hub, userID uuid.UUID) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.clients[userID])
}

func TestHubSendDelivers(t *testing.T) {
	hub := newTestHub(t)
	userID := uuid.New()
	client := registerClient(t, hub, userID, 4)

	hub.Send(userID, model.Notification{ID: uuid.New(), UserID: userID, Message: "요약이 완료되었습니다"})

	select {
	case msg := <-client.Send:
		assert.Contains(t, string(msg), "notification")
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
}

func TestHubDropsStalledClientWithoutPanic(t *testing.T) {
	hub := newTestHub(t)
	userID := uuid.New()

	// A client that never reads: buffer of one, pre-filled
	client := registerClient(t, hub, userID, 1)
	client.Send <- []byte("backlog")

	hub.Send(userID, model.Notification{ID: uuid.New(), UserID: userID, Message: "안 읽는 클라이언트"})

	// The stalled client is unregistered and its channel closed exactly once
	require.Eventually(t, func() bool {
		return clientCount(hub, userID) == 0
	}, time.Second, 5*time.Millisecond)

	<-client.Send // drain the backlog
	_, open := <-client.Send
	assert.False(t, open)

	// Follow-up sends to the same user must not panic or block
	hub.Send(userID, model.Notification{ID: uuid.New(), UserID: userID, Message: "이후 알림"})
}

func TestHubBroadcastSkipsStalledAndKeepsHealthy(t *testing.T) {
	hub := newTestHub(t)

	healthyID := uuid.New()
	stalledID := uuid.New()
	healthy := registerClient(t, hub, healthyID, 4)
	stalled := registerClient(t, hub, stalledID, 1)
	stalled.Send <- []byte("backlog")

	hub.Broadcast(model.Notification{ID: uuid.New(), Message: "전체 공지"})

	select {
	case msg := <-healthy.Send:
		assert.Contains(t, string(msg), "전체 공지")
	case <-time.After(time.Second):
		t.Fatal("healthy client did not receive the broadcast")
	}

	require.Eventually(t, func() bool {
		return clientCount(hub, stalledID) == 0
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, clientCount(hub, healthyID))
}

func TestHubUnregisterIsIdempotent(t *testing.T) {
	hub := newTestHub(t)
	userID := uuid.New()
	client := registerClient(t, hub, userID, 1)

	// A disconnecting pump and a stalled-drop can both hand the same client
	// to the loop; the second pass must find nothing and close nothing
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.unregister <- client
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return clientCount(hub, userID) == 0
	}, time.Second, 5*time.Millisecond)
}
