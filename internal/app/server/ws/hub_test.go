package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropwatch/internal/app/infra/persistence/redis"
	"cropwatch/internal/app/pkg/logger"
)

func startHub(t *testing.T) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws/alerts", ServeWS(hub, logger.NewNop()))
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, srv, cancel
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/alerts"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_BroadcastsToClients(t *testing.T) {
	hub, srv, _ := startHub(t)

	a := dial(t, srv)
	b := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast([]byte(`{"type":"alert","payload":{"alert_id":"1"}}`))

	for _, conn := range []*websocket.Conn{a, b} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"alert","payload":{"alert_id":"1"}}`, string(msg))
	}

	require.NoError(t, a.Close())
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub, srv, cancel := startHub(t)

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNoStatusReceived), "got %v", err)
	assert.Zero(t, hub.ClientCount())
}

type chanSubscription struct {
	ch chan string
}

func (s *chanSubscription) Next(ctx context.Context, timeout time.Duration) (string, error) {
	return <-s.ch, nil
}
func (s *chanSubscription) Channel() <-chan string { return s.ch }
func (s *chanSubscription) Close() error           { return nil }

type chanListener struct {
	sub     *chanSubscription
	channel string
}

func (l *chanListener) Listen(ctx context.Context, channel string) (redis.Subscription, error) {
	l.channel = channel
	return l.sub, nil
}

func TestRunFeed_ForwardsToHub(t *testing.T) {
	hub, srv, _ := startHub(t)
	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	listener := &chanListener{sub: &chanSubscription{ch: make(chan string, 1)}}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunFeed(ctx, listener, hub, logger.NewNop()) }()

	listener.sub.ch <- `{"type":"alert"}`
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, `{"type":"alert"}`, string(msg))
	assert.Equal(t, "alerts:feed", listener.channel)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("feed did not stop")
	}
}
