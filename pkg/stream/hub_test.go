package stream_test

import (
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/absmach/mltorrent/pkg/stream"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestHubBroadcast(t *testing.T) {
	hub := stream.NewHub(stream.DefaultConfig(), slog.Default())
	ts := httptest.NewServer(hub.Handler())
	defer ts.Close()

	a := dial(t, ts.URL)
	b := dial(t, ts.URL)
	require.Eventually(t, func() bool { return hub.Count() == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Broadcast(stream.Message{Type: "round", Data: map[string]int{"epoch": 3}}))

	for _, conn := range []*websocket.Conn{a, b} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg struct {
			Type string         `json:"type"`
			Data map[string]int `json:"data"`
		}
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, "round", msg.Type)
		assert.Equal(t, 3, msg.Data["epoch"])
	}
}

func TestHubUnregistersClosedClients(t *testing.T) {
	hub := stream.NewHub(stream.DefaultConfig(), slog.Default())
	ts := httptest.NewServer(hub.Handler())
	defer ts.Close()

	conn := dial(t, ts.URL)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHubBroadcastWithoutClients(t *testing.T) {
	hub := stream.NewHub(stream.Config{}, slog.Default())

	require.NoError(t, hub.Broadcast(stream.Message{Type: "round"}))
	assert.Zero(t, hub.Dropped())
	assert.Zero(t, hub.Count())
}

func TestHubBroadcastRejectsUnencodable(t *testing.T) {
	hub := stream.NewHub(stream.DefaultConfig(), slog.Default())
	assert.Error(t, hub.Broadcast(stream.Message{Type: "bad", Data: make(chan int)}))
}

func TestHubClose(t *testing.T) {
	hub := stream.NewHub(stream.DefaultConfig(), slog.Default())
	ts := httptest.NewServer(hub.Handler())
	defer ts.Close()

	conn := dial(t, ts.URL)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.Count())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway))
}
