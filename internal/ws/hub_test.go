package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skill-match/internal/domain/ranking"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server, jobID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?job_id=" + jobID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestNotifier_RoutesByJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	srv := httptest.NewServer(NewHandler(hub, nil))
	defer srv.Close()

	a := dial(t, srv, "job-a")
	b := dial(t, srv, "job-b")
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	n := NewNotifier(hub)
	n.NotifyRankingsUpdated("job-a", []ranking.Ranking{
		{CandidateID: "c1", OverallScore: 90, Position: 1},
		{CandidateID: "c2", OverallScore: 40, Position: 2},
	})

	require.NoError(t, a.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := a.ReadMessage()
	require.NoError(t, err)

	var evt RankingsUpdatedEvent
	require.NoError(t, json.Unmarshal(raw, &evt))
	assert.Equal(t, "rankings_updated", evt.Type)
	assert.Equal(t, "job-a", evt.JobID)
	assert.Equal(t, 2, evt.Total)
	require.Len(t, evt.Top, 2)
	assert.Equal(t, "c1", evt.Top[0].CandidateID)

	require.NoError(t, b.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = b.ReadMessage()
	assert.Error(t, err)
}

func TestNotifier_NilSafe(t *testing.T) {
	var n *Notifier
	n.NotifyRankingsUpdated("job", nil)
	NewNotifier(nil).NotifyRankingsUpdated("job", nil)

	var h *Hub
	h.Broadcast("job", []byte("x"))
	assert.Equal(t, 0, h.ClientCount())
}

func TestClient_Wants(t *testing.T) {
	assert.True(t, (&Client{}).wants("job"))
	assert.True(t, (&Client{jobID: "a"}).wants(""))
	assert.True(t, (&Client{jobID: "a"}).wants("a"))
	assert.False(t, (&Client{jobID: "a"}).wants("b"))
}

func TestHub_UnregisterAfterStopDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			hub.Unregister(&Client{send: make(chan []byte)})
		}
		assert.False(t, hub.Register(&Client{send: make(chan []byte)}))
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("unregister blocked after the hub stopped")
	}
}
