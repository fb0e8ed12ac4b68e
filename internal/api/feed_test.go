package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tempo/internal/service"
	"github.com/alexanderramin/tempo/internal/store"
	"github.com/alexanderramin/tempo/internal/testutil"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func TestFeed_BroadcastsChanges(t *testing.T) {
	gin.SetMode(gin.TestMode)
	feed := NewFeed(nil)
	t.Cleanup(feed.Close)

	svc := service.NewServices(store.New(), nil, service.WithChangeSink(feed))
	httpSrv := httptest.NewServer(NewServer(svc, feed, nil).Handler())
	t.Cleanup(httpSrv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/api/feed"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool { return feed.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	tl, err := svc.Timelines.Create(context.Background(), testutil.NewTestTimelineInput("Roadmap"))
	require.NoError(t, err)

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg feedMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "timeline.created", msg.Topic)
	assert.Equal(t, tl.ID, msg.EntityID)
	assert.Equal(t, tl.ID, msg.TimelineID)
}

func TestFeed_ClientDisconnectUnregisters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	feed := NewFeed(nil)
	t.Cleanup(feed.Close)

	svc := service.NewServices(store.New(), nil, service.WithChangeSink(feed))
	httpSrv := httptest.NewServer(NewServer(svc, feed, nil).Handler())
	t.Cleanup(httpSrv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(httpSrv.URL, "http")+"/api/feed", nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return feed.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "bye"))
	require.Eventually(t, func() bool { return feed.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestFeed_PublishNeverBlocks(t *testing.T) {
	feed := NewFeed(nil)
	defer feed.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < feedBuffer*4; i++ {
			feed.Publish(service.ChangeEvent{Type: service.ChangeUpdated, EntityID: "x"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked")
	}
}

func TestFeed_NilClientCount(t *testing.T) {
	var f *Feed
	assert.Equal(t, 0, f.ClientCount())
}

func TestFeed_RefusesClientsAfterClose(t *testing.T) {
	gin.SetMode(gin.TestMode)
	feed := NewFeed(nil)
	feed.Close()

	svc := service.NewServices(store.New(), nil)
	httpSrv := httptest.NewServer(NewServer(svc, feed, nil).Handler())
	t.Cleanup(httpSrv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/api/feed"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	_, _, err = conn.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusGoingAway, websocket.CloseStatus(err))
	assert.Zero(t, feed.ClientCount())
}
