package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/service"
)

const (
	feedBuffer       = 256
	feedWriteTimeout = 5 * time.Second
)

// feedMessage is the JSON frame sent to feed clients.
type feedMessage struct {
	Topic      string       `json:"topic"`
	Level      domain.Level `json:"level"`
	EntityID   string       `json:"entityId"`
	TimelineID string       `json:"timelineId"`
	At         time.Time    `json:"at"`
}

// Feed fans change events out to websocket clients. It implements
// service.ChangeSink; Publish never blocks and drops events when the buffer
// is full.
type Feed struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]struct{}

	events chan service.ChangeEvent
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFeed starts the broadcast loop. Close stops it and disconnects clients.
func NewFeed(logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	f := &Feed{
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
		events:  make(chan service.ChangeEvent, feedBuffer),
		ctx:     ctx,
		cancel:  cancel,
	}
	f.wg.Add(1)
	go f.broadcastLoop()
	return f
}

func (f *Feed) Publish(e service.ChangeEvent) {
	select {
	case f.events <- e:
	default:
		f.logger.Warn("feed buffer full, dropping event", "topic", e.Topic(), "entity_id", e.EntityID)
	}
}

// ClientCount is safe on a nil Feed.
func (f *Feed) ClientCount() int {
	if f == nil {
		return 0
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

func (f *Feed) Close() {
	f.cancel()
	f.wg.Wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.clients {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		delete(f.clients, conn)
	}
}

func (f *Feed) broadcastLoop() {
	defer f.wg.Done()
	for {
		select {
		case <-f.ctx.Done():
			return
		case e := <-f.events:
			data, err := json.Marshal(feedMessage{
				Topic:      e.Topic(),
				Level:      e.Level,
				EntityID:   e.EntityID,
				TimelineID: e.TimelineID,
				At:         e.At,
			})
			if err != nil {
				f.logger.Error("encoding feed event", "error", err)
				continue
			}

			f.mu.RLock()
			conns := make([]*websocket.Conn, 0, len(f.clients))
			for conn := range f.clients {
				conns = append(conns, conn)
			}
			f.mu.RUnlock()

			for _, conn := range conns {
				ctx, cancel := context.WithTimeout(f.ctx, feedWriteTimeout)
				err := conn.Write(ctx, websocket.MessageText, data)
				cancel()
				if err != nil {
					f.logger.Debug("feed write failed", "error", err)
					f.remove(conn)
				}
			}
		}
	}
}

// handle upgrades the request and keeps the connection registered until the
// client goes away. Client frames are ignored.
func (f *Feed) handle(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		f.logger.Warn("feed upgrade failed", "error", err)
		return
	}

	f.mu.Lock()
	if f.ctx.Err() != nil {
		f.mu.Unlock()
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	f.clients[conn] = struct{}{}
	n := len(f.clients)
	f.mu.Unlock()
	f.logger.Info("feed client connected", "clients", n)

	ctx := conn.CloseRead(f.ctx)
	<-ctx.Done()
	f.remove(conn)
}

func (f *Feed) remove(conn *websocket.Conn) {
	f.mu.Lock()
	_, ok := f.clients[conn]
	delete(f.clients, conn)
	n := len(f.clients)
	f.mu.Unlock()
	if ok {
		_ = conn.Close(websocket.StatusNormalClosure, "")
		f.logger.Info("feed client disconnected", "clients", n)
	}
}
