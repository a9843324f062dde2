package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tickerpulse/backend/internal/posts"
	"github.com/tickerpulse/backend/pkg/logger"
)

const (
	// trendingInterval controls how often a fresh snapshot is pushed
	trendingInterval = 10 * time.Second

	trendingWindow = 24 * time.Hour
	trendingLimit  = 10

	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
)

// wsClient is one connected subscriber. The websocket package allows
// only one concurrent writer per connection, so every write goes
// through writeMu: the handler goroutine sending the initial snapshot
// and the broadcaster pushing updates or pings may overlap.
type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// TrendingStream pushes trending-ticker snapshots to connected
// websocket clients. One background loop queries the repository;
// every client receives the same snapshot.
type TrendingStream struct {
	repo   *posts.Repository
	logger *logger.Logger

	upgrader websocket.Upgrader

	clients   map[*wsClient]bool
	clientsMu sync.RWMutex

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewTrendingStream creates a trending stream
func NewTrendingStream(repo *posts.Repository, log *logger.Logger) *TrendingStream {
	return &TrendingStream{
		repo:   repo,
		logger: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*wsClient]bool),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// trendingSnapshot is the message pushed to clients
type trendingSnapshot struct {
	Type        string                 `json:"type"`
	WindowHours int                    `json:"window_hours"`
	Trending    []posts.TrendingTicker `json:"trending"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// Start starts the broadcast loop
func (s *TrendingStream) Start(ctx context.Context) {
	s.logger.Info("Starting trending stream")
	go s.broadcastLoop(ctx)
}

// Stop closes all client connections and stops the broadcast loop
func (s *TrendingStream) Stop() {
	s.logger.Info("Stopping trending stream")

	close(s.stopCh)
	<-s.doneCh

	s.clientsMu.Lock()
	for client := range s.clients {
		client.conn.Close()
	}
	s.clients = make(map[*wsClient]bool)
	s.clientsMu.Unlock()
}

// Serve upgrades the connection and registers the client
// GET /api/ws/trending
func (s *TrendingStream) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := s.register(conn)
	s.logger.WithField("remote", conn.RemoteAddr().String()).Debug("Trending client connected")

	// Send the current snapshot immediately so clients don't wait
	// out the first interval
	if snapshot, err := s.snapshot(r.Context()); err == nil {
		s.writeTo(client, snapshot)
	}

	go s.readLoop(client)
}

func (s *TrendingStream) register(conn *websocket.Conn) *wsClient {
	client := &wsClient{conn: conn}

	s.clientsMu.Lock()
	s.clients[client] = true
	s.clientsMu.Unlock()

	return client
}

func (s *TrendingStream) unregister(client *wsClient) {
	s.clientsMu.Lock()
	delete(s.clients, client)
	s.clientsMu.Unlock()

	client.conn.Close()
}

// readLoop drains client messages to process control frames. Clients
// are not expected to send data; any read error disconnects them.
func (s *TrendingStream) readLoop(client *wsClient) {
	defer s.unregister(client)

	conn := client.conn
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *TrendingStream) broadcastLoop(ctx context.Context) {
	defer close(s.doneCh)

	pushTicker := time.NewTicker(trendingInterval)
	defer pushTicker.Stop()

	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-pushTicker.C:
			s.broadcast(ctx)
		case <-pingTicker.C:
			s.pingAll()
		}
	}
}

// connected returns a stable slice of current clients so writes never
// hold the registry lock
func (s *TrendingStream) connected() []*wsClient {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	clients := make([]*wsClient, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	return clients
}

func (s *TrendingStream) broadcast(ctx context.Context) {
	clients := s.connected()
	if len(clients) == 0 {
		return
	}

	snapshot, err := s.snapshot(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to build trending snapshot")
		return
	}

	for _, client := range clients {
		s.writeTo(client, snapshot)
	}
}

func (s *TrendingStream) snapshot(ctx context.Context) (*trendingSnapshot, error) {
	trending, err := s.repo.TrendingTickers(ctx, trendingWindow, trendingLimit)
	if err != nil {
		return nil, err
	}

	return &trendingSnapshot{
		Type:        "trending",
		WindowHours: int(trendingWindow.Hours()),
		Trending:    trending,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (s *TrendingStream) writeTo(client *wsClient, snapshot *trendingSnapshot) {
	client.writeMu.Lock()
	client.conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := client.conn.WriteJSON(snapshot)
	client.writeMu.Unlock()

	if err != nil {
		s.logger.WithError(err).Debug("Dropping trending client")
		s.unregister(client)
	}
}

func (s *TrendingStream) pingAll() {
	for _, client := range s.connected() {
		client.writeMu.Lock()
		client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := client.conn.WriteMessage(websocket.PingMessage, nil)
		client.writeMu.Unlock()

		if err != nil {
			s.unregister(client)
		}
	}
}
