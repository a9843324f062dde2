package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickerpulse/backend/pkg/config"
	"github.com/tickerpulse/backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "console"})
}

// dialStream upgrades a real connection pair and registers the server
// side with the stream, bypassing Serve so no repository is needed.
func dialStream(t *testing.T, s *TrendingStream) (*wsClient, *websocket.Conn) {
	t.Helper()

	connCh := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			connCh <- nil
			return
		}
		connCh <- conn
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	remote, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { remote.Close() })

	serverConn := <-connCh
	require.NotNil(t, serverConn)

	return s.register(serverConn), remote
}

// Snapshot pushes, pings, and the initial write after connect can all
// target one connection at the same time; the per-client write lock
// must keep them serialized and the client registered.
func TestTrendingStream_ConcurrentWritesToOneClient(t *testing.T) {
	s := NewTrendingStream(nil, testLogger())
	client, remote := dialStream(t, s)

	// Drain everything on the remote end so writes never block
	go func() {
		for {
			if _, _, err := remote.ReadMessage(); err != nil {
				return
			}
		}
	}()

	snapshot := &trendingSnapshot{
		Type:        "trending",
		WindowHours: 24,
		GeneratedAt: time.Now().UTC(),
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				s.writeTo(client, snapshot)
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				s.pingAll()
			}
		}()
	}
	wg.Wait()

	// Every write succeeded, so the client was never dropped
	assert.Contains(t, s.connected(), client)
}

func TestTrendingStream_WriteFailureUnregistersClient(t *testing.T) {
	s := NewTrendingStream(nil, testLogger())
	client, remote := dialStream(t, s)

	require.Len(t, s.connected(), 1)
	remote.Close()

	snapshot := &trendingSnapshot{Type: "trending", WindowHours: 24}

	// The failure may take a write or two to surface through the
	// closed TCP connection
	deadline := time.Now().Add(5 * time.Second)
	for len(s.connected()) > 0 && time.Now().Before(deadline) {
		s.writeTo(client, snapshot)
		time.Sleep(20 * time.Millisecond)
	}

	assert.Empty(t, s.connected())
}

func TestTrendingStream_RegisterAndUnregister(t *testing.T) {
	s := NewTrendingStream(nil, testLogger())

	a, _ := dialStream(t, s)
	b, _ := dialStream(t, s)
	require.Len(t, s.connected(), 2)

	s.unregister(a)
	assert.Len(t, s.connected(), 1)
	assert.Contains(t, s.connected(), b)

	s.unregister(b)
	assert.Empty(t, s.connected())
}
