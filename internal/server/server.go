// Package server implements the buttonkit preview server: a gallery of
// every story, a render endpoint driven by query parameters, the theme
// stylesheet and a websocket that tells open pages to reload when the
// story file changes.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/buttonkit/internal/config"
	kiterrors "github.com/conneroisu/buttonkit/internal/errors"
	"github.com/conneroisu/buttonkit/internal/logging"
	"github.com/conneroisu/buttonkit/internal/stories"
	"github.com/conneroisu/buttonkit/internal/watcher"
)

// Client represents a WebSocket client.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	server *PreviewServer
}

// PreviewServer serves the story gallery with live reload.
type PreviewServer struct {
	config       *config.Config
	logger       logging.Logger
	errors       *kiterrors.Handler
	store        *stories.Store
	watcher      *watcher.FileWatcher
	httpServer   *http.Server
	serverMutex  sync.RWMutex
	clients      map[*websocket.Conn]*Client
	clientsMutex sync.RWMutex
	broadcast    chan []byte
	register     chan *Client
	unregister   chan *websocket.Conn
	shutdownOnce sync.Once
	done         chan struct{}
	startedAt    time.Time
}

// UpdateMessage represents a message sent to the browser.
type UpdateMessage struct {
	Type      string    `json:"type"`
	Target    string    `json:"target,omitempty"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Message types sent over the websocket.
const (
	MessageReload = "reload"
	MessageError  = "error"
)

// New creates a preview server over store. The file watcher is only
// created when cfg.Stories.Watch is set and the store reads from a file.
func New(cfg *config.Config, store *stories.Store, logger logging.Logger) (*PreviewServer, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.WithComponent("server")

	s := &PreviewServer{
		config:     cfg,
		logger:     logger,
		errors:     kiterrors.NewHandler(logger),
		store:      store,
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		startedAt:  time.Now(),
	}

	if cfg.Stories.Watch && store.Path() != "" {
		fw, err := watcher.NewFileWatcher(cfg.Stories.Debounce, logger)
		if err != nil {
			return nil, err
		}
		s.watcher = fw
	}

	return s, nil
}

// Handler returns the routed handler with middleware applied.
func (s *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /render", s.handleRender)
	mux.HandleFunc("GET /styles.css", s.handleStyles)
	mux.HandleFunc("GET /reload.js", s.handleReloadScript)
	mux.HandleFunc("GET /api/stories", s.handleStories)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	return s.addMiddleware(mux)
}

// Start runs the server until ctx is cancelled or the listener fails.
func (s *PreviewServer) Start(ctx context.Context) error {
	if s.watcher != nil {
		if err := s.setupFileWatcher(ctx); err != nil {
			s.logger.Warn(ctx, err, "Live reload disabled")
		}
	}

	go s.runWebSocketHub(ctx)
	go s.forwardStoryEvents(ctx, s.store.Watch())

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn(shutdownCtx, err, "Shutdown did not complete cleanly")
		}
	}()

	s.logger.Info(ctx, "Preview server listening",
		"addr", "http://"+server.Addr,
		"stories", s.store.Count())

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return kiterrors.NewIOError("ERR_LISTEN", "preview server stopped", err).
			WithComponent("server").
			WithContext("addr", server.Addr)
	}
	return nil
}

func (s *PreviewServer) setupFileWatcher(ctx context.Context) error {
	s.watcher.AddFilter(watcher.YAMLFilter)
	s.watcher.AddFilter(watcher.NoHiddenFilter)
	s.watcher.AddHandler(s.handleStoryFileChange)

	if err := s.watcher.WatchFile(s.store.Path()); err != nil {
		return err
	}
	return s.watcher.Start(ctx)
}

// handleStoryFileChange reloads the store. Watchers of the store turn the
// result into websocket messages.
func (s *PreviewServer) handleStoryFileChange(ctx context.Context, events []watcher.ChangeEvent) error {
	for _, event := range events {
		s.logger.Info(ctx, "Story file changed", "path", event.Path, "type", event.Type.String())
	}
	return s.store.Reload(ctx)
}

// forwardStoryEvents turns store events into browser messages until ctx
// is done, then releases the subscription.
func (s *PreviewServer) forwardStoryEvents(ctx context.Context, events <-chan stories.Event) {
	defer s.store.UnWatch(events)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			msg := UpdateMessage{
				Type:      MessageReload,
				Target:    event.Story.Name,
				Timestamp: event.Timestamp,
			}
			if event.Type == stories.EventTypeFailed {
				msg.Type = MessageError
				msg.Content = event.Err.Error()
			}
			s.broadcastMessage(msg)
		}
	}
}

func (s *PreviewServer) broadcastMessage(msg UpdateMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		data = []byte(`{"type":"reload"}`)
	}

	select {
	case s.broadcast <- data:
	case <-s.done:
	}
}

// ClientCount returns the number of connected websocket clients.
func (s *PreviewServer) ClientCount() int {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	return len(s.clients)
}

// Shutdown gracefully shuts down the server. It is safe to call more than
// once.
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		close(s.done)

		if s.watcher != nil {
			if err := s.watcher.Stop(); err != nil {
				s.logger.Warn(ctx, err, "Stopping file watcher")
			}
		}

		s.clientsMutex.Lock()
		for conn, client := range s.clients {
			close(client.send)
			conn.Close(websocket.StatusGoingAway, "server shutting down")
		}
		s.clients = make(map[*websocket.Conn]*Client)
		s.clientsMutex.Unlock()

		s.serverMutex.RLock()
		server := s.httpServer
		s.serverMutex.RUnlock()

		if server != nil {
			shutdownErr = server.Shutdown(ctx)
		}
	})

	return shutdownErr
}
