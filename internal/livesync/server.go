// Package livesync runs the level-editing sync endpoint. An editor
// connects over WebSocket and pushes level documents as JSON; each
// accepted document is validated, written atomically into the levels
// directory, and announced both to the other connected editors and to
// the running game through a non-blocking updates channel. The game
// picks new files up on the next restart.
package livesync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"gopkg.in/yaml.v3"

	"github.com/popworks/driftpop/internal/level"
)

// Config holds configuration for the sync server.
type Config struct {
	// Address is the host:port to listen on (e.g., ":8437").
	Address string

	// Dir is the levels directory accepted documents are written into.
	Dir string

	// Logger overrides the default stderr logger. Mainly for tests.
	Logger *log.Logger
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address: ":8437",
		Dir:     "levels",
	}
}

// request is the envelope editors send over the socket.
type request struct {
	Type  string          `json:"type"`
	Level json.RawMessage `json:"level,omitempty"`
}

// response is sent back to the submitting editor ("ok"/"error") and
// broadcast to the others ("updated").
type response struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	File  string `json:"file,omitempty"`
	Error string `json:"error,omitempty"`
}

// client is one connected editor. Writes are serialized per connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Server accepts level documents from editors and lands them on disk.
type Server struct {
	config   Config
	logger   *log.Logger
	upgrader websocket.Upgrader
	httpSrv  *http.Server

	mu      sync.Mutex
	clients map[*client]struct{}

	updates chan string
}

// NewServer creates a sync server writing into cfg.Dir. The directory
// is created if it does not exist.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("livesync: no levels directory configured")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("livesync: create levels directory: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "driftpop-sync",
		})
	}

	return &Server{
		config: cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Editors connect from local tooling; origin checks add nothing.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
		updates: make(chan string, 8),
	}, nil
}

// Updates reports file names written by editors. The channel is small
// and never blocked on; poll it from the UI tick.
func (s *Server) Updates() <-chan string {
	return s.updates
}

// Start begins serving in the background. Use Shutdown to stop.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/sync", s.Handle)

	s.httpSrv = &http.Server{Addr: s.config.Address, Handler: mux}

	s.logger.Info("starting level sync server", "address", s.config.Address, "dir", s.config.Dir)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("sync server error", "error", err)
		}
	}()
	return nil
}

// Shutdown stops the listener and drops all editor connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for c := range s.clients {
		c.conn.Close()
	}
	s.mu.Unlock()

	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Handle upgrades one editor connection and serves its message loop.
func (s *Server) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn}
	s.addClient(c)
	defer s.removeClient(c)

	s.logger.Info("editor connected", "remote", conn.RemoteAddr().String())
	defer s.logger.Info("editor disconnected", "remote", conn.RemoteAddr().String())

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var req request
		if err := json.Unmarshal(payload, &req); err != nil {
			s.logger.Warn("discarding malformed message", "error", err)
			c.send(response{Type: "error", Error: "malformed message"})
			continue
		}

		switch req.Type {
		case "put":
			s.handlePut(c, req.Level)
		case "ping":
			c.send(response{Type: "pong"})
		default:
			c.send(response{Type: "error", Error: fmt.Sprintf("unknown message type %q", req.Type)})
		}
	}
}

// handlePut validates and stores one pushed document.
func (s *Server) handlePut(c *client, raw json.RawMessage) {
	var doc level.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		c.send(response{Type: "error", Error: fmt.Sprintf("decode level: %v", err)})
		return
	}
	if err := doc.Validate(); err != nil {
		c.send(response{Type: "error", Error: err.Error()})
		return
	}
	if !safeLevelID(doc.ID) {
		c.send(response{Type: "error", Error: fmt.Sprintf("level id %q is not a safe file name", doc.ID)})
		return
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		c.send(response{Type: "error", Error: fmt.Sprintf("encode level: %v", err)})
		return
	}

	name := doc.ID + ".yaml"
	if err := s.writeAtomic(name, data); err != nil {
		s.logger.Error("could not store level", "id", doc.ID, "error", err)
		c.send(response{Type: "error", Error: "could not store level"})
		return
	}

	s.logger.Info("level stored", "id", doc.ID, "file", name, "nodes", len(doc.Nodes))

	select {
	case s.updates <- name:
	default:
	}

	c.send(response{Type: "ok", ID: doc.ID, File: name})
	s.broadcast(c, response{Type: "updated", ID: doc.ID, File: name})
}

// writeAtomic lands data under name via a temp file and rename, so the
// game never scans a half-written document.
func (s *Server) writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.config.Dir, ".sync-*")
	if err != nil {
		return fmt.Errorf("livesync: create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("livesync: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("livesync: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.config.Dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("livesync: replace level file: %w", err)
	}
	return nil
}

func (s *Server) addClient(c *client) {
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	c.conn.Close()
}

// broadcast sends v to every editor except from.
func (s *Server) broadcast(from *client, v any) {
	s.mu.Lock()
	others := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		if c != from {
			others = append(others, c)
		}
	}
	s.mu.Unlock()

	for _, c := range others {
		if err := c.send(v); err != nil {
			s.logger.Warn("broadcast failed", "remote", c.conn.RemoteAddr().String(), "error", err)
		}
	}
}

// safeLevelID accepts ids usable verbatim as file name stems.
func safeLevelID(id string) bool {
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return id != ""
}
