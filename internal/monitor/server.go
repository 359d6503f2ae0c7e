// Package monitor serves the loop's status over HTTP and a websocket
// feed, so levels and connection state can be watched from another
// machine while the terminal shows the visualization.
package monitor

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/hamzabk/termscope/internal/app"
)

// Visualizer is what the server needs from the render loop.
type Visualizer interface {
	Snapshot() app.Status
	Apply(app.Control) error
	ModeNames() []string
}

const (
	statusInterval = 500 * time.Millisecond
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
)

// Server broadcasts the visualizer's status to websocket clients and
// accepts control requests over plain HTTP.
type Server struct {
	mu        sync.Mutex
	vis       Visualizer
	log       *logrus.Logger
	clients   map[*client]bool
	broadcast chan []byte
	upgrader  websocket.Upgrader
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	server *Server
}

// NewServer builds a server around the given visualizer.
func NewServer(vis Visualizer, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	return &Server{
		vis:       vis,
		log:       log,
		clients:   make(map[*client]bool),
		broadcast: make(chan []byte, 256),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler returns the HTTP routes. Split from Start so tests can mount
// it on a httptest server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/update", s.handleUpdate)
	mux.HandleFunc("/api/modes", s.handleModes)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Start serves until the listener fails. Run it on its own goroutine;
// the process exiting tears it down.
func (s *Server) Start(addr string) error {
	go s.broadcastLoop()
	go s.statusLoop()
	s.log.WithField("addr", addr).Info("monitor server starting")
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.vis.Snapshot())
}

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.vis.ModeNames())
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req app.Control
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.vis.Apply(req); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := &client{
		conn:   conn,
		send:   make(chan []byte, 256),
		server: s,
	}

	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()

	go c.writePump()
	go c.readPump()
}

func (s *Server) broadcastLoop() {
	for message := range s.broadcast {
		s.mu.Lock()
		for c := range s.clients {
			select {
			case c.send <- message:
			default:
				// Slow client: drop it rather than stall the rest.
				close(c.send)
				delete(s.clients, c)
			}
		}
		s.mu.Unlock()
	}
}

func (s *Server) statusLoop() {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for range ticker.C {
		data, err := json.Marshal(s.vis.Snapshot())
		if err != nil {
			continue
		}
		select {
		case s.broadcast <- data:
		default:
			// drop if channel full
		}
	}
}

func (c *client) readPump() {
	defer func() {
		c.server.mu.Lock()
		delete(c.server.clients, c)
		c.server.mu.Unlock()
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Flush anything already queued into the same message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
