// Package stream publishes simulation frames and stats to websocket
// clients and accepts control changes from them.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/san-kum/solarwind/internal/dynamo"
	"github.com/san-kum/solarwind/internal/sim"
)

// Message is the envelope for everything sent to clients.
type Message struct {
	Type    string          `json:"type"`
	Frame   *sim.Frame      `json:"frame,omitempty"`
	Stats   *dynamo.Stats   `json:"stats,omitempty"`
	Control *dynamo.Control `json:"control,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Patch is a partial control update sent by a client. Missing fields keep
// their current value.
type Patch struct {
	Paused            *bool              `json:"paused"`
	ShowMagnetosphere *bool              `json:"showMagnetosphere"`
	ShowFieldLines    *bool              `json:"showFieldLines"`
	ShowSputtering    *bool              `json:"showSputtering"`
	WindSpeed         *float64           `json:"windSpeed"`
	CME               *bool              `json:"cme"`
	Camera            *dynamo.CameraMode `json:"camera"`
}

func (p Patch) apply(c *dynamo.Control) {
	if p.Paused != nil {
		c.Paused = *p.Paused
	}
	if p.ShowMagnetosphere != nil {
		c.ShowMagnetosphere = *p.ShowMagnetosphere
	}
	if p.ShowFieldLines != nil {
		c.ShowFieldLines = *p.ShowFieldLines
	}
	if p.ShowSputtering != nil {
		c.ShowSputtering = *p.ShowSputtering
	}
	if p.WindSpeed != nil {
		c.WindSpeed = *p.WindSpeed
	}
	if p.CME != nil {
		c.CME = *p.CME
	}
	if p.Camera != nil {
		c.Camera = *p.Camera
	}
}

// Hub fans frames and stats out to every connected client. It implements
// sim.Sink and sim.Observer.
type Hub struct {
	ctrl       *sim.SharedControl
	frameEvery uint64
	upgrader   websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
	latest  *dynamo.Stats
}

// NewHub creates a hub that forwards every frameEvery-th frame.
func NewHub(ctrl *sim.SharedControl, frameEvery int) *Hub {
	if frameEvery < 1 {
		frameEvery = 1
	}
	return &Hub{
		ctrl:       ctrl,
		frameEvery: uint64(frameEvery),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and reads control patches until the
// client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("websocket upgrade error:", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	h.mu.Lock()
	h.clients[conn] = connMutex
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	c := h.ctrl.Control()
	connMutex.Lock()
	err = conn.WriteJSON(Message{Type: "control", Control: &c})
	connMutex.Unlock()
	if err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("websocket read error:", err)
			}
			return
		}

		// a bad patch is rejected and the connection stays open
		var p Patch
		if err := json.Unmarshal(data, &p); err != nil {
			log.Println("ignoring malformed control patch:", err)
			connMutex.Lock()
			werr := conn.WriteJSON(Message{Type: "error", Error: err.Error()})
			connMutex.Unlock()
			if werr != nil {
				return
			}
			continue
		}
		c := h.ctrl.Update(p.apply)
		h.broadcast(Message{Type: "control", Control: &c})
	}
}

func (h *Hub) OnFrame(f sim.Frame) {
	if f.Number%h.frameEvery != 0 {
		return
	}
	h.broadcast(Message{Type: "frame", Frame: &f})
}

func (h *Hub) OnStats(st dynamo.Stats) {
	h.mu.Lock()
	h.latest = &st
	h.mu.Unlock()
	h.broadcast(Message{Type: "stats", Stats: &st})
}

// Latest returns the most recent stats snapshot, if any.
func (h *Hub) Latest() (dynamo.Stats, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.latest == nil {
		return dynamo.Stats{}, false
	}
	return *h.latest, true
}

// broadcast encodes msg once and writes it to every client, dropping
// clients whose write fails.
func (h *Hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Println("encode error:", err)
		return
	}

	h.mu.RLock()
	var dead []*websocket.Conn
	for conn, mutex := range h.clients {
		mutex.Lock()
		conn.SetWriteDeadline(time.Now().Add(time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			dead = append(dead, conn)
		}
		mutex.Unlock()
	}
	h.mu.RUnlock()

	if len(dead) > 0 {
		h.mu.Lock()
		for _, conn := range dead {
			delete(h.clients, conn)
			conn.Close()
		}
		h.mu.Unlock()
	}
}

// Handler routes the websocket and a small JSON API for the control
// surface and the latest snapshot.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	mux.HandleFunc("/control", h.serveControl)
	mux.HandleFunc("/stats", h.serveStats)
	return mux
}

func (h *Hub) serveControl(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost, http.MethodPatch:
		var p Patch
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c := h.ctrl.Update(p.apply)
		h.broadcast(Message{Type: "control", Control: &c})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.ctrl.Control())
}

func (h *Hub) serveStats(w http.ResponseWriter, r *http.Request) {
	st, ok := h.Latest()
	if !ok {
		http.Error(w, "no stats yet", http.StatusNotFound)
		return
	}
	writeJSON(w, st)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("encode error:", err)
	}
}

// Serve runs the simulation loop and the HTTP server until ctx is done.
func Serve(ctx context.Context, addr string, runner *sim.Runner, hub *Hub) error {
	runner.AddSink(hub)
	runner.AddObserver(hub)

	srv := &http.Server{Addr: addr, Handler: hub.Handler()}
	errc := make(chan error, 2)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	go func() { errc <- runner.Run(ctx) }()

	log.Printf("serving on %s", addr)

	var err error
	select {
	case err = <-errc:
		runner.Stop()
	case <-ctx.Done():
		err = <-errc
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil && err == nil {
		err = serr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
