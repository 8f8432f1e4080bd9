// Package transport is the websocket front end for one game.Board. It
// generalizes the teacher's ws package: instead of pairing exactly two
// clients into a *game.Game via a Matchmaker, a Hub registers any number of
// clients directly onto a single shared *game.Board and forwards their
// look/flip/map/watch requests into it, replying with the rendered board
// string each call returns.
package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"memoryscramble/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub maintains the set of clients connected to one Board and routes their
// registration and disconnection. Following the teacher's Hub, both flow
// through channels owned by Run's single goroutine rather than a mutex, so
// concurrent HTTP upgrade handlers never touch the client set directly.
type Hub struct {
	Board      *game.Board
	Register   chan *Client
	Unregister chan *Client
	clients    map[*Client]bool
	log        *slog.Logger
}

// NewHub creates a Hub serving b.
func NewHub(b *game.Board, log *slog.Logger) *Hub {
	return &Hub{
		Board:      b,
		Register:   make(chan *Client, 16),
		Unregister: make(chan *Client, 16),
		clients:    make(map[*Client]bool),
		log:        log,
	}
}

// Run processes registrations and unregistrations until ctx is cancelled.
// Run as a goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.log.Info("hub shutting down", "tag", "transport")
			return
		case c := <-h.Register:
			h.clients[c] = true
			h.log.Info("client connected", "tag", "transport", "player", c.PlayerID, "clients", len(h.clients))
			go c.WritePump()
			go c.ReadPump()
		case c := <-h.Unregister:
			if h.clients[c] {
				delete(h.clients, c)
				close(c.Send)
				h.log.Info("client disconnected", "tag", "transport", "player", c.PlayerID, "clients", len(h.clients))
			}
		}
	}
}

// ServeWS upgrades an HTTP request to a websocket connection and hands the
// new Client to Run for registration and pump startup. playerID identifies
// the caller to the Board; it is supplied by whatever sits in front of this
// handler (a query parameter, a prior handshake message — out of scope for
// this package).
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, playerID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "tag", "transport", "err", err)
		return
	}

	c := &Client{
		Hub:      h,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		PlayerID: playerID,
		log:      h.log,
	}
	h.Register <- c
}
