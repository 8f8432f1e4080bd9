package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"memoryscramble/matcherrors"
	"memoryscramble/wsutil"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is the middleman between one websocket connection and the shared
// Board. Every inbound message is dispatched to its own goroutine so a
// flip suspended waiting on a held cell, or a watch suspended waiting on
// the next change, never blocks ReadPump from receiving the player's next
// message — the teacher's Client instead handed messages off to a
// per-game action channel to get the same non-blocking property; here the
// handoff is a goroutine per call because Board.Flip/Watch/Map suspend
// directly rather than being serialized through an actor loop.
type Client struct {
	Hub      *Hub
	Conn     *websocket.Conn
	Send     chan []byte
	PlayerID string
	log      *slog.Logger
}

// ReadPump pumps messages from the websocket connection to the Board. Runs
// in its own goroutine per connection.
func (c *Client) ReadPump() {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("websocket read error", "tag", "transport", "player", c.PlayerID, "err", err)
			}
			return
		}
		go c.handleMessage(ctx, message)
	}
}

// WritePump pumps outbound messages and keepalive pings to the connection.
// Runs in its own goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(ctx context.Context, data []byte) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.sendError("invalid message format")
		return
	}

	switch envelope.Type {
	case "look":
		c.sendBoard(c.Hub.Board.Look(c.PlayerID))
	case "flip":
		c.handleFlip(ctx, envelope.Raw)
	case "map":
		c.handleMap(ctx, envelope.Raw)
	case "watch":
		c.handleWatch(ctx)
	default:
		c.sendError("unknown message type: " + envelope.Type)
	}
}

func (c *Client) handleFlip(ctx context.Context, raw json.RawMessage) {
	var msg FlipMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("invalid flip message")
		return
	}
	view, err := c.Hub.Board.Flip(ctx, c.PlayerID, msg.Row, msg.Col)
	if err != nil {
		c.sendFlipError(err)
		return
	}
	c.sendBoard(view)
}

func (c *Client) handleMap(ctx context.Context, raw json.RawMessage) {
	var msg MapMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("invalid map message")
		return
	}
	f, err := LabelFuncByName(msg.Transform)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	view, err := c.Hub.Board.Map(ctx, c.PlayerID, f)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.sendBoard(view)
}

func (c *Client) handleWatch(ctx context.Context) {
	view, err := c.Hub.Board.Watch(ctx, c.PlayerID)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.sendError(err.Error())
		return
	}
	c.sendBoard(view)
}

func (c *Client) sendFlipError(err error) {
	switch {
	case errors.Is(err, context.Canceled):
		// Client disconnected mid-wait; nothing to send.
	case errors.Is(err, matcherrors.ErrNoCard), errors.Is(err, matcherrors.ErrStillHeld),
		errors.Is(err, matcherrors.ErrHeld), errors.Is(err, matcherrors.ErrOutOfRange):
		c.sendError(err.Error())
	default:
		c.log.Error("unexpected flip error", "tag", "transport", "player", c.PlayerID, "err", err)
		c.sendError("internal error")
	}
}

func (c *Client) sendBoard(board string) {
	msg := BoardMsg{Type: "board", Board: board}
	data, _ := json.Marshal(msg)
	wsutil.SafeSend(c.Send, data)
}

func (c *Client) sendError(message string) {
	msg := ErrorMsg{Type: "error", Message: message}
	data, _ := json.Marshal(msg)
	wsutil.SafeSend(c.Send, data)
}
