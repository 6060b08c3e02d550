package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/partycards/internal/game"
	"github.com/lox/partycards/internal/sessionid"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = errors.New("connection closed")

// Connection owns one player's session for the lifetime of a WebSocket.
// Only the read loop mutates the session.
type Connection struct {
	id          string
	conn        *websocket.Conn
	send        chan *Message
	session     *game.Session
	params      GameParams
	logger      *log.Logger
	idleTimeout time.Duration
	idle        *quartz.Timer
	unsubscribe func()
	ctx         context.Context
	cancel      context.CancelFunc
	closeOnce   sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, session *game.Session, params GameParams, logger *log.Logger, clock quartz.Clock, idleTimeout time.Duration) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	id := sessionid.Generate()

	c := &Connection{
		id:          id,
		conn:        conn,
		send:        make(chan *Message, 256),
		session:     session,
		params:      params,
		logger:      logger.WithPrefix("conn").With("id", id),
		idleTimeout: idleTimeout,
		ctx:         ctx,
		cancel:      cancel,
	}
	if idleTimeout > 0 {
		c.idle = clock.AfterFunc(idleTimeout, c.closeIdle)
	}
	return c
}

// ID returns the connection identifier
func (c *Connection) ID() string { return c.id }

// Done is closed once the connection has been closed
func (c *Connection) Done() <-chan struct{} { return c.ctx.Done() }

// Start subscribes to the session, sends the welcome snapshot and begins
// pumping messages
func (c *Connection) Start() {
	c.unsubscribe = c.session.Events().Subscribe(game.EventSubscriberFunc(c.onEvent))

	welcome, err := NewMessage(MessageTypeWelcome, WelcomeData{
		ConnectionID: c.id,
		State:        snapshot(c.params, c.session),
	})
	if err == nil {
		_ = c.SendMessage(welcome)
	}

	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		if c.idle != nil {
			c.idle.Stop()
		}
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

func (c *Connection) closeIdle() {
	c.logger.Info("Closing idle session", "timeout", c.idleTimeout)
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "idle timeout"),
		time.Now().Add(writeWait))
	_ = c.Close()
}

func (c *Connection) onEvent(event game.GameEvent) {
	msg, err := eventMessage(event)
	if err != nil {
		c.logger.Error("Failed to encode event", "type", event.EventType(), "error", err)
		return
	}
	if msg != nil {
		_ = c.SendMessage(msg)
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() {
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		if c.idle != nil {
			c.idle.Reset(c.idleTimeout)
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeSubmit:
		var data SubmitData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				c.sendError(msg.RequestID, fmt.Errorf("%w: invalid submit data", ErrBadParams))
				return
			}
		}
		if _, err := c.session.SubmitCards(data.Indices...); err != nil {
			c.sendError(msg.RequestID, err)
		}

	case MessageTypeAdvance:
		if err := c.session.AdvancePrompt(); err != nil {
			c.sendError(msg.RequestID, err)
		}

	case MessageTypeState:
		reply, err := NewMessage(MessageTypeSnapshot, snapshot(c.params, c.session))
		if err != nil {
			return
		}
		reply.RequestID = msg.RequestID
		_ = c.SendMessage(reply)

	default:
		c.sendError(msg.RequestID, fmt.Errorf("%w: unknown message type %q", ErrBadParams, msg.Type))
	}
}

func (c *Connection) sendError(requestID string, err error) {
	_, code := classify(err)
	c.logger.Debug("Session error", "code", code, "error", err)

	msg, encErr := NewMessage(MessageTypeError, ErrorData{Code: code, Message: err.Error()})
	if encErr != nil {
		return
	}
	msg.RequestID = requestID
	_ = c.SendMessage(msg)
}
