// Package client is the WebSocket side of the room protocol: it dials
// the server, keeps the socket alive, and exposes typed senders for
// each intent plus a channel of inbound messages.
package client

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/pokerhaus/pokerhaus/internal/server"
)

// Client represents a WebSocket client for one room server
type Client struct {
	serverURL string
	conn      *websocket.Conn
	send      chan *server.Message
	receive   chan *server.Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc

	mu        sync.RWMutex
	connected bool
	room      string
	closeOnce sync.Once
}

// NewClient creates a client for the given server URL
func NewClient(serverURL string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		serverURL: serverURL,
		send:      make(chan *server.Message, 256),
		receive:   make(chan *server.Message, 256),
		logger:    logger.WithPrefix("client"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Connect establishes the WebSocket connection
func (c *Client) Connect() error {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readPump()
	go c.writePump()

	c.logger.Info("connected", "url", u.String())
	return nil
}

// Disconnect closes the connection
func (c *Client) Disconnect() error {
	c.closeOnce.Do(func() {
		c.cancel()
		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.Close()
			c.connected = false
		}
		c.mu.Unlock()
		c.logger.Info("disconnected")
	})
	return nil
}

// IsConnected reports whether the socket is up
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Messages returns the stream of inbound server messages
func (c *Client) Messages() <-chan *server.Message {
	return c.receive
}

// Done is closed when the client shuts down
func (c *Client) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Room returns the room last joined
func (c *Client) Room() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.room
}

func (c *Client) sendMessage(messageType server.MessageType, data any) error {
	msg, err := server.NewMessage(messageType, data)
	if err != nil {
		return err
	}
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		return fmt.Errorf("send buffer full")
	}
}

// Join asks for a seat in a room
func (c *Client) Join(room, name string) error {
	c.mu.Lock()
	c.room = room
	c.mu.Unlock()
	return c.sendMessage(server.MessageTypeJoin, server.JoinData{Room: room, Name: name})
}

// Leave gives the seat up
func (c *Client) Leave() error {
	return c.sendMessage(server.MessageTypeLeave, server.RoomData{Room: c.Room()})
}

// Ready toggles the ready flag
func (c *Client) Ready() error {
	return c.sendMessage(server.MessageTypeReady, server.RoomData{Room: c.Room()})
}

// Start asks for the next hand to begin
func (c *Client) Start() error {
	return c.sendMessage(server.MessageTypeStart, server.RoomData{Room: c.Room()})
}

// Buyin tops the stack up between hands
func (c *Client) Buyin(amount int) error {
	return c.sendMessage(server.MessageTypeBuyin, server.BuyinData{Room: c.Room(), Amount: amount})
}

// Act submits a betting action
func (c *Client) Act(kind string, amount int) error {
	return c.sendMessage(server.MessageTypeAction, server.ActionData{Room: c.Room(), Kind: kind, Amount: amount})
}

// Chat sends a chat line
func (c *Client) Chat(text string) error {
	return c.sendMessage(server.MessageTypeChat, server.ChatData{Room: c.Room(), Text: text})
}

func (c *Client) readPump() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		close(c.receive)
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			return
		}

		select {
		case c.receive <- &msg:
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}
