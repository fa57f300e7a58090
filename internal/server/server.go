package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/pokerhaus/pokerhaus/internal/room"
)

// Server accepts WebSocket clients and routes their intents to rooms.
// Room mutation is serialized inside each room; the server only holds
// its connection set lock while fanning out snapshots.
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	rooms    *room.Manager
	logger   *log.Logger

	mu          sync.RWMutex
	connections map[*Connection]bool
}

// NewServer creates a server around a room manager
func NewServer(addr string, rooms *room.Manager, logger *log.Logger) *Server {
	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		rooms:       rooms,
		logger:      logger.WithPrefix("server"),
		connections: make(map[*Connection]bool),
	}
}

// Run serves until the context is cancelled
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	httpServer := &http.Server{Addr: s.addr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.closeConnections()
		return httpServer.Shutdown(context.Background())
	})
	return g.Wait()
}

func (s *Server) closeConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.connections {
		_ = conn.Close()
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade failed", "error", err)
		return
	}

	conn := NewConnection(uuid.NewString(), ws, s.logger)
	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("client connected", "client", conn.ID(), "total", total)

	if hello, err := NewMessage(MessageTypeHello, HelloData{OK: true, ClientID: conn.ID()}); err == nil {
		_ = conn.Send(hello)
	}

	go conn.writePump()
	go func() {
		conn.readPump(s.route)
		s.disconnect(conn)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

// disconnect removes a client from its room and the connection set
func (s *Server) disconnect(conn *Connection) {
	if roomID := conn.Room(); roomID != "" {
		if rm, ok := s.rooms.Lookup(roomID); ok {
			rm.Leave(conn.ID())
			s.broadcast(rm)
		}
	}

	s.mu.Lock()
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()
	_ = conn.Close()
	s.logger.Info("client disconnected", "client", conn.ID(), "total", total)
}

// route dispatches one inbound intent. Rejections are no-ops reported
// only to the originator; every accepted mutation is followed by a
// fresh broadcast of the room's state.
func (s *Server) route(conn *Connection, msg *Message) {
	switch msg.Type {
	case MessageTypeJoin:
		var data JoinData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			conn.SendError(fmt.Errorf("malformed join"))
			return
		}
		rm, err := s.rooms.Get(data.Room)
		if err != nil {
			conn.SendError(err)
			return
		}
		if _, err := rm.Join(conn.ID(), data.Name); err != nil {
			conn.SendError(err)
			return
		}
		conn.SetRoom(rm.ID)
		s.broadcast(rm)

	case MessageTypeLeave:
		rm, ok := s.memberRoom(conn)
		if !ok {
			return
		}
		rm.Leave(conn.ID())
		conn.SetRoom("")
		s.broadcast(rm)

	case MessageTypeReady:
		rm, ok := s.memberRoom(conn)
		if !ok {
			return
		}
		if err := rm.ToggleReady(conn.ID()); err != nil {
			conn.SendError(err)
			return
		}
		s.broadcast(rm)

	case MessageTypeStart:
		rm, ok := s.memberRoom(conn)
		if !ok {
			return
		}
		if err := rm.RequestStart(conn.ID()); err != nil {
			conn.SendError(err)
			s.broadcast(rm)
			return
		}
		s.broadcast(rm)

	case MessageTypeBuyin:
		var data BuyinData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			conn.SendError(fmt.Errorf("malformed buyin"))
			return
		}
		rm, ok := s.memberRoom(conn)
		if !ok {
			return
		}
		if err := rm.Buyin(conn.ID(), data.Amount); err != nil {
			conn.SendError(err)
			return
		}
		s.broadcast(rm)

	case MessageTypeAction:
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			conn.SendError(fmt.Errorf("malformed action"))
			return
		}
		rm, ok := s.memberRoom(conn)
		if !ok {
			return
		}
		if err := rm.Act(conn.ID(), data.Kind, data.Amount); err != nil {
			conn.SendError(err)
			return
		}
		s.broadcast(rm)

	case MessageTypeChat:
		var data ChatData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			conn.SendError(fmt.Errorf("malformed chat"))
			return
		}
		rm, ok := s.memberRoom(conn)
		if !ok {
			return
		}
		rm.AddChat(conn.ID(), data.Text)
		s.broadcast(rm)

	default:
		conn.SendError(fmt.Errorf("unknown message type %q", msg.Type))
	}
}

func (s *Server) memberRoom(conn *Connection) (*room.Room, bool) {
	roomID := conn.Room()
	if roomID == "" {
		conn.SendError(fmt.Errorf("join a room first"))
		return nil, false
	}
	rm, ok := s.rooms.Lookup(roomID)
	if !ok {
		conn.SendError(fmt.Errorf("room %q not found", roomID))
		return nil, false
	}
	return rm, true
}

// broadcast fans the room's public snapshot out to every member, plus
// a private snapshot (hole cards) to each member individually. Called
// outside the room lock.
func (s *Server) broadcast(rm *room.Room) {
	public, err := NewMessage(MessageTypeRoomState, rm.PublicState())
	if err != nil {
		s.logger.Error("marshal public state", "error", err)
		return
	}

	s.mu.RLock()
	members := make([]*Connection, 0, 8)
	for conn := range s.connections {
		if conn.Room() == rm.ID {
			members = append(members, conn)
		}
	}
	s.mu.RUnlock()

	for _, conn := range members {
		if err := conn.Send(public); err != nil {
			continue
		}
		private, err := NewMessage(MessageTypePrivateState, rm.PrivateState(conn.ID()))
		if err != nil {
			s.logger.Error("marshal private state", "error", err)
			continue
		}
		_ = conn.Send(private)
	}
}
