// Package room wraps one table in the intent surface the transport
// layer speaks: join/leave/ready/start/buyin/act/chat keyed by an
// opaque client identity. Intents for one room are strictly
// serialized; different rooms are independent.
package room

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/pokerhaus/pokerhaus/internal/game"
	"github.com/pokerhaus/pokerhaus/internal/randutil"
)

const (
	// Ring-buffer sizes for the event log and chat.
	keepEntries     = 200
	snapshotEntries = 80

	maxChatRunes = 300
)

// LogEntry is one timestamped line of the room's event log
type LogEntry struct {
	T   int64  `json:"t"`
	Msg string `json:"msg"`
}

// ChatEntry is one chat message
type ChatEntry struct {
	T    int64  `json:"t"`
	Name string `json:"name"`
	Text string `json:"text"`
}

// State is the public room state broadcast to every connection
type State struct {
	Room string `json:"room"`
	game.Snapshot
	Logs []LogEntry  `json:"logs"`
	Chat []ChatEntry `json:"chat"`
}

// PrivateState carries one client's hole cards
type PrivateState struct {
	Room string `json:"room"`
	game.PrivateSnapshot
}

// Room owns one table and serializes every intent against it. All
// mutation happens under mu; broadcasting is the caller's concern and
// happens outside the lock.
type Room struct {
	ID string

	mu     sync.Mutex
	table  *game.Table
	seats  map[string]int // client ID -> seat
	absent map[int]bool   // seats whose client is gone mid-hand
	logs   []LogEntry
	chat   []ChatEntry

	clock  quartz.Clock
	logger *log.Logger
}

// New creates a room with a freshly seeded table
func New(id string, cfg game.Config, clock quartz.Clock, logger *log.Logger) *Room {
	return &Room{
		ID:     id,
		table:  game.NewTable(randutil.New(randutil.Seed()), cfg),
		seats:  make(map[string]int),
		absent: make(map[int]bool),
		clock:  clock,
		logger: logger.WithPrefix("room").With("room", id),
	}
}

// NewWithTable creates a room around a prepared table. Tests use this
// to inject stacked decks and fixed evaluators.
func NewWithTable(id string, table *game.Table, clock quartz.Clock, logger *log.Logger) *Room {
	return &Room{
		ID:     id,
		table:  table,
		seats:  make(map[string]int),
		absent: make(map[int]bool),
		clock:  clock,
		logger: logger.WithPrefix("room").With("room", id),
	}
}

// Join seats a client. A blank name gets a generated one; rejoining
// with the same identity just renames.
func (r *Room) Join(clientID, name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Player%03d", randutil.New(randutil.Seed()).IntN(1000))
	}

	if seat, ok := r.seats[clientID]; ok {
		r.table.PlayerAt(seat).Name = name
		return seat, nil
	}

	p, err := r.table.SeatPlayer(name)
	if err != nil {
		return -1, err
	}
	r.seats[clientID] = p.Seat
	r.addLog(fmt.Sprintf("%s joined, seat %d", name, p.Seat))
	r.logger.Info("player joined", "name", name, "seat", p.Seat)
	return p.Seat, nil
}

// Leave removes a client. Mid-hand the seat is folded on its turn and
// vacated when the hand ends; between hands it empties immediately.
func (r *Room) Leave(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat, ok := r.seats[clientID]
	if !ok {
		return
	}
	p := r.table.PlayerAt(seat)
	name := ""
	if p != nil {
		name = p.Name
	}

	delete(r.seats, clientID)

	if err := r.table.Leave(seat); err != nil {
		// Seat locked: fold the departed seat whenever action reaches it.
		r.absent[seat] = true
		r.foldAbsent()
	} else {
		delete(r.absent, seat)
	}
	r.addLog(fmt.Sprintf("%s left", name))
	r.drainTableLog()
	r.maybeAutoStart()
}

// ToggleReady flips a client's ready flag. The hand auto-starts once
// at least two funded players are seated and everyone is ready.
func (r *Room) ToggleReady(clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat, ok := r.seats[clientID]
	if !ok {
		return fmt.Errorf("client not seated")
	}
	p := r.table.PlayerAt(seat)
	p.Ready = !p.Ready
	if p.Ready {
		r.addLog(fmt.Sprintf("%s is ready", p.Name))
	} else {
		r.addLog(fmt.Sprintf("%s is no longer ready", p.Name))
	}
	r.maybeAutoStart()
	return nil
}

// RequestStart explicitly starts the next hand
func (r *Room) RequestStart(clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seats[clientID]; !ok {
		return fmt.Errorf("client not seated")
	}
	err := r.table.StartHand()
	r.drainTableLog()
	return err
}

// Buyin tops up a client's stack between hands
func (r *Room) Buyin(clientID string, amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat, ok := r.seats[clientID]
	if !ok {
		return fmt.Errorf("client not seated")
	}
	if err := r.table.Buyin(seat, amount); err != nil {
		return err
	}
	p := r.table.PlayerAt(seat)
	r.addLog(fmt.Sprintf("%s bought in for %d, stack %d, net %d", p.Name, amount, p.Chips, p.Chips-p.BuyinTotal))
	return nil
}

// Act applies one betting action for a client
func (r *Room) Act(clientID, kind string, amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat, ok := r.seats[clientID]
	if !ok {
		return fmt.Errorf("client not seated")
	}
	action, ok := game.ParseActionKind(kind)
	if !ok {
		return fmt.Errorf("%w: unknown action %q", game.ErrIllegalAction, kind)
	}
	err := r.table.Apply(seat, action, amount)
	r.drainTableLog()
	if err == nil {
		r.foldAbsent()
	}
	return err
}

// AddChat appends a chat message
func (r *Room) AddChat(clientID, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if runes := []rune(text); len(runes) > maxChatRunes {
		text = string(runes[:maxChatRunes])
	}
	name := "?"
	if seat, ok := r.seats[clientID]; ok {
		if p := r.table.PlayerAt(seat); p != nil {
			name = p.Name
		}
	}
	r.chat = append(r.chat, ChatEntry{T: r.now(), Name: name, Text: text})
	if len(r.chat) > keepEntries {
		r.chat = r.chat[len(r.chat)-keepEntries:]
	}
}

// Empty reports whether no clients remain
func (r *Room) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seats) == 0
}

// SeatOf returns the seat for a client identity
func (r *Room) SeatOf(clientID string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat, ok := r.seats[clientID]
	return seat, ok
}

// PublicState projects the broadcastable room state
func (r *Room) PublicState() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return State{
		Room:     r.ID,
		Snapshot: r.table.Snapshot(),
		Logs:     tail(r.logs),
		Chat:     tail(r.chat),
	}
}

// PrivateState projects one client's hole cards
func (r *Room) PrivateState(clientID string) PrivateState {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := PrivateState{Room: r.ID}
	if seat, ok := r.seats[clientID]; ok {
		state.PrivateSnapshot = r.table.PrivateSnapshot(seat)
	} else {
		state.Seat = -1
	}
	return state
}

// maybeAutoStart begins a hand when everyone seated is ready. Called
// with mu held.
func (r *Room) maybeAutoStart() {
	if !r.table.CanStart() {
		return
	}
	if err := r.table.StartHand(); err != nil {
		r.logger.Warn("auto-start failed", "error", err)
	}
	r.drainTableLog()
	r.foldAbsent()
}

// foldAbsent folds departed seats whenever the action reaches them,
// the policy substituted for an absent player's turn. Called with mu
// held.
func (r *Room) foldAbsent() {
	for {
		seat := r.table.ActionSeat()
		if seat < 0 || !r.absent[seat] {
			break
		}
		if err := r.table.Apply(seat, game.Fold, 0); err != nil {
			r.logger.Error("forced fold failed", "seat", seat, "error", err)
			break
		}
		r.drainTableLog()
	}
	// Seats flagged to leave are vacated by the table at hand end;
	// forget any that are gone.
	for seat := range r.absent {
		if r.table.PlayerAt(seat) == nil {
			delete(r.absent, seat)
		}
	}
}

func (r *Room) drainTableLog() {
	for _, line := range r.table.TakeLog() {
		r.addLog(line)
	}
}

func (r *Room) addLog(msg string) {
	r.logs = append(r.logs, LogEntry{T: r.now(), Msg: msg})
	if len(r.logs) > keepEntries {
		r.logs = r.logs[len(r.logs)-keepEntries:]
	}
}

func (r *Room) now() int64 {
	return r.clock.Now().Unix()
}

func tail[T any](entries []T) []T {
	if len(entries) <= snapshotEntries {
		return append([]T(nil), entries...)
	}
	return append([]T(nil), entries[len(entries)-snapshotEntries:]...)
}
