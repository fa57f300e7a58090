package game

import "github.com/pokerhaus/pokerhaus/internal/deck"

// PlayerSnapshot is the per-seat public view of a player. Hole cards
// never appear here; they travel in PrivateSnapshot and, for contested
// showdowns only, in Snapshot.Showdown.
type PlayerSnapshot struct {
	Name       string `json:"name"`
	Seat       int    `json:"seat"`
	Chips      int    `json:"chips"`
	BuyinTotal int    `json:"buyinTotal"`
	Net        int    `json:"net"`
	Bet        int    `json:"bet"`
	TotalBet   int    `json:"totalBet"`
	Folded     bool   `json:"folded"`
	AllIn      bool   `json:"allIn"`
	Ready      bool   `json:"ready"`
	LastAction string `json:"lastAction,omitempty"`
}

// Snapshot is the public table state broadcast after every mutation
type Snapshot struct {
	HandNo     int                 `json:"handNo"`
	Stage      string              `json:"stage"`
	Board      []deck.Card         `json:"board"`
	Pot        int                 `json:"pot"`
	CurrentBet int                 `json:"currentBet"`
	MinRaise   int                 `json:"minRaise"`
	DealerSeat int                 `json:"dealerSeat"`
	SBSeat     int                 `json:"sbSeat"`
	BBSeat     int                 `json:"bbSeat"`
	UTGSeat    int                 `json:"utgSeat"`
	ActionSeat int                 `json:"actionSeat"`
	Players    []PlayerSnapshot    `json:"players"`
	Showdown   map[int][]deck.Card `json:"showdown,omitempty"`
}

// PrivateSnapshot carries one seat's hole cards
type PrivateSnapshot struct {
	Seat      int         `json:"seat"`
	HoleCards []deck.Card `json:"hand"`
}

// Snapshot projects the public view of the table
func (t *Table) Snapshot() Snapshot {
	players := t.Players()
	snaps := make([]PlayerSnapshot, 0, len(players))
	for _, p := range players {
		snaps = append(snaps, PlayerSnapshot{
			Name:       p.Name,
			Seat:       p.Seat,
			Chips:      p.Chips,
			BuyinTotal: p.BuyinTotal,
			Net:        p.Chips - p.BuyinTotal,
			Bet:        p.Bet,
			TotalBet:   p.HandBet,
			Folded:     p.Folded,
			AllIn:      p.AllIn,
			Ready:      p.Ready,
			LastAction: p.LastAction,
		})
	}

	var showdown map[int][]deck.Card
	if len(t.reveal) > 0 {
		showdown = t.reveal
	}

	return Snapshot{
		HandNo:     t.handNo,
		Stage:      t.stage.String(),
		Board:      t.board,
		Pot:        t.ledger.Total(),
		CurrentBet: t.CurrentBet(),
		MinRaise:   t.MinRaise(),
		DealerSeat: t.ring.Dealer(),
		SBSeat:     t.sbSeat,
		BBSeat:     t.bbSeat,
		UTGSeat:    t.utgSeat,
		ActionSeat: t.ActionSeat(),
		Players:    snaps,
		Showdown:   showdown,
	}
}

// PrivateSnapshot projects one seat's hole cards
func (t *Table) PrivateSnapshot(seat int) PrivateSnapshot {
	snap := PrivateSnapshot{Seat: seat}
	if p := t.players[seat]; p != nil {
		snap.HoleCards = p.HoleCards
	}
	return snap
}
