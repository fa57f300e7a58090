package game

import "github.com/pokerhaus/pokerhaus/internal/deck"

// Player represents a seated player. The seat index is stable while
// seated; chips carry across hands, everything else resets per hand.
type Player struct {
	Seat       int
	Name       string
	Chips      int
	BuyinTotal int

	HoleCards []deck.Card

	Bet     int // chips committed this street
	HandBet int // chips committed this hand, mirrors the pot ledger

	Folded bool
	AllIn  bool
	Ready  bool

	// Leaving marks a seat to vacate once the current hand ends. Set
	// when a leave arrives mid-hand instead of removing the player.
	Leaving bool

	LastAction string
}

// CanAct reports whether the player can still take betting actions
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn && p.Chips > 0
}

// InHand reports whether the player still contests the pot
func (p *Player) InHand() bool {
	return len(p.HoleCards) > 0 && !p.Folded
}

func (p *Player) resetForHand() {
	p.HoleCards = nil
	p.Bet = 0
	p.HandBet = 0
	p.Folded = false
	p.AllIn = false
	p.LastAction = ""
}
