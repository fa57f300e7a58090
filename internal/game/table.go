package game

import (
	"fmt"
	rand "math/rand/v2"
	"sort"
	"strings"

	"github.com/pokerhaus/pokerhaus/internal/deck"
	"github.com/pokerhaus/pokerhaus/internal/evaluator"
)

// Config holds the table stakes
type Config struct {
	SmallBlind    int
	BigBlind      int
	StartingChips int
}

// DefaultConfig returns the default 5/10 table
func DefaultConfig() Config {
	return Config{SmallBlind: 5, BigBlind: 10, StartingChips: 1000}
}

// Option configures a table
type Option func(*Table)

// WithDeck stacks a prepared deck for the next hand. Used by tests to
// deal deterministic cards.
func WithDeck(d *deck.Deck) Option {
	return func(t *Table) { t.nextDeck = d }
}

// WithRankFunc substitutes the hand evaluator
func WithRankFunc(f evaluator.RankFunc) Option {
	return func(t *Table) { t.rank = f }
}

// Table is the single owner of one room's hand state. It sequences
// blinds, dealing, the four betting rounds and settlement, and is the
// only place chips move. Callers must serialize access; the table does
// no locking of its own.
type Table struct {
	cfg  Config
	rng  *rand.Rand
	rank evaluator.RankFunc

	ring    *SeatRing
	players map[int]*Player

	stage    Stage
	handNo   int
	board    []deck.Card
	cards    *deck.Deck
	nextDeck *deck.Deck
	ledger   *Ledger
	round    *Round

	sbSeat  int
	bbSeat  int
	utgSeat int

	reveal map[int][]deck.Card
	log    []string
}

// NewTable creates a table with no seated players
func NewTable(rng *rand.Rand, cfg Config, opts ...Option) *Table {
	if cfg.SmallBlind <= 0 || cfg.BigBlind <= cfg.SmallBlind {
		cfg = DefaultConfig()
	}
	t := &Table{
		cfg:     cfg,
		rng:     rng,
		rank:    evaluator.Rank,
		ring:    NewSeatRing(),
		players: make(map[int]*Player),
		stage:   Waiting,
		ledger:  NewLedger(),
		sbSeat:  -1,
		bbSeat:  -1,
		utgSeat: -1,
		reveal:  make(map[int][]deck.Card),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SeatPlayer seats a new player at the lowest free seat with the
// configured starting stack.
func (t *Table) SeatPlayer(name string) (*Player, error) {
	seat, err := t.ring.Seat()
	if err != nil {
		return nil, err
	}
	p := &Player{
		Seat:       seat,
		Name:       name,
		Chips:      t.cfg.StartingChips,
		BuyinTotal: t.cfg.StartingChips,
	}
	t.players[seat] = p
	return p, nil
}

// Leave vacates a seat. Mid-hand the seat is only flagged to leave and
// ErrSeatLocked is returned; the seat empties once the hand ends.
func (t *Table) Leave(seat int) error {
	p := t.players[seat]
	if p == nil {
		return nil
	}
	if t.stage != Waiting {
		p.Leaving = true
		return ErrSeatLocked
	}
	delete(t.players, seat)
	t.ring.Vacate(seat)
	return nil
}

// Buyin tops up a player's stack. Only legal between hands.
func (t *Table) Buyin(seat, amount int) error {
	p := t.players[seat]
	if p == nil {
		return fmt.Errorf("%w: seat %d is empty", ErrIllegalAction, seat)
	}
	if t.stage != Waiting {
		return ErrBuyinWindowClosed
	}
	if amount <= 0 {
		return fmt.Errorf("%w: invalid buy-in amount %d", ErrIllegalAction, amount)
	}
	p.Chips += amount
	p.BuyinTotal += amount
	return nil
}

// SetReady marks a player's ready flag
func (t *Table) SetReady(seat int, ready bool) {
	if p := t.players[seat]; p != nil {
		p.Ready = ready
	}
}

// CanStart reports whether a hand could begin: at least two players
// with chips, every seated player ready, no hand running.
func (t *Table) CanStart() bool {
	if t.stage != Waiting || t.eligibleCount() < 2 {
		return false
	}
	for _, p := range t.players {
		if !p.Ready {
			return false
		}
	}
	return true
}

func (t *Table) eligibleCount() int {
	n := 0
	for _, p := range t.players {
		if p.Chips > 0 {
			n++
		}
	}
	return n
}

// StartHand begins the next hand: rotates the button, deals hole
// cards, posts blinds and opens the preflop betting round.
func (t *Table) StartHand() error {
	if t.stage != Waiting {
		return ErrHandInProgress
	}
	if t.eligibleCount() < 2 {
		return ErrNotEnoughPlayers
	}

	t.handNo++
	t.stage = Preflop
	t.board = nil
	t.ledger = NewLedger()
	t.reveal = make(map[int][]deck.Card)
	for _, p := range t.players {
		p.resetForHand()
	}

	// Rotate the button, skipping seats that cannot fund a hand.
	dealer := t.ring.RotateDealer()
	if p := t.players[dealer]; p == nil || p.Chips <= 0 {
		if next, ok := t.ring.NextMatching(dealer, func(s int) bool { return t.players[s].Chips > 0 }); ok {
			t.ring.SetDealer(next)
			dealer = next
		}
	}

	if t.nextDeck != nil {
		t.cards = t.nextDeck
		t.nextDeck = nil
	} else {
		t.cards = deck.New(t.rng)
	}

	// Deal two hole cards per funded seat, clockwise from the button.
	for _, seat := range t.ring.ClockwiseFrom(t.ring.Next(dealer)) {
		p := t.players[seat]
		if p.Chips <= 0 {
			continue
		}
		cards, err := t.cards.Draw(2)
		if err != nil {
			return t.abortHand(err)
		}
		p.HoleCards = cards
	}

	// Heads-up the dealer posts the small blind and acts first preflop.
	funded := func(s int) bool { return len(t.players[s].HoleCards) > 0 }
	headsUp := t.eligibleCount() == 2
	if headsUp {
		t.sbSeat = dealer
		t.bbSeat = t.mustNext(dealer, funded)
	} else {
		t.sbSeat = t.mustNext(dealer, funded)
		t.bbSeat = t.mustNext(t.sbSeat, funded)
	}

	t.postBlind(t.sbSeat, t.cfg.SmallBlind, "small blind")
	t.postBlind(t.bbSeat, t.cfg.BigBlind, "big blind")

	var first int
	if headsUp {
		first = t.sbSeat
	} else {
		first = t.mustNext(t.bbSeat, funded)
	}
	t.utgSeat = first

	t.round = newRound(t.actionOrder(first), t.cfg.BigBlind, t.cfg.BigBlind)
	t.logf("hand %d started, dealer seat %d", t.handNo, dealer)

	return t.runForward()
}

func (t *Table) mustNext(from int, ok func(seat int) bool) int {
	seat, _ := t.ring.NextMatching(from, ok)
	return seat
}

func (t *Table) postBlind(seat, amount int, label string) {
	p := t.players[seat]
	pay := min(amount, p.Chips)
	p.Chips -= pay
	p.Bet += pay
	p.HandBet += pay
	t.ledger.Commit(seat, pay)
	if p.Chips == 0 {
		p.AllIn = true
		t.logf("%s posts %s %d and is all in", p.Name, label, pay)
		return
	}
	t.logf("%s posts %s %d", p.Name, label, pay)
}

// actionOrder returns the clockwise seats that owe action, starting at
// first.
func (t *Table) actionOrder(first int) []int {
	if first < 0 {
		return nil
	}
	var order []int
	for _, seat := range t.ring.ClockwiseFrom(first) {
		if p := t.players[seat]; p != nil && p.CanAct() {
			order = append(order, seat)
		}
	}
	return order
}

// Apply validates and applies one betting action for seat. Rejected
// actions return an error wrapping ErrIllegalAction and mutate nothing;
// the same seat remains to act.
func (t *Table) Apply(seat int, kind ActionKind, amount int) error {
	if !t.stage.Betting() || t.round == nil {
		return fmt.Errorf("%w: no betting round in progress", ErrIllegalAction)
	}
	p := t.players[seat]
	if p == nil || !p.InHand() {
		return fmt.Errorf("%w: seat %d is not in the hand", ErrIllegalAction, seat)
	}
	if t.round.ActionSeat() != seat {
		return fmt.Errorf("%w: not seat %d's turn", ErrIllegalAction, seat)
	}

	switch kind {
	case Fold:
		p.Folded = true
		p.LastAction = "fold"
		t.round.drop(seat)
		t.logf("%s folds", p.Name)
		if t.inHandCount() == 1 {
			return t.foldOut()
		}

	case Check:
		if p.Bet != t.round.CurrentBet {
			return fmt.Errorf("%w: cannot check, %d to call", ErrIllegalAction, t.round.CurrentBet-p.Bet)
		}
		p.LastAction = "check"
		t.round.advance(seat)
		t.logf("%s checks", p.Name)

	case Call:
		need := t.round.CurrentBet - p.Bet
		if need <= 0 {
			return fmt.Errorf("%w: nothing to call", ErrIllegalAction)
		}
		pay := min(need, p.Chips)
		p.Chips -= pay
		p.Bet += pay
		p.HandBet += pay
		t.ledger.Commit(seat, pay)
		p.LastAction = "call"
		if p.Chips == 0 {
			// Short call: the stack did not cover the full amount.
			p.AllIn = true
			t.logf("%s calls %d and is all in", p.Name, pay)
		} else {
			t.logf("%s calls %d", p.Name, pay)
		}
		t.round.advance(seat)

	case Raise:
		if err := t.applyRaise(p, amount); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: unknown action", ErrIllegalAction)
	}

	return t.runForward()
}

// applyRaise handles raise-to semantics: amount is the player's new
// total contribution for the street, not a delta.
func (t *Table) applyRaise(p *Player, amount int) error {
	if amount <= t.round.CurrentBet {
		return fmt.Errorf("%w: raise must exceed current bet %d", ErrIllegalAction, t.round.CurrentBet)
	}
	total := p.Bet + p.Chips
	if amount > total {
		return fmt.Errorf("%w: raise to %d exceeds stack", ErrIllegalAction, amount)
	}
	increment := amount - t.round.CurrentBet
	allIn := amount == total
	if increment < t.round.MinRaise && !allIn {
		return fmt.Errorf("%w: minimum raise increment is %d", ErrIllegalAction, t.round.MinRaise)
	}

	delta := amount - p.Bet
	p.Chips -= delta
	p.Bet = amount
	p.HandBet += delta
	t.ledger.Commit(p.Seat, delta)
	p.LastAction = "raise"
	if p.Chips == 0 {
		p.AllIn = true
	}

	if increment >= t.round.MinRaise {
		// A full raise reopens action to every other seat that can act.
		t.round.MinRaise = increment
		t.round.CurrentBet = amount
		t.round.Aggressor = p.Seat
		order := make([]int, 0, MaxSeats)
		for _, s := range t.actionOrder(t.ring.Next(p.Seat)) {
			if s != p.Seat {
				order = append(order, s)
			}
		}
		t.round.reopen(order)
	} else {
		// All-in below the minimum raise: the bet level rises, but
		// seats that already matched the prior level are not re-offered
		// action and the raise increment stays as it was.
		t.round.CurrentBet = amount
		t.round.advance(p.Seat)
	}

	if p.AllIn {
		t.logf("%s raises to %d and is all in", p.Name, amount)
	} else {
		t.logf("%s raises to %d", p.Name, amount)
	}
	return nil
}

// runForward advances streets while no seat owes action, dealing the
// board out and settling at the river (or immediately when everyone
// left is all-in).
func (t *Table) runForward() error {
	for t.stage.Betting() && t.round.Closed() {
		if err := t.advanceStage(); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) advanceStage() error {
	switch t.stage {
	case Preflop:
		if err := t.dealBoard(3, "flop"); err != nil {
			return t.abortHand(err)
		}
		t.stage = Flop
	case Flop:
		if err := t.dealBoard(1, "turn"); err != nil {
			return t.abortHand(err)
		}
		t.stage = Turn
	case Turn:
		if err := t.dealBoard(1, "river"); err != nil {
			return t.abortHand(err)
		}
		t.stage = River
	case River:
		return t.finishShowdown()
	default:
		return nil
	}

	// New street: per-street bets reset, hand contributions stand.
	for _, p := range t.players {
		p.Bet = 0
	}
	first, _ := t.ring.NextMatching(t.ring.Dealer(), func(s int) bool {
		p := t.players[s]
		return p != nil && p.CanAct()
	})
	order := t.actionOrder(first)
	if len(order) < 2 {
		// Everyone else is all in; nothing is at stake for the lone
		// remaining stack, so the board runs out without action.
		order = nil
	}
	t.round = newRound(order, 0, t.cfg.BigBlind)
	return nil
}

func (t *Table) dealBoard(n int, street string) error {
	cards, err := t.cards.Draw(n)
	if err != nil {
		return err
	}
	t.board = append(t.board, cards...)
	t.logf("%s: %s", street, joinCards(t.board))
	return nil
}

// foldOut resolves the hand when a single non-folded player remains.
// Folded hole cards are never revealed.
func (t *Table) foldOut() error {
	t.returnUncalled()
	pots := t.ledger.BuildPots(t.seatFolded)
	payouts := SettlePots(pots, nil, t.ring.ClockwiseFrom(t.ring.Next(t.ring.Dealer())))
	for seat, amount := range payouts {
		p := t.players[seat]
		p.Chips += amount
		t.logf("%s wins %d, everyone else folded", p.Name, amount)
	}
	t.finishHand()
	return nil
}

// finishShowdown ranks the contesting hands, settles every pot layer
// and credits the winners.
func (t *Table) finishShowdown() error {
	t.returnUncalled()

	ranks := make(map[int]evaluator.Strength)
	for seat, p := range t.players {
		if !p.InHand() {
			continue
		}
		strength, err := t.rank(p.HoleCards, t.board)
		if err != nil {
			return t.abortHand(err)
		}
		ranks[seat] = strength
		t.reveal[seat] = p.HoleCards
		if desc, err := evaluator.Describe(p.HoleCards, t.board); err == nil {
			t.logf("%s shows %s, %s", p.Name, joinCards(p.HoleCards), desc)
		} else {
			t.logf("%s shows %s", p.Name, joinCards(p.HoleCards))
		}
	}

	pots := t.ledger.BuildPots(t.seatFolded)
	payouts := SettlePots(pots, ranks, t.ring.ClockwiseFrom(t.ring.Next(t.ring.Dealer())))
	seats := make([]int, 0, len(payouts))
	for seat := range payouts {
		seats = append(seats, seat)
	}
	sort.Ints(seats)
	for _, seat := range seats {
		p := t.players[seat]
		p.Chips += payouts[seat]
		t.logf("%s wins %d, stack now %d", p.Name, payouts[seat], p.Chips)
	}

	t.stage = ShowdownStage
	t.finishHand()
	return nil
}

// returnUncalled refunds the part of the largest contribution that no
// other seat matched. Without this an uncalled bet could strand chips
// in a layer nobody is eligible for.
func (t *Table) returnUncalled() {
	top, second, topSeat := 0, 0, -1
	for seat := range t.players {
		c := t.ledger.Contribution(seat)
		if c > top {
			top, second, topSeat = c, top, seat
		} else if c > second {
			second = c
		}
	}
	if topSeat >= 0 && top > second {
		excess := top - second
		t.ledger.Uncommit(topSeat, excess)
		p := t.players[topSeat]
		p.Chips += excess
		p.HandBet -= excess
		if p.Bet > 0 {
			p.Bet = max(0, p.Bet-excess)
		}
	}
}

func (t *Table) seatFolded(seat int) bool {
	p := t.players[seat]
	return p == nil || !p.InHand()
}

// abortHand unwinds a hand that cannot continue (deck misconfiguration)
// so that no chips move: every contribution is refunded.
func (t *Table) abortHand(cause error) error {
	for seat, p := range t.players {
		if c := t.ledger.Contribution(seat); c > 0 {
			p.Chips += c
			t.ledger.Uncommit(seat, c)
		}
		p.Bet = 0
		p.HandBet = 0
	}
	t.logf("hand %d aborted: %v", t.handNo, cause)
	t.finishHand()
	return fmt.Errorf("hand aborted: %w", cause)
}

// finishHand returns the table to the waiting stage, forces re-ready
// for the next hand and vacates seats flagged to leave.
func (t *Table) finishHand() {
	t.stage = Waiting
	t.round = nil
	t.ledger = NewLedger()
	t.sbSeat, t.bbSeat, t.utgSeat = -1, -1, -1
	for seat, p := range t.players {
		p.Ready = false
		p.Bet = 0
		p.HandBet = 0
		if p.Leaving {
			delete(t.players, seat)
			t.ring.Vacate(seat)
		}
	}
}

func (t *Table) inHandCount() int {
	n := 0
	for _, p := range t.players {
		if p.InHand() {
			n++
		}
	}
	return n
}

func (t *Table) logf(format string, args ...any) {
	t.log = append(t.log, fmt.Sprintf(format, args...))
}

// TakeLog drains and returns log lines appended since the last call
func (t *Table) TakeLog() []string {
	entries := t.log
	t.log = nil
	return entries
}

func joinCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Accessors used by snapshots and the room layer.

// Stage returns the current lifecycle stage
func (t *Table) Stage() Stage { return t.stage }

// HandNo returns the current hand number
func (t *Table) HandNo() int { return t.handNo }

// Board returns the community cards dealt so far
func (t *Table) Board() []deck.Card { return t.board }

// Pot returns the total chips committed this hand
func (t *Table) Pot() int { return t.ledger.Total() }

// CurrentBet returns the street's bet level to match
func (t *Table) CurrentBet() int {
	if t.round == nil {
		return 0
	}
	return t.round.CurrentBet
}

// MinRaise returns the minimum legal raise increment
func (t *Table) MinRaise() int {
	if t.round == nil {
		return t.cfg.BigBlind
	}
	return t.round.MinRaise
}

// ActionSeat returns the seat due to act, or -1
func (t *Table) ActionSeat() int {
	if t.round == nil {
		return -1
	}
	return t.round.ActionSeat()
}

// DealerSeat returns the dealer button seat, or -1 before any hand
func (t *Table) DealerSeat() int { return t.ring.Dealer() }

// SmallBlindSeat returns the small blind seat for the running hand
func (t *Table) SmallBlindSeat() int { return t.sbSeat }

// BigBlindSeat returns the big blind seat for the running hand
func (t *Table) BigBlindSeat() int { return t.bbSeat }

// UnderTheGunSeat returns the first seat to act preflop
func (t *Table) UnderTheGunSeat() int { return t.utgSeat }

// PlayerAt returns the player in a seat, or nil
func (t *Table) PlayerAt(seat int) *Player {
	return t.players[seat]
}

// Players returns all seated players in seat order
func (t *Table) Players() []*Player {
	seats := t.ring.Seats()
	players := make([]*Player, 0, len(seats))
	for _, seat := range seats {
		players = append(players, t.players[seat])
	}
	return players
}

// Reveal returns the hole cards revealed at the last showdown
func (t *Table) Reveal() map[int][]deck.Card { return t.reveal }

// Config returns the table stakes
func (t *Table) Config() Config { return t.cfg }
