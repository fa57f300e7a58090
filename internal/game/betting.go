package game

// Stage represents the table's position in the hand lifecycle
type Stage int

const (
	Waiting Stage = iota
	Preflop
	Flop
	Turn
	River
	ShowdownStage
)

func (s Stage) String() string {
	return [...]string{"waiting", "preflop", "flop", "turn", "river", "showdown"}[s]
}

// Betting reports whether the stage is one of the four streets
func (s Stage) Betting() bool {
	return s >= Preflop && s <= River
}

// ActionKind represents a player action
type ActionKind int

const (
	Fold ActionKind = iota
	Check
	Call
	Raise
)

func (a ActionKind) String() string {
	return [...]string{"fold", "check", "call", "raise"}[a]
}

// ParseActionKind parses a wire action name
func ParseActionKind(s string) (ActionKind, bool) {
	switch s {
	case "fold":
		return Fold, true
	case "check":
		return Check, true
	case "call":
		return Call, true
	case "raise":
		return Raise, true
	}
	return 0, false
}

// Round holds the betting state for one street. Seats owing action are
// kept as an ordered queue; the round is closed once the queue drains.
type Round struct {
	CurrentBet int
	MinRaise   int
	Aggressor  int // seat of the last full raise, -1 if none

	toAct []int
}

// newRound opens a betting round. order is the clockwise list of seats
// that owe action, starting with the first to act; currentBet is the
// level they must match (the big blind preflop, zero postflop).
func newRound(order []int, currentBet, minRaise int) *Round {
	return &Round{
		CurrentBet: currentBet,
		MinRaise:   minRaise,
		Aggressor:  -1,
		toAct:      append([]int(nil), order...),
	}
}

// ActionSeat returns the seat due to act, or -1 if the round is closed
func (r *Round) ActionSeat() int {
	if len(r.toAct) == 0 {
		return -1
	}
	return r.toAct[0]
}

// Closed reports whether no seat owes action
func (r *Round) Closed() bool {
	return len(r.toAct) == 0
}

// advance removes the acting seat from the queue
func (r *Round) advance(seat int) {
	for i, s := range r.toAct {
		if s == seat {
			r.toAct = append(r.toAct[:i], r.toAct[i+1:]...)
			return
		}
	}
}

// drop removes a seat anywhere in the queue (fold, forced fold, bust)
func (r *Round) drop(seat int) {
	r.advance(seat)
}

// reopen replaces the queue after a full raise: every other seat that
// can still act owes a response to the new level.
func (r *Round) reopen(order []int) {
	r.toAct = append(r.toAct[:0], order...)
}
