package game

import (
	"sort"

	"github.com/pokerhaus/pokerhaus/internal/evaluator"
)

// Pot is a pot layer: an amount plus the seats eligible to win it.
// Exactly one main pot exists once betting starts; additional layers
// appear when players go all-in at unequal contribution levels.
type Pot struct {
	Amount   int
	Eligible []int
}

// Ledger accumulates per-seat chip contributions for one hand and
// resolves them into main and side pots.
type Ledger struct {
	contrib map[int]int
}

// NewLedger creates an empty contribution ledger
func NewLedger() *Ledger {
	return &Ledger{contrib: make(map[int]int)}
}

// Commit adds to a seat's contribution for the hand
func (l *Ledger) Commit(seat, amount int) {
	if amount > 0 {
		l.contrib[seat] += amount
	}
}

// Uncommit returns part of a seat's contribution (uncalled bet refund)
func (l *Ledger) Uncommit(seat, amount int) {
	l.contrib[seat] -= amount
	if l.contrib[seat] <= 0 {
		delete(l.contrib, seat)
	}
}

// Contribution returns a seat's total contribution this hand
func (l *Ledger) Contribution(seat int) int {
	return l.contrib[seat]
}

// Total returns the sum of all contributions, i.e. the displayed pot
func (l *Ledger) Total() int {
	total := 0
	for _, c := range l.contrib {
		total += c
	}
	return total
}

// BuildPots resolves the ledger into pot layers. Distinct nonzero
// contribution levels are walked ascending; each layer holds
// (level - previousLevel) * count(seats contributing at least level),
// and is won among the seats at that level that did not fold. The sum
// of all layers always equals the sum of all contributions.
func (l *Ledger) BuildPots(folded func(seat int) bool) []Pot {
	levelSet := make(map[int]bool)
	for _, c := range l.contrib {
		if c > 0 {
			levelSet[c] = true
		}
	}
	levels := make([]int, 0, len(levelSet))
	for lvl := range levelSet {
		levels = append(levels, lvl)
	}
	sort.Ints(levels)

	pots := make([]Pot, 0, len(levels))
	prev := 0
	for _, level := range levels {
		pot := Pot{}
		for seat, c := range l.contrib {
			if c < level {
				continue
			}
			pot.Amount += level - prev
			if !folded(seat) {
				pot.Eligible = append(pot.Eligible, seat)
			}
		}
		sort.Ints(pot.Eligible)
		prev = level
		if pot.Amount > 0 {
			pots = append(pots, pot)
		}
	}
	return pots
}

// SettlePots distributes each pot among its best-ranked eligible seats.
// ranks holds strengths for seats that reached showdown; a pot whose
// eligible seats include no ranked seat (everyone else folded) goes to
// its eligible seats outright. Splits integer-divide, and the remainder
// is handed out one chip at a time following clockwise, the seat order
// starting left of the dealer button, so distribution is deterministic
// and exhaustive.
func SettlePots(pots []Pot, ranks map[int]evaluator.Strength, clockwise []int) map[int]int {
	payouts := make(map[int]int)

	for _, pot := range pots {
		if len(pot.Eligible) == 0 {
			continue
		}

		var winners []int
		var best evaluator.Strength
		for _, seat := range pot.Eligible {
			strength, ok := ranks[seat]
			if !ok {
				continue
			}
			if len(winners) == 0 || strength > best {
				best = strength
				winners = []int{seat}
			} else if strength == best {
				winners = append(winners, seat)
			}
		}
		if len(winners) == 0 {
			// No eligible seat reached showdown; refund the layer to
			// whoever is still eligible (uncontested side pot).
			winners = pot.Eligible
		}

		share := pot.Amount / len(winners)
		remainder := pot.Amount - share*len(winners)
		for _, seat := range winners {
			payouts[seat] += share
		}
		if remainder > 0 {
			isWinner := make(map[int]bool, len(winners))
			for _, seat := range winners {
				isWinner[seat] = true
			}
			for _, seat := range clockwise {
				if remainder == 0 {
					break
				}
				if isWinner[seat] {
					payouts[seat]++
					remainder--
				}
			}
		}
	}

	return payouts
}
