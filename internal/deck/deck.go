package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrExhausted is returned when a draw asks for more cards than remain.
// A 9-max table consumes at most 23 cards per hand, so hitting this
// indicates a configuration bug rather than normal play.
var ErrExhausted = errors.New("deck exhausted")

// Deck represents a 52-card deck consumed by dealing
type Deck struct {
	cards []Card
}

// New returns a full deck shuffled into a uniformly random permutation
// using the provided RNG.
func New(rng *rand.Rand) *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
	return d
}

// NewStacked returns a deck that deals the given cards in order.
// Used by tests to set up deterministic hands.
func NewStacked(cards ...Card) *Deck {
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	return &Deck{cards: stacked}
}

// Draw removes and returns the top n cards
func (d *Deck) Draw(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, ErrExhausted
	}
	cards := d.cards[:n]
	d.cards = d.cards[n:]
	return cards, nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}
