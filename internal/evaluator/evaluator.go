// Package evaluator adapts an external hand-strength library to the
// capability the game engine needs: rank(holeCards, board) -> totally
// ordered strength. The engine never imports the library directly, so
// any correct 7-card evaluator can be substituted here.
package evaluator

import (
	"fmt"

	"github.com/paulhankin/poker"

	"github.com/pokerhaus/pokerhaus/internal/deck"
)

// Strength is a comparable hand strength. Higher is stronger; equal
// values are ties.
type Strength int16

// RankFunc ranks two hole cards against a five-card board.
type RankFunc func(hole, board []deck.Card) (Strength, error)

// Rank evaluates the best 5-card hand from two hole cards and a
// five-card board.
func Rank(hole, board []deck.Card) (Strength, error) {
	seven, err := sevenCards(hole, board)
	if err != nil {
		return 0, err
	}
	return Strength(poker.Eval7(&seven)), nil
}

// Describe returns a human-readable category for the best hand, e.g.
// "Two Pair". Used for showdown log lines.
func Describe(hole, board []deck.Card) (string, error) {
	seven, err := sevenCards(hole, board)
	if err != nil {
		return "", err
	}
	return poker.Describe(seven[:])
}

func sevenCards(hole, board []deck.Card) ([7]poker.Card, error) {
	var seven [7]poker.Card
	if len(hole) != 2 {
		return seven, fmt.Errorf("expected 2 hole cards, got %d", len(hole))
	}
	if len(board) != 5 {
		return seven, fmt.Errorf("expected 5 board cards, got %d", len(board))
	}
	for i, c := range board {
		card, err := convert(c)
		if err != nil {
			return seven, err
		}
		seven[i] = card
	}
	for i, c := range hole {
		card, err := convert(c)
		if err != nil {
			return seven, err
		}
		seven[5+i] = card
	}
	return seven, nil
}

func convert(c deck.Card) (poker.Card, error) {
	var zero poker.Card
	var suit poker.Suit
	switch c.Suit {
	case deck.Spades:
		suit = poker.Spade
	case deck.Hearts:
		suit = poker.Heart
	case deck.Diamonds:
		suit = poker.Diamond
	case deck.Clubs:
		suit = poker.Club
	default:
		return zero, fmt.Errorf("invalid suit in card %s", c)
	}

	// The library counts aces as rank 1.
	rank := poker.Rank(c.Rank)
	if c.Rank == deck.Ace {
		rank = poker.Rank(1)
	}

	return poker.MakeCard(suit, rank)
}
