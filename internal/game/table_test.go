package game

import (
	"fmt"
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokerhaus/pokerhaus/internal/deck"
	"github.com/pokerhaus/pokerhaus/internal/evaluator"
)

// rankByFirstHoleCard makes showdowns deterministic in tests: the hand
// with the highest-ranked first hole card wins, ties split.
func rankByFirstHoleCard(hole, _ []deck.Card) (evaluator.Strength, error) {
	return evaluator.Strength(hole[0].Rank), nil
}

func testTable(t *testing.T, seats int, cards ...string) *Table {
	t.Helper()
	rng := rand.New(rand.NewPCG(1, 2))
	opts := []Option{WithRankFunc(rankByFirstHoleCard)}
	if len(cards) > 0 {
		opts = append(opts, WithDeck(deck.NewStacked(deck.MustParseAll(cards...)...)))
	}
	tbl := NewTable(rng, Config{SmallBlind: 5, BigBlind: 10, StartingChips: 1000}, opts...)
	for i := 0; i < seats; i++ {
		_, err := tbl.SeatPlayer(fmt.Sprintf("p%d", i))
		require.NoError(t, err)
	}
	return tbl
}

// threeHandedDeck deals seat 1, seat 2, seat 0 in order (clockwise from
// the seat left of the first-hand button) and then the board.
func threeHandedDeck() []string {
	return []string{
		"2s", "3s", // seat 1
		"4h", "5h", // seat 2
		"6d", "7d", // seat 0
		"Ks", "Qd", "Jc", "9h", "8c", // board
	}
}

func totalChips(tbl *Table) int {
	total := tbl.Pot()
	for _, p := range tbl.Players() {
		total += p.Chips
	}
	return total
}

func TestStartHandPositionsThreeHanded(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 3, threeHandedDeck()...)
	require.NoError(t, tbl.StartHand())

	assert.Equal(t, Preflop, tbl.Stage())
	assert.Equal(t, 1, tbl.HandNo())
	assert.Equal(t, 0, tbl.DealerSeat())
	assert.Equal(t, 1, tbl.SmallBlindSeat())
	assert.Equal(t, 2, tbl.BigBlindSeat())
	assert.Equal(t, 0, tbl.UnderTheGunSeat())
	assert.Equal(t, 0, tbl.ActionSeat())

	assert.Equal(t, 10, tbl.CurrentBet())
	assert.Equal(t, 10, tbl.MinRaise())
	assert.Equal(t, 15, tbl.Pot())

	assert.Equal(t, deck.MustParseAll("2s", "3s"), tbl.PlayerAt(1).HoleCards)
	assert.Equal(t, deck.MustParseAll("4h", "5h"), tbl.PlayerAt(2).HoleCards)
	assert.Equal(t, deck.MustParseAll("6d", "7d"), tbl.PlayerAt(0).HoleCards)
	assert.Empty(t, tbl.Board())
}

func TestHeadsUpDealerPostsSmallBlindAndActsFirst(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 2,
		"2s", "3s", // seat 1
		"4h", "5h", // seat 0
		"Ks", "Qd", "Jc", "9h", "8c",
	)
	require.NoError(t, tbl.StartHand())

	assert.Equal(t, 0, tbl.DealerSeat())
	assert.Equal(t, 0, tbl.SmallBlindSeat())
	assert.Equal(t, 1, tbl.BigBlindSeat())
	assert.Equal(t, 0, tbl.ActionSeat())

	require.NoError(t, tbl.Apply(0, Call, 0))
	require.NoError(t, tbl.Apply(1, Check, 0))

	// Postflop the first active seat left of the button acts first,
	// heads-up included.
	assert.Equal(t, Flop, tbl.Stage())
	assert.Equal(t, 1, tbl.ActionSeat())
	assert.Len(t, tbl.Board(), 3)
}

func TestDealerRotatesBetweenHands(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 3, threeHandedDeck()...)
	require.NoError(t, tbl.StartHand())
	require.NoError(t, tbl.Apply(0, Fold, 0))
	require.NoError(t, tbl.Apply(1, Fold, 0))
	require.Equal(t, Waiting, tbl.Stage())

	require.NoError(t, tbl.StartHand())
	assert.Equal(t, 2, tbl.HandNo())
	assert.Equal(t, 1, tbl.DealerSeat())
	assert.Equal(t, 2, tbl.SmallBlindSeat())
	assert.Equal(t, 0, tbl.BigBlindSeat())
	assert.Equal(t, 1, tbl.UnderTheGunSeat())
}

func TestWrongTurnRejectedWithoutMutation(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 3, threeHandedDeck()...)
	require.NoError(t, tbl.StartHand())

	err := tbl.Apply(1, Call, 0)
	assert.ErrorIs(t, err, ErrIllegalAction)
	assert.Equal(t, 0, tbl.ActionSeat())
	assert.Equal(t, 15, tbl.Pot())
	assert.Equal(t, 5, tbl.PlayerAt(1).Bet)
}

func TestCheckRequiresMatchedBet(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 3, threeHandedDeck()...)
	require.NoError(t, tbl.StartHand())

	err := tbl.Apply(0, Check, 0)
	assert.ErrorIs(t, err, ErrIllegalAction)

	require.NoError(t, tbl.Apply(0, Call, 0))
	require.NoError(t, tbl.Apply(1, Call, 0))
	// Big blind already matches the bet and may close with a check.
	require.NoError(t, tbl.Apply(2, Check, 0))
	assert.Equal(t, Flop, tbl.Stage())
	assert.Equal(t, 30, tbl.Pot())
}

func TestCallWithNothingOwedRejected(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 3, threeHandedDeck()...)
	require.NoError(t, tbl.StartHand())
	require.NoError(t, tbl.Apply(0, Call, 0))
	require.NoError(t, tbl.Apply(1, Call, 0))
	require.NoError(t, tbl.Apply(2, Check, 0))
	require.Equal(t, Flop, tbl.Stage())

	err := tbl.Apply(1, Call, 0)
	assert.ErrorIs(t, err, ErrIllegalAction)
	require.NoError(t, tbl.Apply(1, Check, 0))
}

func TestRaiseValidation(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 3, threeHandedDeck()...)
	require.NoError(t, tbl.StartHand())

	// Raise-to must exceed the current bet level.
	assert.ErrorIs(t, tbl.Apply(0, Raise, 10), ErrIllegalAction)
	// Below the minimum increment and not an all-in.
	assert.ErrorIs(t, tbl.Apply(0, Raise, 15), ErrIllegalAction)
	// Beyond the stack.
	assert.ErrorIs(t, tbl.Apply(0, Raise, 2000), ErrIllegalAction)

	require.NoError(t, tbl.Apply(0, Raise, 30))
	assert.Equal(t, 30, tbl.CurrentBet())
	assert.Equal(t, 20, tbl.MinRaise())
	assert.Equal(t, 1, tbl.ActionSeat())

	// Re-raise must add at least the last full increment.
	assert.ErrorIs(t, tbl.Apply(1, Raise, 45), ErrIllegalAction)
	require.NoError(t, tbl.Apply(1, Raise, 50))
	assert.Equal(t, 50, tbl.CurrentBet())
	assert.Equal(t, 20, tbl.MinRaise())
}

func TestRaisesStrictlyIncreaseBetLevel(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 3, threeHandedDeck()...)
	require.NoError(t, tbl.StartHand())

	levels := []int{tbl.CurrentBet()}
	require.NoError(t, tbl.Apply(0, Raise, 30))
	levels = append(levels, tbl.CurrentBet())
	require.NoError(t, tbl.Apply(1, Raise, 60))
	levels = append(levels, tbl.CurrentBet())
	require.NoError(t, tbl.Apply(2, Raise, 120))
	levels = append(levels, tbl.CurrentBet())

	for i := 1; i < len(levels); i++ {
		assert.Greater(t, levels[i], levels[i-1])
	}
}

func TestShortCallGoesAllIn(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 3,
		"2s", "3s", // seat 1
		"Ah", "5h", // seat 2
		"Kd", "7d", // seat 0
		"Qs", "Jd", "Tc", "9h", "8c",
	)
	tbl.PlayerAt(2).Chips = 100
	require.NoError(t, tbl.StartHand())

	require.NoError(t, tbl.Apply(0, Raise, 200))
	require.NoError(t, tbl.Apply(1, Fold, 0))
	// Seat 2 calls with only 90 behind: all-in for less.
	require.NoError(t, tbl.Apply(2, Call, 0))

	// Everyone able to act is done; the board runs out and seat 2's ace
	// takes the pot. Seat 0's uncalled 100 comes back first.
	assert.Equal(t, Waiting, tbl.Stage())
	assert.Equal(t, 205, tbl.PlayerAt(2).Chips)
	assert.Equal(t, 900, tbl.PlayerAt(0).Chips)
	assert.Equal(t, 995, tbl.PlayerAt(1).Chips)
	assert.True(t, tbl.PlayerAt(2).AllIn)
}

func TestAllInPlayersRunBoardOutWithoutAction(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 2,
		"Ah", "2h", // seat 1, covered
		"Kd", "3d", // seat 0
		"4s", "5s", "6s", "7d", "9d",
	)
	tbl.PlayerAt(1).Chips = 50
	require.NoError(t, tbl.StartHand())

	require.NoError(t, tbl.Apply(0, Raise, 50))
	require.NoError(t, tbl.Apply(1, Call, 0))

	// With seat 1 all in, seat 0 is never offered action on the later
	// streets: the full board is dealt and the hand settles in one pass.
	assert.Equal(t, Waiting, tbl.Stage())
	assert.Equal(t, -1, tbl.ActionSeat())
	assert.Len(t, tbl.Board(), 5)
	assert.Len(t, tbl.Reveal(), 2)
	assert.Equal(t, 100, tbl.PlayerAt(1).Chips)
	assert.Equal(t, 950, tbl.PlayerAt(0).Chips)
}

func TestSubMinimumAllInDoesNotReopenAction(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 3, threeHandedDeck()...)
	require.NoError(t, tbl.StartHand())
	// Small blind has 40 total for the street (5 posted + 35 behind).
	tbl.PlayerAt(1).Chips = 35

	require.NoError(t, tbl.Apply(0, Raise, 30))
	require.Equal(t, 20, tbl.MinRaise())

	// All-in to 40 is below the 20-chip minimum increment: accepted,
	// but the raise increment stands and seat 0 is not re-offered action.
	require.NoError(t, tbl.Apply(1, Raise, 40))
	assert.Equal(t, 40, tbl.CurrentBet())
	assert.Equal(t, 20, tbl.MinRaise())
	assert.Equal(t, 2, tbl.ActionSeat())

	require.NoError(t, tbl.Apply(2, Call, 0))
	assert.Equal(t, Flop, tbl.Stage())
	assert.Equal(t, 30, tbl.PlayerAt(0).HandBet)
	assert.Equal(t, 2, tbl.ActionSeat())
}

func TestFoldOutAwardsUncontestedPot(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 3, threeHandedDeck()...)
	require.NoError(t, tbl.StartHand())

	require.NoError(t, tbl.Apply(0, Fold, 0))
	require.NoError(t, tbl.Apply(1, Fold, 0))

	// Big blind keeps the uncalled part of the blind and wins the rest.
	assert.Equal(t, Waiting, tbl.Stage())
	assert.Equal(t, 1005, tbl.PlayerAt(2).Chips)
	assert.Equal(t, 995, tbl.PlayerAt(1).Chips)
	assert.Equal(t, 1000, tbl.PlayerAt(0).Chips)
	assert.Empty(t, tbl.Reveal())
	assert.Equal(t, 3000, totalChips(tbl))
}

func TestPotAndBetsClearWhenHandEnds(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 3, threeHandedDeck()...)
	require.NoError(t, tbl.StartHand())
	require.NoError(t, tbl.Apply(0, Fold, 0))
	require.NoError(t, tbl.Apply(1, Fold, 0))
	require.Equal(t, Waiting, tbl.Stage())

	// Settled chips live in stacks only: between hands the pot and every
	// per-player bet read zero, so conservation sums the stacks alone.
	assert.Equal(t, 0, tbl.Pot())
	snap := tbl.Snapshot()
	assert.Equal(t, 0, snap.Pot)
	for _, p := range snap.Players {
		assert.Equal(t, 0, p.Bet)
		assert.Equal(t, 0, p.TotalBet)
	}
	assert.Equal(t, 3000, totalChips(tbl))
}

func TestShowdownAwardsPotAndConservesChips(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 3, threeHandedDeck()...)
	require.NoError(t, tbl.StartHand())

	require.NoError(t, tbl.Apply(0, Call, 0))
	require.NoError(t, tbl.Apply(1, Call, 0))
	require.NoError(t, tbl.Apply(2, Check, 0))

	for _, seat := range []int{1, 2, 0} { // flop
		require.NoError(t, tbl.Apply(seat, Check, 0))
	}
	for _, seat := range []int{1, 2, 0} { // turn
		require.NoError(t, tbl.Apply(seat, Check, 0))
	}

	require.Equal(t, River, tbl.Stage())
	require.NoError(t, tbl.Apply(1, Raise, 20))
	require.NoError(t, tbl.Apply(2, Call, 0))
	require.NoError(t, tbl.Apply(0, Call, 0))

	// Seat 0 holds the best hand under the test evaluator.
	assert.Equal(t, Waiting, tbl.Stage())
	assert.Equal(t, 1060, tbl.PlayerAt(0).Chips)
	assert.Equal(t, 970, tbl.PlayerAt(1).Chips)
	assert.Equal(t, 970, tbl.PlayerAt(2).Chips)
	assert.Equal(t, 3000, totalChips(tbl))
	assert.Len(t, tbl.Reveal(), 3)
}

func TestSidePotsSettleByContributionLevel(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 3,
		"Ah", "2h", // seat 1: best hand, short stack
		"2c", "3c", // seat 2: worst hand, big stack
		"Kd", "2d", // seat 0: middle hand
		"5s", "6s", "7s", "8d", "9d",
	)
	tbl.PlayerAt(0).Chips = 100
	tbl.PlayerAt(1).Chips = 50
	tbl.PlayerAt(2).Chips = 200
	require.NoError(t, tbl.StartHand())

	require.NoError(t, tbl.Apply(0, Raise, 100)) // all-in
	require.NoError(t, tbl.Apply(1, Call, 0))    // all-in for 50
	require.NoError(t, tbl.Apply(2, Raise, 200)) // covers everyone

	// Seat 2's uncalled 100 returns. Main pot 150 goes to seat 1's ace;
	// the 100 side pot is contested by seats 0 and 2 only and goes to
	// seat 0's king.
	assert.Equal(t, Waiting, tbl.Stage())
	assert.Equal(t, 150, tbl.PlayerAt(1).Chips)
	assert.Equal(t, 100, tbl.PlayerAt(0).Chips)
	assert.Equal(t, 100, tbl.PlayerAt(2).Chips)
	assert.Equal(t, 350, totalChips(tbl))
}

func TestTiedShowdownSplitsWithOddChipLeftOfDealer(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 3,
		"2s", "3d", // seat 1: folds preflop
		"Qc", "4d", // seat 2
		"Qd", "5c", // seat 0: ties with seat 2
		"6h", "7h", "8s", "9c", "Kh",
	)
	require.NoError(t, tbl.StartHand())

	require.NoError(t, tbl.Apply(0, Call, 0))
	require.NoError(t, tbl.Apply(1, Fold, 0))
	require.NoError(t, tbl.Apply(2, Check, 0))

	for _, seat := range []int{2, 0} { // flop
		require.NoError(t, tbl.Apply(seat, Check, 0))
	}
	for _, seat := range []int{2, 0} { // turn
		require.NoError(t, tbl.Apply(seat, Check, 0))
	}
	for _, seat := range []int{2, 0} { // river
		require.NoError(t, tbl.Apply(seat, Check, 0))
	}

	// 25-chip pot, two-way tie: 12 each, odd chip to the first winner
	// clockwise of the button.
	assert.Equal(t, 1002, tbl.PlayerAt(0).Chips)
	assert.Equal(t, 1003, tbl.PlayerAt(2).Chips)
	assert.Equal(t, 995, tbl.PlayerAt(1).Chips)
	assert.Equal(t, 3000, totalChips(tbl))
}

func TestBigBlindShortAllInKeepsBetLevel(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 2,
		"Ah", "3s", // seat 1 (big blind)
		"4h", "5h", // seat 0
		"Ks", "Qd", "Jc", "9h", "8c",
	)
	tbl.PlayerAt(1).Chips = 4
	require.NoError(t, tbl.StartHand())

	// The short blind post does not lower the preflop bet level.
	assert.True(t, tbl.PlayerAt(1).AllIn)
	assert.Equal(t, 10, tbl.CurrentBet())
	assert.Equal(t, 0, tbl.ActionSeat())

	require.NoError(t, tbl.Apply(0, Call, 0))

	// Board runs out; the blind's ace wins the 8-chip pot, the rest of
	// seat 0's call comes back uncalled.
	assert.Equal(t, Waiting, tbl.Stage())
	assert.Equal(t, 8, tbl.PlayerAt(1).Chips)
	assert.Equal(t, 996, tbl.PlayerAt(0).Chips)
}

func TestBuyinOnlyBetweenHands(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 2, threeHandedDeck()...)

	require.NoError(t, tbl.Buyin(0, 500))
	assert.Equal(t, 1500, tbl.PlayerAt(0).Chips)
	assert.Equal(t, 1500, tbl.PlayerAt(0).BuyinTotal)

	assert.ErrorIs(t, tbl.Buyin(0, 0), ErrIllegalAction)
	assert.ErrorIs(t, tbl.Buyin(7, 100), ErrIllegalAction)

	require.NoError(t, tbl.StartHand())
	assert.ErrorIs(t, tbl.Buyin(0, 100), ErrBuyinWindowClosed)
}

func TestLeaveMidHandDefersVacate(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 3, threeHandedDeck()...)
	require.NoError(t, tbl.StartHand())

	err := tbl.Leave(2)
	assert.ErrorIs(t, err, ErrSeatLocked)
	require.NotNil(t, tbl.PlayerAt(2))
	assert.True(t, tbl.PlayerAt(2).Leaving)

	require.NoError(t, tbl.Apply(0, Fold, 0))
	require.NoError(t, tbl.Apply(1, Fold, 0))

	assert.Nil(t, tbl.PlayerAt(2))
	assert.Len(t, tbl.Players(), 2)
}

func TestStartHandErrors(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 1)
	assert.ErrorIs(t, tbl.StartHand(), ErrNotEnoughPlayers)

	tbl = testTable(t, 2, threeHandedDeck()...)
	require.NoError(t, tbl.StartHand())
	assert.ErrorIs(t, tbl.StartHand(), ErrHandInProgress)
}

func TestCanStartRequiresEveryoneReady(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 3)
	assert.False(t, tbl.CanStart())

	tbl.SetReady(0, true)
	tbl.SetReady(1, true)
	assert.False(t, tbl.CanStart())

	tbl.SetReady(2, true)
	assert.True(t, tbl.CanStart())
}

func TestReadyClearedAfterHand(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 2, threeHandedDeck()...)
	tbl.SetReady(0, true)
	tbl.SetReady(1, true)
	require.NoError(t, tbl.StartHand())
	require.NoError(t, tbl.Apply(0, Fold, 0))

	assert.Equal(t, Waiting, tbl.Stage())
	assert.False(t, tbl.PlayerAt(0).Ready)
	assert.False(t, tbl.PlayerAt(1).Ready)
	assert.False(t, tbl.CanStart())
}

func TestExhaustedDeckAbortsHandWithoutChipMovement(t *testing.T) {
	t.Parallel()

	tbl := testTable(t, 2, "2s", "3s", "4h")
	err := tbl.StartHand()
	require.Error(t, err)

	assert.Equal(t, Waiting, tbl.Stage())
	assert.Equal(t, 0, tbl.Pot())
	assert.Equal(t, 1000, tbl.PlayerAt(0).Chips)
	assert.Equal(t, 1000, tbl.PlayerAt(1).Chips)
}
