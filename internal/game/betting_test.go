package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "waiting", Waiting.String())
	assert.Equal(t, "preflop", Preflop.String())
	assert.Equal(t, "showdown", ShowdownStage.String())

	assert.False(t, Waiting.Betting())
	assert.True(t, Preflop.Betting())
	assert.True(t, River.Betting())
	assert.False(t, ShowdownStage.Betting())
}

func TestParseActionKind(t *testing.T) {
	t.Parallel()

	for _, kind := range []ActionKind{Fold, Check, Call, Raise} {
		parsed, ok := ParseActionKind(kind.String())
		require.True(t, ok)
		assert.Equal(t, kind, parsed)
	}

	_, ok := ParseActionKind("shove")
	assert.False(t, ok)
}

func TestRoundQueue(t *testing.T) {
	t.Parallel()

	r := newRound([]int{2, 4, 0}, 10, 10)
	assert.Equal(t, 2, r.ActionSeat())
	assert.False(t, r.Closed())

	r.advance(2)
	assert.Equal(t, 4, r.ActionSeat())

	// Folds can remove a seat that is not next to act.
	r.drop(0)
	r.advance(4)
	assert.True(t, r.Closed())
	assert.Equal(t, -1, r.ActionSeat())
}

func TestRoundReopen(t *testing.T) {
	t.Parallel()

	r := newRound([]int{0, 1, 2}, 0, 10)
	r.advance(0)
	r.advance(1)

	// Seat 2 raises: everyone else owes a response again.
	r.reopen([]int{0, 1})
	assert.Equal(t, 0, r.ActionSeat())
	r.advance(0)
	r.advance(1)
	assert.True(t, r.Closed())
}
