package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokerhaus/pokerhaus/internal/deck"
)

func TestRankOrdersHandCategories(t *testing.T) {
	t.Parallel()

	board := deck.MustParseAll("2c", "7d", "9h", "Jc", "Qs")

	pair, err := Rank(deck.MustParseAll("Qd", "3h"), board)
	require.NoError(t, err)
	aceHigh, err := Rank(deck.MustParseAll("Ad", "4h"), board)
	require.NoError(t, err)

	assert.Greater(t, pair, aceHigh, "a pair must beat ace high")
}

func TestRankFlushBeatsStraight(t *testing.T) {
	t.Parallel()

	board := deck.MustParseAll("2h", "5h", "9h", "Jc", "Qs")

	flush, err := Rank(deck.MustParseAll("Ah", "Th"), board)
	require.NoError(t, err)
	straight, err := Rank(deck.MustParseAll("Td", "Kd"), board)
	require.NoError(t, err)

	assert.Greater(t, flush, straight)
}

func TestRankTiesWhenBoardPlays(t *testing.T) {
	t.Parallel()

	board := deck.MustParseAll("Ah", "Kh", "Qh", "Jh", "Th")

	a, err := Rank(deck.MustParseAll("2c", "3c"), board)
	require.NoError(t, err)
	b, err := Rank(deck.MustParseAll("7d", "8d"), board)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRankRejectsWrongCardCounts(t *testing.T) {
	t.Parallel()

	board := deck.MustParseAll("2c", "7d", "9h", "Jc", "Qs")

	_, err := Rank(deck.MustParseAll("Ah"), board)
	assert.Error(t, err)

	_, err = Rank(deck.MustParseAll("Ah", "Kd"), board[:4])
	assert.Error(t, err)
}

func TestDescribeNamesTheHand(t *testing.T) {
	t.Parallel()

	board := deck.MustParseAll("2c", "7d", "9h", "Jc", "Qs")
	desc, err := Describe(deck.MustParseAll("Qd", "3h"), board)
	require.NoError(t, err)
	assert.NotEmpty(t, desc)
}
