package deck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	for _, wire := range []string{"2c", "9d", "Th", "Js", "Qh", "Kd", "As"} {
		card, err := Parse(wire)
		require.NoError(t, err)
		assert.Equal(t, wire, card.String())
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, wire := range []string{"", "A", "Ahh", "1s", "Xh", "Ax", "ah"} {
		_, err := Parse(wire)
		assert.Error(t, err, "expected %q to be rejected", wire)
	}
}

func TestCardJSON(t *testing.T) {
	t.Parallel()

	hand := MustParseAll("Ah", "Td")
	data, err := json.Marshal(hand)
	require.NoError(t, err)
	assert.JSONEq(t, `["Ah","Td"]`, string(data))

	var decoded []Card
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, hand, decoded)
}

func TestPrettyUsesGlyphs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "A♥", MustParse("Ah").Pretty())
	assert.Equal(t, "T♠", MustParse("Ts").Pretty())
	assert.True(t, MustParse("9d").Suit.IsRed())
	assert.False(t, MustParse("9c").Suit.IsRed())
}
