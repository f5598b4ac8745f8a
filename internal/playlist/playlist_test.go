package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExplicitRepeats(t *testing.T) {
	entries, err := Parse([]byte("1 1\n2 2\n3 3"), 1)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{1, 1}, {2, 2}, {3, 3}}, entries)
}

func TestParseDefaultRepeats(t *testing.T) {
	entries, err := Parse([]byte("1\n3 2\n1\n2 2"), 1)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{1, 1}, {3, 2}, {1, 1}, {2, 2}}, entries)
}

func TestParseConfiguredDefaultRepeats(t *testing.T) {
	entries, err := Parse([]byte("1\n2"), 3)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{1, 3}, {2, 3}}, entries)
}

func TestParseIgnoresBlankLines(t *testing.T) {
	entries, err := Parse([]byte("\n1\n\n  \n2 2\n\n"), 1)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{1, 1}, {2, 2}}, entries)
}

func TestParseEmpty(t *testing.T) {
	entries, err := Parse(nil, 1)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]string{
		"too many fields":     "1 2 3",
		"non-integer frame":   "one",
		"zero frame":          "0",
		"negative frame":      "-1",
		"non-integer repeats": "1 x",
		"zero repeats":        "2 0",
		"negative repeats":    "2 -4",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(input), 1)
			assert.ErrorIs(t, err, ErrMalformedEntry)
		})
	}
}

func TestSequential(t *testing.T) {
	assert.Equal(t, []Entry{{1, 1}, {2, 1}, {3, 1}}, Sequential(3))
	assert.Empty(t, Sequential(0))
}

func TestValidate(t *testing.T) {
	entries := []Entry{{1, 1}, {3, 2}, {1, 1}}
	assert.NoError(t, Validate(entries, 3))
	assert.ErrorIs(t, Validate(entries, 2), ErrFrameOutOfRange)
	assert.ErrorIs(t, Validate([]Entry{{4, 1}}, 3), ErrFrameOutOfRange)
	assert.NoError(t, Validate(nil, 0))
}
