package settings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = `
; this is a comment
learning_rate = 0.1
epsilon=0.05
use_rave = 1
use_rave = 0
rom = space_invaders
`

func TestParseBasic(t *testing.T) {
	s, err := Parse(strings.NewReader(sample), "sample")
	require.NoError(t, err)

	require.Equal(t, 0.1, s.GetFloatDefault("learning_rate"))
	require.Equal(t, 0.05, s.GetFloatDefault("epsilon"))
	require.False(t, s.GetBoolDefault("use_rave"), "later duplicate key must win")
	require.Equal(t, "space_invaders", s.GetStringDefault("rom"))
}

func TestDefaults(t *testing.T) {
	s, err := Parse(strings.NewReader(""), "empty")
	require.NoError(t, err)

	require.False(t, s.GetBoolDefault("missing"))
	require.Equal(t, -1.0, s.GetFloatDefault("missing"))
	require.Equal(t, -1, s.GetIntDefault("missing"))
	require.Equal(t, "", s.GetStringDefault("missing"))
}

func TestStrictMissing(t *testing.T) {
	s, err := Parse(strings.NewReader(""), "empty")
	require.NoError(t, err)

	_, err = s.GetInt("missing")
	require.Error(t, err)
	var missing *MissingStrictSettingError
	require.ErrorAs(t, err, &missing)
}

func TestSyntaxError(t *testing.T) {
	_, err := Parse(strings.NewReader("not_a_valid_line\n"), "bad")
	require.Error(t, err)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, 1, parseErr.Line)
}

func TestWhitespaceStripped(t *testing.T) {
	s, err := Parse(strings.NewReader("  key  =  value with spaces  \n"), "ws")
	require.NoError(t, err)
	require.Equal(t, "valuewithspaces", s.GetStringDefault("key"))
}
