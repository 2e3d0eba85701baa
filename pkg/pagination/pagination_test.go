package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	require.Equal(t, DefaultLimit, NormalizeLimit(0))
	require.Equal(t, DefaultLimit, NormalizeLimit(-5))
	require.Equal(t, 50, NormalizeLimit(50))
	require.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
}

func TestNormalize(t *testing.T) {
	got := Normalize(Params{Skip: -10, Limit: 5000})
	require.Equal(t, Params{Skip: 0, Limit: MaxLimit}, got)

	got = Normalize(Params{Skip: 200, Limit: 25})
	require.Equal(t, Params{Skip: 200, Limit: 25}, got)
}
