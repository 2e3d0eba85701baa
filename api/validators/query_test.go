package validators

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?skip=25", nil)
	got, err := ParseQueryInt(r, "skip", 0, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 25, got)

	got, err = ParseQueryInt(r, "limit", 50, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 50, got)

	r = httptest.NewRequest("GET", "/?skip=abc", nil)
	_, err = ParseQueryInt(r, "skip", 0, 0, 100)
	require.Error(t, err)

	r = httptest.NewRequest("GET", "/?skip=-1", nil)
	_, err = ParseQueryInt(r, "skip", 0, 0, 100)
	require.Error(t, err)
}

func TestParseQueryTime(t *testing.T) {
	r := httptest.NewRequest("GET", "/?at=2026-03-14T12:30:00Z", nil)
	got, err := ParseQueryTime(r, "at")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC), *got)

	r = httptest.NewRequest("GET", "/?at=2026-03-14", nil)
	got, err = ParseQueryTime(r, "at")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), *got)

	r = httptest.NewRequest("GET", "/", nil)
	got, err = ParseQueryTime(r, "at")
	require.NoError(t, err)
	assert.Nil(t, got)

	r = httptest.NewRequest("GET", "/?at=lunchtime", nil)
	_, err = ParseQueryTime(r, "at")
	require.Error(t, err)
}

func TestParseQueryBool(t *testing.T) {
	r := httptest.NewRequest("GET", "/?include_events=true", nil)
	got, err := ParseQueryBool(r, "include_events", false)
	require.NoError(t, err)
	assert.True(t, got)

	r = httptest.NewRequest("GET", "/", nil)
	got, err = ParseQueryBool(r, "include_events", false)
	require.NoError(t, err)
	assert.False(t, got)

	r = httptest.NewRequest("GET", "/?include_events=sure", nil)
	_, err = ParseQueryBool(r, "include_events", false)
	require.Error(t, err)
}
