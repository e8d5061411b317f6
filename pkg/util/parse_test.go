package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)

	got, err := ParseTime("", tokyo)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseTime("2025-07-01T10:30", tokyo)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(time.Date(2025, 7, 1, 1, 30, 0, 0, time.UTC)))

	got, err = ParseTime("2025-07-01", tokyo)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Day())

	got, err = ParseTime("2025-07-01T10:30:00Z", tokyo)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 7, 1, 10, 30, 0, 0, time.UTC)))

	_, err = ParseTime("next tuesday", tokyo)
	assert.Error(t, err)
}

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice("")
	require.NoError(t, err)
	assert.False(t, p.Valid)

	p, err = ParsePrice("1,600")
	require.NoError(t, err)
	assert.True(t, p.Valid)
	assert.Equal(t, "1600", p.Decimal.String())

	p, err = ParsePrice("450.5")
	require.NoError(t, err)
	assert.Equal(t, "450.5", p.Decimal.String())

	_, err = ParsePrice("-1")
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = ParsePrice("abc")
	assert.Error(t, err)
}

func TestParseIDs(t *testing.T) {
	ids, err := ParseIDs([]string{"1", " ", "3"})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 3}, ids)

	_, err = ParseIDs([]string{"x"})
	assert.Error(t, err)
}

func TestParseOptionalInt(t *testing.T) {
	v, err := ParseOptionalInt("")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = ParseOptionalInt("7")
	require.NoError(t, err)
	assert.Equal(t, 7, *v)
}
