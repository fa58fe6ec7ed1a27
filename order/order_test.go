package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	t.Parallel()
	assert.True(t, Buy.IsValid())
	assert.True(t, Sell.IsValid())
	assert.False(t, Unknown.IsValid())
	assert.False(t, Side("hold").IsValid())
}

func TestSideFromString(t *testing.T) {
	t.Parallel()
	s, err := SideFromString("buy")
	assert.NoError(t, err)
	assert.Equal(t, Buy, s)

	s, err = SideFromString("SELL")
	assert.NoError(t, err)
	assert.Equal(t, Sell, s)

	_, err = SideFromString("short squeeze")
	assert.ErrorIs(t, err, ErrSideIsInvalid)
}
