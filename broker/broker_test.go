package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionOpen(t *testing.T) {
	assert.False(t, Position{Instrument: "GBP_JPY"}.Open())
	assert.True(t, Position{Instrument: "GBP_JPY", LongUnits: 1000}.Open())
	assert.True(t, Position{Instrument: "GBP_JPY", ShortUnits: -1000}.Open())
}
