package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoredDirection(t *testing.T) {
	assert.Equal(t, 0.0, StoredDirection(359.9996))
	assert.Equal(t, 359.999, StoredDirection(359.9994))
	assert.Equal(t, 12.346, StoredDirection(12.3456))
	assert.Equal(t, 0.0, StoredDirection(0))
}

func TestObservationWrapsStoredNorth(t *testing.T) {
	h := &Hornet{Latitude: 50, Longitude: 4, Direction: 360}
	obs := h.Observation()
	assert.Equal(t, 0.0, obs.BearingDeg)
	assert.NoError(t, obs.Validate())
}
