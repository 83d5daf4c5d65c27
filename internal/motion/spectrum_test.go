package motion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowerSpectrumDominant(t *testing.T) {
	const fps = 50.0
	data := make([]float64, 100)
	for i := range data {
		data[i] = 0.3 + 0.5*math.Sin(2*math.Pi*2*float64(i)/fps)
	}

	s := PowerSpectrum(data, fps)
	require.Len(t, s.Power, 51)
	assert.InDelta(t, 0.5, s.Resolution, 1e-12)
	assert.InDelta(t, 0, s.Power[0], 1e-9, "mean removed")
	assert.InDelta(t, 2.0, s.Dominant(), 1e-12)
}

func TestPowerSpectrumDegenerate(t *testing.T) {
	assert.Empty(t, PowerSpectrum(nil, 50).Power)
	assert.Empty(t, PowerSpectrum([]float64{1, 2}, 0).Power)

	flat := PowerSpectrum([]float64{1, 1, 1, 1}, 50)
	assert.Zero(t, flat.Dominant())
}
