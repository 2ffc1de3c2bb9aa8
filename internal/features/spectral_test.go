package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSpectralPureSine(t *testing.T) {
	const (
		n            = 64
		samplingRate = 64.0
		freq         = 8.0
	)

	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * freq * float64(i) / samplingRate)
	}

	spectral := ExtractSpectral(data, samplingRate)
	assert.InDelta(t, freq, spectral.DominantFrequency, 1e-9)
}

func TestExtractSpectralEntropyOrdering(t *testing.T) {
	const n = 64

	// Чистый тон концентрирует энергию, шумоподобный сигнал размазывает
	tone := make([]float64, n)
	spread := make([]float64, n)
	for i := range tone {
		tone[i] = math.Sin(2 * math.Pi * 4 * float64(i) / float64(n))
		spread[i] = math.Sin(2*math.Pi*3*float64(i)/float64(n)) +
			0.8*math.Sin(2*math.Pi*7*float64(i)/float64(n)) +
			0.6*math.Sin(2*math.Pi*13*float64(i)/float64(n)) +
			0.4*math.Sin(2*math.Pi*21*float64(i)/float64(n))
	}

	toneEntropy := ExtractSpectral(tone, float64(n)).SpectralEntropy
	spreadEntropy := ExtractSpectral(spread, float64(n)).SpectralEntropy
	assert.Less(t, toneEntropy, spreadEntropy)
}

func TestExtractSpectralEmpty(t *testing.T) {
	spectral := ExtractSpectral(nil, 100)
	assert.Equal(t, 0.0, spectral.SpectralEntropy)
	assert.Equal(t, 0.0, spectral.DominantFrequency)
}
