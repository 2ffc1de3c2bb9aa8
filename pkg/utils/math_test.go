package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanAndRMS(t *testing.T) {
	data := []float64{1, 2, 3, 4}

	assert.InDelta(t, 2.5, Mean(data), 1e-12)
	assert.InDelta(t, math.Sqrt(7.5), RMS(data), 1e-12)
	assert.True(t, math.IsNaN(Mean(nil)))
	assert.True(t, math.IsNaN(RMS(nil)))
}

func TestPeakUsesAbsoluteValue(t *testing.T) {
	assert.InDelta(t, 5.0, Peak([]float64{1, -5, 3}), 1e-12)
	assert.InDelta(t, 0.0, Peak([]float64{0, 0}), 1e-12)
}

func TestStdDevIsPopulation(t *testing.T) {
	// Популяционное отклонение: деление на n, не на n-1
	assert.InDelta(t, math.Sqrt(1.25), StdDev([]float64{1, 2, 3, 4}), 1e-12)
	assert.InDelta(t, 0.0, StdDev([]float64{7, 7, 7}), 1e-12)
}

func TestCentralMoment(t *testing.T) {
	data := []float64{1, 2, 3, 4}

	assert.InDelta(t, 1.25, CentralMoment(data, 2), 1e-12)
	assert.InDelta(t, 0.0, CentralMoment(data, 3), 1e-12)
	assert.InDelta(t, 2.5625, CentralMoment(data, 4), 1e-12)
}

func TestSafeFloat(t *testing.T) {
	assert.Equal(t, 0.0, SafeFloat(math.NaN()))
	assert.Equal(t, 0.0, SafeFloat(math.Inf(1)))
	assert.Equal(t, 0.0, SafeFloat(math.Inf(-1)))
	assert.Equal(t, 3.14, SafeFloat(3.14))
}

func TestHistogram(t *testing.T) {
	counts := Histogram([]float64{1, 2, 3, 4}, 2)
	assert.Equal(t, []int{2, 2}, counts)

	// Правая граница попадает в последний бин
	counts = Histogram([]float64{0, 0.25, 1}, 2)
	assert.Equal(t, []int{2, 1}, counts)

	// Вырожденный диапазон: все значения в первом бине
	counts = Histogram([]float64{5, 5, 5}, 4)
	assert.Equal(t, []int{3, 0, 0, 0}, counts)

	assert.Nil(t, Histogram(nil, 3))
	assert.Nil(t, Histogram([]float64{1}, 0))
}

func TestShannonEntropy(t *testing.T) {
	// Равномерное распределение двух исходов: ln(2)
	assert.InDelta(t, math.Log(2), ShannonEntropy([]float64{1, 1}), 1e-12)

	// Ненормированные веса эквивалентны нормированным
	assert.InDelta(t, ShannonEntropy([]float64{0.5, 0.5}), ShannonEntropy([]float64{10, 10}), 1e-12)

	// Нулевые веса отбрасываются
	assert.InDelta(t, math.Log(2), ShannonEntropy([]float64{1, 0, 1}), 1e-12)

	// Один исход — нулевая неопределенность
	assert.Equal(t, 0.0, ShannonEntropy([]float64{5}))
	assert.Equal(t, 0.0, ShannonEntropy(nil))
}
