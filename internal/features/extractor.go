// Package features сводит сырой временной ряд канала датчика к фиксированному
// статистическому вектору. Преобразование детерминированное и применяется
// одинаково к любому каналу независимо от происхождения данных.
package features

import (
	"math"

	"rul-monitor/internal/models"
	"rul-monitor/pkg/utils"
)

// Extract8 вычисляет канонические 8 фичей для окна одного канала:
// RMS, Peak, Mean, Std, Kurtosis, Skewness, Crest Factor, Entropy.
// Вырожденные случаи (длина <= 1, нулевая дисперсия) дают определенные
// нулевые значения вместо ошибок.
func Extract8(data []float64) models.FeatureVector8 {
	rms := utils.SafeFloat(utils.RMS(data))
	peak := utils.SafeFloat(utils.Peak(data))
	mean := utils.SafeFloat(utils.Mean(data))
	stdDev := utils.SafeFloat(utils.StdDev(data))

	// Коэффициенты формы определены только при ненулевой дисперсии
	kurtosis := 0.0
	skewness := 0.0
	if len(data) > 1 && stdDev > 0 {
		m2 := utils.CentralMoment(data, 2)
		m3 := utils.CentralMoment(data, 3)
		m4 := utils.CentralMoment(data, 4)
		kurtosis = m4/(m2*m2) - 3.0 // эксцесс по Фишеру
		skewness = m3 / (m2 * stdDev)
	}

	crestFactor := 0.0
	if rms > 0 {
		crestFactor = peak / rms
	}

	return models.FeatureVector8{
		RMS:         rms,
		Peak:        peak,
		Mean:        mean,
		StdDev:      stdDev,
		Kurtosis:    kurtosis,
		Skewness:    skewness,
		CrestFactor: crestFactor,
		Entropy:     histogramEntropy(data),
	}
}

// histogramEntropy энтропия Шеннона гистограммы сигнала.
// Бинов не больше min(50, n/2); пустые бины отбрасываются перед
// нормировкой; меньше двух непустых бинов — энтропия 0.
func histogramEntropy(data []float64) float64 {
	if len(data) <= 1 {
		return 0.0
	}

	bins := len(data) / 2
	if bins > 50 {
		bins = 50
	}
	if bins < 1 {
		return 0.0
	}

	counts := utils.Histogram(data, bins)

	nonZero := make([]float64, 0, len(counts))
	for _, c := range counts {
		if c > 0 {
			nonZero = append(nonZero, float64(c))
		}
	}
	if len(nonZero) < 2 {
		return 0.0
	}

	return utils.ShannonEntropy(nonZero)
}

// Magnitude евклидова магнитуда трех осей акселерометра по сэмплам
func Magnitude(x, y, z []float64) []float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if len(z) < n {
		n = len(z)
	}

	magnitude := make([]float64, n)
	for i := 0; i < n; i++ {
		magnitude[i] = math.Sqrt(x[i]*x[i] + y[i]*y[i] + z[i]*z[i])
	}
	return magnitude
}
