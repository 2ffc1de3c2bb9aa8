package features

import (
	"math"

	"rul-monitor/pkg/utils"
)

// SpectralFeatures частотные характеристики сигнала. Отдельная операция:
// канонический 8-фичевый контракт остается минимальным и стабильным.
type SpectralFeatures struct {
	SpectralEntropy   float64 `json:"spectral_entropy"`
	DominantFrequency float64 `json:"dominant_frequency"`
}

// ExtractSpectral вычисляет спектральную энтропию и доминирующую частоту.
// samplingRate — частота дискретизации сигнала, Гц.
func ExtractSpectral(data []float64, samplingRate float64) SpectralFeatures {
	n := len(data)
	if n == 0 {
		return SpectralFeatures{}
	}

	psd := powerSpectrum(data)

	// Энтропия Шеннона нормированного спектра мощности,
	// нулевые бины исключаются
	entropy := utils.ShannonEntropy(psd)

	// Доминирующая частота: бин максимальной мощности среди
	// неотрицательных частот
	half := n / 2
	if half < 1 {
		half = 1
	}
	maxIdx := 0
	for i := 1; i < half; i++ {
		if psd[i] > psd[maxIdx] {
			maxIdx = i
		}
	}
	dominantFreq := float64(maxIdx) * samplingRate / float64(n)

	return SpectralFeatures{
		SpectralEntropy:   utils.SafeFloat(entropy),
		DominantFrequency: dominantFreq,
	}
}

// powerSpectrum спектр мощности |X_k|^2 прямым дискретным преобразованием
// Фурье. Окна здесь короткие (сотни сэмплов), квадратичная сложность
// приемлема и не требует ограничений на длину окна.
func powerSpectrum(data []float64) []float64 {
	n := len(data)
	psd := make([]float64, n)

	for k := 0; k < n; k++ {
		re, im := 0.0, 0.0
		for t := 0; t < n; t++ {
			angle := -2 * math.Pi * float64(k) * float64(t) / float64(n)
			re += data[t] * math.Cos(angle)
			im += data[t] * math.Sin(angle)
		}
		psd[k] = re*re + im*im
	}
	return psd
}
