package utils

import (
	"math"
)

// SafeFloat заменяет NaN и Inf на ноль
func SafeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.0
	}
	return v
}

// Mean вычисляет среднее значение
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// RMS вычисляет среднеквадратичное значение (энергию сигнала)
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	sumSquares := 0.0
	for _, v := range data {
		sumSquares += v * v
	}
	return math.Sqrt(sumSquares / float64(len(data)))
}

// Peak находит максимальную абсолютную амплитуду
func Peak(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	peak := 0.0
	for _, v := range data {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// StdDev вычисляет стандартное отклонение по всей выборке (популяционное)
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	mean := Mean(data)
	sumSquares := 0.0
	for _, v := range data {
		diff := v - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(data)))
}

// CentralMoment вычисляет центральный момент порядка k
func CentralMoment(data []float64, k int) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	mean := Mean(data)
	sum := 0.0
	for _, v := range data {
		sum += math.Pow(v-mean, float64(k))
	}
	return sum / float64(len(data))
}

// Min находит минимальное значение
func Min(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	min := data[0]
	for _, v := range data[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max находит максимальное значение
func Max(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	max := data[0]
	for _, v := range data[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Histogram строит гистограмму с равными интервалами по диапазону данных.
// Последний интервал включает правую границу. Возвращает счетчики по бинам.
func Histogram(data []float64, bins int) []int {
	if len(data) == 0 || bins <= 0 {
		return nil
	}

	lo, hi := Min(data), Max(data)
	counts := make([]int, bins)

	// Вырожденный диапазон: все значения в одном бине
	if hi == lo {
		counts[0] = len(data)
		return counts
	}

	width := (hi - lo) / float64(bins)
	for _, v := range data {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	return counts
}

// ShannonEntropy вычисляет энтропию Шеннона распределения (натуральный логарифм).
// Вход не обязан быть нормированным: нулевые веса отбрасываются, остальные
// нормируются к вероятностям.
func ShannonEntropy(weights []float64) float64 {
	sum := 0.0
	for _, w := range weights {
		if w > 0 {
			sum += w
		}
	}
	if sum == 0 {
		return 0.0
	}

	entropy := 0.0
	for _, w := range weights {
		if w > 0 {
			p := w / sum
			entropy -= p * math.Log(p)
		}
	}
	return entropy
}
