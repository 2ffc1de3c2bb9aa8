package services

import (
	"fmt"

	"rul-monitor/internal/models"
)

// Раскладка входа модели: 8 виртуальных подшипниковых каналов по 12
// временных характеристик каждый (формат обучающего датасета NASA).
var (
	modelTimeFeatures = []string{
		"mean", "std", "skew", "kurtosis", "entropy", "rms",
		"max", "p2p", "crest", "clearence", "shape", "impulse",
	}
	modelSensors = []string{
		"B1_x", "B1_y", "B2_x", "B2_y", "B3_x", "B3_y", "B4_x", "B4_y",
	}
)

// BuildModelFeatures собирает плоский именованный вектор входа модели из
// 8-фичевых векторов магнитуды акселерометра и вибродатчика. Каналы x
// питаются акселерометром, каналы y — вибродатчиком.
func BuildModelFeatures(accel, vib models.FeatureVector8) map[string]float64 {
	features := make(map[string]float64, len(modelSensors)*len(modelTimeFeatures))

	for i, sensor := range modelSensors {
		source := accel
		if i%2 == 1 {
			source = vib
		}

		shape := 1.0
		impulse := 1.0
		if source.Mean != 0 {
			shape = source.RMS / source.Mean
			impulse = source.Peak / source.Mean
		}

		mapped := map[string]float64{
			"mean":      source.Mean,
			"std":       source.StdDev,
			"skew":      source.Skewness,
			"kurtosis":  source.Kurtosis,
			"entropy":   source.Entropy,
			"rms":       source.RMS,
			"max":       source.Peak,
			"p2p":       source.Peak, // приближение размаха пиком
			"crest":     source.CrestFactor,
			"clearence": source.CrestFactor * 0.8,
			"shape":     shape,
			"impulse":   impulse,
		}

		for _, name := range modelTimeFeatures {
			features[fmt.Sprintf("%s_%s", sensor, name)] = mapped[name]
		}
	}

	return features
}
