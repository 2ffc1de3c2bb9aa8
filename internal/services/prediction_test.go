package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rul-monitor/internal/features"
	"rul-monitor/internal/models"
	"rul-monitor/internal/rul"
)

// fakePredictor возвращает фиксированный скаляр либо заданную ошибку
type fakePredictor struct {
	prediction float64
	err        error
	lastInput  map[string]float64
}

func (p *fakePredictor) Predict(input map[string]float64) (float64, error) {
	p.lastInput = input
	if p.err != nil {
		return 0, p.err
	}
	return p.prediction, nil
}

func makeBatch(n int) *models.SensorBatch {
	batch := &models.SensorBatch{
		Mode:     "test",
		DeviceID: "TEST-001",
		AccelData: models.AccelBatch{
			X: make([]float64, n),
			Y: make([]float64, n),
			Z: make([]float64, n),
		},
		VibData:    make([]float64, n),
		Timestamps: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		v := float64(i) * 0.01
		batch.AccelData.X[i] = v
		batch.AccelData.Y[i] = -v
		batch.AccelData.Z[i] = 1.0 + v
		batch.VibData[i] = 0.1 + v
		batch.Timestamps[i] = float64(i)
	}
	batch.BatchInfo = models.BatchInfo{
		SampleCount: n,
		StartTime:   0,
		EndTime:     float64(n - 1),
		Duration:    float64(n - 1),
	}
	return batch
}

func newTestService(predictor Predictor) *PredictionService {
	return NewPredictionService(predictor, rul.NewFormatter(10), 50)
}

func TestProcessBatchSkipsSmallBatches(t *testing.T) {
	svc := newTestService(&fakePredictor{prediction: 100})

	result, err := svc.ProcessBatch(makeBatch(49))
	require.NoError(t, err) // мало сэмплов — не ошибка
	assert.True(t, result.Skipped)
	assert.Contains(t, result.SkipReason, "need at least 50")
	assert.Nil(t, result.RULPrediction)

	// Последнее предсказание не затирается пропуском
	assert.Equal(t, "waiting", svc.Latest().Status)
}

func TestProcessBatchWithoutModel(t *testing.T) {
	svc := newTestService(nil)

	assert.False(t, svc.ModelAvailable())

	// Деградированный режим: батч подтверждается без предсказания
	result, err := svc.ProcessBatch(makeBatch(60))
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.True(t, result.ModelMissing)
	assert.Contains(t, result.SkipReason, "model unavailable")
	assert.Nil(t, result.RULPrediction)
	assert.Equal(t, "waiting", svc.Latest().Status)

	// Прямые предсказания без модели остаются ошибкой
	_, err = svc.PredictFromChannels([]float64{0.1}, []float64{0.2})
	assert.ErrorIs(t, err, ErrModelUnavailable)

	_, err = svc.PredictFromFeatures(make([]float64, 16))
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestProcessBatchFullPipeline(t *testing.T) {
	// 6 единиц * 10 минут = 1 час остаточного ресурса
	predictor := &fakePredictor{prediction: 6}
	svc := newTestService(predictor)

	result, err := svc.ProcessBatch(makeBatch(60))
	require.NoError(t, err)
	require.NotNil(t, result.RULPrediction)

	assert.False(t, result.Skipped)
	assert.InDelta(t, 1.0, result.RULPrediction.ValueHours, 1e-9)
	assert.Equal(t, "⚫ CRITICAL (<12 hours)", result.HealthStatus)

	require.NotNil(t, result.FeatureExtraction)
	assert.Equal(t, 32, result.FeatureExtraction.TotalFeaturesExtracted)
	assert.Len(t, result.FeatureExtraction.AccelXFeatures, 8)
	assert.Len(t, result.FeatureExtraction.VibrationFeatures, 8)
	assert.Len(t, result.FeatureExtraction.AccelMagnitudeFeatures, 8)

	// Модель получила полную раскладку входа
	assert.Len(t, predictor.lastInput, 96)

	// Успех опубликован как последнее предсказание
	latest := svc.Latest()
	assert.Equal(t, "success", latest.Status)
	assert.Equal(t, 60, latest.SampleCount)
	assert.Equal(t, "test", latest.Mode)
	require.NotNil(t, latest.RULPrediction)
	assert.InDelta(t, 1.0, latest.RULPrediction.ValueHours, 1e-9)
}

func TestProcessBatchPredictorError(t *testing.T) {
	svc := newTestService(&fakePredictor{err: errors.New("соединение разорвано")})

	_, err := svc.ProcessBatch(makeBatch(60))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "соединение разорвано")
}

func TestPredictFromFeaturesValidatesLength(t *testing.T) {
	svc := newTestService(&fakePredictor{prediction: 144})

	_, err := svc.PredictFromFeatures(make([]float64, 15))
	require.Error(t, err)

	result, err := svc.PredictFromFeatures(make([]float64, 16))
	require.NoError(t, err)
	// 144 единицы * 10 минут = 24 часа
	assert.InDelta(t, 24.0, result.ValueHours, 1e-9)
	assert.Equal(t, rul.UnitDays, result.Unit)
}

func TestPredictFromChannels(t *testing.T) {
	svc := newTestService(&fakePredictor{prediction: 4320})

	accel := []float64{0.1, -0.2, 0.3, -0.1, 0.2}
	vib := []float64{0.5, 0.6, 0.4, 0.55, 0.45}

	result, err := svc.PredictFromChannels(accel, vib)
	require.NoError(t, err)
	// 4320 единиц * 10 минут = 720 часов = 1 месяц
	assert.Equal(t, rul.UnitMonths, result.Unit)
	assert.Equal(t, "1 month", result.Formatted)
}

func TestBuildModelFeaturesLayout(t *testing.T) {
	accel := models.FeatureVector8{
		RMS: 2.0, Peak: 4.0, Mean: 1.0, StdDev: 0.5,
		Kurtosis: -1.0, Skewness: 0.2, CrestFactor: 2.0, Entropy: 1.5,
	}
	vib := models.FeatureVector8{
		RMS: 0.8, Peak: 1.6, Mean: 0.4, StdDev: 0.1,
		Kurtosis: 0.3, Skewness: -0.1, CrestFactor: 2.0, Entropy: 0.9,
	}

	input := BuildModelFeatures(accel, vib)
	require.Len(t, input, 96) // 8 каналов * 12 характеристик

	// Каналы x питаются акселерометром, y — вибродатчиком
	assert.Equal(t, accel.Mean, input["B1_x_mean"])
	assert.Equal(t, vib.Mean, input["B1_y_mean"])
	assert.Equal(t, accel.StdDev, input["B3_x_std"])
	assert.Equal(t, vib.Kurtosis, input["B4_y_kurtosis"])

	// Производные характеристики
	assert.InDelta(t, accel.CrestFactor*0.8, input["B2_x_clearence"], 1e-12)
	assert.InDelta(t, accel.RMS/accel.Mean, input["B2_x_shape"], 1e-12)
	assert.InDelta(t, vib.Peak/vib.Mean, input["B2_y_impulse"], 1e-12)
	assert.Equal(t, accel.Peak, input["B1_x_p2p"]) // размах приближен пиком
}

func TestBuildModelFeaturesZeroMean(t *testing.T) {
	zero := models.FeatureVector8{RMS: 1.0, Peak: 2.0}

	input := BuildModelFeatures(zero, zero)
	// При нулевом среднем формные коэффициенты фиксируются единицей
	assert.Equal(t, 1.0, input["B1_x_shape"])
	assert.Equal(t, 1.0, input["B1_x_impulse"])
}

func TestExtractBatchFeaturesChannels(t *testing.T) {
	batch := makeBatch(60)
	extraction := ExtractBatchFeatures(batch)

	assert.Equal(t, models.FeatureNames, extraction.FeatureNames)
	assert.Equal(t, 32, extraction.TotalFeaturesExtracted)

	// Канал магнитуды согласован с прямым вычислением
	magnitude := features.Magnitude(batch.AccelData.X, batch.AccelData.Y, batch.AccelData.Z)
	expected := features.Extract8(magnitude).Values()
	assert.Equal(t, expected, extraction.AccelMagnitudeFeatures)
}
