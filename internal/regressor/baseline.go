package regressor

import (
	"fmt"

	"github.com/bikecast/bikecast/internal/models"
	"github.com/bikecast/bikecast/internal/utils"
)

// BaselineRegressor predicts the mean target of the row's hour-of-day within
// its season. It serves as a sanity floor for the ridge model and works with
// far less training data.
type BaselineRegressor struct {
	fitted bool
	means  map[baselineKey]float64
	global float64
	info   ModelInfo
}

type baselineKey struct {
	hour   int
	season string
}

// NewBaseline creates an unfitted baseline model
func NewBaseline(cfg Config) *BaselineRegressor {
	return &BaselineRegressor{}
}

func init() {
	Register("baseline", func(cfg Config) Regressor { return NewBaseline(cfg) })
}

// Name returns the algorithm name
func (b *BaselineRegressor) Name() string {
	return "baseline"
}

// Fit computes per hour-and-season target means plus a global mean fallback.
func (b *BaselineRegressor) Fit(rows []Row, target string) error {
	if len(rows) == 0 {
		return fmt.Errorf("no training rows")
	}

	sums := make(map[baselineKey]float64)
	counts := make(map[baselineKey]int)
	globalSum := 0.0

	y := make([]float64, len(rows))
	keys := make([]baselineKey, len(rows))

	for i, row := range rows {
		tv, ok := row[target]
		if !ok {
			return fmt.Errorf("row %d: missing target %s", i, target)
		}
		val, err := utils.ToFloat64(tv)
		if err != nil {
			return fmt.Errorf("row %d: target %s: %w", i, target, err)
		}

		key, err := bucketOf(row)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}

		y[i] = val
		keys[i] = key
		sums[key] += val
		counts[key]++
		globalSum += val
	}

	b.means = make(map[baselineKey]float64, len(sums))
	for key, sum := range sums {
		b.means[key] = sum / float64(counts[key])
	}
	b.global = globalSum / float64(len(rows))
	b.fitted = true

	predicted := make([]float64, len(rows))
	for i := range rows {
		predicted[i] = b.means[keys[i]]
	}
	b.info = ModelInfo{
		Algorithm: "baseline",
		Parameters: map[string]interface{}{
			"buckets": len(b.means),
		},
		MAPE:       CalculateMAPE(y, predicted),
		MAE:        CalculateMAE(y, predicted),
		RMSE:       CalculateRMSE(y, predicted),
		DataPoints: len(rows),
	}
	return nil
}

// Predict returns the bucket mean for the row's hour and season, falling
// back to the global mean for buckets never seen during training.
func (b *BaselineRegressor) Predict(row Row) (float64, error) {
	if !b.fitted {
		return 0, fmt.Errorf("model is not fitted")
	}

	key, err := bucketOf(row)
	if err != nil {
		return 0, err
	}
	if mean, ok := b.means[key]; ok {
		return mean, nil
	}
	return b.global, nil
}

// Info returns metadata about the fitted model
func (b *BaselineRegressor) Info() ModelInfo {
	return b.info
}

func bucketOf(row Row) (baselineKey, error) {
	hv, ok := row[models.ColHour]
	if !ok {
		return baselineKey{}, fmt.Errorf("missing feature %s", models.ColHour)
	}
	hour, err := utils.ToFloat64(hv)
	if err != nil {
		return baselineKey{}, fmt.Errorf("feature %s: %w", models.ColHour, err)
	}

	season, ok := row[models.ColSeasons].(string)
	if !ok {
		return baselineKey{}, fmt.Errorf("missing feature %s", models.ColSeasons)
	}

	return baselineKey{hour: int(hour), season: season}, nil
}
