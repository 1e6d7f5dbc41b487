// Package regressor provides the trainable models behind the forecaster and
// a registry to select one by name.
package regressor

import (
	"fmt"
	"math"
)

// Row is one observation, feature name to value. Numeric features may carry
// any Go numeric type; categorical features are strings. Training rows also
// hold the target column.
type Row map[string]interface{}

// ModelInfo contains metadata about a fitted model
type ModelInfo struct {
	Algorithm  string                 `json:"algorithm"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	MAPE       float64                `json:"mape,omitempty"` // Mean Absolute Percentage Error
	MAE        float64                `json:"mae,omitempty"`  // Mean Absolute Error
	RMSE       float64                `json:"rmse,omitempty"` // Root Mean Squared Error
	DataPoints int                    `json:"data_points"`    // Number of training rows
}

// Config selects and parameterizes a model.
type Config struct {
	Model       string   // registry name, e.g. "ridge" or "baseline"
	Categorical []string // columns one-hot encoded by models that encode
	Lambda      float64  // ridge regularization strength
}

// Regressor is a trainable model predicting a numeric target from a feature row.
type Regressor interface {
	// Name returns the algorithm name
	Name() string
	// Fit trains the model. Each row must include the target column.
	Fit(rows []Row, target string) error
	// Predict returns the model's estimate for one feature row
	Predict(row Row) (float64, error)
	// Info returns metadata about the fitted model
	Info() ModelInfo
}

// Factory builds a fresh, unfitted model from configuration.
type Factory func(cfg Config) Regressor

// Registry holds available model factories
var registry = make(map[string]Factory)

// Register adds a model factory to the registry
func Register(name string, factory Factory) {
	registry[name] = factory
}

// New creates the model named by cfg.Model
func New(cfg Config) (Regressor, error) {
	factory, ok := registry[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", cfg.Model)
	}
	return factory(cfg), nil
}

// List returns the registered model names
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// CalculateMAPE calculates Mean Absolute Percentage Error
func CalculateMAPE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	count := 0
	for i := range actual {
		if actual[i] != 0 {
			sum += math.Abs((actual[i] - predicted[i]) / actual[i])
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return (sum / float64(count)) * 100
}

// CalculateMAE calculates Mean Absolute Error
func CalculateMAE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual))
}

// CalculateRMSE calculates Root Mean Squared Error
func CalculateRMSE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	for i := range actual {
		diff := actual[i] - predicted[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(actual)))
}
