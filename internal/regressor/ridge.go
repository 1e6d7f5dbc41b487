package regressor

import (
	"fmt"
	"math"
	"sort"

	"github.com/bikecast/bikecast/internal/utils"
)

// RidgeRegressor implements L2-regularized linear regression over z-scored
// numeric features and one-hot encoded categorical features.
type RidgeRegressor struct {
	cfg Config

	fitted  bool
	numeric []string            // sorted numeric column names
	levels  map[string][]string // categorical column -> sorted levels seen at fit
	means   []float64           // per numeric column, in r.numeric order
	stds    []float64
	weights []float64 // bias, then numeric block, then one-hot block
	info    ModelInfo
}

// NewRidge creates an unfitted ridge model
func NewRidge(cfg Config) *RidgeRegressor {
	return &RidgeRegressor{cfg: cfg}
}

func init() {
	Register("ridge", func(cfg Config) Regressor { return NewRidge(cfg) })
}

// Name returns the algorithm name
func (r *RidgeRegressor) Name() string {
	return "ridge"
}

// Fit trains the model on rows. The design matrix layout is fixed by the
// first row's columns: numeric columns sorted by name, then one dummy per
// categorical level seen in the training data.
func (r *RidgeRegressor) Fit(rows []Row, target string) error {
	if len(rows) == 0 {
		return fmt.Errorf("no training rows")
	}
	if r.cfg.Lambda < 0 {
		return fmt.Errorf("lambda must be non-negative, got %v", r.cfg.Lambda)
	}

	categorical := make(map[string]bool, len(r.cfg.Categorical))
	for _, col := range r.cfg.Categorical {
		categorical[col] = true
	}

	r.numeric = nil
	for col := range rows[0] {
		if col == target || categorical[col] {
			continue
		}
		r.numeric = append(r.numeric, col)
	}
	sort.Strings(r.numeric)

	r.levels = make(map[string][]string, len(r.cfg.Categorical))
	for _, col := range r.cfg.Categorical {
		seen := make(map[string]bool)
		for i, row := range rows {
			v, ok := row[col].(string)
			if !ok {
				return fmt.Errorf("row %d: column %s is not a string", i, col)
			}
			seen[v] = true
		}
		levels := make([]string, 0, len(seen))
		for level := range seen {
			levels = append(levels, level)
		}
		sort.Strings(levels)
		r.levels[col] = levels
	}

	p := r.featureCount()

	y := make([]float64, len(rows))
	X := make([][]float64, len(rows))
	for i, row := range rows {
		tv, ok := row[target]
		if !ok {
			return fmt.Errorf("row %d: missing target %s", i, target)
		}
		val, err := utils.ToFloat64(tv)
		if err != nil {
			return fmt.Errorf("row %d: target %s: %w", i, target, err)
		}
		y[i] = val

		vec, err := r.rawVector(row)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		X[i] = vec
	}

	// Z-score the numeric block. A constant column keeps std 1 so its
	// scaled values stay finite (and zero).
	r.means = make([]float64, len(r.numeric))
	r.stds = make([]float64, len(r.numeric))
	for j := range r.numeric {
		col := j + 1 // after the bias column
		sum := 0.0
		for i := range X {
			sum += X[i][col]
		}
		mean := sum / float64(len(X))

		varSum := 0.0
		for i := range X {
			d := X[i][col] - mean
			varSum += d * d
		}
		std := math.Sqrt(varSum / float64(len(X)))
		if std == 0 {
			std = 1
		}

		r.means[j] = mean
		r.stds[j] = std
		for i := range X {
			X[i][col] = (X[i][col] - mean) / std
		}
	}

	// Normal equations with an L2 penalty on everything but the bias.
	a := make([][]float64, p)
	b := make([]float64, p)
	for j := 0; j < p; j++ {
		a[j] = make([]float64, p)
		for k := 0; k < p; k++ {
			sum := 0.0
			for i := range X {
				sum += X[i][j] * X[i][k]
			}
			a[j][k] = sum
		}
		if j > 0 {
			a[j][j] += r.cfg.Lambda
		}

		sum := 0.0
		for i := range X {
			sum += X[i][j] * y[i]
		}
		b[j] = sum
	}

	weights, err := solveLinearSystem(a, b)
	if err != nil {
		return fmt.Errorf("failed to fit ridge model: %w", err)
	}
	r.weights = weights
	r.fitted = true

	predicted := make([]float64, len(X))
	for i := range X {
		predicted[i] = dot(r.weights, X[i])
	}
	r.info = ModelInfo{
		Algorithm: "ridge",
		Parameters: map[string]interface{}{
			"features": p,
			"lambda":   r.cfg.Lambda,
		},
		MAPE:       CalculateMAPE(y, predicted),
		MAE:        CalculateMAE(y, predicted),
		RMSE:       CalculateRMSE(y, predicted),
		DataPoints: len(rows),
	}
	return nil
}

// Predict returns the fitted model's estimate for one feature row. A
// categorical level unseen during training contributes nothing: all of its
// dummies stay zero.
func (r *RidgeRegressor) Predict(row Row) (float64, error) {
	if !r.fitted {
		return 0, fmt.Errorf("model is not fitted")
	}

	vec, err := r.rawVector(row)
	if err != nil {
		return 0, err
	}
	for j := range r.numeric {
		vec[j+1] = (vec[j+1] - r.means[j]) / r.stds[j]
	}
	return dot(r.weights, vec), nil
}

// Info returns metadata about the fitted model
func (r *RidgeRegressor) Info() ModelInfo {
	return r.info
}

func (r *RidgeRegressor) featureCount() int {
	p := 1 + len(r.numeric)
	for _, col := range r.cfg.Categorical {
		p += len(r.levels[col])
	}
	return p
}

// rawVector builds the unscaled design vector: bias, numeric values, one-hot
// dummies. Fit z-scores the numeric block afterwards; Predict scales with the
// stored means and stds.
func (r *RidgeRegressor) rawVector(row Row) ([]float64, error) {
	vec := make([]float64, 0, r.featureCount())
	vec = append(vec, 1)

	for _, col := range r.numeric {
		v, ok := row[col]
		if !ok {
			return nil, fmt.Errorf("missing feature %s", col)
		}
		f, err := utils.ToFloat64(v)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", col, err)
		}
		vec = append(vec, f)
	}

	for _, col := range r.cfg.Categorical {
		v, _ := row[col].(string)
		for _, level := range r.levels[col] {
			if v == level {
				vec = append(vec, 1)
			} else {
				vec = append(vec, 0)
			}
		}
	}
	return vec, nil
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// solveLinearSystem solves a*x = b by Gaussian elimination with partial
// pivoting. Both a and b are modified in place.
func solveLinearSystem(a [][]float64, b []float64) ([]float64, error) {
	n := len(a)

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("singular system at column %d", col)
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for row := col + 1; row < n; row++ {
			factor := a[row][col] / a[col][col]
			if factor == 0 {
				continue
			}
			for k := col; k < n; k++ {
				a[row][k] -= factor * a[col][k]
			}
			b[row] -= factor * b[col]
		}
	}

	x := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		sum := b[row]
		for k := row + 1; k < n; k++ {
			sum -= a[row][k] * x[k]
		}
		x[row] = sum / a[row][row]
	}
	return x, nil
}
