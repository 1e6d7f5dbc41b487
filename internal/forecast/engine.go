// Package forecast runs the autoregressive prediction loop: it keeps the
// hourly series covered up to a requested day, predicting one hour at a time
// so each prediction can feed the lag features of the next.
package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/bikecast/bikecast/internal/features"
	"github.com/bikecast/bikecast/internal/logging"
	"github.com/bikecast/bikecast/internal/models"
	"github.com/bikecast/bikecast/internal/regressor"
	"github.com/bikecast/bikecast/internal/timeseries"
	"github.com/bikecast/bikecast/internal/utils"
	"github.com/bikecast/bikecast/internal/weather"
)

// WeatherSource supplies hourly weather rows beyond current coverage.
// *weather.Client implements it; tests substitute stubs.
type WeatherSource interface {
	History(ctx context.Context, location string, start, end time.Time) ([]weather.Row, error)
	Forecast(ctx context.Context, location string, end time.Time) ([]weather.Row, error)
}

// Options wires an Engine.
type Options struct {
	Store     *timeseries.Store
	Deriver   *features.Deriver
	Model     regressor.Regressor
	Source    WeatherSource // nil disables network backfill
	Location  string
	CachePath string // "" disables the weather cache
	Logger    *logging.Logger
	Now       func() time.Time // defaults to time.Now
}

// Engine drives predictions over a single time series.
//
// NOT THREAD-SAFE: PredictionService serializes calls with its own mutex.
type Engine struct {
	store     *timeseries.Store
	deriver   *features.Deriver
	model     regressor.Regressor
	source    WeatherSource
	location  string
	cachePath string
	cacheRead bool
	logger    *logging.Logger
	now       func() time.Time
}

// NewEngine creates an engine over a bootstrapped store and an unfitted model.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Global()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Engine{
		store:     opts.Store,
		deriver:   opts.Deriver,
		model:     opts.Model,
		source:    opts.Source,
		location:  opts.Location,
		cachePath: opts.CachePath,
		logger:    logger,
		now:       now,
	}
}

// Fit trains the model on every stored record.
func (e *Engine) Fit() error {
	records := e.store.Records()

	rows := make([]regressor.Row, len(records))
	for i := range records {
		row := regressor.Row(records[i].FeatureRow())
		row[models.ColRentedCount] = records[i].RentedBikeCount
		rows[i] = row
	}

	if err := e.model.Fit(rows, models.ColRentedCount); err != nil {
		return fmt.Errorf("failed to fit model: %w", err)
	}

	info := e.model.Info()
	e.logger.Info("Model fitted",
		"algorithm", info.Algorithm,
		"data_points", info.DataPoints,
		"mape", info.MAPE,
		"rmse", info.RMSE)
	return nil
}

// Predict returns the 24 hourly records of the requested day, extending the
// series first when the day lies beyond current predictions.
//
// Days already at or before the finalized boundary are served straight from
// the store. Otherwise missing weather rows are backfilled (cache first,
// then provider), and the prediction walk runs hour by hour from the
// finalized boundary to the end of the requested day, writing each rounded
// count back so the following hours see it through their lag features.
func (e *Engine) Predict(ctx context.Context, date time.Time) ([]models.HourlyRecord, error) {
	day := dateOnly(date)
	targetEnd := day.Add(utils.EndOfDayHour * time.Hour)
	logger := e.logger.WithContext(ctx)

	if targetEnd.Before(e.store.First()) {
		return nil, &RangeError{Requested: targetEnd, Earliest: e.store.First()}
	}

	// Fully finalized days need no model at all.
	if !targetEnd.After(e.store.LastKnown()) {
		return e.store.SliceByDate(day), nil
	}

	if e.store.CoverageMax().Before(targetEnd) {
		if err := e.extendCoverage(ctx, targetEnd); err != nil {
			return nil, err
		}
	}

	// Verify the whole span is hourly contiguous before writing anything,
	// so a weather gap never leaves half-predicted counts behind.
	walkStart := e.store.LastKnown().Add(time.Hour)
	startIdx, endIdx, missing := e.store.HourlyRange(walkStart, targetEnd)
	if !missing.IsZero() {
		return nil, &InsufficientDataError{
			Need:    targetEnd,
			Have:    e.store.CoverageMax(),
			Missing: missing,
		}
	}

	for i := startIdx; i <= endIdx; i++ {
		rec, _ := e.store.At(i)
		value, err := e.model.Predict(regressor.Row(rec.FeatureRow()))
		if err != nil {
			return nil, &ModelError{Hour: rec.Timestamp, Err: err}
		}

		count := int(math.Round(value))
		if count < 0 {
			count = 0
		}
		e.store.SetCount(i, count)
	}

	e.store.AdvanceLastKnown(targetEnd)
	logger.Info("Prediction walk complete",
		"date", day.Format(utils.DateFormat),
		"hours_predicted", endIdx-startIdx+1,
		"last_known", e.store.LastKnown().Format(time.RFC3339))

	return e.store.SliceByDate(day), nil
}

// extendCoverage appends weather-derived rows until the series can reach
// targetEnd: the cache file is consumed once per process, then the provider
// fills whatever is still missing, split into history and forecast at today.
func (e *Engine) extendCoverage(ctx context.Context, targetEnd time.Time) error {
	logger := e.logger.WithContext(ctx)

	if e.cachePath != "" && !e.cacheRead {
		e.cacheRead = true
		rows, err := weather.ReadCacheFile(e.cachePath)
		if err != nil {
			return fmt.Errorf("failed to read weather cache: %v", err)
		}
		if len(rows) > 0 {
			kept, err := e.appendRows(rows)
			if err != nil {
				return err
			}
			logger.Info("Weather cache consumed",
				"path", e.cachePath,
				"rows", len(rows),
				"kept", kept)
		}
	}

	if !e.store.CoverageMax().Before(targetEnd) || e.source == nil {
		return nil
	}

	fetchStart := dateOnly(e.store.CoverageMax().Add(time.Hour))
	targetDay := dateOnly(targetEnd)
	today := dateOnly(e.now())

	var rows []weather.Row

	histEnd := targetDay
	if !histEnd.Before(today) {
		histEnd = today.AddDate(0, 0, -1)
	}
	if !fetchStart.After(histEnd) {
		hist, err := e.source.History(ctx, e.location, fetchStart, histEnd)
		if err != nil {
			return fmt.Errorf("failed to fetch weather history: %v", err)
		}
		rows = append(rows, hist...)
	}

	if !targetDay.Before(today) {
		fc, err := e.source.Forecast(ctx, e.location, targetDay)
		if err != nil {
			// Keep whatever history arrived; the range check before
			// the walk reports the exact missing hour if coverage
			// still falls short.
			logger.Error("Weather forecast fetch failed", "error", err)
		} else {
			rows = append(rows, fc...)
		}
	}

	kept, err := e.appendRows(rows)
	if err != nil {
		return err
	}
	logger.Info("Weather coverage extended",
		"fetched", len(rows),
		"kept", kept,
		"coverage_max", e.store.CoverageMax().Format(time.RFC3339))
	return nil
}

// appendRows derives dataset records from weather rows and merges them into
// the store. Rows already covered are filtered out by the store.
func (e *Engine) appendRows(rows []weather.Row) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	records := make([]models.HourlyRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := e.deriver.Derive(row)
		if err != nil {
			return 0, fmt.Errorf("bad weather row at %s hour %d: %v",
				row.Date.Format(utils.DateFormat), row.Hour, err)
		}
		records = append(records, rec)
	}

	return e.store.Append(records), nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
