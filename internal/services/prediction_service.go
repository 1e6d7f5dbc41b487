package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bikecast/bikecast/internal/forecast"
	"github.com/bikecast/bikecast/internal/logging"
	"github.com/bikecast/bikecast/internal/models"
	"github.com/bikecast/bikecast/internal/timeseries"
	"github.com/bikecast/bikecast/internal/utils"
)

// PredictionService handles forecasting business logic. The engine and the
// store it drives are not thread-safe, so the service serializes every
// operation behind a single mutex.
type PredictionService struct {
	mu     sync.Mutex
	logger *logging.Logger
	engine *forecast.Engine
	store  *timeseries.Store
}

// NewPredictionService creates a new PredictionService
func NewPredictionService(
	logger *logging.Logger,
	engine *forecast.Engine,
	store *timeseries.Store,
) *PredictionService {
	return &PredictionService{
		logger: logger,
		engine: engine,
		store:  store,
	}
}

// PredictRequest represents a forecast request for a single date
type PredictRequest struct {
	Date time.Time
}

// Fit trains the model on everything currently stored. Called once at
// startup and again whenever the caller wants the model refreshed.
func (s *PredictionService) Fit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	startExec := time.Now()

	if err := s.engine.Fit(); err != nil {
		return &ServiceError{
			Code:    CodeModel,
			Message: "Failed to fit model",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}

	latency := time.Since(startExec)
	s.logger.Info("Model training completed",
		"records", s.store.Len(),
		"latency_ms", latency.Milliseconds())

	return nil
}

// Predict returns the 24 hourly rental counts of the requested date,
// extending the series hour by hour first if the date is not covered yet.
func (s *PredictionService) Predict(ctx context.Context, req *PredictRequest) (*models.ForecastResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startExec := time.Now()

	if req.Date.IsZero() {
		return nil, &ServiceError{
			Code:    CodeValidation,
			Message: "Date is required",
		}
	}

	records, err := s.engine.Predict(ctx, req.Date)
	if err != nil {
		return nil, convertPredictError(err)
	}

	if len(records) == 0 {
		return nil, &ServiceError{
			Code:    CodeDateNotCovered,
			Message: "No records stored for the requested date",
			Details: map[string]interface{}{"date": req.Date.Format(utils.DateFormat)},
		}
	}

	predictions := make([]models.HourlyPrediction, len(records))
	for i, rec := range records {
		predictions[i] = models.HourlyPrediction{
			Hour:            rec.Hour(),
			RentedBikeCount: rec.RentedBikeCount,
		}
	}

	latency := time.Since(startExec)
	s.logger.Info("Prediction completed",
		"date", req.Date.Format(utils.DateFormat),
		"hours", len(predictions),
		"latency_ms", latency.Milliseconds())

	return &models.ForecastResponse{
		Date:        records[0].Date().Format(utils.DateFormat),
		Predictions: predictions,
	}, nil
}

// WeatherByDate returns the stored weather rows of a covered date. It never
// triggers a fetch; dates outside current coverage report DATE_NOT_COVERED.
func (s *PredictionService) WeatherByDate(date time.Time) (*models.WeatherDayResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if date.IsZero() {
		return nil, &ServiceError{
			Code:    CodeValidation,
			Message: "Date is required",
		}
	}

	records := s.store.SliceByDate(date)
	if len(records) == 0 {
		return nil, &ServiceError{
			Code:    CodeDateNotCovered,
			Message: "No records stored for the requested date",
			Details: map[string]interface{}{"date": date.Format(utils.DateFormat)},
		}
	}

	hours := make([]models.WeatherHourView, len(records))
	for i, rec := range records {
		hours[i] = models.WeatherHourView{
			Hour:           rec.Hour(),
			Temperature:    rec.Temperature,
			Humidity:       rec.Humidity,
			WindSpeed:      rec.WindSpeed,
			Visibility:     rec.Visibility,
			DewPoint:       rec.DewPoint,
			SolarRadiation: rec.SolarRadiation,
			Rainfall:       rec.Rainfall,
			Snowfall:       rec.Snowfall,
		}
	}

	return &models.WeatherDayResponse{
		Date:  records[0].Date().Format(utils.DateFormat),
		Hours: hours,
	}, nil
}

// Coverage reports how far the stored series currently extends.
func (s *PredictionService) Coverage() *models.CoverageResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &models.CoverageResponse{
		FirstTimestamp: s.store.First().Format(time.RFC3339),
		LastKnown:      s.store.LastKnown().Format(time.RFC3339),
		CoverageMax:    s.store.CoverageMax().Format(time.RFC3339),
		Records:        s.store.Len(),
	}
}

// convertPredictError maps engine errors to service error codes. Typed
// errors keep their diagnostic fields in Details; anything unrecognized
// is reported as internal.
func convertPredictError(err error) *ServiceError {
	var rangeErr *forecast.RangeError
	if errors.As(err, &rangeErr) {
		return &ServiceError{
			Code:    CodeRange,
			Message: err.Error(),
			Details: map[string]interface{}{
				"requested": rangeErr.Requested.Format(time.RFC3339),
				"earliest":  rangeErr.Earliest.Format(time.RFC3339),
			},
		}
	}

	var dataErr *forecast.InsufficientDataError
	if errors.As(err, &dataErr) {
		return &ServiceError{
			Code:    CodeInsufficientData,
			Message: err.Error(),
			Details: map[string]interface{}{
				"need":    dataErr.Need.Format(time.RFC3339),
				"have":    dataErr.Have.Format(time.RFC3339),
				"missing": dataErr.Missing.Format(time.RFC3339),
			},
		}
	}

	var modelErr *forecast.ModelError
	if errors.As(err, &modelErr) {
		return &ServiceError{
			Code:    CodeModel,
			Message: err.Error(),
			Details: map[string]interface{}{
				"hour": modelErr.Hour.Format(time.RFC3339),
			},
		}
	}

	return &ServiceError{
		Code:    CodeInternal,
		Message: err.Error(),
	}
}
