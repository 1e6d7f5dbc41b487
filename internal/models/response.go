package models

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HourlyPrediction is one (hour, rented bike count) pair of a forecast day.
type HourlyPrediction struct {
	Hour            int `json:"hour"`
	RentedBikeCount int `json:"rented_bike_count"`
}

// ForecastResponse represents the forecast response for a single date
type ForecastResponse struct {
	Date        string             `json:"date"`
	Predictions []HourlyPrediction `json:"predictions"`
}

// WeatherHourView is one hour of stored weather, as served to callers.
type WeatherHourView struct {
	Hour           int     `json:"hour"`
	Temperature    float64 `json:"temperature"`
	Humidity       float64 `json:"humidity"`
	WindSpeed      float64 `json:"wind_speed"`
	Visibility     float64 `json:"visibility"`
	DewPoint       float64 `json:"dew_point"`
	SolarRadiation float64 `json:"solar_radiation"`
	Rainfall       float64 `json:"rainfall"`
	Snowfall       float64 `json:"snowfall"`
}

// WeatherDayResponse represents the stored weather for a single date
type WeatherDayResponse struct {
	Date  string            `json:"date"`
	Hours []WeatherHourView `json:"hours"`
}

// CoverageResponse reports how far the stored series currently extends
type CoverageResponse struct {
	FirstTimestamp string `json:"first_timestamp"`
	LastKnown      string `json:"last_known"`
	CoverageMax    string `json:"coverage_max"`
	Records        int    `json:"records"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
