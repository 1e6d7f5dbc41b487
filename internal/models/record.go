package models

import "time"

// Season is the calendar season attached to an hourly record.
type Season string

const (
	SeasonWinter Season = "Winter"
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonAutumn Season = "Autumn"
)

// HolidayFlag marks whether the record's date is a national holiday.
type HolidayFlag string

const (
	Holiday   HolidayFlag = "Holiday"
	NoHoliday HolidayFlag = "No Holiday"
)

// FunctioningFlag marks whether the rental system operated that hour.
type FunctioningFlag string

const (
	Functioning    FunctioningFlag = "Yes"
	NotFunctioning FunctioningFlag = "No"
)

// Column names shared by the dataset contract, the feature rows handed to the
// regressor, and the weather cache file.
const (
	ColDate        = "Date"
	ColHour        = "Hour"
	ColRentedCount = "Rented Bike Count"
	ColTemperature = "Temperature"
	ColHumidity    = "Humidity"
	ColWindSpeed   = "Wind speed"
	ColVisibility  = "Visibility"
	ColDewPoint    = "Dew point temperature"
	ColSolar       = "Solar Radiation"
	ColRainfall    = "Rainfall"
	ColSnowfall    = "Snowfall"
	ColSeasons     = "Seasons"
	ColHoliday     = "Holiday"
	ColFunctioning = "Functioning Day"
	ColYear        = "Year"
	ColMonth       = "Month"
	ColWeek        = "Week"
	ColLag1        = "lag_1"
	ColLag2        = "lag_2"
	ColLag3        = "lag_3"
)

// CategoricalColumns are the feature columns that carry string categories
// rather than numeric values. The regressor is constructed with this list.
func CategoricalColumns() []string {
	return []string{ColSeasons, ColHoliday, ColFunctioning}
}

// HourlyRecord is a single hour of the rental series: one observation from
// the historical dataset, one backfilled weather row, or one prediction.
// Timestamp (date + hour) is the unique key within a series.
type HourlyRecord struct {
	Timestamp       time.Time       `json:"timestamp"`
	RentedBikeCount int             `json:"rented_bike_count"`
	Temperature     float64         `json:"temperature"`
	Humidity        float64         `json:"humidity"`
	WindSpeed       float64         `json:"wind_speed"`
	Visibility      float64         `json:"visibility"`
	DewPoint        float64         `json:"dew_point"`
	SolarRadiation  float64         `json:"solar_radiation"`
	Rainfall        float64         `json:"rainfall"`
	Snowfall        float64         `json:"snowfall"`
	Season          Season          `json:"season"`
	Holiday         HolidayFlag     `json:"holiday"`
	FunctioningDay  FunctioningFlag `json:"functioning_day"`
	Year            int             `json:"year"`
	Month           int             `json:"month"`
	Week            int             `json:"week"`
	Lag1            int             `json:"lag_1"`
	Lag2            int             `json:"lag_2"`
	Lag3            int             `json:"lag_3"`
}

// Hour returns the hour-of-day component of the record's timestamp.
func (r *HourlyRecord) Hour() int {
	return r.Timestamp.Hour()
}

// Date returns the record's timestamp truncated to midnight.
func (r *HourlyRecord) Date() time.Time {
	t := r.Timestamp
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FeatureRow builds the feature map handed to the regressor: every column
// except the rental count (the target) and the raw timestamp.
func (r *HourlyRecord) FeatureRow() map[string]interface{} {
	return map[string]interface{}{
		ColHour:        r.Hour(),
		ColTemperature: r.Temperature,
		ColHumidity:    r.Humidity,
		ColWindSpeed:   r.WindSpeed,
		ColVisibility:  r.Visibility,
		ColDewPoint:    r.DewPoint,
		ColSolar:       r.SolarRadiation,
		ColRainfall:    r.Rainfall,
		ColSnowfall:    r.Snowfall,
		ColSeasons:     string(r.Season),
		ColHoliday:     string(r.Holiday),
		ColFunctioning: string(r.FunctioningDay),
		ColYear:        r.Year,
		ColMonth:       r.Month,
		ColWeek:        r.Week,
		ColLag1:        r.Lag1,
		ColLag2:        r.Lag2,
		ColLag3:        r.Lag3,
	}
}
