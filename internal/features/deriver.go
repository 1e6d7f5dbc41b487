// Package features derives the calendar and categorical features a raw
// weather row needs before it can join the hourly dataset: season, holiday
// flag, and ISO calendar fields.
package features

import (
	"fmt"
	"math"
	"time"

	"github.com/bikecast/bikecast/internal/models"
	"github.com/bikecast/bikecast/internal/utils"
	"github.com/bikecast/bikecast/internal/weather"
)

// Deriver builds dataset records from weather rows. Lag features are left
// zero here; the time series store fills them once the record's position in
// the series is known.
type Deriver struct{}

func NewDeriver() *Deriver {
	return &Deriver{}
}

// Derive validates the weather row and returns the corresponding hourly
// record with calendar features attached and a zero rented count.
func (d *Deriver) Derive(row weather.Row) (models.HourlyRecord, error) {
	if row.Date.IsZero() {
		return models.HourlyRecord{}, models.NewValidationError("date", "must be set")
	}
	if row.Hour < 0 || row.Hour >= utils.HoursPerDay {
		return models.HourlyRecord{}, models.NewValidationError("hour", fmt.Sprintf("%d out of range 0-23", row.Hour))
	}

	numeric := map[string]float64{
		"temperature":     row.Temperature,
		"humidity":        row.Humidity,
		"wind_speed":      row.WindSpeed,
		"visibility":      row.Visibility,
		"dew_point":       row.DewPoint,
		"solar_radiation": row.SolarRadiation,
		"rainfall":        row.Rainfall,
		"snowfall":        row.Snowfall,
	}
	for name, v := range numeric {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.HourlyRecord{}, models.NewValidationError(name, "must be finite")
		}
	}

	ts := row.Timestamp()
	_, week := ts.ISOWeek()

	return models.HourlyRecord{
		Timestamp:      ts,
		Temperature:    row.Temperature,
		Humidity:       row.Humidity,
		WindSpeed:      row.WindSpeed,
		Visibility:     row.Visibility,
		DewPoint:       row.DewPoint,
		SolarRadiation: row.SolarRadiation,
		Rainfall:       row.Rainfall,
		Snowfall:       row.Snowfall,
		Season:         SeasonFor(ts.Month()),
		Holiday:        holidayFlag(ts),
		FunctioningDay: models.Functioning,
		Year:           ts.Year(),
		Month:          int(ts.Month()),
		Week:           week,
	}, nil
}

// SeasonFor maps a calendar month to the season label used in the dataset.
func SeasonFor(m time.Month) models.Season {
	switch m {
	case time.December, time.January, time.February:
		return models.SeasonWinter
	case time.March, time.April, time.May:
		return models.SeasonSpring
	case time.June, time.July, time.August:
		return models.SeasonSummer
	default:
		return models.SeasonAutumn
	}
}

func holidayFlag(t time.Time) models.HolidayFlag {
	if IsHoliday(t) {
		return models.Holiday
	}
	return models.NoHoliday
}
