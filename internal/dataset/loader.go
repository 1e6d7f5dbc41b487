// Package dataset loads the historical hourly rental CSV that seeds the
// forecaster's time series.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bikecast/bikecast/internal/models"
	"github.com/bikecast/bikecast/internal/utils"
)

// expectedHeader is the exact column layout of the historical dataset.
var expectedHeader = []string{
	models.ColDate,
	models.ColHour,
	models.ColRentedCount,
	models.ColTemperature,
	models.ColHumidity,
	models.ColWindSpeed,
	models.ColVisibility,
	models.ColDewPoint,
	models.ColSolar,
	models.ColRainfall,
	models.ColSnowfall,
	models.ColSeasons,
	models.ColHoliday,
	models.ColFunctioning,
}

// Load reads the historical dataset from disk.
func Load(path string) ([]models.HourlyRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Read(file)
}

// Read parses historical dataset rows from r. The header must match the
// published column layout exactly; every data defect is reported with its
// line number.
func Read(r io.Reader) ([]models.HourlyRecord, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, models.NewValidationError("dataset", "file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var records []models.HourlyRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset line %d: %w", line, err)
		}

		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("dataset line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func checkHeader(header []string) error {
	if len(header) != len(expectedHeader) {
		return models.NewValidationError("header",
			fmt.Sprintf("has %d columns, expected %d", len(header), len(expectedHeader)))
	}
	for i, name := range expectedHeader {
		if header[i] != name {
			return models.NewValidationError("header",
				fmt.Sprintf("column %d is %q, expected %q", i, header[i], name))
		}
	}
	return nil
}

// parseRow converts one CSV row. The categorical columns are taken as facts
// from the file, not re-derived; calendar features come from the timestamp.
func parseRow(row []string) (models.HourlyRecord, error) {
	var zero models.HourlyRecord

	if len(row) != len(expectedHeader) {
		return zero, models.NewValidationError("row",
			fmt.Sprintf("has %d columns, expected %d", len(row), len(expectedHeader)))
	}

	date, err := time.ParseInLocation(utils.DatasetDateFormat, row[0], time.UTC)
	if err != nil {
		return zero, models.NewValidationError(models.ColDate, fmt.Sprintf("%q is not dd/mm/yyyy", row[0]))
	}

	hour, err := strconv.Atoi(row[1])
	if err != nil || hour < 0 || hour >= utils.HoursPerDay {
		return zero, models.NewValidationError(models.ColHour, fmt.Sprintf("%q is not an hour 0-23", row[1]))
	}

	count, err := strconv.Atoi(row[2])
	if err != nil || count < 0 {
		return zero, models.NewValidationError(models.ColRentedCount, fmt.Sprintf("%q is not a non-negative integer", row[2]))
	}

	floats := make([]float64, 8)
	for i := range floats {
		col := expectedHeader[3+i]
		v, err := strconv.ParseFloat(row[3+i], 64)
		if err != nil {
			return zero, models.NewValidationError(col, fmt.Sprintf("%q is not numeric", row[3+i]))
		}
		floats[i] = v
	}

	season := models.Season(row[11])
	switch season {
	case models.SeasonWinter, models.SeasonSpring, models.SeasonSummer, models.SeasonAutumn:
	default:
		return zero, models.NewValidationError(models.ColSeasons, fmt.Sprintf("unknown season %q", row[11]))
	}

	holiday := models.HolidayFlag(row[12])
	if holiday != models.Holiday && holiday != models.NoHoliday {
		return zero, models.NewValidationError(models.ColHoliday, fmt.Sprintf("unknown holiday flag %q", row[12]))
	}

	functioning := models.FunctioningFlag(row[13])
	if functioning != models.Functioning && functioning != models.NotFunctioning {
		return zero, models.NewValidationError(models.ColFunctioning, fmt.Sprintf("unknown functioning flag %q", row[13]))
	}

	ts := date.Add(time.Duration(hour) * time.Hour)
	_, week := ts.ISOWeek()

	return models.HourlyRecord{
		Timestamp:       ts,
		RentedBikeCount: count,
		Temperature:     floats[0],
		Humidity:        floats[1],
		WindSpeed:       floats[2],
		Visibility:      floats[3],
		DewPoint:        floats[4],
		SolarRadiation:  floats[5],
		Rainfall:        floats[6],
		Snowfall:        floats[7],
		Season:          season,
		Holiday:         holiday,
		FunctioningDay:  functioning,
		Year:            ts.Year(),
		Month:           int(ts.Month()),
		Week:            week,
	}, nil
}
