package weather

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/bikecast/bikecast/internal/utils"
)

// cacheHeader is the column layout of the weather cache CSV.
var cacheHeader = []string{
	"Date",
	"Hour",
	"Temperature",
	"Humidity",
	"Wind speed",
	"Visibility",
	"Dew point temperature",
	"Solar Radiation",
	"Rainfall",
	"Snowfall",
}

// ReadCacheFile loads all rows from a weather cache CSV. A missing file is
// not an error: it returns no rows, same as an empty cache.
func ReadCacheFile(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open cache file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache header: %w", err)
	}
	if err := checkCacheHeader(header); err != nil {
		return nil, err
	}

	var rows []Row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read cache line %d: %w", line, err)
		}

		row, err := parseCacheRecord(record)
		if err != nil {
			return nil, fmt.Errorf("cache line %d: %w", line, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// AppendCacheFile appends rows to the cache CSV, writing the header first
// when the file is new or empty.
func AppendCacheFile(path string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat cache file: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if info.Size() == 0 {
		if err := writer.Write(cacheHeader); err != nil {
			return fmt.Errorf("failed to write cache header: %w", err)
		}
	}

	for _, row := range rows {
		record := []string{
			row.Date.Format(utils.DateFormat),
			strconv.Itoa(row.Hour),
			formatFloat(row.Temperature),
			formatFloat(row.Humidity),
			formatFloat(row.WindSpeed),
			formatFloat(row.Visibility),
			formatFloat(row.DewPoint),
			formatFloat(row.SolarRadiation),
			formatFloat(row.Rainfall),
			formatFloat(row.Snowfall),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write cache row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// CachePeriod fetches history for [start, end] and appends whatever arrived
// to the cache file. Returns the number of rows cached.
func (c *Client) CachePeriod(ctx context.Context, location, path string, start, end time.Time) (int, error) {
	rows, err := c.History(ctx, location, start, end)
	if err != nil {
		return 0, err
	}
	if err := AppendCacheFile(path, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func checkCacheHeader(header []string) error {
	if len(header) != len(cacheHeader) {
		return fmt.Errorf("cache header has %d columns, expected %d", len(header), len(cacheHeader))
	}
	for i, name := range cacheHeader {
		if header[i] != name {
			return fmt.Errorf("cache header column %d is %q, expected %q", i, header[i], name)
		}
	}
	return nil
}

func parseCacheRecord(record []string) (Row, error) {
	if len(record) != len(cacheHeader) {
		return Row{}, fmt.Errorf("has %d columns, expected %d", len(record), len(cacheHeader))
	}

	date, err := time.ParseInLocation(utils.DateFormat, record[0], time.UTC)
	if err != nil {
		return Row{}, fmt.Errorf("bad date %q: %w", record[0], err)
	}
	hour, err := strconv.Atoi(record[1])
	if err != nil {
		return Row{}, fmt.Errorf("bad hour %q: %w", record[1], err)
	}

	values := make([]float64, len(record)-2)
	for i, s := range record[2:] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Row{}, fmt.Errorf("bad %s %q: %w", cacheHeader[i+2], s, err)
		}
		values[i] = v
	}

	return Row{
		Date:           date,
		Hour:           hour,
		Temperature:    values[0],
		Humidity:       values[1],
		WindSpeed:      values[2],
		Visibility:     values[3],
		DewPoint:       values[4],
		SolarRadiation: values[5],
		Rainfall:       values[6],
		Snowfall:       values[7],
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
