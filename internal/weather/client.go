// Package weather talks to a World Weather Online style provider: hourly
// history fetched month by month, day-granular forecasts, and a local CSV
// cache of previously fetched rows.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/bikecast/bikecast/internal/config"
	"github.com/bikecast/bikecast/internal/logging"
	"github.com/bikecast/bikecast/internal/utils"
)

const (
	historyEndpoint  = "/past-weather.ashx"
	forecastEndpoint = "/weather.ashx"

	// uvSolarFactor approximates solar radiation in MJ/m2 from the UV index.
	uvSolarFactor = 3.52 / 6
)

// Client fetches hourly weather rows from the provider. Requests run through
// a retry/backoff loop and a circuit breaker; responses are parsed into Rows
// and post-processed by the precipitation Policy.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	backoff    BackoffConfig
	breaker    *gobreaker.CircuitBreaker
	logger     *logging.Logger

	// Policy adjusts precipitation fields of each parsed row.
	// Defaults to ColdSwapPolicy.
	Policy PrecipPolicy

	// Now is the clock used to split history from forecast. Overridable in tests.
	Now func() time.Time
}

// NewClient creates a weather client from configuration.
func NewClient(cfg config.WeatherConfig, logger *logging.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = utils.DefaultRequestTimeout
	}

	backoff := BackoffConfig{
		MaxRetries:      cfg.MaxRetries,
		InitialInterval: cfg.BackoffInitial,
		MaxInterval:     cfg.BackoffMax,
	}
	if backoff.MaxRetries < 0 {
		backoff.MaxRetries = utils.DefaultMaxRetries
	}
	if backoff.InitialInterval <= 0 {
		backoff.InitialInterval = utils.DefaultRetryBackoff
	}
	if backoff.MaxInterval <= 0 {
		backoff.MaxInterval = utils.MaxRetryBackoff
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		backoff:    backoff,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "weather-provider",
			MaxRequests: 5,
			Interval:    time.Minute,
			Timeout:     2 * time.Minute,
		}),
		logger: logger,
		Policy: ColdSwapPolicy,
		Now:    time.Now,
	}
}

// History fetches hourly weather for [start, end] one calendar month per
// request. A failed sub-request is logged and the loop stops early, returning
// whatever was gathered before the failure.
func (c *Client) History(ctx context.Context, location string, start, end time.Time) ([]Row, error) {
	start = dateOnly(start)
	end = dateOnly(end)

	var rows []Row
	for cur := start; !cur.After(end); {
		chunkEnd := lastOfMonth(cur)
		if chunkEnd.After(end) {
			chunkEnd = end
		}

		chunk, err := c.fetchHistoryRange(ctx, location, cur, chunkEnd)
		if err != nil {
			c.logger.WithContext(ctx).Error("Weather history fetch failed, keeping partial results",
				"location", location,
				"from", cur.Format(utils.DateFormat),
				"to", chunkEnd.Format(utils.DateFormat),
				"rows_so_far", len(rows),
				"error", err)
			break
		}
		rows = append(rows, chunk...)

		cur = chunkEnd.AddDate(0, 0, 1)
	}

	return rows, nil
}

// Forecast fetches hourly forecast rows from today through end (inclusive).
// Unlike History, failures propagate: there is only one segment to lose.
func (c *Client) Forecast(ctx context.Context, location string, end time.Time) ([]Row, error) {
	end = dateOnly(end)
	today := dateOnly(c.Now())

	if end.Before(today) {
		return nil, fmt.Errorf("forecast end date %s is in the past", end.Format(utils.DateFormat))
	}
	days := int(end.Sub(today).Hours()/24) + 1

	params := url.Values{}
	params.Set("num_of_days", strconv.Itoa(days))

	return c.fetch(ctx, forecastEndpoint, location, params)
}

// fetchHistoryRange requests one contiguous date range from the history endpoint.
func (c *Client) fetchHistoryRange(ctx context.Context, location string, start, end time.Time) ([]Row, error) {
	params := url.Values{}
	params.Set("date", start.Format(utils.DateFormat))
	params.Set("enddate", end.Format(utils.DateFormat))

	return c.fetch(ctx, historyEndpoint, location, params)
}

// fetch performs one provider request and parses the day/hourly payload.
func (c *Client) fetch(ctx context.Context, endpoint, location string, extra url.Values) ([]Row, error) {
	reqURL := c.baseURL + endpoint

	buildRequest := func() (*http.Request, error) {
		params := url.Values{}
		params.Set("key", c.apiKey)
		params.Set("q", location)
		params.Set("tp", "1")
		params.Set("format", "json")
		for k, vs := range extra {
			for _, v := range vs {
				params.Set(k, v)
			}
		}
		return http.NewRequest(http.MethodGet, reqURL+"?"+params.Encode(), nil)
	}

	resp, err := doWithResilience(ctx, c.httpClient, c.backoff, c.breaker, buildRequest)
	if err != nil {
		return nil, &UpstreamError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	var payload struct {
		Data struct {
			Error []struct {
				Msg string `json:"msg"`
			} `json:"error"`
			Weather []struct {
				Date   string `json:"date"`
				Hourly []struct {
					Time          string `json:"time"`
					TempC         string `json:"tempC"`
					DewPointC     string `json:"DewPointC"`
					Humidity      string `json:"humidity"`
					WindspeedKmph string `json:"windspeedKmph"`
					Visibility    string `json:"visibility"`
					UVIndex       string `json:"uvIndex"`
					PrecipMM      string `json:"precipMM"`
				} `json:"hourly"`
			} `json:"weather"`
		} `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &UpstreamError{Status: resp.StatusCode, URL: reqURL, Err: err}
	}
	if len(payload.Data.Error) > 0 {
		return nil, &UpstreamError{
			Status: resp.StatusCode,
			URL:    reqURL,
			Err:    fmt.Errorf("provider error: %s", payload.Data.Error[0].Msg),
		}
	}

	var rows []Row
	for _, day := range payload.Data.Weather {
		date, err := time.ParseInLocation(utils.DateFormat, day.Date, time.UTC)
		if err != nil {
			return nil, &UpstreamError{Status: resp.StatusCode, URL: reqURL,
				Err: fmt.Errorf("bad date %q: %w", day.Date, err)}
		}

		for _, h := range day.Hourly {
			row, err := parseHourly(date, h.Time, h.TempC, h.DewPointC, h.Humidity,
				h.WindspeedKmph, h.Visibility, h.UVIndex, h.PrecipMM)
			if err != nil {
				return nil, &UpstreamError{Status: resp.StatusCode, URL: reqURL, Err: err}
			}
			c.Policy(&row)
			rows = append(rows, row)
		}
	}

	return rows, nil
}

// parseHourly converts one hourly payload entry into a Row. The provider
// encodes every value as a string and hours as "0", "100", ..., "2300".
func parseHourly(date time.Time, timeStr, tempC, dewPointC, humidity, windKmph, visibility, uvIndex, precipMM string) (Row, error) {
	rawHour, err := strconv.Atoi(timeStr)
	if err != nil {
		return Row{}, fmt.Errorf("bad hourly time %q: %w", timeStr, err)
	}

	fields := map[string]string{
		"tempC":         tempC,
		"DewPointC":     dewPointC,
		"humidity":      humidity,
		"windspeedKmph": windKmph,
		"visibility":    visibility,
		"uvIndex":       uvIndex,
		"precipMM":      precipMM,
	}
	parsed := make(map[string]float64, len(fields))
	for name, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Row{}, fmt.Errorf("bad hourly field %s=%q: %w", name, s, err)
		}
		parsed[name] = v
	}

	return Row{
		Date:           date,
		Hour:           rawHour / 100,
		Temperature:    parsed["tempC"],
		Humidity:       parsed["humidity"],
		WindSpeed:      parsed["windspeedKmph"],
		Visibility:     parsed["visibility"] * 100, // km reported, 10m units stored
		DewPoint:       parsed["DewPointC"],
		SolarRadiation: round2(parsed["uvIndex"] * uvSolarFactor),
		Rainfall:       parsed["precipMM"],
		Snowfall:       0,
	}, nil
}

// dateOnly truncates a timestamp to midnight UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// lastOfMonth returns the final day of t's month.
func lastOfMonth(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
