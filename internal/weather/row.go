package weather

import "time"

// Row is one hour of weather as supplied by the provider or the local cache.
// Date is midnight UTC of the calendar day; Hour is the hour of day.
type Row struct {
	Date           time.Time
	Hour           int
	Temperature    float64
	Humidity       float64
	WindSpeed      float64
	Visibility     float64
	DewPoint       float64
	SolarRadiation float64
	Rainfall       float64
	Snowfall       float64
}

// Timestamp returns the full date+hour timestamp of the row.
func (r Row) Timestamp() time.Time {
	return r.Date.Add(time.Duration(r.Hour) * time.Hour)
}
