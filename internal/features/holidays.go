package features

import (
	"time"

	"github.com/bikecast/bikecast/internal/utils"
)

type monthDay struct {
	month time.Month
	day   int
}

// Fixed-date South Korean public holidays, observed every year.
var fixedHolidays = map[monthDay]struct{}{
	{time.January, 1}:   {}, // New Year's Day
	{time.March, 1}:     {}, // Independence Movement Day
	{time.May, 5}:       {}, // Children's Day
	{time.June, 6}:      {}, // Memorial Day
	{time.August, 15}:   {}, // Liberation Day
	{time.October, 3}:   {}, // National Foundation Day
	{time.October, 9}:   {}, // Hangeul Day
	{time.December, 25}: {}, // Christmas Day
}

// Lunar-calendar holidays shift every year, so they are tabulated per year.
// Seollal and Chuseok list the central day of a three-day observance; the
// tables cover the span of the dataset plus the forecast horizon.
var (
	seollal = map[int]monthDay{
		2017: {time.January, 28},
		2018: {time.February, 16},
		2019: {time.February, 5},
		2020: {time.January, 25},
		2021: {time.February, 12},
		2022: {time.February, 1},
		2023: {time.January, 22},
		2024: {time.February, 10},
		2025: {time.January, 29},
		2026: {time.February, 17},
	}

	buddhasBirthday = map[int]monthDay{
		2017: {time.May, 3},
		2018: {time.May, 22},
		2019: {time.May, 12},
		2020: {time.April, 30},
		2021: {time.May, 19},
		2022: {time.May, 8},
		2023: {time.May, 27},
		2024: {time.May, 15},
		2025: {time.May, 5},
		2026: {time.May, 24},
	}

	chuseok = map[int]monthDay{
		2017: {time.October, 4},
		2018: {time.September, 24},
		2019: {time.September, 13},
		2020: {time.October, 1},
		2021: {time.September, 21},
		2022: {time.September, 10},
		2023: {time.September, 29},
		2024: {time.September, 17},
		2025: {time.October, 6},
		2026: {time.September, 25},
	}
)

// lunarDates indexes every lunar holiday date as yyyy-mm-dd.
var lunarDates = buildLunarDates()

func buildLunarDates() map[string]struct{} {
	dates := make(map[string]struct{})

	span := func(year int, md monthDay, radius int) {
		center := time.Date(year, md.month, md.day, 0, 0, 0, 0, time.UTC)
		for off := -radius; off <= radius; off++ {
			dates[center.AddDate(0, 0, off).Format(utils.DateFormat)] = struct{}{}
		}
	}

	for year, md := range seollal {
		span(year, md, 1)
	}
	for year, md := range chuseok {
		span(year, md, 1)
	}
	for year, md := range buddhasBirthday {
		span(year, md, 0)
	}

	return dates
}

// IsHoliday reports whether the date falls on a South Korean public holiday.
// Substitute holidays for weekend overlaps are not modelled.
func IsHoliday(t time.Time) bool {
	if _, ok := fixedHolidays[monthDay{t.Month(), t.Day()}]; ok {
		return true
	}
	_, ok := lunarDates[t.Format(utils.DateFormat)]
	return ok
}
