// Package timeseries holds the ordered hourly record series backing the
// forecaster: the bootstrapped dataset plus every row appended or predicted
// since.
package timeseries

import (
	"fmt"
	"sort"
	"time"

	"github.com/bikecast/bikecast/internal/models"
	"github.com/bikecast/bikecast/internal/utils"
)

// Store maintains hourly records sorted by strictly increasing timestamp and
// keeps their lag features consistent with the counts currently stored.
//
// NOT THREAD-SAFE: Store is used only behind PredictionService, which
// serializes access with its own mutex. Do not share a Store across
// goroutines without external locking.
type Store struct {
	records   []models.HourlyRecord
	lastKnown time.Time // boundary of observed (non-predicted) counts
}

// Bootstrap builds a Store from the base dataset. Records must be hourly
// contiguous. Lag features are recomputed from scratch and last-known is set
// to the final record's timestamp.
func Bootstrap(records []models.HourlyRecord) (*Store, error) {
	if len(records) == 0 {
		return nil, models.NewValidationError("records", "at least one record required")
	}

	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1].Timestamp, records[i].Timestamp
		if !cur.Equal(prev.Add(time.Hour)) {
			return nil, models.NewValidationError("timestamp",
				fmt.Sprintf("row %d: %s does not follow %s by one hour",
					i, cur.Format(time.RFC3339), prev.Format(time.RFC3339)))
		}
	}

	s := &Store{
		records:   make([]models.HourlyRecord, len(records)),
		lastKnown: records[len(records)-1].Timestamp,
	}
	copy(s.records, records)
	s.RecomputeLags(0, len(s.records)-1)
	return s, nil
}

// Append merges new rows into the series, keeping only rows strictly after
// the current coverage maximum. Overlapping and out-of-order rows are
// dropped silently: the series already owns those hours. Lag features of the
// kept range are recomputed. Returns the number of rows kept.
func (s *Store) Append(records []models.HourlyRecord) int {
	firstNew := len(s.records)
	max := s.CoverageMax()

	for _, rec := range records {
		if !rec.Timestamp.After(max) {
			continue
		}
		s.records = append(s.records, rec)
		max = rec.Timestamp
	}

	kept := len(s.records) - firstNew
	if kept > 0 {
		s.RecomputeLags(firstNew, len(s.records)-1)
	}
	return kept
}

// RecomputeLags refreshes the lag features of records[from..to] from the
// counts currently stored. Offsets reaching before the series start stay 0.
func (s *Store) RecomputeLags(from, to int) {
	if from < 0 {
		from = 0
	}
	if to >= len(s.records) {
		to = len(s.records) - 1
	}
	for i := from; i <= to; i++ {
		s.records[i].Lag1 = s.countAt(i - 1)
		s.records[i].Lag2 = s.countAt(i - 2)
		s.records[i].Lag3 = s.countAt(i - 3)
	}
}

func (s *Store) countAt(i int) int {
	if i < 0 {
		return 0
	}
	return s.records[i].RentedBikeCount
}

// SetCount finalizes the count at index i and refreshes the lag features of
// the following records whose lag window includes i.
func (s *Store) SetCount(i, count int) {
	if i < 0 || i >= len(s.records) {
		return
	}
	s.records[i].RentedBikeCount = count

	end := i + utils.LagDepth
	if end >= len(s.records) {
		end = len(s.records) - 1
	}
	if i+1 <= end {
		s.RecomputeLags(i+1, end)
	}
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.records)
}

// At returns a copy of the record at index i.
func (s *Store) At(i int) (models.HourlyRecord, bool) {
	if i < 0 || i >= len(s.records) {
		return models.HourlyRecord{}, false
	}
	return s.records[i], true
}

// First returns the earliest stored timestamp. Zero if empty.
func (s *Store) First() time.Time {
	if len(s.records) == 0 {
		return time.Time{}
	}
	return s.records[0].Timestamp
}

// CoverageMax returns the latest stored timestamp, observed or predicted.
// Zero if empty.
func (s *Store) CoverageMax() time.Time {
	if len(s.records) == 0 {
		return time.Time{}
	}
	return s.records[len(s.records)-1].Timestamp
}

// LastKnown returns the boundary of finalized counts: rows at or before it
// hold observations or completed predictions, rows after it are still being
// filled in.
func (s *Store) LastKnown() time.Time {
	return s.lastKnown
}

// AdvanceLastKnown moves the finalized boundary forward. Moves backward are
// ignored, so repeating a call for an older target cannot shrink coverage.
func (s *Store) AdvanceLastKnown(t time.Time) {
	if t.After(s.lastKnown) {
		s.lastKnown = t
	}
}

// IndexOf returns the index of the record holding exactly this timestamp.
func (s *Store) IndexOf(ts time.Time) (int, bool) {
	idx := sort.Search(len(s.records), func(i int) bool {
		return !s.records[i].Timestamp.Before(ts)
	})
	if idx < len(s.records) && s.records[idx].Timestamp.Equal(ts) {
		return idx, true
	}
	return 0, false
}

// IndexAfter returns the index of the first record strictly after ts,
// or Len() when no such record exists.
func (s *Store) IndexAfter(ts time.Time) int {
	return sort.Search(len(s.records), func(i int) bool {
		return s.records[i].Timestamp.After(ts)
	})
}

// HourlyRange locates the records covering [from, to] at exact hourly steps
// and returns their inclusive index range. When any hour of the span is
// absent, the third return names the first missing timestamp and the indices
// are not meaningful.
func (s *Store) HourlyRange(from, to time.Time) (int, int, time.Time) {
	start, ok := s.IndexOf(from)
	if !ok {
		return 0, 0, from
	}

	idx := start
	for want := from; !want.After(to); want = want.Add(time.Hour) {
		if idx >= len(s.records) || !s.records[idx].Timestamp.Equal(want) {
			return 0, 0, want
		}
		idx++
	}
	return start, idx - 1, time.Time{}
}

// SliceByDate returns the records of one calendar day (midnight to midnight
// UTC). The returned slice references internal storage; callers must not
// modify it.
func (s *Store) SliceByDate(day time.Time) []models.HourlyRecord {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(utils.HoursPerDay * time.Hour)

	startIdx := sort.Search(len(s.records), func(i int) bool {
		return !s.records[i].Timestamp.Before(start)
	})
	endIdx := sort.Search(len(s.records), func(i int) bool {
		return !s.records[i].Timestamp.Before(end)
	})

	if startIdx >= endIdx {
		return nil
	}
	return s.records[startIdx:endIdx]
}

// Records returns the full series. The returned slice references internal
// storage; callers must not modify it.
func (s *Store) Records() []models.HourlyRecord {
	return s.records
}
