package timeseries

import (
	"testing"
	"time"

	"github.com/bikecast/bikecast/internal/models"
)

var seriesStart = time.Date(2018, time.November, 1, 0, 0, 0, 0, time.UTC)

// Helper function to build an hourly contiguous series with the given counts
func makeSeries(start time.Time, counts []int) []models.HourlyRecord {
	records := make([]models.HourlyRecord, len(counts))
	for i, c := range counts {
		records[i] = models.HourlyRecord{
			Timestamp:       start.Add(time.Duration(i) * time.Hour),
			RentedBikeCount: c,
		}
	}
	return records
}

func mustBootstrap(t *testing.T, counts []int) *Store {
	t.Helper()
	s, err := Bootstrap(makeSeries(seriesStart, counts))
	if err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	return s
}

func TestBootstrap(t *testing.T) {
	t.Run("SeedsLags", func(t *testing.T) {
		s := mustBootstrap(t, []int{10, 20, 30, 40, 50})

		expected := [][3]int{
			{0, 0, 0},
			{10, 0, 0},
			{20, 10, 0},
			{30, 20, 10},
			{40, 30, 20},
		}
		for i, want := range expected {
			rec, ok := s.At(i)
			if !ok {
				t.Fatalf("Expected record at index %d", i)
			}
			got := [3]int{rec.Lag1, rec.Lag2, rec.Lag3}
			if got != want {
				t.Errorf("Row %d: expected lags %v, got %v", i, want, got)
			}
		}
	})

	t.Run("SetsBoundaries", func(t *testing.T) {
		s := mustBootstrap(t, []int{10, 20, 30})

		wantLast := seriesStart.Add(2 * time.Hour)
		if !s.LastKnown().Equal(wantLast) {
			t.Errorf("Expected last known %v, got %v", wantLast, s.LastKnown())
		}
		if !s.CoverageMax().Equal(wantLast) {
			t.Errorf("Expected coverage max %v, got %v", wantLast, s.CoverageMax())
		}
		if !s.First().Equal(seriesStart) {
			t.Errorf("Expected first %v, got %v", seriesStart, s.First())
		}
	})

	t.Run("RejectsEmpty", func(t *testing.T) {
		if _, err := Bootstrap(nil); err == nil {
			t.Fatal("Expected error for empty series")
		}
	})

	t.Run("RejectsGap", func(t *testing.T) {
		records := makeSeries(seriesStart, []int{1, 2, 3})
		records[2].Timestamp = records[2].Timestamp.Add(time.Hour)

		_, err := Bootstrap(records)
		if err == nil {
			t.Fatal("Expected error for hourly gap")
		}
		if _, ok := err.(*models.ValidationError); !ok {
			t.Errorf("Expected *models.ValidationError, got %T", err)
		}
	})

	t.Run("RejectsDuplicateTimestamp", func(t *testing.T) {
		records := makeSeries(seriesStart, []int{1, 2, 3})
		records[2].Timestamp = records[1].Timestamp

		if _, err := Bootstrap(records); err == nil {
			t.Fatal("Expected error for duplicate timestamp")
		}
	})

	t.Run("DoesNotAliasInput", func(t *testing.T) {
		records := makeSeries(seriesStart, []int{1, 2, 3, 4})
		s, err := Bootstrap(records)
		if err != nil {
			t.Fatalf("Bootstrap failed: %v", err)
		}

		records[3].RentedBikeCount = 999
		rec, _ := s.At(3)
		if rec.RentedBikeCount == 999 {
			t.Error("Expected store to copy bootstrap records")
		}
	})
}

func TestAppend(t *testing.T) {
	t.Run("FiltersOverlap", func(t *testing.T) {
		s := mustBootstrap(t, []int{10, 20, 30, 40, 50})

		// Two rows overlap existing coverage, two extend it.
		batch := makeSeries(seriesStart.Add(3*time.Hour), []int{99, 98, 60, 70})
		kept := s.Append(batch)

		if kept != 2 {
			t.Errorf("Expected 2 rows kept, got %d", kept)
		}
		if s.Len() != 7 {
			t.Errorf("Expected 7 records, got %d", s.Len())
		}

		// Overlapping counts must not have replaced the stored ones.
		rec, _ := s.At(3)
		if rec.RentedBikeCount != 40 {
			t.Errorf("Expected stored count 40 untouched, got %d", rec.RentedBikeCount)
		}

		// First appended row lags against the existing tail.
		rec, _ = s.At(5)
		if rec.RentedBikeCount != 60 {
			t.Errorf("Expected appended count 60, got %d", rec.RentedBikeCount)
		}
		if rec.Lag1 != 50 || rec.Lag2 != 40 || rec.Lag3 != 30 {
			t.Errorf("Expected lags 50/40/30, got %d/%d/%d", rec.Lag1, rec.Lag2, rec.Lag3)
		}
	})

	t.Run("DropsOutOfOrderWithinBatch", func(t *testing.T) {
		s := mustBootstrap(t, []int{10, 20, 30})

		batch := []models.HourlyRecord{
			{Timestamp: seriesStart.Add(4 * time.Hour), RentedBikeCount: 1},
			{Timestamp: seriesStart.Add(3 * time.Hour), RentedBikeCount: 2},
		}
		kept := s.Append(batch)

		if kept != 1 {
			t.Errorf("Expected 1 row kept, got %d", kept)
		}
		if !s.CoverageMax().Equal(seriesStart.Add(4 * time.Hour)) {
			t.Errorf("Expected coverage max at +4h, got %v", s.CoverageMax())
		}
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		s := mustBootstrap(t, []int{10, 20})
		if kept := s.Append(nil); kept != 0 {
			t.Errorf("Expected 0 rows kept, got %d", kept)
		}
	})

	t.Run("LeavesLastKnownAlone", func(t *testing.T) {
		s := mustBootstrap(t, []int{10, 20})
		s.Append(makeSeries(seriesStart.Add(2*time.Hour), []int{30, 40}))

		if !s.LastKnown().Equal(seriesStart.Add(time.Hour)) {
			t.Errorf("Append must not advance last known, got %v", s.LastKnown())
		}
	})
}

func TestSetCount(t *testing.T) {
	t.Run("RefreshesFollowingLags", func(t *testing.T) {
		s := mustBootstrap(t, []int{10, 20, 30, 40, 50, 60, 70})

		s.SetCount(2, 99)

		rec, _ := s.At(2)
		if rec.RentedBikeCount != 99 {
			t.Errorf("Expected count 99, got %d", rec.RentedBikeCount)
		}

		rec, _ = s.At(3)
		if rec.Lag1 != 99 {
			t.Errorf("Expected lag1 99 at index 3, got %d", rec.Lag1)
		}
		rec, _ = s.At(4)
		if rec.Lag2 != 99 {
			t.Errorf("Expected lag2 99 at index 4, got %d", rec.Lag2)
		}
		rec, _ = s.At(5)
		if rec.Lag3 != 99 {
			t.Errorf("Expected lag3 99 at index 5, got %d", rec.Lag3)
		}

		// Index 6 is outside the lag window of index 2.
		rec, _ = s.At(6)
		if rec.Lag1 != 60 || rec.Lag2 != 50 || rec.Lag3 != 40 {
			t.Errorf("Expected lags 60/50/40 at index 6, got %d/%d/%d", rec.Lag1, rec.Lag2, rec.Lag3)
		}
	})

	t.Run("NearSeriesEnd", func(t *testing.T) {
		s := mustBootstrap(t, []int{10, 20})

		s.SetCount(1, 77)
		rec, _ := s.At(1)
		if rec.RentedBikeCount != 77 {
			t.Errorf("Expected count 77, got %d", rec.RentedBikeCount)
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		s := mustBootstrap(t, []int{10, 20})
		s.SetCount(-1, 5)
		s.SetCount(2, 5)

		rec, _ := s.At(0)
		if rec.RentedBikeCount != 10 {
			t.Errorf("Expected store unchanged, got count %d", rec.RentedBikeCount)
		}
	})
}

func TestAdvanceLastKnown(t *testing.T) {
	s := mustBootstrap(t, []int{10, 20})
	initial := s.LastKnown()

	s.AdvanceLastKnown(initial.Add(5 * time.Hour))
	if !s.LastKnown().Equal(initial.Add(5 * time.Hour)) {
		t.Errorf("Expected last known advanced by 5h, got %v", s.LastKnown())
	}

	s.AdvanceLastKnown(initial)
	if !s.LastKnown().Equal(initial.Add(5 * time.Hour)) {
		t.Error("Expected backward move to be ignored")
	}
}

func TestIndexLookups(t *testing.T) {
	s := mustBootstrap(t, []int{10, 20, 30, 40})

	idx, ok := s.IndexOf(seriesStart.Add(2 * time.Hour))
	if !ok || idx != 2 {
		t.Errorf("Expected index 2, got %d (ok=%v)", idx, ok)
	}

	if _, ok := s.IndexOf(seriesStart.Add(90 * time.Minute)); ok {
		t.Error("Expected no index for timestamp between records")
	}

	if got := s.IndexAfter(seriesStart.Add(time.Hour)); got != 2 {
		t.Errorf("Expected IndexAfter +1h to be 2, got %d", got)
	}
	if got := s.IndexAfter(s.CoverageMax()); got != s.Len() {
		t.Errorf("Expected IndexAfter coverage max to be Len, got %d", got)
	}
	if got := s.IndexAfter(seriesStart.Add(-time.Hour)); got != 0 {
		t.Errorf("Expected IndexAfter before start to be 0, got %d", got)
	}
}

func TestHourlyRange(t *testing.T) {
	t.Run("FullCoverage", func(t *testing.T) {
		s := mustBootstrap(t, []int{10, 20, 30, 40, 50})

		start, end, missing := s.HourlyRange(seriesStart.Add(time.Hour), seriesStart.Add(3*time.Hour))
		if !missing.IsZero() {
			t.Fatalf("Expected full coverage, got missing %v", missing)
		}
		if start != 1 || end != 3 {
			t.Errorf("Expected indices 1..3, got %d..%d", start, end)
		}
	})

	t.Run("MissingStart", func(t *testing.T) {
		s := mustBootstrap(t, []int{10, 20})

		from := seriesStart.Add(5 * time.Hour)
		_, _, missing := s.HourlyRange(from, from.Add(2*time.Hour))
		if !missing.Equal(from) {
			t.Errorf("Expected missing %v, got %v", from, missing)
		}
	})

	t.Run("RunsPastEnd", func(t *testing.T) {
		s := mustBootstrap(t, []int{10, 20, 30})

		_, _, missing := s.HourlyRange(seriesStart, seriesStart.Add(5*time.Hour))
		want := seriesStart.Add(3 * time.Hour)
		if !missing.Equal(want) {
			t.Errorf("Expected missing %v, got %v", want, missing)
		}
	})

	t.Run("InteriorGap", func(t *testing.T) {
		s := mustBootstrap(t, []int{10, 20, 30})
		// The appended batch skips the +3h hour.
		s.Append([]models.HourlyRecord{
			{Timestamp: seriesStart.Add(4 * time.Hour), RentedBikeCount: 50},
			{Timestamp: seriesStart.Add(5 * time.Hour), RentedBikeCount: 60},
		})

		_, _, missing := s.HourlyRange(seriesStart, seriesStart.Add(5*time.Hour))
		if !missing.Equal(seriesStart.Add(3 * time.Hour)) {
			t.Errorf("Expected missing at +3h, got %v", missing)
		}
	})
}

func TestSliceByDate(t *testing.T) {
	counts := make([]int, 48)
	for i := range counts {
		counts[i] = i
	}
	s := mustBootstrap(t, counts)

	day1 := s.SliceByDate(seriesStart)
	if len(day1) != 24 {
		t.Fatalf("Expected 24 records for first day, got %d", len(day1))
	}
	if day1[0].RentedBikeCount != 0 || day1[23].RentedBikeCount != 23 {
		t.Errorf("Expected counts 0..23, got %d..%d", day1[0].RentedBikeCount, day1[23].RentedBikeCount)
	}

	// A mid-day timestamp selects the same calendar day.
	day2 := s.SliceByDate(seriesStart.AddDate(0, 0, 1).Add(15 * time.Hour))
	if len(day2) != 24 {
		t.Fatalf("Expected 24 records for second day, got %d", len(day2))
	}
	if day2[0].RentedBikeCount != 24 {
		t.Errorf("Expected second day to start at count 24, got %d", day2[0].RentedBikeCount)
	}

	if got := s.SliceByDate(seriesStart.AddDate(0, 0, -1)); got != nil {
		t.Errorf("Expected nil for uncovered date, got %d records", len(got))
	}
}
