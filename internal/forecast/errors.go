package forecast

import (
	"fmt"
	"time"
)

// RangeError reports a request for a day the series can never cover: the end
// of the requested day predates the first stored timestamp. The store is
// left untouched when this is returned.
type RangeError struct {
	Requested time.Time // end of the requested day
	Earliest  time.Time // first stored timestamp
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("date out of range: %s ends before series start %s",
		e.Requested.Format(time.RFC3339), e.Earliest.Format(time.RFC3339))
}

// InsufficientDataError reports that the hour-by-hour prediction walk could
// not reach the target because a required row is missing from the series.
type InsufficientDataError struct {
	Need    time.Time // coverage the walk had to reach
	Have    time.Time // coverage actually available
	Missing time.Time // first absent hour
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need coverage through %s, have %s, missing %s",
		e.Need.Format(time.RFC3339), e.Have.Format(time.RFC3339), e.Missing.Format(time.RFC3339))
}

// ModelError reports a regressor failure while predicting one hour.
type ModelError struct {
	Hour time.Time
	Err  error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model failed at %s: %v", e.Hour.Format(time.RFC3339), e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}
