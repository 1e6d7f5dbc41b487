package weather

import "fmt"

// UpstreamError reports a failed exchange with the weather provider: a
// transport failure, a non-2xx status, or an error payload. During
// multi-month history fetches it is logged and swallowed so that rows
// gathered before the failure survive.
type UpstreamError struct {
	Status int    // HTTP status, 0 for transport failures
	URL    string // request URL without query (the key stays out of logs)
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("weather upstream %s: status %d: %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("weather upstream %s: %v", e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
