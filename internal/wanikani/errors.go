package wanikani

import "fmt"

// TransportError is returned when a request fails on the network or the API
// answers with a non-success status.
type TransportError struct {
	Op         string // "fetch_due", "report_outcome", ...
	StatusCode int    // 0 when no response was received
	Message    string // error text from the API, if any
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("wanikani %s: status %d: %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0 && e.Err == nil:
		return fmt.Sprintf("wanikani %s: status %d", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("wanikani %s: %v", e.Op, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }
