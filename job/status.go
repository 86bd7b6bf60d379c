package job

import (
	"database/sql/driver"
	"fmt"
)

// Status represents the current lifecycle state of a Job.
//
// The state machine is:
//
//	Queued     -> Processing
//	Processing -> Done
//	Processing -> Queued      (via Fail, retry with backoff)
//	Processing -> Failed      (via Fail, retries exhausted)
//	Processing -> Processing  (reclaim of an expired lease)
//
// Unknown is reserved as a zero value and is used by List's status filter
// to mean "no status filter."
type Status uint8

const (
	// Unknown represents an unspecified or invalid job state.
	// It is the zero value of Status and must never be stored.
	Unknown Status = iota

	// Queued indicates that the job is available for dequeuing.
	// A Queued job may have a future NextRunAt, delaying execution.
	Queued

	// Processing indicates that the job has been leased and is currently
	// owned by a consumer. While in this state, LeaseUntil defines the
	// visibility timeout.
	Processing

	// Done indicates successful completion. Terminal.
	Done

	// Failed indicates that the job exhausted its retry budget. Terminal.
	Failed
)

func statusToString(status Status) string {
	switch status {
	case Queued:
		return "queued"
	case Processing:
		return "processing"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func statusFromString(status string) (Status, error) {
	switch status {
	case "queued":
		return Queued, nil
	case "processing":
		return Processing, nil
	case "done":
		return Done, nil
	case "failed":
		return Failed, nil
	case "", "unknown":
		return Unknown, nil
	default:
		return 0, fmt.Errorf("unknown status: %s", status)
	}
}

// ParseStatus converts a string representation of a status into a Status
// value. An unrecognized, non-empty string is an error; "" and "unknown"
// parse to Unknown. The List handler in httpapi treats both an error and
// Unknown as "no status filter."
func ParseStatus(s string) (Status, error) {
	return statusFromString(s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(statusToString(s)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	status, err := statusFromString(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// String returns the canonical lowercase name of the status.
func (s Status) String() string {
	return statusToString(s)
}

// Terminal reports whether the status is Done or Failed.
func (s Status) Terminal() bool {
	return s == Done || s == Failed
}

// Value implements driver.Valuer so Status is stored as its canonical text
// name rather than its underlying uint8.
func (s Status) Value() (driver.Value, error) {
	return statusToString(s), nil
}

// Scan implements sql.Scanner, the counterpart to Value.
func (s *Status) Scan(src any) error {
	switch v := src.(type) {
	case string:
		status, err := statusFromString(v)
		if err != nil {
			return err
		}
		*s = status
		return nil
	case []byte:
		status, err := statusFromString(string(v))
		if err != nil {
			return err
		}
		*s = status
		return nil
	case nil:
		*s = Unknown
		return nil
	default:
		return fmt.Errorf("job: cannot scan %T into Status", src)
	}
}
