package operation

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a remote operation.
type Status string

// Operation statuses reported by the control plane.
const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusSucceeded  Status = "SUCCEEDED"
	StatusFailed     Status = "FAILED"
	StatusCancelled  Status = "CANCELLED"
	StatusError      Status = "ERROR"
)

// ParseStatus normalizes a raw status string from the API.
// Unrecognized values are kept as-is and treated as non-terminal.
func ParseStatus(raw string) Status {
	return Status(strings.ToUpper(strings.TrimSpace(raw)))
}

// IsTerminal reports whether no further status change is expected.
func (s Status) IsTerminal() bool {
	return s.IsSuccess() || s.IsFailure()
}

// IsSuccess reports whether the operation completed successfully.
func (s Status) IsSuccess() bool {
	return s == StatusSucceeded
}

// IsFailure reports whether the operation ended without succeeding.
func (s Status) IsFailure() bool {
	switch s {
	case StatusFailed, StatusCancelled, StatusError:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Result is the final observation of a waited-on operation.
type Result struct {
	Kind    string // e.g. "landing zone update", "baseline reset"
	ID      string
	Status  Status
	Message string // error message from the control plane, if any
	Polls   int    // number of status fetches performed
}

// Succeeded reports whether the operation reached SUCCEEDED.
func (r Result) Succeeded() bool {
	return r.Status.IsSuccess()
}

// Err converts a failed result into an error. It returns nil on success.
func (r Result) Err() error {
	if r.Succeeded() {
		return nil
	}
	msg := r.Message
	if msg == "" {
		msg = "unknown error"
	}
	return fmt.Errorf("%s operation %s ended with status %s: %s", r.Kind, r.ID, r.Status, msg)
}
