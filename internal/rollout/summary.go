package rollout

import (
	"time"

	"github.com/imamik/lzctl/internal/operation"
	"github.com/imamik/lzctl/internal/organization"
)

// Outcome classifies how an OU fared during rollout.
type Outcome string

// Per-OU outcomes.
const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// UnitResult records the rollout of a single OU.
type UnitResult struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	OperationID string           `json:"operationId,omitempty"`
	Status      operation.Status `json:"status,omitempty"`
	Outcome     Outcome          `json:"outcome"`
	Message     string           `json:"message,omitempty"`
	Duration    time.Duration    `json:"durationNs"`
}

// RegionChange records the landing zone part of a run.
type RegionChange struct {
	LandingZoneARN string           `json:"landingZoneArn"`
	Current        []string         `json:"current"`
	Desired        []string         `json:"desired"`
	Added          []string         `json:"added"`
	Removed        []string         `json:"removed"`
	Updated        bool             `json:"updated"`
	OperationID    string           `json:"operationId,omitempty"`
	Status         operation.Status `json:"status,omitempty"`
}

// Governed returns the regions the landing zone governs after the run: the
// desired list once an update has succeeded, the current list otherwise.
func (rc *RegionChange) Governed() []string {
	if rc.Updated && rc.Status.IsSuccess() {
		return rc.Desired
	}
	return rc.Current
}

// Summary is the result of a run.
type Summary struct {
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
	Regions    *RegionChange `json:"regions,omitempty"`
	Discovered int           `json:"discovered"`
	Targeted   int           `json:"targeted"`
	Units      []UnitResult  `json:"units"`
}

// Counts returns the number of OUs per outcome.
func (s *Summary) Counts() (succeeded, failed, skipped int) {
	for _, u := range s.Units {
		switch u.Outcome {
		case OutcomeSucceeded:
			succeeded++
		case OutcomeFailed:
			failed++
		case OutcomeSkipped:
			skipped++
		}
	}
	return succeeded, failed, skipped
}

// Failed returns the results of OUs that were not reset successfully.
func (s *Summary) Failed() []UnitResult {
	var out []UnitResult
	for _, u := range s.Units {
		if u.Outcome != OutcomeSucceeded {
			out = append(out, u)
		}
	}
	return out
}

func newUnitResult(u organization.Unit) UnitResult {
	return UnitResult{ID: u.ID, Name: u.Name}
}
