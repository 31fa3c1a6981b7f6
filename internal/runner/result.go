package runner

import (
	"time"

	"github.com/AndreyAkinshin/asmcheck/internal/config"
	"github.com/AndreyAkinshin/asmcheck/internal/fixture"
)

// Status is the terminal state of a fixture.
type Status int

const (
	StatusNotRun Status = iota // Never started or killed by a strict abort
	StatusPassed
	StatusFailed
	StatusError
	StatusIncomplete
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusError:
		return "error"
	case StatusIncomplete:
		return "incomplete"
	default:
		return "not run"
	}
}

// Result is the outcome of one fixture.
type Result struct {
	Fixture  *fixture.Fixture
	Status   Status
	Stdout   string
	Stderr   string
	Err      error // Execution or incomplete error, if any
	Duration time.Duration
}

// IsFailure reports whether the result makes the run unsuccessful.
func (r Result) IsFailure(policy config.IncompletePolicy) bool {
	switch r.Status {
	case StatusFailed, StatusError:
		return true
	case StatusIncomplete:
		return policy == config.IncompleteFail
	default:
		return false
	}
}

// Summary aggregates the results of a run.
type Summary struct {
	Results    []Result // Reported results, in ID order
	Total      int      // Fixtures discovered
	Passed     int
	Failed     int
	Errored    int
	Incomplete int
	NotRun     int  // Fixtures left unreported by a strict abort
	Aborted    bool // The run stopped at the first failure
	Duration   time.Duration // Wall-clock time of the run

	incomplete config.IncompletePolicy
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusPassed:
		s.Passed++
	case StatusFailed:
		s.Failed++
	case StatusError:
		s.Errored++
	case StatusIncomplete:
		s.Incomplete++
	}
}

// OK reports whether the run succeeded.
func (s Summary) OK() bool {
	if s.Failed > 0 || s.Errored > 0 {
		return false
	}
	return s.incomplete != config.IncompleteFail || s.Incomplete == 0
}

// FailedResults returns the reported results that made the run unsuccessful.
func (s Summary) FailedResults() []Result {
	var failed []Result
	for _, r := range s.Results {
		if r.IsFailure(s.incomplete) {
			failed = append(failed, r)
		}
	}
	return failed
}
