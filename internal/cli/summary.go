package cli

import (
	"fmt"
	"time"

	"github.com/AndreyAkinshin/asmcheck/internal/runner"
)

// printSummary prints the totals of a run and the final verdict.
func printSummary(s runner.Summary) {
	out.SummaryHeader("Summary")

	out.SummaryPassed("Passed", fmt.Sprintf("%d", s.Passed))
	if s.Failed > 0 {
		out.SummaryFailed("Failed", fmt.Sprintf("%d", s.Failed))
	}
	if s.Errored > 0 {
		out.SummaryFailed("Errors", fmt.Sprintf("%d", s.Errored))
	}
	if s.Incomplete > 0 {
		out.SummaryItem("Incomplete", fmt.Sprintf("%d", s.Incomplete))
	}
	if s.Aborted {
		out.SummaryItem("Not run", fmt.Sprintf("%d (stopped at first failure)", s.NotRun))
	}
	out.SummaryItem("Total", fmt.Sprintf("%d", s.Total))
	out.SummaryItem("Time", s.Duration.Round(time.Millisecond).String())

	failed := s.FailedResults()
	if len(failed) > 0 {
		out.Println("")
		out.SummarySectionLabel("Failed test cases:")
		for _, r := range failed {
			out.SummaryFailed("  "+r.Fixture.DisplayName(), r.Status.String())
		}
	}

	if s.OK() {
		if s.Incomplete > 0 {
			out.FinalSuccess("%d test cases passed, %d incomplete skipped.", s.Passed, s.Incomplete)
		} else {
			out.FinalSuccess("All %d test cases passed.", s.Passed)
		}
		return
	}
	out.FinalFailure("%d of %d test cases failed.", len(failed), s.Total)
}
