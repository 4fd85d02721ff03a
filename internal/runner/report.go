package runner

import (
	"fmt"
	"io"
	"time"
)

// PrintSummary writes the human-readable end-of-run summary: every failed
// command, the pass/fail counts, and wall-clock elapsed time.
func PrintSummary(w io.Writer, results *RunResults) {
	failed := results.FailedCommands()
	if len(failed) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Failed commands:\n")
		for _, command := range failed {
			fmt.Fprintf(w, "  - %s\n", command)
		}
	}

	fmt.Fprintln(w)
	// Round to 10ms so the elapsed time stays readable.
	fmt.Fprintf(w, "%d succeeded, %d failed in %s\n",
		results.Successful, results.Failed, results.Elapsed.Round(10*time.Millisecond))
}
