package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/specialistvlad/residencygrid/internal/executor"
	"github.com/spf13/cobra"
)

// printReport renders a run report as a table followed by the failures.
func printReport(cmd *cobra.Command, r *executor.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s) finished in %s\n\n", r.RunID, r.Job, r.Finished.Sub(r.Started).Round(time.Millisecond))

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ASSET\tGROUP\tSTATUS\tDURATION\tCHECKS")
	for _, a := range r.Assets {
		checks := "-"
		if n := len(a.Checks); n > 0 {
			passed := 0
			for _, c := range a.Checks {
				if c.Passed {
					passed++
				}
			}
			checks = fmt.Sprintf("%d/%d", passed, n)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.Name, a.Group, a.Status, a.Duration.Round(time.Millisecond), checks)
	}
	w.Flush()

	for _, a := range r.Assets {
		if a.Error != "" {
			fmt.Fprintf(out, "\n%s %s: %s", a.Name, a.Status, a.Error)
		}
		for _, c := range a.Checks {
			if !c.Passed {
				fmt.Fprintf(out, "\ncheck %s on %s failed: %s", c.Check, a.Name, c.Description)
			}
		}
	}

	s := r.Summary()
	fmt.Fprintf(out, "\n%d succeeded, %d failed, %d skipped, %d failed checks\n", s.Succeeded, s.Failed, s.Skipped, s.FailedChecks)
}
