// cmd/claimsctl/summary.go
package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"claims-registry/internal/claims/dashboard"
)

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard figures of the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd)
			if err != nil {
				return err
			}
			records, err := sess.Claims.Records(cmd.Context())
			if err != nil {
				return err
			}

			summary := dashboard.Summarize(records)
			if a.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			formatSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}

func formatSummary(out io.Writer, s dashboard.Summary) {
	_, _ = fmt.Fprintf(out, "Claims: %d  Flagged: %d  Total amount: %.2f  Approval rate: %.1f%%\n",
		s.TotalClaims, s.Flagged, s.TotalAmount, s.ApprovalRate)
	_, _ = fmt.Fprintf(out, "Status: pending %d, reviewing %d, approved %d, rejected %d\n",
		s.ByStatus.Pending, s.ByStatus.Reviewing, s.ByStatus.Approved, s.ByStatus.Rejected)
	_, _ = fmt.Fprintf(out, "Risk: low %d, medium %d, high %d\n\n", s.ByRisk.Low, s.ByRisk.Medium, s.ByRisk.High)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PROVIDER\tCLAIMS\tFLAGGED\tAMOUNT")
	_, _ = fmt.Fprintln(w, "--------\t------\t-------\t------")
	for _, p := range s.Providers {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\n", p.Provider, p.Claims, p.Flagged, p.Amount)
	}
	_ = w.Flush()

	if len(s.Alerts) == 0 {
		return
	}
	_, _ = fmt.Fprintln(out, "\nRecent alerts:")
	for _, al := range s.Alerts {
		_, _ = fmt.Fprintf(out, "  %s  %s  score %d (%s)  %s\n", al.ClaimID, al.Provider, al.FraudScore, al.RiskTier, al.SubmittedOn)
	}
}
