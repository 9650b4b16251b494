// cmd/claimsctl/list.go
package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"claims-registry/internal/claims/registry"
	"claims-registry/internal/models"
)

func newListCmd(a *app) *cobra.Command {
	var (
		search   string
		category string
		kind     string
		sortKey  string
		dir      string
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the claims table",
		Example: `  claimsctl list --category flagged
  claimsctl list --kind vehicle --sort amount --dir desc
  claimsctl list --search memorial --page-size 5 --page 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd)
			if err != nil {
				return err
			}

			patch := models.QueryPatch{}
			if cmd.Flags().Changed("search") {
				patch.Text = &search
			}
			if cmd.Flags().Changed("category") {
				c := models.Category(category)
				patch.Category = &c
			}
			if cmd.Flags().Changed("kind") {
				k := models.KindFilter(kind)
				patch.Kind = &k
			}
			if cmd.Flags().Changed("sort") || cmd.Flags().Changed("dir") {
				spec := sess.Claims.Query().Sort
				if sortKey != "" {
					spec.Key = models.SortKey(sortKey)
				}
				if dir != "" {
					spec.Direction = models.SortDirection(dir)
				}
				patch.Sort = &spec
			}
			if cmd.Flags().Changed("page-size") {
				patch.PageSize = &pageSize
			}
			if cmd.Flags().Changed("page") {
				patch.Page = &page
			}

			if _, err := sess.Claims.SetQuery(patch); err != nil {
				return err
			}
			view, err := sess.Claims.View(cmd.Context())
			if err != nil {
				return err
			}

			if a.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			formatClaims(cmd.OutOrStdout(), view)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&search, "search", "", "match id, provider, category or patient/policy id")
	f.StringVar(&category, "category", "all", "tab: all, approved, reviewing, pending, rejected or flagged")
	f.StringVar(&kind, "kind", "all", "claim kind: all, health or vehicle")
	f.StringVar(&sortKey, "sort", "", "sort key: id, provider, category, amount, date, fraudScore or status")
	f.StringVar(&dir, "dir", "", "sort direction: asc or desc")
	f.IntVar(&page, "page", 1, "page number")
	f.IntVar(&pageSize, "page-size", 10, "rows per page")
	return cmd
}

func formatClaims(out io.Writer, view registry.View) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTYPE\tSUBJECT\tPROVIDER\tCATEGORY\tAMOUNT\tDATE\tSTATUS\tSCORE\tFLAG")
	_, _ = fmt.Fprintln(w, "--\t----\t-------\t--------\t--------\t------\t----\t------\t-----\t----")

	for _, r := range view.Rows {
		flag := ""
		if r.Flagged {
			flag = "!"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.IDLabel,
			r.KindLabel,
			r.SubjectLabel,
			r.ProviderLabel,
			r.CategoryLabel,
			r.AmountFormatted,
			r.DateFormatted,
			r.StatusLabel,
			r.FraudScore,
			flag,
		)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\npage %d of %d, %d of %d claims (sort %s %s)\n",
		view.Page, view.TotalPages, view.FilteredCount, view.TotalCount,
		view.Query.Sort.Key, view.Query.Sort.Direction)
}
