package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded analysis runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			sess, err := openSession(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()

			runs, err := sess.svc.History(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonFlag {
				return fprintJSON(out, toJSONRuns(runs))
			}

			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet. Run 'escalytics analyze' to create one.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSOURCE\tSUBJECT\tSECTIONS\tDRAFT\tCREATED")
			for _, r := range runs {
				draft := r.DraftID
				if draft == "" {
					draft = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					r.ID,
					r.Source,
					truncate(r.Subject, 40),
					len(r.Report.Sections),
					draft,
					r.CreatedAt.Local().Format(time.DateTime),
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to list")
	return cmd
}

// truncate shortens s to at most n characters, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
