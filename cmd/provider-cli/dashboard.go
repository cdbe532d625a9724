// cmd/provider-cli/dashboard.go
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"provider-ranking-workers/internal/analytics"
	"provider-ranking-workers/internal/dataset"
	"provider-ranking-workers/internal/scoring"
)

func newDashboardCmd(a *app) *cobra.Command {
	var flags criteriaFlags

	cmd := &cobra.Command{
		Use:     "dashboard <dataset>...",
		Short:   "Summarize score distribution across providers",
		Example: `  provider-cli dashboard data/**/*.yaml --state MA`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := flags.criteria()
			if err != nil {
				return err
			}
			providers, err := dataset.Load(args...)
			if err != nil {
				return err
			}

			all := a.engine.EnrichAll(providers)
			d := analytics.ComputeDashboard(all, scoring.RankProviders(all, criteria))
			if a.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), d)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Provider dashboard"))
			fmt.Fprint(out, keyValues(
				"Providers", strconv.Itoa(d.Total),
				"Average score", fmt.Sprintf("%.1f", d.AverageScore),
				"High performers", strconv.Itoa(d.HighPerformers),
				"Low performers", strconv.Itoa(d.LowPerformers),
				"High confidence", strconv.Itoa(d.HighConfidence),
				"Low confidence", strconv.Itoa(d.LowConfidence),
				"Filtered", fmt.Sprintf("%d (avg %.1f)", d.FilteredCount, d.FilteredAverageScore),
			))

			ranges := make([][]string, 0, len(d.ScoreRanges))
			for _, r := range d.ScoreRanges {
				ranges = append(ranges, []string{r.Range, strconv.Itoa(r.Count)})
			}
			fmt.Fprintln(out, renderTable([]string{"Score range", "Providers"}, ranges, -1, nil))

			if len(d.StateDistribution) > 0 {
				states := make([][]string, 0, len(d.StateDistribution))
				for _, s := range d.StateDistribution {
					states = append(states, []string{s.State, strconv.Itoa(s.Count)})
				}
				fmt.Fprintln(out, renderTable([]string{"State", "Providers"}, states, -1, nil))
			}

			if len(d.NeedsAttention) > 0 {
				fmt.Fprintln(out, titleStyle.Render("Needs attention"))
				for _, p := range d.NeedsAttention {
					fmt.Fprintf(out, "  %s  %s (%d)\n", p.ID, p.Name, p.TotalScore)
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
