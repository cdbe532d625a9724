// cmd/provider-cli/freshness.go
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"provider-ranking-workers/internal/models"
	"provider-ranking-workers/internal/scoring"
)

func newFreshnessCmd(a *app) *cobra.Command {
	var nowFlag string

	cmd := &cobra.Command{
		Use:   "freshness <timestamp>...",
		Short: "Classify how recently providers were updated",
		Example: `  provider-cli freshness 2025-06-01 2025-06-14T09:00:00Z --now 2025-06-15
  provider-cli freshness "2025-01-02 15:04:05"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if nowFlag != "" {
				ts, ok := scoring.ParseTimestamp(nowFlag)
				if !ok {
					return fmt.Errorf("--now %q is not a recognised timestamp", nowFlag)
				}
				now = ts
			}

			badges := make(map[string]models.FreshnessBadge, len(args))
			rows := make([][]string, 0, len(args))
			tones := make([]models.Tone, 0, len(args))
			for _, raw := range args {
				b := scoring.ClassifyFreshnessString(raw, now)
				badges[raw] = b
				rows = append(rows, []string{raw, string(b.Label)})
				tones = append(tones, b.Tone)
			}

			if a.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), badges)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Timestamp", "Freshness"}, rows, 1, tones))
			return err
		},
	}

	cmd.Flags().StringVar(&nowFlag, "now", "", "Reference time (default: current time)")
	return cmd
}
