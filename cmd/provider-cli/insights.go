// cmd/provider-cli/insights.go
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"provider-ranking-workers/internal/dataset"
	"provider-ranking-workers/internal/insights"
	"provider-ranking-workers/internal/scoring"
)

func newInsightsCmd(a *app) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:     "insights <dataset>... --id <provider>",
		Short:   "Show account-planning insights for one provider",
		Example: `  provider-cli insights data/providers.yaml --id p-1001`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" {
				return fmt.Errorf("--id is required")
			}
			providers, err := dataset.Load(args...)
			if err != nil {
				return err
			}

			for _, p := range providers {
				if p.ID != id {
					continue
				}
				enriched := a.engine.Enrich(p)
				view := insights.Generate(enriched, a.engine.Model())

				if a.jsonOutput() {
					return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
						"provider": enriched,
						"insights": view,
					})
				}

				tier := scoring.ScoreTier(enriched.TotalScore)
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s  %s", enriched.ID, enriched.Name)))
				fmt.Fprint(out, keyValues(
					"Total score", badge(strconv.Itoa(enriched.TotalScore), tier.Tone),
					"Relationship", view.RelationshipStatus,
					"Confidence", badge(string(enriched.Confidence.Label), enriched.Confidence.Tone),
					"Confidence insight", view.ConfidenceInsight,
					"Top signals", strings.Join(view.TopSignals, ", "),
					"Missing factors", joinCodes(enriched.MissingFactors),
				))
				fmt.Fprintln(out)
				for _, action := range view.RecommendedActions {
					fmt.Fprintf(out, "  • %s\n", action)
				}
				return nil
			}
			return fmt.Errorf("provider %s not found", id)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Provider id")
	return cmd
}
