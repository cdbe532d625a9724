// cmd/provider-cli/score.go
package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"provider-ranking-workers/internal/dataset"
	"provider-ranking-workers/internal/models"
	"provider-ranking-workers/internal/scoring"
)

type scoredRow struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name,omitempty"`
	TotalScore     int                    `json:"totalScore"`
	Tier           scoring.ScoreTierBadge `json:"scoreTier"`
	Confidence     models.Confidence      `json:"confidence"`
	Signals        []models.FactorCode    `json:"signals"`
	MissingFactors []models.FactorCode    `json:"missingFactors"`
}

func newScoreCmd(a *app) *cobra.Command {
	var factors map[string]string

	cmd := &cobra.Command{
		Use:   "score [dataset...]",
		Short: "Score providers from datasets or ad-hoc factor values",
		Long: `Score every provider in the given datasets, or a single ad-hoc provider
built from --factors.

Examples:
  # Score an ad-hoc provider
  provider-cli score --factors A=0.9,B=0.8,C=0.7

  # Score a dataset
  provider-cli score data/providers.yaml -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var providers []models.Provider
			switch {
			case len(factors) > 0:
				values, err := parseFactors(factors)
				if err != nil {
					return err
				}
				providers = []models.Provider{{ID: "ad-hoc", FactorValues: values}}
			case len(args) > 0:
				loaded, err := dataset.Load(args...)
				if err != nil {
					return err
				}
				providers = loaded
			default:
				return fmt.Errorf("provide a dataset or --factors")
			}

			rows := make([]scoredRow, 0, len(providers))
			for _, p := range a.engine.EnrichAll(providers) {
				missing := p.MissingFactors
				if missing == nil {
					missing = []models.FactorCode{}
				}
				rows = append(rows, scoredRow{
					ID:             p.ID,
					Name:           p.Name,
					TotalScore:     p.TotalScore,
					Tier:           scoring.ScoreTier(p.TotalScore),
					Confidence:     p.Confidence,
					Signals:        p.Signals,
					MissingFactors: missing,
				})
			}

			if a.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			return printScores(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().StringToStringVar(&factors, "factors", nil, "Factor values, e.g. A=0.9,B=0.4")
	return cmd
}

// parseFactors turns flag pairs into factor values. Codes are
// case-insensitive; values must be numeric.
func parseFactors(raw map[string]string) (models.FactorValues, error) {
	values := make(models.FactorValues, len(raw))
	for k, v := range raw {
		code := models.FactorCode(strings.ToUpper(strings.TrimSpace(k)))
		if !code.Valid() {
			return nil, fmt.Errorf("unknown factor %q", k)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("factor %s: %q is not a number", code, v)
		}
		values[code] = f
	}
	return values, nil
}

func printScores(w io.Writer, rows []scoredRow) error {
	table := make([][]string, 0, len(rows))
	tones := make([]models.Tone, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{
			r.ID,
			r.Name,
			strconv.Itoa(r.TotalScore),
			string(r.Tier.Tier),
			badge(string(r.Confidence.Label), r.Confidence.Tone),
			joinCodes(r.Signals),
			joinCodes(r.MissingFactors),
		})
		tones = append(tones, r.Tier.Tone)
	}
	_, err := fmt.Fprintln(w, renderTable(
		[]string{"ID", "Name", "Score", "Tier", "Confidence", "Signals", "Missing"},
		table, 2, tones,
	))
	return err
}
