// cmd/provider-cli/rank.go
package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"provider-ranking-workers/internal/dataset"
	"provider-ranking-workers/internal/models"
	"provider-ranking-workers/internal/scoring"
)

type criteriaFlags struct {
	query    string
	city     string
	state    string
	minScore int
	sortKey  string
}

func (f *criteriaFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "Match name or NPI (case-insensitive substring)")
	cmd.Flags().StringVar(&f.city, "city", "", "Match city (case-insensitive substring)")
	cmd.Flags().StringVar(&f.state, "state", models.AllStates, "Exact state code, or ALL")
	cmd.Flags().IntVar(&f.minScore, "min-score", 0, "Minimum total score (0-100)")
	cmd.Flags().StringVar(&f.sortKey, "sort", string(models.SortByScore), "Sort key: score, name")
}

func (f *criteriaFlags) criteria() (models.FilterCriteria, error) {
	return scoring.NormalizeCriteria(models.FilterCriteria{
		Query:    f.query,
		City:     f.city,
		State:    f.state,
		MinScore: f.minScore,
		SortKey:  models.SortKey(f.sortKey),
	})
}

type rankedRow struct {
	Rank      int                   `json:"rank"`
	Provider  models.Provider       `json:"provider"`
	Tier      string                `json:"scoreTier"`
	Freshness models.FreshnessBadge `json:"freshness"`
}

func newRankCmd(a *app) *cobra.Command {
	var (
		flags criteriaFlags
		limit int
	)

	cmd := &cobra.Command{
		Use:   "rank <dataset>...",
		Short: "Filter and rank providers",
		Long: `Enrich providers with scores, apply the filter and print them in ranked order.

Examples:
  provider-cli rank data/**/*.yaml --state TX --min-score 60
  provider-cli rank data/providers.json --sort name -q smith`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := flags.criteria()
			if err != nil {
				return err
			}
			providers, err := dataset.Load(args...)
			if err != nil {
				return err
			}

			ranked := scoring.RankProviders(a.engine.EnrichAll(providers), criteria)
			total := len(ranked)
			if limit > 0 && len(ranked) > limit {
				ranked = ranked[:limit]
			}

			now := time.Now()
			rows := make([]rankedRow, 0, len(ranked))
			for i, p := range ranked {
				rows = append(rows, rankedRow{
					Rank:      i + 1,
					Provider:  p,
					Tier:      string(scoring.ScoreTier(p.TotalScore).Tier),
					Freshness: scoring.ClassifyFreshnessString(p.UpdatedAt, now),
				})
			}
			a.log.Debug("ranking complete", map[string]interface{}{
				"candidates": len(providers),
				"matched":    total,
			})

			if a.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"criteria":      criteria,
					"totalCount":    len(providers),
					"matchedCount":  total,
					"returnedCount": len(rows),
					"providers":     rows,
				})
			}
			return printRanking(cmd.OutOrStdout(), rows, len(providers), total)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n providers (0 = all)")
	return cmd
}

func printRanking(w io.Writer, rows []rankedRow, candidates, matched int) error {
	table := make([][]string, 0, len(rows))
	tones := make([]models.Tone, 0, len(rows))
	for _, r := range rows {
		p := r.Provider
		table = append(table, []string{
			strconv.Itoa(r.Rank),
			p.ID,
			p.Name,
			p.City,
			p.State,
			strconv.Itoa(p.TotalScore),
			badge(string(p.Confidence.Label), p.Confidence.Tone),
			badge(string(r.Freshness.Label), r.Freshness.Tone),
		})
		tones = append(tones, scoring.ScoreTier(p.TotalScore).Tone)
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d of %d providers match", matched, candidates)))
	_, err := fmt.Fprintln(w, renderTable(
		[]string{"#", "ID", "Name", "City", "State", "Score", "Confidence", "Updated"},
		table, 5, tones,
	))
	return err
}
