// internal/scoring/rank.go
package scoring

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"provider-ranking-workers/internal/models"
)

// RankProviders filters providers by criteria and orders the survivors. The
// input slice and its records are left untouched; an empty result is valid.
//
// Stages, each skipped when its criterion is empty:
//  1. query: case-insensitive substring of "name npi"
//  2. city: case-insensitive substring
//  3. state: exact match after NormalizeState, unless ALL
//  4. minScore: TotalScore >= MinScore
//  5. sort by SortKey (score desc with name tiebreak, or name asc)
func RankProviders(providers []models.Provider, criteria models.FilterCriteria) []models.Provider {
	fold := cases.Fold()
	query := fold.String(strings.TrimSpace(criteria.Query))
	city := fold.String(strings.TrimSpace(criteria.City))
	state := models.NormalizeState(criteria.State)

	out := make([]models.Provider, 0, len(providers))
	for _, p := range providers {
		if query != "" && !strings.Contains(fold.String(p.Name+" "+p.NPI), query) {
			continue
		}
		if city != "" && !strings.Contains(fold.String(p.City), city) {
			continue
		}
		if state != "" && state != models.AllStates && models.NormalizeState(p.State) != state {
			continue
		}
		if p.TotalScore < criteria.MinScore {
			continue
		}
		out = append(out, p)
	}

	SortProviders(out, criteria.SortKey)
	return out
}

// SortProviders orders providers in place. Unknown keys sort by score.
func SortProviders(providers []models.Provider, key models.SortKey) {
	if key == models.SortByName {
		sort.SliceStable(providers, func(i, j int) bool {
			return byName(providers[i], providers[j])
		})
		return
	}
	sort.SliceStable(providers, func(i, j int) bool {
		if providers[i].TotalScore != providers[j].TotalScore {
			return providers[i].TotalScore > providers[j].TotalScore
		}
		return byName(providers[i], providers[j])
	})
}

func byName(a, b models.Provider) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}
