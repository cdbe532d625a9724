// internal/scoring/criteria.go
package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"provider-ranking-workers/internal/models"
)

var ErrInvalidFilter = errors.New("INVALID_FILTER_FORMAT")

// NormalizeCriteria trims text fields, upper-cases the state (empty means
// ALL), clamps minScore to [0,100] and defaults the sort key. Unknown sort
// keys are rejected here even though RankProviders tolerates them.
func NormalizeCriteria(c models.FilterCriteria) (models.FilterCriteria, error) {
	c.Query = strings.TrimSpace(c.Query)
	c.City = strings.TrimSpace(c.City)

	c.State = models.NormalizeState(c.State)
	if c.State == "" {
		c.State = models.AllStates
	}

	c.MinScore = clampScore(c.MinScore)

	switch key := models.SortKey(strings.ToLower(strings.TrimSpace(string(c.SortKey)))); key {
	case "":
		c.SortKey = models.SortByScore
	case models.SortByScore, models.SortByName:
		c.SortKey = key
	default:
		return c, fmt.Errorf("%w: unknown sortKey %q", ErrInvalidFilter, c.SortKey)
	}
	return c, nil
}

// ParseCriteria builds criteria from loosely typed variables such as form
// fields. minScore may be a number or a numeric string.
func ParseCriteria(raw map[string]interface{}) (models.FilterCriteria, error) {
	var c models.FilterCriteria

	for field, dst := range map[string]*string{
		"query": &c.Query,
		"city":  &c.City,
		"state": &c.State,
	} {
		v, ok := raw[field]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return c, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidFilter, field, v)
		}
		*dst = s
	}

	if v, ok := raw["sortKey"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return c, fmt.Errorf("%w: sortKey must be a string, got %T", ErrInvalidFilter, v)
		}
		c.SortKey = models.SortKey(s)
	}

	if v, ok := raw["minScore"]; ok && v != nil {
		score, err := parseScore(v)
		if err != nil {
			return c, err
		}
		c.MinScore = score
	}

	return NormalizeCriteria(c)
}

func parseScore(v interface{}) (int, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: minScore %q is not numeric", ErrInvalidFilter, n)
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: minScore %q is not numeric", ErrInvalidFilter, n)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: minScore must be a number, got %T", ErrInvalidFilter, v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: minScore must be finite", ErrInvalidFilter)
	}
	// Rounded up so that totalScore >= minScore still holds for fractions.
	f = math.Max(MinScore, math.Min(MaxScore, f))
	return int(math.Ceil(f)), nil
}

func clampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
