// internal/models/provider.go
package models

import (
	"fmt"
	"strings"
)

// Tone is a display-class token shared by badges and classifications.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneInfo    Tone = "info"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
)

type ConfidenceLabel string

const (
	ConfidenceHigh   ConfidenceLabel = "High"
	ConfidenceMedium ConfidenceLabel = "Medium"
	ConfidenceLow    ConfidenceLabel = "Low"
)

type Confidence struct {
	Label ConfidenceLabel `json:"label"`
	Tone  Tone            `json:"tone"`
}

type FreshnessLabel string

const (
	FreshnessToday      FreshnessLabel = "today"
	FreshnessThisWeek   FreshnessLabel = "this week"
	FreshnessThisMonth  FreshnessLabel = "this month"
	FreshnessOver30Days FreshnessLabel = "over 30 days"
)

type FreshnessBadge struct {
	Label FreshnessLabel `json:"label"`
	Tone  Tone           `json:"tone"`
}

// Provider is a ranked healthcare provider. TotalScore, Confidence, Signals
// and MissingFactors are derived from FactorValues and are overwritten on
// every enrichment.
type Provider struct {
	ID           string       `json:"id" yaml:"id" db:"id"`
	NPI          string       `json:"npi" yaml:"npi" db:"npi"`
	Name         string       `json:"name" yaml:"name" db:"name"`
	Specialty    string       `json:"specialty,omitempty" yaml:"specialty" db:"specialty"`
	Setting      string       `json:"setting,omitempty" yaml:"setting" db:"setting"`
	City         string       `json:"city" yaml:"city" db:"city"`
	State        string       `json:"state" yaml:"state" db:"state"`
	FactorValues FactorValues `json:"factors" yaml:"factors" db:"-"`
	UpdatedAt    string       `json:"updatedAt,omitempty" yaml:"updatedAt" db:"updated_at"`

	TotalScore     int          `json:"totalScore" yaml:"-" db:"-"`
	Confidence     Confidence   `json:"confidence" yaml:"-" db:"-"`
	Signals        []FactorCode `json:"signals" yaml:"-" db:"-"`
	MissingFactors []FactorCode `json:"missingFactors,omitempty" yaml:"-" db:"-"`
}

// FilterCriteria narrows and orders a provider listing.
type FilterCriteria struct {
	Query    string  `json:"query"`
	City     string  `json:"city"`
	State    string  `json:"state"`
	MinScore int     `json:"minScore"`
	SortKey  SortKey `json:"sortKey"`
}

type SortKey string

const (
	SortByScore SortKey = "score"
	SortByName  SortKey = "name"
)

// AllStates disables the state filter.
const AllStates = "ALL"

// DefaultFilterCriteria matches every provider and sorts by score.
// NormalizeState trims and upper-cases a state code so that "ma" and " MA"
// compare equal.
func NormalizeState(state string) string {
	return strings.ToUpper(strings.TrimSpace(state))
}

func DefaultFilterCriteria() FilterCriteria {
	return FilterCriteria{State: AllStates, SortKey: SortByScore}
}

// Validate checks the fields a provider must carry before it can be scored.
// Out-of-range factor values are accepted; scoring clamps them.
func (p Provider) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("provider id is required")
	}
	for code := range p.FactorValues {
		if !code.Valid() {
			return fmt.Errorf("provider %s: unknown factor code %q", p.ID, code)
		}
	}
	return nil
}
