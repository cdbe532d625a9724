// internal/models/activity.go
package models

// TripNote is one field visit recorded against a provider.
type TripNote struct {
	ProviderID string `json:"providerId,omitempty" db:"provider_id"`
	Date       string `json:"date" db:"visit_date"`
	Summary    string `json:"summary" db:"summary"`
	Sentiment  string `json:"sentiment" db:"sentiment"`
	FollowUp   string `json:"followUp" db:"follow_up"`
}

const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
	FollowUpNone      = "None"
)

// UtilizationMonth is monthly catheter usage for a provider, oldest first.
type UtilizationMonth struct {
	Month        string `json:"month" db:"month"`
	Intermittent int    `json:"intermittent" db:"intermittent"`
	Indwelling   int    `json:"indwelling" db:"indwelling"`
}
