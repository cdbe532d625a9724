// internal/insights/notes.go
package insights

import (
	"fmt"
	"strings"

	"provider-ranking-workers/internal/models"
)

const (
	KeywordCAUTI        = "CAUTI bundle"
	KeywordIntermittent = "intermittent education"
	KeywordTrial        = "pilot/trial"
	KeywordPricing      = "pricing clarity"

	ActionMicroTrial   = "Propose micro-trial with 90-day follow-up"
	ActionEducationKit = "Offer intermittent education kit + teach-back checklist"
	ActionDecisionAid  = "Send decision aid + book follow-up"

	TalkTrack = "Open with workflow improvement and CAUTI risk reduction; tailor assets to ASC/office setting."
)

// noteKeywords is checked in order for every note.
var noteKeywords = []struct {
	needle  string
	keyword string
}{
	{"cauti", KeywordCAUTI},
	{"intermittent", KeywordIntermittent},
	{"trial", KeywordTrial},
	{"pricing", KeywordPricing},
}

type TripNoteSummary struct {
	Summary        string        `json:"summary"`
	NextBestAction string        `json:"nextBestAction"`
	TalkTrack      string        `json:"talkTrack"`
	Keywords       []string      `json:"keywords"`
	Stats          TripNoteStats `json:"stats"`
}

type TripNoteStats struct {
	Count            int    `json:"count"`
	Positive         int    `json:"positive"`
	Negative         int    `json:"negative"`
	FollowUps        int    `json:"followUps"`
	LastVisit        string `json:"lastVisit,omitempty"`
	OverallSentiment string `json:"overallSentiment"`
}

// SummarizeTripNotes extracts talking points from visit notes, newest first.
func SummarizeTripNotes(notes []models.TripNote) TripNoteSummary {
	keywords := ExtractKeywords(notes)

	highlight := "general interest"
	if len(keywords) > 0 {
		highlight = strings.Join(keywords, ", ")
	}

	return TripNoteSummary{
		Summary:        fmt.Sprintf("Last %d visits highlight: %s.", len(notes), highlight),
		NextBestAction: NextBestAction(keywords),
		TalkTrack:      TalkTrack,
		Keywords:       keywords,
		Stats:          ComputeTripNoteStats(notes),
	}
}

// ExtractKeywords returns the distinct keywords in first-seen order.
func ExtractKeywords(notes []models.TripNote) []string {
	seen := make(map[string]bool)
	keywords := []string{}
	for _, n := range notes {
		s := strings.ToLower(n.Summary)
		for _, k := range noteKeywords {
			if strings.Contains(s, k.needle) && !seen[k.keyword] {
				seen[k.keyword] = true
				keywords = append(keywords, k.keyword)
			}
		}
	}
	return keywords
}

func NextBestAction(keywords []string) string {
	has := func(want string) bool {
		for _, k := range keywords {
			if k == want {
				return true
			}
		}
		return false
	}
	switch {
	case has(KeywordTrial):
		return ActionMicroTrial
	case has(KeywordIntermittent):
		return ActionEducationKit
	default:
		return ActionDecisionAid
	}
}

func ComputeTripNoteStats(notes []models.TripNote) TripNoteStats {
	stats := TripNoteStats{Count: len(notes), OverallSentiment: models.SentimentNeutral}
	for _, n := range notes {
		switch n.Sentiment {
		case models.SentimentPositive:
			stats.Positive++
		case models.SentimentNegative:
			stats.Negative++
		}
		if n.FollowUp != models.FollowUpNone {
			stats.FollowUps++
		}
	}
	if len(notes) > 0 {
		stats.LastVisit = notes[0].Date
	}
	if stats.Positive > stats.Negative {
		stats.OverallSentiment = models.SentimentPositive
	}
	return stats
}
