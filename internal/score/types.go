package score

import "github.com/tradekit/structurebot/pkg/types"

// Quality buckets an entry score into fixed grades.
type Quality int

const (
	QualityWeak Quality = iota
	QualityAcceptable
	QualityGood
	QualityExcellent
)

func (q Quality) String() string {
	switch q {
	case QualityExcellent:
		return "EXCELLENT"
	case QualityGood:
		return "GOOD"
	case QualityAcceptable:
		return "ACCEPTABLE"
	default:
		return "WEAK"
	}
}

// Component is one named sub-score. Components keep insertion order so audit
// displays always list them the same way. Unavailable components carry a
// neutral score and are excluded from the weighted mean.
type Component struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Weight    float64 `json:"weight"`
	Available bool    `json:"available"`
}

// Result is the outcome of one entry-score calculation.
type Result struct {
	FinalScore float64         `json:"final_score"`
	Quality    Quality         `json:"quality"`
	Direction  types.Direction `json:"direction"`
	Components []Component     `json:"components"`

	// DegradedReason is set when the engine fell back to the neutral
	// default instead of scoring.
	DegradedReason string `json:"degraded_reason,omitempty"`
}
