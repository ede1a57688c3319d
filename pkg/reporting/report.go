package reporting

import (
	"time"

	"github.com/tradekit/structurebot/internal/pipeline"
	"github.com/tradekit/structurebot/internal/trigger"
)

// DecisionRecord is one evaluation cycle flattened for reporting.
type DecisionRecord struct {
	BarTime           time.Time `json:"bar_time"`
	Price             float64   `json:"price"`
	Regime            string    `json:"regime"`
	RegimeConfidence  float64   `json:"regime_confidence"`
	LevelCount        int       `json:"level_count"`
	Direction         string    `json:"direction"`
	Score             float64   `json:"score"`
	Quality           string    `json:"quality"`
	TriggerStatus     string    `json:"trigger_status"`
	TriggerType       string    `json:"trigger_type"`
	TriggerConfidence float64   `json:"trigger_confidence"`
	StopLoss          float64   `json:"stop_loss,omitempty"`
	TakeProfit        float64   `json:"take_profit,omitempty"`
	RiskReward        float64   `json:"risk_reward,omitempty"`
	Leverage          float64   `json:"leverage"`
}

// RecordFromDecision flattens a full-cycle decision. Refresh-only decisions
// carry no context and produce a zero record; callers should skip them.
func RecordFromDecision(d *pipeline.Decision) DecisionRecord {
	if d == nil || d.Context == nil {
		return DecisionRecord{}
	}
	rec := DecisionRecord{
		BarTime:           d.BarTime,
		Price:             d.Context.CurrentPrice,
		Regime:            d.Context.Regime.Regime.String(),
		RegimeConfidence:  d.Context.Regime.Confidence,
		LevelCount:        len(d.Context.Levels.Levels),
		Direction:         d.Direction.String(),
		Score:             d.Score.FinalScore,
		Quality:           d.Score.Quality.String(),
		TriggerStatus:     d.Trigger.Status.String(),
		TriggerType:       d.Trigger.Type.String(),
		TriggerConfidence: d.Trigger.Confidence,
		Leverage:          d.Leverage.FinalLeverage,
	}
	if d.Trigger.Exit != nil {
		rec.StopLoss = d.Trigger.Exit.StopLoss
		rec.TakeProfit = d.Trigger.Exit.TakeProfit
		rec.RiskReward = d.Trigger.Exit.RiskReward
	}
	return rec
}

// Summary aggregates a run of decision records.
type Summary struct {
	Cycles         int            `json:"cycles"`
	Triggered      int            `json:"triggered"`
	TriggersByType map[string]int `json:"triggers_by_type"`
	RegimeCounts   map[string]int `json:"regime_counts"`
	AverageScore   float64        `json:"average_score"`
	BestScore      float64        `json:"best_score"`
}

// Report is the full output of one analyzer run.
type Report struct {
	Symbol      string           `json:"symbol"`
	Timeframe   string           `json:"timeframe"`
	GeneratedAt time.Time        `json:"generated_at"`
	Records     []DecisionRecord `json:"records"`
	Summary     Summary          `json:"summary"`
}

func NewReport(symbol, timeframe string) *Report {
	return &Report{
		Symbol:      symbol,
		Timeframe:   timeframe,
		GeneratedAt: time.Now(),
	}
}

// Add appends a full-cycle decision; refresh-only decisions are ignored.
func (r *Report) Add(d *pipeline.Decision) {
	if d == nil || !d.FullCycle {
		return
	}
	r.Records = append(r.Records, RecordFromDecision(d))
}

// Finalize computes the summary over the accumulated records.
func (r *Report) Finalize() {
	s := Summary{
		Cycles:         len(r.Records),
		TriggersByType: make(map[string]int),
		RegimeCounts:   make(map[string]int),
	}
	sum := 0.0
	for _, rec := range r.Records {
		s.RegimeCounts[rec.Regime]++
		sum += rec.Score
		if rec.Score > s.BestScore {
			s.BestScore = rec.Score
		}
		if rec.TriggerStatus == trigger.StatusTriggered.String() {
			s.Triggered++
			s.TriggersByType[rec.TriggerType]++
		}
	}
	if s.Cycles > 0 {
		s.AverageScore = sum / float64(s.Cycles)
	}
	r.Summary = s
}
