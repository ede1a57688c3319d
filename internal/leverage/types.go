package leverage

// Tier buckets assets by liquidity and market cap. Tier caps bound how far
// any regime boost can push the final leverage.
type Tier int

const (
	TierSmallCap Tier = iota
	TierMidCap
	TierBlueChip
)

func (t Tier) String() string {
	switch t {
	case TierBlueChip:
		return "BLUE_CHIP"
	case TierMidCap:
		return "MID_CAP"
	default:
		return "SMALL_CAP"
	}
}

// Action describes what the rules did to the base leverage.
type Action int

const (
	ActionKept Action = iota
	ActionReduced
	ActionBoosted
	ActionCapped
)

func (a Action) String() string {
	switch a {
	case ActionReduced:
		return "REDUCED"
	case ActionBoosted:
		return "BOOSTED"
	case ActionCapped:
		return "CAPPED"
	default:
		return "KEPT"
	}
}

// Result is the leverage decision for one symbol in one regime.
type Result struct {
	Symbol           string  `json:"symbol"`
	Tier             Tier    `json:"tier"`
	BaseLeverage     float64 `json:"base_leverage"`
	RegimeMultiplier float64 `json:"regime_multiplier"`
	FinalLeverage    float64 `json:"final_leverage"`
	Action           Action  `json:"action"`
	Reason           string  `json:"reason"`
}
