package types

// Direction is the side a trade decision is evaluated for.
type Direction int

const (
	DirectionNeutral Direction = iota
	DirectionLong
	DirectionShort
)

func (d Direction) String() string {
	switch d {
	case DirectionLong:
		return "LONG"
	case DirectionShort:
		return "SHORT"
	default:
		return "NEUTRAL"
	}
}

// Opposite returns the opposing trade side. Neutral has no opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionLong:
		return DirectionShort
	case DirectionShort:
		return DirectionLong
	default:
		return DirectionNeutral
	}
}
