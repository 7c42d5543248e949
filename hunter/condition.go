package hunter

// PhysicalCondition is the body condition rolled at awakening.
type PhysicalCondition string

const (
	ConditionFragile      PhysicalCondition = "Fragile"
	ConditionBelowAverage PhysicalCondition = "Below average"
	ConditionNormal       PhysicalCondition = "Normal"
	ConditionFit          PhysicalCondition = "Fit"
	ConditionAthlete      PhysicalCondition = "Athlete"
	ConditionExceptional  PhysicalCondition = "Exceptional"
)

// Conditions lists every condition from weakest to strongest.
var Conditions = []PhysicalCondition{
	ConditionFragile,
	ConditionBelowAverage,
	ConditionNormal,
	ConditionFit,
	ConditionAthlete,
	ConditionExceptional,
}

var conditionMultipliers = map[PhysicalCondition]float64{
	ConditionFragile:      0.7,
	ConditionBelowAverage: 0.9,
	ConditionNormal:       1.0,
	ConditionFit:          1.2,
	ConditionAthlete:      1.5,
	ConditionExceptional:  2.0,
}

// Multiplier is the stat generation factor for c. Unknown conditions count as Normal.
func (c PhysicalCondition) Multiplier() float64 {
	if m, ok := conditionMultipliers[c]; ok {
		return m
	}
	return 1.0
}
