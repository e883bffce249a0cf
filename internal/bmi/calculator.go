// ABOUTME: Pure BMI, healthy-range and ideal-weight formulas.
// ABOUTME: Metric and imperial entry points both yield BMI plus height in meters.
package bmi

const (
	normalLowerBound = 18.5
	normalUpperBound = 25.0
	imperialFactor   = 703.0
	lbsPerKg         = 2.20462
	metersPerInch    = 0.0254
)

// Result is the outcome of a single calculation.
type Result struct {
	BMI          float64  `json:"bmi"`
	Category     Category `json:"-"`
	HeightMeters float64  `json:"height_m"`
	HealthyMinKg float64  `json:"healthy_min_kg"`
	HealthyMaxKg float64  `json:"healthy_max_kg"`
}

// Label returns the category display text.
func (r Result) Label() string { return r.Category.Label() }

// Color returns the category color tag.
func (r Result) Color() string { return r.Category.Color() }

// Description returns the category description.
func (r Result) Description() string { return r.Category.Description() }

// Tip returns the personalized tip for the category.
func (r Result) Tip() string { return r.Category.Tip() }

// ComputeMetric returns the BMI for a weight in kilograms and height in centimeters.
func ComputeMetric(weightKg, heightCm float64) (bmi, heightMeters float64, err error) {
	if weightKg <= 0 {
		return 0, 0, outOfRange("weight")
	}
	if heightCm <= 0 {
		return 0, 0, outOfRange("height")
	}
	heightMeters = heightCm / 100
	return weightKg / (heightMeters * heightMeters), heightMeters, nil
}

// ComputeImperial returns the BMI for a weight in pounds and a height in feet and inches.
func ComputeImperial(weightLbs float64, feet, inches int) (bmi, heightMeters float64, err error) {
	if weightLbs <= 0 {
		return 0, 0, outOfRange("weight")
	}
	if feet <= 0 {
		return 0, 0, outOfRange("height")
	}
	if inches < 0 {
		return 0, 0, outOfRange("inches")
	}
	totalInches := float64(feet*12 + inches)
	bmi = imperialFactor * weightLbs / (totalInches * totalInches)
	return bmi, totalInches * metersPerInch, nil
}

// HealthyWeightRange returns the weights bounding a normal BMI at the given height.
func HealthyWeightRange(heightMeters float64) (minKg, maxKg float64) {
	sq := heightMeters * heightMeters
	return normalLowerBound * sq, normalUpperBound * sq
}

// IdealWeightRange estimates ideal body weight with the Devine formula and
// returns it widened by 10% on either side.
func IdealWeightRange(heightMeters float64, gender Gender) (lowerKg, upperKg float64) {
	heightInches := heightMeters / metersPerInch
	base := 45.5
	if gender == Male {
		base = 50
	}
	ideal := base + 2.3*(heightInches-60)
	return ideal * 0.9, ideal * 1.1
}

// KgToLbs converts kilograms to pounds.
func KgToLbs(kg float64) float64 { return kg * lbsPerKg }

// LbsToKg converts pounds to kilograms.
func LbsToKg(lbs float64) float64 { return lbs / lbsPerKg }

// Calculate runs the formula matching the input's unit system.
func Calculate(in Input) (Result, error) {
	var (
		value, heightM float64
		err            error
	)
	switch in.Units {
	case Metric:
		value, heightM, err = ComputeMetric(in.Weight, in.Height)
	case Imperial:
		value, heightM, err = ComputeImperial(in.Weight, int(in.Height), in.Inches)
	default:
		return Result{}, invalid("units")
	}
	if err != nil {
		return Result{}, err
	}

	minKg, maxKg := HealthyWeightRange(heightM)
	return Result{
		BMI:          value,
		Category:     Classify(value),
		HeightMeters: heightM,
		HealthyMinKg: minKg,
		HealthyMaxKg: maxKg,
	}, nil
}

// Evaluate parses raw input and calculates its result.
func Evaluate(raw RawInput) (Result, Input, error) {
	in, err := Parse(raw)
	if err != nil {
		return Result{}, Input{}, err
	}
	res, err := Calculate(in)
	if err != nil {
		return Result{}, Input{}, err
	}
	return res, in, nil
}
