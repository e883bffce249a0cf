// ABOUTME: Raw input parsing and validation for BMI calculations.
// ABOUTME: Produces typed Input values and the weight/height labels stored in history.
package bmi

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// UnitSystem selects metric (kg, cm) or imperial (lbs, ft/in) inputs.
type UnitSystem string

const (
	Metric   UnitSystem = "metric"
	Imperial UnitSystem = "imperial"
)

// Gender is used only for the ideal-weight estimate.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// RawInput holds unvalidated form values.
type RawInput struct {
	Units  string
	Weight string
	Height string // centimeters (metric) or feet (imperial)
	Inches string // imperial only
	Age    string
	Gender string
}

// Input is a validated measurement.
type Input struct {
	Units  UnitSystem
	Weight float64 // kg or lbs
	Height float64 // cm or whole feet
	Inches int
	Age    int
	Gender Gender
}

// ParseUnits accepts "metric" or "imperial" in any case.
func ParseUnits(s string) (UnitSystem, error) {
	switch UnitSystem(strings.ToLower(strings.TrimSpace(s))) {
	case Metric:
		return Metric, nil
	case Imperial:
		return Imperial, nil
	}
	return "", invalid("units")
}

// ParseGender accepts "male" or "female" in any case.
func ParseGender(s string) (Gender, error) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case Male:
		return Male, nil
	case Female:
		return Female, nil
	}
	return "", invalid("gender")
}

// Parse validates raw form values into an Input.
func Parse(raw RawInput) (Input, error) {
	var in Input
	var err error

	if in.Units, err = ParseUnits(raw.Units); err != nil {
		return Input{}, err
	}
	if in.Gender, err = ParseGender(raw.Gender); err != nil {
		return Input{}, err
	}

	age, err := strconv.Atoi(strings.TrimSpace(raw.Age))
	if err != nil {
		return Input{}, invalid("age")
	}
	if age <= 0 {
		return Input{}, outOfRange("age")
	}
	in.Age = age

	if in.Weight, err = parsePositive("weight", raw.Weight); err != nil {
		return Input{}, err
	}

	if in.Units == Metric {
		if in.Height, err = parsePositive("height", raw.Height); err != nil {
			return Input{}, err
		}
		return in, nil
	}

	feet, err := strconv.Atoi(strings.TrimSpace(raw.Height))
	if err != nil {
		return Input{}, invalid("height")
	}
	if feet <= 0 {
		return Input{}, outOfRange("height")
	}
	in.Height = float64(feet)

	if s := strings.TrimSpace(raw.Inches); s != "" {
		inches, err := strconv.Atoi(s)
		if err != nil {
			return Input{}, invalid("inches")
		}
		if inches < 0 {
			return Input{}, outOfRange("inches")
		}
		in.Inches = inches
	}

	return in, nil
}

func parsePositive(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalid(field)
	}
	if v <= 0 {
		return 0, outOfRange(field)
	}
	return v, nil
}

// WeightLabel renders the weight with its unit, e.g. "70 kg" or "154 lbs".
func (in Input) WeightLabel() string {
	unit := "kg"
	if in.Units == Imperial {
		unit = "lbs"
	}
	return formatNumber(in.Weight) + " " + unit
}

// HeightLabel renders the height with its unit, e.g. "175 cm" or `5' 9"`.
func (in Input) HeightLabel() string {
	if in.Units == Imperial {
		return fmt.Sprintf("%d' %d\"", int(in.Height), in.Inches)
	}
	return formatNumber(in.Height) + " cm"
}

// GenderLabel returns the capitalized gender, e.g. "Male".
func (in Input) GenderLabel() string {
	s := string(in.Gender)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
