// ABOUTME: BMI classification bands with labels, colors, descriptions and tips.
// ABOUTME: A single band table drives every per-category lookup.
package bmi

import "math"

// Category is one of the eight ordered BMI classification bands.
type Category int

const (
	SevereThinness Category = iota
	ModerateThinness
	MildThinness
	Normal
	Overweight
	ObeseClassI
	ObeseClassII
	ObeseClassIII
)

// Severity grades how far a band sits from the normal range.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMild
	SeverityModerate
	SeverityHigh
)

type band struct {
	upper       float64 // exclusive
	category    Category
	label       string
	severity    Severity
	color       string
	description string
	tip         string
}

var bands = []band{
	{
		upper:       16,
		category:    SevereThinness,
		label:       "Severe Thinness",
		severity:    SeverityHigh,
		color:       "blue",
		description: "Your weight is far below the healthy range for your height. This level of thinness is associated with nutrient deficiency, weakened immunity and bone loss.",
		tip:         "Talk to a doctor or registered dietitian soon. A supervised plan with frequent, energy-dense meals is the safest way to regain weight.",
	},
	{
		upper:       17,
		category:    ModerateThinness,
		label:       "Moderate Thinness",
		severity:    SeverityModerate,
		color:       "cyan",
		description: "Your weight is clearly below the healthy range. Energy levels and resistance to illness can suffer at this weight.",
		tip:         "Add a nutritious snack between meals and include protein with every meal. Strength training helps the extra calories become muscle.",
	},
	{
		upper:       18.5,
		category:    MildThinness,
		label:       "Mild Thinness",
		severity:    SeverityMild,
		color:       "hicyan",
		description: "Your weight is slightly below the healthy range for your height.",
		tip:         "Aim for a small, steady calorie surplus with whole foods such as nuts, dairy, whole grains and legumes.",
	},
	{
		upper:       25,
		category:    Normal,
		label:       "Normal",
		severity:    SeverityNone,
		color:       "green",
		description: "Your weight is within the healthy range for your height.",
		tip:         "Keep it up. Regular activity, balanced meals and good sleep will help you stay in this range.",
	},
	{
		upper:       30,
		category:    Overweight,
		label:       "Overweight",
		severity:    SeverityMild,
		color:       "yellow",
		description: "Your weight is above the healthy range for your height, which raises the risk of heart disease and type 2 diabetes over time.",
		tip:         "Try adding 30 minutes of brisk walking most days and swap sugary drinks for water.",
	},
	{
		upper:       35,
		category:    ObeseClassI,
		label:       "Obese Class I",
		severity:    SeverityModerate,
		color:       "magenta",
		description: "Your weight falls in the first obesity class. Health risks such as high blood pressure and joint strain increase noticeably here.",
		tip:         "Set a modest goal of losing 5-10% of your current weight. Smaller portions and daily movement make a measurable difference.",
	},
	{
		upper:       40,
		category:    ObeseClassII,
		label:       "Obese Class II",
		severity:    SeverityHigh,
		color:       "red",
		description: "Your weight falls in the second obesity class, which carries a high risk of weight-related illness.",
		tip:         "A healthcare provider can help you build a structured plan covering nutrition, activity and any medical support you may need.",
	},
	{
		upper:       math.Inf(1),
		category:    ObeseClassIII,
		label:       "Obese Class III",
		severity:    SeverityHigh,
		color:       "hired",
		description: "Your weight falls in the highest obesity class, which carries a very high risk of serious health conditions.",
		tip:         "Please consult a doctor. Medically supervised programs offer the safest and most effective path forward.",
	},
}

// AllCategories lists the categories in ascending BMI order.
var AllCategories = []Category{
	SevereThinness, ModerateThinness, MildThinness, Normal,
	Overweight, ObeseClassI, ObeseClassII, ObeseClassIII,
}

// Classify maps a BMI value to its band. Boundaries belong to the upper band.
func Classify(bmi float64) Category {
	for _, b := range bands {
		if bmi < b.upper {
			return b.category
		}
	}
	return ObeseClassIII
}

// unknownBand describes a Category value outside the eight bands.
var unknownBand = band{
	label:       "Unknown",
	severity:    SeverityNone,
	color:       "white",
	description: "This value does not map to a BMI classification.",
}

func (c Category) band() band {
	if c < SevereThinness || c > ObeseClassIII {
		return unknownBand
	}
	return bands[c]
}

// Label returns the display text for the category.
func (c Category) Label() string { return c.band().label }

// String implements fmt.Stringer.
func (c Category) String() string { return c.Label() }

// Severity returns how far the band is from the normal range.
func (c Category) Severity() Severity { return c.band().severity }

// Description returns the longer explanation of the band.
func (c Category) Description() string { return c.band().description }

// Tip returns the personalized advice for the band.
func (c Category) Tip() string { return c.band().tip }

// Color returns the display color tag for the category. Every band has
// its own tag.
func (c Category) Color() string { return c.band().color }

// CategoryFromLabel resolves a stored display label back to its category.
func CategoryFromLabel(label string) (Category, bool) {
	for _, b := range bands {
		if b.label == label {
			return b.category, true
		}
	}
	return Normal, false
}
