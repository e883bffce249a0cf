// ABOUTME: Trend chart series derived from the history listing.
// ABOUTME: Points run oldest to newest with a padded BMI axis.
package history

import (
	"math"
	"time"

	"github.com/harperreed/bmi/internal/models"
)

const axisPadding = 2.0

// TrendPoint is one plotted record.
type TrendPoint struct {
	Index     int       `json:"index"`
	Timestamp time.Time `json:"timestamp"`
	BMI       float64   `json:"bmi"`
	Category  string    `json:"category"`
	Color     string    `json:"color"`
}

// Label returns the short x-axis date label, e.g. "Mar 4".
func (p TrendPoint) Label() string {
	return p.Timestamp.Format("Jan 2")
}

// TrendSeries is a chart-ready view of the history.
type TrendSeries struct {
	Points  []TrendPoint `json:"points"`
	AxisMin float64      `json:"axis_min"`
	AxisMax float64      `json:"axis_max"`
}

// Trend builds a series from a newest-first listing. The x value of each
// point is its position, so records sharing a timestamp stay distinct.
func Trend(records []models.Record) TrendSeries {
	if len(records) == 0 {
		return TrendSeries{}
	}

	series := TrendSeries{Points: make([]TrendPoint, 0, len(records))}
	minBMI, maxBMI := math.Inf(1), math.Inf(-1)

	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		series.Points = append(series.Points, TrendPoint{
			Index:     len(series.Points),
			Timestamp: r.Timestamp,
			BMI:       r.BMI,
			Category:  r.Category,
			Color:     r.CategoryColor(),
		})
		minBMI = math.Min(minBMI, r.BMI)
		maxBMI = math.Max(maxBMI, r.BMI)
	}

	series.AxisMin = math.Max(0, math.Floor(minBMI-axisPadding))
	series.AxisMax = maxBMI + axisPadding
	return series
}
