// ABOUTME: History record model for saved BMI results.
// ABOUTME: Labels are resolved to display text when the record is built.
package models

import (
	"time"

	"github.com/harperreed/bmi/internal/bmi"
)

// Record is a single persisted BMI calculation.
type Record struct {
	ID        int64     `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	BMI       float64   `json:"bmi" yaml:"bmi"`
	Category  string    `json:"category" yaml:"category"`
	Age       int       `json:"age" yaml:"age"`
	Gender    string    `json:"gender" yaml:"gender"`
	Weight    string    `json:"weight" yaml:"weight"`
	Height    string    `json:"height" yaml:"height"`
}

// NewRecord builds an unsaved record from a calculation and its input.
// ID is assigned by the store; Timestamp defaults to now.
func NewRecord(res bmi.Result, in bmi.Input) *Record {
	return &Record{
		Timestamp: time.Now(),
		BMI:       res.BMI,
		Category:  res.Label(),
		Age:       in.Age,
		Gender:    in.GenderLabel(),
		Weight:    in.WeightLabel(),
		Height:    in.HeightLabel(),
	}
}

// WithTimestamp sets a custom timestamp.
func (r *Record) WithTimestamp(t time.Time) *Record {
	r.Timestamp = t
	return r
}

// SameValue reports whether two records hold identical measurement fields,
// ignoring identity and timestamp.
func (r *Record) SameValue(o *Record) bool {
	return r.BMI == o.BMI &&
		r.Category == o.Category &&
		r.Age == o.Age &&
		r.Gender == o.Gender &&
		r.Weight == o.Weight &&
		r.Height == o.Height
}

// CategoryColor returns the color tag of the stored category label.
func (r *Record) CategoryColor() string {
	if c, ok := bmi.CategoryFromLabel(r.Category); ok {
		return c.Color()
	}
	return bmi.Classify(r.BMI).Color()
}
