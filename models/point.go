package models

import (
	"math"
	"time"
)

// Point is a sample projected onto the one value a chart plots. A sample without a usable value projects to NaN.
type Point struct {
	date  time.Time
	value float64
}

func NewPoint(date time.Time, value float64) Point {
	return Point{date, value}
}

func (p Point) Date() time.Time {
	return p.date
}

func (p Point) Value() float64 {
	return p.value
}

// Defined reports whether the point has a finite value and can be plotted.
func (p Point) Defined() bool {
	return !math.IsNaN(p.value) && !math.IsInf(p.value, 0)
}
