package chart

import (
	"time"

	"livechart/models"
)

// Domains are the input ranges of the two axes. They are the raw extents of the data, nothing is padded or rounded.
type Domains struct {
	Date  [2]time.Time
	Value [2]float64

	hasDate  bool
	hasValue bool
}

// Valid reports whether both axes have a domain. Drawing with an invalid domain would map every point to NaN.
func (d Domains) Valid() bool {
	return d.hasDate && d.hasValue
}

// ComputeDomains returns the date extent of all points and the value extent of the defined ones.
func ComputeDomains(points []models.Point) Domains {
	var domains Domains
	for _, point := range points {
		date := point.Date()
		if !domains.hasDate {
			domains.Date = [2]time.Time{date, date}
			domains.hasDate = true
		} else {
			if date.Before(domains.Date[0]) {
				domains.Date[0] = date
			}
			if date.After(domains.Date[1]) {
				domains.Date[1] = date
			}
		}

		if !point.Defined() {
			continue
		}
		value := point.Value()
		if !domains.hasValue {
			domains.Value = [2]float64{value, value}
			domains.hasValue = true
			continue
		}
		domains.Value[0] = min(domains.Value[0], value)
		domains.Value[1] = max(domains.Value[1], value)
	}
	return domains
}
