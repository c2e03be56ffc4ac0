// Package chart turns a window of samples into something drawable and drives a Surface through the initial draw and
// the animated updates that follow it.
package chart

import (
	"math"

	"livechart/models"
)

// Project maps samples onto points using field. An empty field is resolved from the first sample's first numeric
// value and returned, so the caller can keep it stable for later draws. Samples missing the field project to NaN.
func Project(samples []models.Sample, field string) ([]models.Point, string) {
	if len(samples) == 0 {
		return []models.Point{}, field
	}
	if field == "" {
		field = InferField(samples[0])
	}

	points := make([]models.Point, len(samples))
	for i, sample := range samples {
		value := math.NaN()
		if field != "" {
			if number, ok := sample.Number(field); ok {
				value = number
			}
		}
		points[i] = models.NewPoint(sample.Time(), value)
	}
	return points, field
}

// InferField returns the name of the first numeric value of sample, or "" when it has none.
func InferField(sample models.Sample) string {
	for _, field := range sample.Values {
		if _, ok := models.AsNumber(field.Value); ok {
			return field.Name
		}
	}
	return ""
}
