package chart

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"livechart/models"
)

func TestComputeDomains(t *testing.T) {
	points := []models.Point{
		models.NewPoint(time.UnixMilli(20), 5),
		models.NewPoint(time.UnixMilli(10), -2),
		models.NewPoint(time.UnixMilli(30), math.NaN()),
		models.NewPoint(time.UnixMilli(25), 9),
	}

	domains := ComputeDomains(points)

	assert.True(t, domains.Valid())
	assert.Equal(t, [2]time.Time{time.UnixMilli(10), time.UnixMilli(30)}, domains.Date)
	assert.Equal(t, [2]float64{-2, 9}, domains.Value)
}

func TestComputeDomains_Invalid(t *testing.T) {
	assert.False(t, ComputeDomains(nil).Valid())

	undefined := []models.Point{
		models.NewPoint(time.UnixMilli(1), math.NaN()),
		models.NewPoint(time.UnixMilli(2), math.NaN()),
	}
	assert.False(t, ComputeDomains(undefined).Valid())
}

func TestComputeDomains_SinglePoint(t *testing.T) {
	domains := ComputeDomains([]models.Point{models.NewPoint(time.UnixMilli(7), 3)})

	assert.True(t, domains.Valid())
	assert.Equal(t, [2]float64{3, 3}, domains.Value)
}
