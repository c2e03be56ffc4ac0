package svg

import (
	"strconv"
	"strings"

	"livechart/models"
)

// linePath builds the d attribute of the chart line. An undefined point lifts the pen, the line resumes at the next
// defined one.
func linePath(points []models.Point, scales *Scales) string {
	var builder strings.Builder
	penDown := false
	for _, point := range points {
		if !point.Defined() {
			penDown = false
			continue
		}
		if penDown {
			builder.WriteByte('L')
		} else {
			builder.WriteByte('M')
		}
		builder.WriteString(strconv.Itoa(scales.X(point.Date())))
		builder.WriteByte(',')
		builder.WriteString(strconv.Itoa(scales.Y(point.Value())))
		penDown = true
	}
	return builder.String()
}
