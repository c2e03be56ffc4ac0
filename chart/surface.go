package chart

import (
	"time"

	"livechart/models"
)

// Surface is the rendering side of a chart. The Controller is its only caller and never calls it concurrently.
type Surface interface {
	// Mount creates the empty chart frame inside the root element.
	Mount() error
	// SetDomains updates the input ranges of both axis scales. Axes drawn with an invalid domain have no ticks.
	SetDomains(domains Domains)
	// AppendAxes installs the x and y axes for the current domains.
	AppendAxes() error
	// AppendPath installs the line for points. Undefined points break the line.
	AppendPath(points []models.Point) error
	// TransitionPath animates the installed line to points over d.
	TransitionPath(points []models.Point, d time.Duration) error
	// TransitionAxes animates both installed axes to the current domains over d.
	TransitionAxes(d time.Duration) error
	// Clear removes everything AppendAxes and AppendPath installed.
	Clear() error
}
