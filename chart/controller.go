package chart

import (
	"errors"
	"fmt"
	"time"

	"livechart/models"
)

const TransitionDuration = 750 * time.Millisecond

var (
	ErrNotDrawn      = errors.New("chart has not been drawn yet")
	ErrInvalidDomain = errors.New("no data to derive a domain from")
)

type DrawState uint8

const (
	Uninitialized DrawState = iota
	Drawn
)

// State is what a chart knows about its data. The event loop that owns it passes it by reference to every draw.
type State struct {
	Window *models.Window
	// Field is the plotted value name, empty until the first non-empty draw resolves it.
	Field string
}

// Controller draws State onto a Surface.
type Controller struct {
	surface  Surface
	duration time.Duration
	state    DrawState
}

func NewController(surface Surface, duration time.Duration) *Controller {
	if duration <= 0 {
		duration = TransitionDuration
	}
	return &Controller{
		surface:  surface,
		duration: duration,
	}
}

func (c *Controller) State() DrawState {
	return c.state
}

func (c *Controller) Mount() error {
	if err := c.surface.Mount(); err != nil {
		return fmt.Errorf("mount surface: %w", err)
	}
	return nil
}

// InitialDraw installs axes and line for the current window. Without a valid domain it installs an empty chart. A
// surface that was already drawn is cleared first, drawing twice never duplicates elements.
func (c *Controller) InitialDraw(state *State) error {
	points := project(state)

	if c.state == Drawn {
		if err := c.surface.Clear(); err != nil {
			return fmt.Errorf("clear surface: %w", err)
		}
		c.state = Uninitialized
	}

	domains := ComputeDomains(points)
	if !domains.Valid() {
		points = []models.Point{}
	}
	c.surface.SetDomains(domains)

	if err := c.surface.AppendAxes(); err != nil {
		return fmt.Errorf("append axes: %w", err)
	}
	if err := c.surface.AppendPath(points); err != nil {
		return fmt.Errorf("append path: %w", err)
	}
	c.state = Drawn
	return nil
}

// UpdateDraw animates the installed chart to the current window. It returns ErrNotDrawn before the initial draw and
// ErrInvalidDomain when there is nothing to scale, leaving the surface untouched in both cases.
func (c *Controller) UpdateDraw(state *State) error {
	if c.state != Drawn {
		return ErrNotDrawn
	}

	points := project(state)
	domains := ComputeDomains(points)
	if !domains.Valid() {
		return ErrInvalidDomain
	}

	c.surface.SetDomains(domains)
	if err := c.surface.TransitionPath(points, c.duration); err != nil {
		return fmt.Errorf("transition path: %w", err)
	}
	if err := c.surface.TransitionAxes(c.duration); err != nil {
		return fmt.Errorf("transition axes: %w", err)
	}
	return nil
}

func project(state *State) []models.Point {
	points, field := Project(state.Window.Snapshot(), state.Field)
	state.Field = field
	return points
}
