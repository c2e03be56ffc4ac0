// Package svg renders charts as SVG fragments and emits them as patches against the page, ready to be pushed to a
// browser over server sent events.
package svg

type Mode string

const (
	ModeInner  Mode = "inner"
	ModeOuter  Mode = "outer"
	ModeAppend Mode = "append"
	ModeRemove Mode = "remove"
)

// Patch is a single change to the page. Either Elements is applied to Selector using Mode, or Script is executed.
type Patch struct {
	Selector string
	Mode     Mode
	Elements string
	Script   string
}

// Sink receives patches in the order the surface produces them.
type Sink func(patch Patch) error
