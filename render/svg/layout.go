package svg

type Margin struct {
	Top, Right, Bottom, Left int
}

// Layout is the outer size of a chart and the margin reserved for its axes.
type Layout struct {
	Width  int
	Height int
	Margin Margin
}

func DefaultLayout() Layout {
	return Layout{
		Width:  480,
		Height: 420,
		Margin: Margin{Top: 20, Right: 20, Bottom: 30, Left: 50},
	}
}

// InnerWidth is the width of the plot area.
func (l Layout) InnerWidth() int {
	return max(l.Width-l.Margin.Left-l.Margin.Right, 1)
}

// InnerHeight is the height of the plot area.
func (l Layout) InnerHeight() int {
	return max(l.Height-l.Margin.Top-l.Margin.Bottom, 1)
}
