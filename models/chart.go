package models

type Chart struct {
	// key is the identifier and doubles as the root element id on the page.
	key string
	// title is shown above the chart.
	title string
	// source is the key of the data source this chart subscribes to.
	source string
	// field is the value to plot, empty lets the chart pick the first numeric value of the data.
	field string
	// capacity bounds the window while following live data.
	capacity int
	// limit is how many recent samples the initial history query asks for.
	limit int
	// layoutPriority determines what order in the ui this chart should be shown
	layoutPriority uint8
}

func NewChart(
	key,
	title,
	source,
	field string,
	capacity,
	limit int,
	layoutPriority uint8,
) *Chart {
	if capacity <= 0 {
		capacity = DefaultWindowCapacity
	}
	if limit <= 0 {
		limit = capacity
	}
	return &Chart{
		key,
		title,
		source,
		field,
		capacity,
		limit,
		layoutPriority,
	}
}

func (c *Chart) Key() string {
	return c.key
}

func (c *Chart) Title() string {
	if c.title == "" {
		return c.key
	}
	return c.title
}

func (c *Chart) Source() string {
	return c.source
}

func (c *Chart) Field() string {
	return c.field
}

func (c *Chart) Capacity() int {
	return c.capacity
}

func (c *Chart) Limit() int {
	return c.limit
}

func (c *Chart) LayoutPriority() uint8 {
	return c.layoutPriority
}
