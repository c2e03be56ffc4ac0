package config

const DEFAULT_SOURCE = "sensors"

const (
	TEMPERATURE_CHART = "temperature"
	HUMIDITY_CHART    = "humidity"
	AUTO_CHART        = "auto"
)

// DefaultDashboard matches the fields published by the synthetic driver.
func DefaultDashboard() *Dashboard {
	dashboard := &Dashboard{
		Sources: []string{DEFAULT_SOURCE},
		Charts: []ChartConfig{
			{
				Key:            TEMPERATURE_CHART,
				Title:          "Temperature",
				Field:          "temperature",
				LayoutPriority: 0,
			},
			{
				Key:            HUMIDITY_CHART,
				Title:          "Humidity",
				Field:          "humidity",
				LayoutPriority: 1,
			},
			{
				// No field, the chart picks the first numeric one.
				Key:            AUTO_CHART,
				Title:          "First numeric field",
				Capacity:       50,
				LayoutPriority: 2,
			},
		},
	}
	dashboard.applyDefaults()
	return dashboard
}
