package occupancy

import (
	"strconv"

	"readinghall-dashboard/model"
)

type Counter struct {
	Label string
	Value string
}

// Counters returns the four headline counters of the overview. The rate is
// shown as reported by the backend.
func Counters(overview model.OverviewSnapshot) []Counter {
	return []Counter{
		{Label: "Total Seats", Value: strconv.Itoa(overview.TotalSeats)},
		{Label: "Occupied", Value: strconv.Itoa(overview.OccupiedSeats)},
		{Label: "Available", Value: strconv.Itoa(overview.AvailableSeats)},
		{Label: "Occupancy Rate", Value: FormatRate(overview.OccupancyRate) + "%"},
	}
}

// FormatRate prints a percentage without trailing zeros, e.g. 40 or 33.33.
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}

// OccupancyRatio maps the percentage onto [0,1] for the occupancy bar.
func OccupancyRatio(overview model.OverviewSnapshot) float64 {
	ratio := overview.OccupancyRate / 100
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}
