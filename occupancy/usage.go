package occupancy

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"readinghall-dashboard/model"
)

type UsagePoint struct {
	Date        time.Time
	Label       string
	Sessions    int
	AvgDuration int
}

// UsageSeries reverses the most-recent-first daily stats into chronological
// order, labels each day and rounds the average duration. A null average
// counts as 0. Entries are never dropped; a date that does not parse keeps its
// raw text as label.
func UsageSeries(stats []model.DailyUsageStat) []UsagePoint {
	points := make([]UsagePoint, 0, len(stats))
	for i := len(stats) - 1; i >= 0; i-- {
		stat := stats[i]
		avg := 0.0
		if stat.AvgDuration != nil {
			avg = *stat.AvgDuration
		}
		point := UsagePoint{
			Label:       stat.Date,
			Sessions:    stat.TotalSessions,
			AvgDuration: int(math.Round(avg)),
		}
		if date := model.ParseTimestamp(stat.Date); !date.IsZero() {
			point.Date = date
			point.Label = date.Format("Jan 2")
		}
		points = append(points, point)
	}
	return points
}

type HourPoint struct {
	Hour     int
	Label    string
	Sessions int
}

// HourlyDistribution spreads hourly counts over all 24 hours in order; hours
// missing from the stats are zero.
func HourlyDistribution(stats []model.HourlyUsageStat) []HourPoint {
	points := make([]HourPoint, 24)
	for h := range points {
		points[h] = HourPoint{Hour: h, Label: fmt.Sprintf("%02d", h)}
	}
	for _, stat := range stats {
		h, err := strconv.Atoi(strings.TrimSpace(stat.Hour))
		if err != nil || h < 0 || h > 23 {
			continue
		}
		points[h].Sessions += stat.SessionCount
	}
	return points
}
