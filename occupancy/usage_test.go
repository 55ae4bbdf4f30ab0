package occupancy

import (
	"testing"

	"readinghall-dashboard/model"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestUsageSeries_ReversesToChronological(t *testing.T) {
	stats := []model.DailyUsageStat{
		{Date: "2026-10-14", TotalSessions: 3, AvgDuration: floatPtr(44.5)},
		{Date: "2026-10-13", TotalSessions: 2, AvgDuration: nil},
		{Date: "2026-10-12", TotalSessions: 1, AvgDuration: floatPtr(10.4)},
	}

	points := UsageSeries(stats)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	wantLabels := []string{"Oct 12", "Oct 13", "Oct 14"}
	wantAvg := []int{10, 0, 45}
	for i, point := range points {
		if point.Label != wantLabels[i] {
			t.Fatalf("point %d: expected label %q, got %q", i, wantLabels[i], point.Label)
		}
		if point.AvgDuration != wantAvg[i] {
			t.Fatalf("point %d: expected avg %d, got %d", i, wantAvg[i], point.AvgDuration)
		}
	}
	if points[0].Sessions != 1 || points[2].Sessions != 3 {
		t.Fatalf("unexpected session counts: %+v", points)
	}
}

func TestUsageSeries_KeepsMalformedDates(t *testing.T) {
	points := UsageSeries([]model.DailyUsageStat{{Date: "yesterday", TotalSessions: 1}})
	if len(points) != 1 || points[0].Label != "yesterday" || !points[0].Date.IsZero() {
		t.Fatalf("unexpected points: %+v", points)
	}
}

func TestUsageSeries_Empty(t *testing.T) {
	if points := UsageSeries(nil); len(points) != 0 {
		t.Fatalf("expected no points, got %+v", points)
	}
}

func TestHourlyDistribution_FillsAllHours(t *testing.T) {
	points := HourlyDistribution([]model.HourlyUsageStat{
		{Hour: "09", SessionCount: 4},
		{Hour: "23", SessionCount: 1},
		{Hour: "xx", SessionCount: 9},
	})
	if len(points) != 24 {
		t.Fatalf("expected 24 hours, got %d", len(points))
	}
	if points[9].Sessions != 4 || points[23].Sessions != 1 || points[0].Sessions != 0 {
		t.Fatalf("unexpected distribution: %+v", points)
	}
	if points[9].Label != "09" {
		t.Fatalf("unexpected label: %q", points[9].Label)
	}
}

func TestCounters_MatchOverview(t *testing.T) {
	overview := model.OverviewSnapshot{TotalSeats: 50, OccupiedSeats: 20, AvailableSeats: 30, OccupancyRate: 40, SessionsToday: 12, AvgDurationMinutes: 45}
	counters := Counters(overview)
	want := []string{"50", "20", "30", "40%"}
	if len(counters) != len(want) {
		t.Fatalf("expected %d counters, got %d", len(want), len(counters))
	}
	for i, counter := range counters {
		if counter.Value != want[i] {
			t.Fatalf("counter %s: expected %q, got %q", counter.Label, want[i], counter.Value)
		}
	}
	if ratio := OccupancyRatio(overview); ratio != 0.4 {
		t.Fatalf("expected bar at 0.4, got %v", ratio)
	}
}

func TestOccupancyRatio_ClampsForBar(t *testing.T) {
	if got := OccupancyRatio(model.OverviewSnapshot{OccupancyRate: 130}); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
	if got := OccupancyRatio(model.OverviewSnapshot{OccupancyRate: -5}); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}
