package model

import (
	"bytes"
	"encoding/json"
)

type OverviewSnapshot struct {
	TotalSeats         int     `json:"total_seats"`
	OccupiedSeats      int     `json:"occupied_seats"`
	AvailableSeats     int     `json:"available_seats"`
	OccupancyRate      float64 `json:"occupancy_rate"`
	SessionsToday      int     `json:"sessions_today"`
	AvgDurationMinutes float64 `json:"avg_duration_minutes"`
}

// DailyUsageStat is one day of usage. AvgDuration and MaxDuration are null
// for days without completed sessions.
type DailyUsageStat struct {
	Date          string   `json:"date"`
	TotalSessions int      `json:"total_sessions"`
	AvgDuration   *float64 `json:"avg_duration"`
	MaxDuration   *float64 `json:"max_duration"`
}

type HourlyUsageStat struct {
	Hour         string `json:"hour"`
	SessionCount int    `json:"session_count"`
}

// UsageReport is the usage analytics payload, most recent day first.
type UsageReport struct {
	Daily  []DailyUsageStat  `json:"daily_stats"`
	Hourly []HourlyUsageStat `json:"hourly_stats"`
}

// UnmarshalJSON accepts the wrapped report as well as a bare list of daily
// stats.
func (r *UsageReport) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var daily []DailyUsageStat
		if err := json.Unmarshal(trimmed, &daily); err != nil {
			return err
		}
		*r = UsageReport{Daily: daily}
		return nil
	}
	type wire UsageReport
	var w wire
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return err
	}
	*r = UsageReport(w)
	return nil
}

type ConfigEntry struct {
	Id          ID        `json:"id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

type ConfigUpdate struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

type Detection struct {
	SeatId     int64   `json:"seat_id"`
	IsOccupied bool    `json:"is_occupied"`
	Confidence float64 `json:"confidence"`
	ImagePath  string  `json:"image_path,omitempty"`
}

// MessageResult is the acknowledgement body returned by write endpoints.
type MessageResult struct {
	Message string `json:"message"`
}
