package occupancy

import (
	"testing"
	"time"

	"readinghall-dashboard/model"
)

func TestDurationMinutes(t *testing.T) {
	checkIn := time.UnixMilli(1_700_000_000_000)
	cases := []struct {
		name  string
		delta time.Duration
		want  int64
	}{
		{"same instant", 0, 0},
		{"under a minute", 59 * time.Second, 0},
		{"exactly a minute", time.Minute, 1},
		{"ninety minutes", 90*time.Minute + 30*time.Second, 90},
		{"future by a second", -time.Second, -1},
		{"future by a minute", -time.Minute, -1},
		{"future by 61 seconds", -61 * time.Second, -2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DurationMinutes(checkIn, checkIn.Add(tc.delta)); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestDurationMinutes_Monotonic(t *testing.T) {
	checkIn := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	prev := DurationMinutes(checkIn, checkIn.Add(-10*time.Minute))
	for step := -10 * time.Minute; step <= 3*time.Hour; step += 7 * time.Second {
		got := DurationMinutes(checkIn, checkIn.Add(step))
		if got < prev {
			t.Fatalf("duration decreased at %v: %d < %d", step, got, prev)
		}
		prev = got
	}
}

func TestProjectSessions_AdvancesWithClock(t *testing.T) {
	checkIn := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	sessions := []model.Session{
		{Id: "1", CheckInTime: model.Timestamp{Time: checkIn}},
		{Id: "2"},
	}

	first := ProjectSessions(sessions, checkIn.Add(45*time.Minute))
	later := ProjectSessions(sessions, checkIn.Add(125*time.Minute))

	if first[0].Elapsed != "45m" || later[0].Elapsed != "2h 05m" {
		t.Fatalf("unexpected elapsed: %q then %q", first[0].Elapsed, later[0].Elapsed)
	}
	if first[1].HasStart || first[1].Elapsed != "-" {
		t.Fatalf("expected session without check-in to be unprojected, got %+v", first[1])
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := map[int64]string{0: "0m", 59: "59m", 60: "1h 00m", 605: "10h 05m", -3: "-3m"}
	for in, want := range cases {
		if got := FormatMinutes(in); got != want {
			t.Fatalf("FormatMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}
