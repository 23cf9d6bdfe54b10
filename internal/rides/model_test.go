package rides

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildDays_ThreeDayRide(t *testing.T) {
	days := BuildDays(date(2024, 1, 1), date(2024, 1, 3))

	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	wantDates := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	for i, d := range days {
		if d.Number != i+1 {
			t.Errorf("day %d: expected number %d, got %d", i, i+1, d.Number)
		}
		if d.Date != wantDates[i] {
			t.Errorf("day %d: expected date %s, got %s", i, wantDates[i], d.Date)
		}
		if len(d.Attendance) != 0 {
			t.Errorf("day %d: expected empty attendance, got %v", i, d.Attendance)
		}
		if d.Roles != (Roles{}) {
			t.Errorf("day %d: expected empty role slots, got %+v", i, d.Roles)
		}
	}
}

func TestBuildDays_SingleDay(t *testing.T) {
	days := BuildDays(date(2024, 3, 10), date(2024, 3, 10))
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if days[0].Number != 1 || days[0].Date != "2024-03-10" {
		t.Errorf("unexpected day: %+v", days[0])
	}
}

func TestBuildDays_MonthBoundary(t *testing.T) {
	days := BuildDays(date(2024, 1, 31), date(2024, 2, 2))
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	if days[1].Date != "2024-02-01" {
		t.Errorf("expected day 2 on 2024-02-01, got %s", days[1].Date)
	}
}

func TestDurationDays(t *testing.T) {
	r := Ride{StartDate: date(2024, 1, 1), EndDate: date(2024, 1, 3)}
	if got := r.DurationDays(); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	single := Ride{StartDate: date(2024, 1, 1), EndDate: date(2024, 1, 1)}
	if got := single.DurationDays(); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
}

func TestReplaceDay_WholesaleReplacement(t *testing.T) {
	days := BuildDays(date(2024, 1, 1), date(2024, 1, 3))
	days[0].Attendance = []string{"r9"}
	days[2].Roles = Roles{Sweep: "r9"}

	ok := ReplaceDay(days, 2, UpdateDayRequest{
		Attendance: []string{"r1", "r2"},
		Roles:      Roles{Lead: "r1", Sweep: "r2"},
	})
	if !ok {
		t.Fatal("expected replacement to succeed")
	}

	if got := days[1].Attendance; len(got) != 2 || got[0] != "r1" || got[1] != "r2" {
		t.Errorf("expected day 2 attendance [r1 r2], got %v", got)
	}
	if days[1].Roles != (Roles{Lead: "r1", Sweep: "r2"}) {
		t.Errorf("expected day 2 roles replaced, got %+v", days[1].Roles)
	}
	if days[1].Number != 2 || days[1].Date != "2024-01-02" {
		t.Errorf("day identity must be preserved, got %+v", days[1])
	}

	// Neighbouring days are untouched.
	if len(days[0].Attendance) != 1 || days[0].Attendance[0] != "r9" {
		t.Errorf("day 1 changed: %+v", days[0])
	}
	if days[2].Roles != (Roles{Sweep: "r9"}) {
		t.Errorf("day 3 changed: %+v", days[2])
	}
}

func TestReplaceDay_ClearsPreviousState(t *testing.T) {
	days := BuildDays(date(2024, 1, 1), date(2024, 1, 1))
	days[0].Attendance = []string{"r1", "r2", "r3"}
	days[0].Roles = Roles{Lead: "r1", Sweep: "r2", Pilot: "r3"}

	// Callers submit the full desired state; omitted riders drop out.
	if !ReplaceDay(days, 1, UpdateDayRequest{Attendance: []string{"r1"}}) {
		t.Fatal("expected replacement to succeed")
	}
	if len(days[0].Attendance) != 1 {
		t.Errorf("expected attendance replaced, got %v", days[0].Attendance)
	}
	if days[0].Roles != (Roles{}) {
		t.Errorf("expected role slots cleared, got %+v", days[0].Roles)
	}
}

func TestReplaceDay_OutOfRange(t *testing.T) {
	days := BuildDays(date(2024, 1, 1), date(2024, 1, 3))
	for _, n := range []int{0, -1, 4} {
		if ReplaceDay(days, n, UpdateDayRequest{}) {
			t.Errorf("expected day %d to be rejected", n)
		}
	}
}

func TestReplaceDay_NilAttendanceBecomesEmptySet(t *testing.T) {
	days := BuildDays(date(2024, 1, 1), date(2024, 1, 1))
	days[0].Attendance = []string{"r1"}
	if !ReplaceDay(days, 1, UpdateDayRequest{Roles: Roles{Lead: "r1"}}) {
		t.Fatal("expected replacement to succeed")
	}
	if days[0].Attendance == nil || len(days[0].Attendance) != 0 {
		t.Errorf("expected empty attendance set, got %v", days[0].Attendance)
	}
}

func TestDayRiderRefs(t *testing.T) {
	d := Day{
		Attendance: []string{"r1", "r2"},
		Roles:      Roles{Lead: "r1", Sweep: "r3", Pilot2: "r4"},
	}
	refs := d.RiderRefs()
	want := map[string]bool{"r1": true, "r2": true, "r3": true, "r4": true}
	if len(refs) != len(want) {
		t.Fatalf("expected %d refs, got %v", len(want), refs)
	}
	for _, id := range refs {
		if !want[id] {
			t.Errorf("unexpected ref %s", id)
		}
	}
}

func TestDayRiderRefs_EmptySlotsIgnored(t *testing.T) {
	d := Day{Attendance: []string{}, Roles: Roles{}}
	if refs := d.RiderRefs(); len(refs) != 0 {
		t.Errorf("expected no refs, got %v", refs)
	}
}
