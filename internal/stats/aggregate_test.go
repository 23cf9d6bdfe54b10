package stats

import (
	"testing"
	"time"

	"club-service/internal/riders"
	"club-service/internal/rides"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func makeRide(id int64, start time.Time, days ...rides.Day) rides.Ride {
	end := start.AddDate(0, 0, len(days)-1)
	return rides.Ride{
		RideID:       id,
		StartDate:    start,
		EndDate:      end,
		Participants: []string{},
		Days:         days,
	}
}

func day(n int, attendance []string, roles rides.Roles) rides.Day {
	return rides.Day{Number: n, Attendance: attendance, Roles: roles}
}

func TestAggregate_AttendanceAndRoles(t *testing.T) {
	start := testNow.AddDate(0, 0, -10)
	all := []rides.Ride{
		makeRide(201, start,
			day(1, []string{"r1", "r2"}, rides.Roles{Lead: "r1", Sweep: "r2"}),
			day(2, []string{"r1"}, rides.Roles{Lead: "r2", Pilot: "r1"}),
		),
	}

	p := Aggregate(all, "r1", testNow)
	if p.RidesParticipated != 1 {
		t.Errorf("expected 1 ride participated, got %d", p.RidesParticipated)
	}
	if p.DaysAttended != 2 {
		t.Errorf("expected 2 days attended, got %d", p.DaysAttended)
	}
	if p.Roles.Lead != 1 || p.Roles.Pilot != 1 {
		t.Errorf("expected lead=1 pilot=1, got %+v", p.Roles)
	}

	p2 := Aggregate(all, "r2", testNow)
	if p2.DaysAttended != 1 {
		t.Errorf("expected 1 day attended for r2, got %d", p2.DaysAttended)
	}
	if p2.Roles.Sweep != 1 || p2.Roles.Lead != 1 {
		t.Errorf("expected sweep=1 lead=1 for r2, got %+v", p2.Roles)
	}
}

func TestAggregate_RoleWithoutAttendance(t *testing.T) {
	// A rider only in a role slot still counts as having participated in
	// the ride and earns role credit, but no attended days.
	start := testNow.AddDate(0, 0, -5)
	all := []rides.Ride{
		makeRide(202, start, day(1, []string{"other"}, rides.Roles{Lead: "r1"})),
	}

	p := Aggregate(all, "r1", testNow)
	if p.RidesParticipated != 1 {
		t.Errorf("expected 1 ride participated, got %d", p.RidesParticipated)
	}
	if p.DaysAttended != 0 {
		t.Errorf("expected 0 days attended, got %d", p.DaysAttended)
	}
	if p.Roles.Lead != 1 {
		t.Errorf("expected lead=1, got %d", p.Roles.Lead)
	}
}

func TestAggregate_ParticipantOnly(t *testing.T) {
	start := testNow.AddDate(0, 0, -5)
	r := makeRide(203, start, day(1, []string{}, rides.Roles{}))
	r.Participants = []string{"r1"}

	p := Aggregate([]rides.Ride{r}, "r1", testNow)
	if p.RidesParticipated != 1 {
		t.Errorf("expected 1 ride participated, got %d", p.RidesParticipated)
	}
	if p.DaysAttended != 0 {
		t.Errorf("expected 0 days attended, got %d", p.DaysAttended)
	}
}

func TestAggregate_DualRoleSameDayCountsBoth(t *testing.T) {
	start := testNow.AddDate(0, 0, -5)
	all := []rides.Ride{
		makeRide(204, start, day(1, nil, rides.Roles{Lead: "r1", Sweep: "r1"})),
	}

	p := Aggregate(all, "r1", testNow)
	if p.Roles.Lead != 1 || p.Roles.Sweep != 1 {
		t.Errorf("expected both lead and sweep counted, got %+v", p.Roles)
	}
	if p.RidesParticipated != 1 {
		t.Errorf("expected a single ride participation, got %d", p.RidesParticipated)
	}
}

func TestAggregate_RecentRidesWindow(t *testing.T) {
	inside := makeRide(205, testNow.AddDate(0, 0, -10), day(1, []string{"r1"}, rides.Roles{}))
	outside := makeRide(206, testNow.AddDate(0, 0, -60), day(1, []string{"r1"}, rides.Roles{}))

	p := Aggregate([]rides.Ride{inside, outside}, "r1", testNow)
	if p.RidesParticipated != 2 {
		t.Fatalf("expected 2 rides participated, got %d", p.RidesParticipated)
	}
	if len(p.RecentRides) != 1 || p.RecentRides[0] != 205 {
		t.Errorf("expected recent rides [205], got %v", p.RecentRides)
	}
}

func TestAggregate_UnknownRider(t *testing.T) {
	all := []rides.Ride{
		makeRide(207, testNow.AddDate(0, 0, -5), day(1, []string{"r1"}, rides.Roles{Lead: "r1"})),
	}
	p := Aggregate(all, "nobody", testNow)
	if p.RidesParticipated != 0 || p.DaysAttended != 0 {
		t.Errorf("expected empty snapshot, got %+v", p)
	}
}

func TestCombine_NewRiderIgnoresLegacy(t *testing.T) {
	// A rider not flagged as migrated must never inherit legacy numbers,
	// even if a snapshot was somehow stored.
	rd := &riders.Rider{
		IsExistingUser: false,
		LegacyStats:    riders.LegacyStats{Sweeps: 5, Leads: 5, TotalRides: 50, RideMarshals: 2},
	}
	p := Participation{DaysAttended: 4, Roles: RoleCounts{Sweep: 1, Lead: 2, Pilot: 1, Pilot2: 1}}

	c := Combine(rd, p)
	if c.TotalRides != 4 {
		t.Errorf("expected total rides 4 (days attended only), got %d", c.TotalRides)
	}
	if c.Sweeps != 1 || c.Leads != 2 {
		t.Errorf("expected live-only role counts, got %+v", c)
	}
	if c.RunningPilots != 2 {
		t.Errorf("expected running pilots pilot+pilot2=2, got %d", c.RunningPilots)
	}
	if c.RideMarshals != 0 {
		t.Errorf("expected 0 ride marshals for non-legacy rider, got %d", c.RideMarshals)
	}
}

func TestCombine_ExistingRiderAddsLegacy(t *testing.T) {
	rd := &riders.Rider{
		IsExistingUser: true,
		LegacyStats:    riders.LegacyStats{Sweeps: 2, Leads: 1, RunningPilots: 3, RideMarshals: 1, TotalRides: 25},
	}
	p := Participation{DaysAttended: 7, Roles: RoleCounts{Sweep: 1, Lead: 2, Pilot: 1}}

	c := Combine(rd, p)
	if c.TotalRides != 32 {
		t.Errorf("expected 25 legacy + 7 attended days = 32, got %d", c.TotalRides)
	}
	if c.Sweeps != 3 {
		t.Errorf("expected sweeps 2+1=3, got %d", c.Sweeps)
	}
	if c.Leads != 3 {
		t.Errorf("expected leads 1+2=3, got %d", c.Leads)
	}
	if c.RunningPilots != 4 {
		t.Errorf("expected running pilots 3+1=4, got %d", c.RunningPilots)
	}
	if c.RideMarshals != 1 {
		t.Errorf("expected legacy ride marshals to pass through, got %d", c.RideMarshals)
	}
}

func TestCombine_ZeroLegacySnapshot(t *testing.T) {
	rd := &riders.Rider{IsExistingUser: true}
	c := Combine(rd, Participation{DaysAttended: 3})
	if c.TotalRides != 3 {
		t.Errorf("expected absent legacy fields to read as zero, got %d", c.TotalRides)
	}
}

func TestEvaluate_SweepBoundary(t *testing.T) {
	if Evaluate(Combined{TotalRides: 9}).SweepEligible {
		t.Error("9 rides must not be sweep eligible")
	}
	if !Evaluate(Combined{TotalRides: 10}).SweepEligible {
		t.Error("10 rides must be sweep eligible")
	}
}

func TestEvaluate_LeadBoundary(t *testing.T) {
	if Evaluate(Combined{Sweeps: 2}).LeadEligible {
		t.Error("2 sweeps must not be lead eligible")
	}
	if !Evaluate(Combined{Sweeps: 3}).LeadEligible {
		t.Error("3 sweeps must be lead eligible")
	}
}

func TestEvaluate_RPRequiresBoth(t *testing.T) {
	if Evaluate(Combined{Sweeps: 3, Leads: 2}).RPEligible {
		t.Error("sweeps alone must not be RP eligible")
	}
	if Evaluate(Combined{Sweeps: 2, Leads: 3}).RPEligible {
		t.Error("leads alone must not be RP eligible")
	}
	if !Evaluate(Combined{Sweeps: 3, Leads: 3}).RPEligible {
		t.Error("3 sweeps and 3 leads must be RP eligible")
	}
}

func TestEvaluate_RolesNotExclusive(t *testing.T) {
	e := Evaluate(Combined{TotalRides: 20, Sweeps: 5, Leads: 5})
	if !e.SweepEligible || !e.LeadEligible || !e.RPEligible {
		t.Errorf("expected eligibility for all three roles at once, got %+v", e)
	}
}

func TestCombinedThenEvaluate_EndToEnd(t *testing.T) {
	// A migrated rider with 8 legacy rides crosses the sweep threshold
	// after attending two more days in the live system.
	rd := &riders.Rider{
		IsExistingUser: true,
		LegacyStats:    riders.LegacyStats{TotalRides: 8},
	}
	start := testNow.AddDate(0, 0, -3)
	all := []rides.Ride{
		makeRide(210, start,
			day(1, []string{"r1"}, rides.Roles{}),
			day(2, []string{"r1"}, rides.Roles{}),
		),
	}

	c := Combine(rd, Aggregate(all, "r1", testNow))
	if c.TotalRides != 10 {
		t.Fatalf("expected 8+2=10 total rides, got %d", c.TotalRides)
	}
	if !Evaluate(c).SweepEligible {
		t.Error("expected sweep eligibility at exactly 10 rides")
	}
}
