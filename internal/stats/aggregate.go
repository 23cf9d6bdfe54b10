package stats

import (
	"time"

	"club-service/internal/riders"
	"club-service/internal/rides"
)

// Fixed eligibility policy. Not configurable per instance.
const (
	SweepMinTotalRides = 10
	LeadMinSweeps      = 3
	RPMinSweeps        = 3
	RPMinLeads         = 3
)

// recentWindow bounds the recent-rides list in a participation snapshot.
const recentWindow = 30 * 24 * time.Hour

// Aggregate computes a rider's live participation from the full ride
// corpus. It is a pure function: no storage handle, no cache, so it can
// be exercised directly in tests and the cache wrapper stays an
// optimization rather than a correctness dependency.
//
// A ride matches when the rider opted in as a participant, appears in any
// day's attendance, or occupies any day's role slot. Role credit is
// counted per day per slot, independently of attendance.
func Aggregate(all []rides.Ride, riderID string, now time.Time) Participation {
	p := Participation{RecentRides: []int64{}}

	for i := range all {
		r := &all[i]

		matched := contains(r.Participants, riderID)
		daysAttended := 0
		var roleHits RoleCounts

		for _, day := range r.Days {
			if contains(day.Attendance, riderID) {
				daysAttended++
				matched = true
			}
			if day.Roles.Lead == riderID {
				roleHits.Lead++
				matched = true
			}
			if day.Roles.Sweep == riderID {
				roleHits.Sweep++
				matched = true
			}
			if day.Roles.Pilot == riderID {
				roleHits.Pilot++
				matched = true
			}
			if day.Roles.Pilot2 == riderID {
				roleHits.Pilot2++
				matched = true
			}
		}

		if !matched {
			continue
		}

		p.RidesParticipated++
		p.DaysAttended += daysAttended
		p.Roles.Lead += roleHits.Lead
		p.Roles.Sweep += roleHits.Sweep
		p.Roles.Pilot += roleHits.Pilot
		p.Roles.Pilot2 += roleHits.Pilot2

		if !r.EndDate.After(now) && r.EndDate.After(now.Add(-recentWindow)) {
			p.RecentRides = append(p.RecentRides, r.RideID)
		}
	}

	return p
}

// Combine merges the legacy snapshot with live participation. Legacy
// numbers contribute only when the rider was explicitly flagged as
// migrated; otherwise a fresh account would inherit a baseline that was
// never theirs. Total rides counts attended days on top of the legacy
// total; ride marshals has no live counterpart and passes through.
func Combine(rd *riders.Rider, p Participation) Combined {
	c := Combined{
		TotalRides:    p.DaysAttended,
		Sweeps:        p.Roles.Sweep,
		Leads:         p.Roles.Lead,
		RunningPilots: p.Roles.Pilot + p.Roles.Pilot2,
	}
	if rd.IsExistingUser {
		c.TotalRides += rd.LegacyStats.TotalRides
		c.Sweeps += rd.LegacyStats.Sweeps
		c.Leads += rd.LegacyStats.Leads
		c.RunningPilots += rd.LegacyStats.RunningPilots
		c.RideMarshals = rd.LegacyStats.RideMarshals
	}
	return c
}

// Evaluate applies the fixed thresholds to combined stats.
func Evaluate(c Combined) Eligibility {
	return Eligibility{
		SweepEligible: c.TotalRides >= SweepMinTotalRides,
		LeadEligible:  c.Sweeps >= LeadMinSweeps,
		RPEligible:    c.Sweeps >= RPMinSweeps && c.Leads >= RPMinLeads,
	}
}

// PolicyRules returns the threshold constants in report form.
func PolicyRules() Rules {
	return Rules{
		SweepMinTotalRides: SweepMinTotalRides,
		LeadMinSweeps:      LeadMinSweeps,
		RPMinSweeps:        RPMinSweeps,
		RPMinLeads:         RPMinLeads,
	}
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
