package stats

// RoleCounts are per-role day occurrences aggregated from ride documents.
// A rider filling two slots on the same day increments both counters.
type RoleCounts struct {
	Lead   int `json:"lead"`
	Sweep  int `json:"sweep"`
	Pilot  int `json:"pilot"`
	Pilot2 int `json:"pilot2"`
}

// Participation is a rider's live-system activity, derived by scanning
// ride documents. It is never persisted.
type Participation struct {
	RidesParticipated int        `json:"total_rides_participated"`
	DaysAttended      int        `json:"total_days_attended"`
	Roles             RoleCounts `json:"roles"`
	RecentRides       []int64    `json:"recent_rides"`
}

// Combined merges a rider's legacy snapshot with live participation.
// It is the only input to eligibility.
type Combined struct {
	TotalRides    int `json:"total_rides"`
	Sweeps        int `json:"sweeps"`
	Leads         int `json:"leads"`
	RunningPilots int `json:"running_pilots"`
	RideMarshals  int `json:"ride_marshals"`
}

// Eligibility is the per-role verdict recomputed on every query. The
// roles are not exclusive; a rider can qualify for all three at once.
type Eligibility struct {
	SweepEligible bool `json:"sweep_eligible"`
	LeadEligible  bool `json:"lead_eligible"`
	RPEligible    bool `json:"rp_eligible"`
}

// ReportEntry is one rider's row in the pre-ride report.
type ReportEntry struct {
	RiderID          string      `json:"rider_id"`
	Name             string      `json:"name"`
	Email            string      `json:"email"`
	Phone            string      `json:"phone"`
	EmergencyContact string      `json:"emergency_contact"`
	Stats            Combined    `json:"stats"`
	Eligibility      Eligibility `json:"eligibility"`
}

// Report is the full pre-ride report payload.
type Report struct {
	Rules  Rules         `json:"rules"`
	Riders []ReportEntry `json:"riders"`
}

// Rules echoes the fixed eligibility thresholds so report consumers can
// display them next to the verdicts.
type Rules struct {
	SweepMinTotalRides int `json:"sweep_min_total_rides"`
	LeadMinSweeps      int `json:"lead_min_sweeps"`
	RPMinSweeps        int `json:"rp_min_sweeps"`
	RPMinLeads         int `json:"rp_min_leads"`
}
