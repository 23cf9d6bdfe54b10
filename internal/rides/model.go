package rides

import "time"

// Ride lifecycle states.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// dateLayout is the wire and document format for calendar dates.
const dateLayout = "2006-01-02"

// Roles holds one day's role assignments. Empty string means the slot is
// unfilled. Pilot2 is the second running-pilot seat used on large rides.
type Roles struct {
	Lead   string `json:"lead,omitempty"`
	Sweep  string `json:"sweep,omitempty"`
	Pilot  string `json:"pilot,omitempty"`
	Pilot2 string `json:"pilot2,omitempty"`
}

// Day is one calendar day's attendance/role sub-record within a ride.
// It has no lifecycle of its own; it lives inside its ride's document.
// Attendance and role slots are maintained independently: a rider may
// hold a role on a day without being marked present.
type Day struct {
	Number     int      `json:"number"` // 1-based, contiguous
	Date       string   `json:"date"`
	Attendance []string `json:"attendance"`
	Roles      Roles    `json:"roles"`
}

// Marshal is the creator snapshot captured at ride creation. Later profile
// edits do not change it.
type Marshal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Ride is a multi-day group ride.
type Ride struct {
	RideID        int64     `json:"ride_id"`
	Name          string    `json:"name"`
	MeetingPoint  string    `json:"meeting_point"`
	MeetingTime   string    `json:"meeting_time"`
	DepartureTime string    `json:"departure_time"`
	ArrivalTime   string    `json:"arrival_time,omitempty"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Description   string    `json:"description"`
	CreatorID     string    `json:"creator_id"`
	RideMarshal   Marshal   `json:"ride_marshal"`
	Status        string    `json:"status"`
	Participants  []string  `json:"participants"`
	Days          []Day     `json:"days"`
	CreatedAt     time.Time `json:"created_at"`
}

// DurationDays is the inclusive day count of the ride.
func (r *Ride) DurationDays() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}

// CreateRequest is the body for POST /rides.
type CreateRequest struct {
	Name          string `json:"name"`
	MeetingPoint  string `json:"meeting_point"`
	MeetingTime   string `json:"meeting_time"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time,omitempty"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Description   string `json:"description"`
}

// CreateResponse is returned on ride creation.
type CreateResponse struct {
	Ride         *Ride  `json:"ride"`
	Announcement string `json:"announcement"`
}

// UpdateDayRequest is the body for PUT /rides/{id}/days/{day}. It is the
// full desired state of the day; attendance and roles are replaced
// wholesale, not merged.
type UpdateDayRequest struct {
	Attendance []string `json:"attendance"`
	Roles      Roles    `json:"roles"`
}

// StatusRequest is the body for PATCH /rides/{id}/status.
type StatusRequest struct {
	Status string `json:"status"`
}

// MeetingPointRequest is the body for POST /rides/meeting-points.
type MeetingPointRequest struct {
	Name string `json:"name"`
}

// BuildDays constructs one empty Day per calendar day in [start, end].
// Day numbers are 1-based and contiguous. The caller has already checked
// end >= start.
func BuildDays(start, end time.Time) []Day {
	n := int(end.Sub(start).Hours()/24) + 1
	days := make([]Day, n)
	for i := 0; i < n; i++ {
		days[i] = Day{
			Number:     i + 1,
			Date:       start.AddDate(0, 0, i).Format(dateLayout),
			Attendance: []string{},
		}
	}
	return days
}

// ReplaceDay swaps the numbered day's attendance and roles for the given
// full state, keeping the day's number and date. Returns false when
// dayNumber is out of range.
func ReplaceDay(days []Day, dayNumber int, req UpdateDayRequest) bool {
	if dayNumber < 1 || dayNumber > len(days) {
		return false
	}
	attendance := req.Attendance
	if attendance == nil {
		attendance = []string{}
	}
	d := &days[dayNumber-1]
	d.Attendance = attendance
	d.Roles = req.Roles
	return true
}

// RiderRefs returns every rider referenced by the day, whether in
// attendance or a role slot. Used for cache invalidation.
func (d Day) RiderRefs() []string {
	seen := make(map[string]bool)
	var refs []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			refs = append(refs, id)
		}
	}
	for _, id := range d.Attendance {
		add(id)
	}
	add(d.Roles.Lead)
	add(d.Roles.Sweep)
	add(d.Roles.Pilot)
	add(d.Roles.Pilot2)
	return refs
}
