package events

// RideCreatedEvent is published to ride.created. The announcement text is
// consumed by the external chat relay for posting to the club channel.
type RideCreatedEvent struct {
	RideID       int64  `json:"ride_id"`
	Name         string `json:"name"`
	MeetingPoint string `json:"meeting_point"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	MarshalName  string `json:"marshal_name"`
	MarshalPhone string `json:"marshal_phone"`
	Announcement string `json:"announcement"`
	CreatedAt    string `json:"created_at"`
}

// DayUpdatedEvent is published to ride.day_updated after a day's attendance
// and role assignments are replaced.
type DayUpdatedEvent struct {
	RideID     int64    `json:"ride_id"`
	DayNumber  int      `json:"day_number"`
	Date       string   `json:"date"`
	Attendance []string `json:"attendance"`
	Lead       string   `json:"lead,omitempty"`
	Sweep      string   `json:"sweep,omitempty"`
	Pilot      string   `json:"pilot,omitempty"`
	Pilot2     string   `json:"pilot2,omitempty"`
	UpdatedAt  string   `json:"updated_at"`
}
