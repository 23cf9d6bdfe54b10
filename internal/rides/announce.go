package rides

import (
	"fmt"
	"strings"
)

// Announcement renders the plain-text ride summary posted to the club's
// chat channel by the external relay. Only the fields are contractual,
// not the exact wording.
func Announcement(r *Ride) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Ride #%d: %s\n", r.RideID, r.Name)
	if r.StartDate.Equal(r.EndDate) {
		fmt.Fprintf(&b, "Date: %s (1 day)\n", r.StartDate.Format(dateLayout))
	} else {
		fmt.Fprintf(&b, "Dates: %s to %s (%d days)\n",
			r.StartDate.Format(dateLayout), r.EndDate.Format(dateLayout), r.DurationDays())
	}
	fmt.Fprintf(&b, "Meeting point: %s\n", r.MeetingPoint)
	fmt.Fprintf(&b, "Meeting time: %s | Departure: %s\n", r.MeetingTime, r.DepartureTime)
	if r.ArrivalTime != "" {
		fmt.Fprintf(&b, "Expected arrival: %s\n", r.ArrivalTime)
	}
	if r.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", r.Description)
	}
	fmt.Fprintf(&b, "\nRide marshal: %s (%s)\n", r.RideMarshal.Name, r.RideMarshal.Phone)

	return b.String()
}
