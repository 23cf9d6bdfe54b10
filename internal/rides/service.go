package rides

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"club-service/internal/events"
	"club-service/pkg/kafka"
	rredis "club-service/pkg/redis"
	"club-service/pkg/validation"
)

var (
	// ErrNotFound is returned when no ride matches the given id.
	ErrNotFound = errors.New("ride not found")
)

// counterName is the persisted sequence behind human-facing ride ids.
const counterName = "ride_id"

// counterBaseline seeds the sequence the first time the system runs.
const counterBaseline = 200

const rideColumns = `ride_id,name,meeting_point,meeting_time,departure_time,arrival_time,
	start_date,end_date,description,creator_id,marshal_name,marshal_phone,status,participants,days,created_at`

// DayBroadcaster pushes day updates to live subscribers of a ride.
type DayBroadcaster interface {
	BroadcastDayUpdate(rideID int64, ev events.DayUpdatedEvent)
}

// Service contains ride business logic.
type Service struct {
	db    *pgxpool.Pool
	kafka *kafka.Client
	redis *rredis.Client
	live  DayBroadcaster
}

// NewService creates a ride service. live may be nil.
func NewService(db *pgxpool.Pool, k *kafka.Client, r *rredis.Client, live DayBroadcaster) *Service {
	return &Service{db: db, kafka: k, redis: r, live: live}
}

// NextRideID atomically increments and returns the persisted ride counter.
// The counter row is lazily created at the baseline; the increment is a
// single UPDATE so concurrent callers can never observe the same value.
func (s *Service) NextRideID(ctx context.Context) (int64, error) {
	_, err := s.db.Exec(ctx,
		`INSERT INTO counters (name, seq) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		counterName, counterBaseline)
	if err != nil {
		return 0, err
	}
	var seq int64
	err = s.db.QueryRow(ctx,
		`UPDATE counters SET seq = seq + 1 WHERE name=$1 RETURNING seq`,
		counterName).Scan(&seq)
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// Create validates the request, allocates a sequential id, builds one Day
// per calendar day in range, snapshots the creator as ride marshal, and
// persists the ride. Returns the ride and its chat announcement.
func (s *Service) Create(ctx context.Context, creatorID string, req CreateRequest) (*Ride, string, error) {
	if err := validateCreate(req); err != nil {
		return nil, "", err
	}
	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)
	if end.Before(start) {
		return nil, "", errors.New("end date must not be before start date")
	}

	var known bool
	_ = s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM meeting_points WHERE name=$1)`, req.MeetingPoint).Scan(&known)
	if !known {
		return nil, "", errors.New("unknown meeting point")
	}

	var marshalName, marshalPhone string
	err := s.db.QueryRow(ctx,
		`SELECT name, phone FROM riders WHERE id=$1`, creatorID).Scan(&marshalName, &marshalPhone)
	if err != nil {
		return nil, "", errors.New("creator not found")
	}

	id, err := s.NextRideID(ctx)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	ride := &Ride{
		RideID:        id,
		Name:          req.Name,
		MeetingPoint:  req.MeetingPoint,
		MeetingTime:   req.MeetingTime,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		StartDate:     start,
		EndDate:       end,
		Description:   req.Description,
		CreatorID:     creatorID,
		RideMarshal:   Marshal{ID: creatorID, Name: marshalName, Phone: marshalPhone},
		Status:        StatusPending,
		Participants:  []string{},
		Days:          BuildDays(start, end),
		CreatedAt:     now,
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO rides (ride_id,name,meeting_point,meeting_time,departure_time,arrival_time,
		                    start_date,end_date,description,creator_id,marshal_name,marshal_phone,
		                    status,participants,days)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		id, ride.Name, ride.MeetingPoint, ride.MeetingTime, ride.DepartureTime, ride.ArrivalTime,
		start, end, ride.Description, creatorID, marshalName, marshalPhone,
		StatusPending, ride.Participants, ride.Days)
	if err != nil {
		return nil, "", err
	}

	announcement := Announcement(ride)

	go func() {
		ev := events.RideCreatedEvent{
			RideID:       id,
			Name:         ride.Name,
			MeetingPoint: ride.MeetingPoint,
			StartDate:    req.StartDate,
			EndDate:      req.EndDate,
			MarshalName:  marshalName,
			MarshalPhone: marshalPhone,
			Announcement: announcement,
			CreatedAt:    now.Format(time.RFC3339),
		}
		if err := s.kafka.Publish(context.Background(), kafka.TopicRideCreated, req.Name, ev); err != nil {
			log.Printf("[rides] failed to publish ride.created: %v", err)
		}
	}()

	return ride, announcement, nil
}

// GetByID fetches a ride by its sequential id.
func (s *Service) GetByID(ctx context.Context, rideID int64) (*Ride, error) {
	var r Ride
	err := s.db.QueryRow(ctx,
		`SELECT `+rideColumns+` FROM rides WHERE ride_id=$1`, rideID).
		Scan(rideFields(&r)...)
	if err != nil {
		return nil, ErrNotFound
	}
	r.RideMarshal.ID = r.CreatorID
	return &r, nil
}

// UpdateDay replaces one day's attendance and role assignments wholesale.
// Returns (false, nil) when the ride does not exist or dayNumber is out of
// range. The write is last-writer-wins on the ride document.
func (s *Service) UpdateDay(ctx context.Context, rideID int64, dayNumber int, req UpdateDayRequest) (bool, error) {
	ride, err := s.GetByID(ctx, rideID)
	if err != nil {
		return false, nil
	}

	var old Day
	if dayNumber >= 1 && dayNumber <= len(ride.Days) {
		old = ride.Days[dayNumber-1]
	}
	if !ReplaceDay(ride.Days, dayNumber, req) {
		return false, nil
	}
	updated := ride.Days[dayNumber-1]

	_, err = s.db.Exec(ctx, `UPDATE rides SET days=$1 WHERE ride_id=$2`, ride.Days, rideID)
	if err != nil {
		return false, err
	}

	// Riders referenced before or after the replacement need fresh
	// participation snapshots on their next read.
	touched := append(old.RiderRefs(), updated.RiderRefs()...)
	if err := s.redis.InvalidateParticipation(ctx, touched...); err != nil {
		log.Printf("[rides] cache invalidation failed: %v", err)
	}

	ev := events.DayUpdatedEvent{
		RideID:     rideID,
		DayNumber:  dayNumber,
		Date:       updated.Date,
		Attendance: updated.Attendance,
		Lead:       updated.Roles.Lead,
		Sweep:      updated.Roles.Sweep,
		Pilot:      updated.Roles.Pilot,
		Pilot2:     updated.Roles.Pilot2,
		UpdatedAt:  time.Now().Format(time.RFC3339),
	}
	if s.live != nil {
		s.live.BroadcastDayUpdate(rideID, ev)
	}
	go func() {
		if err := s.kafka.Publish(context.Background(), kafka.TopicDayUpdated, ride.Name, ev); err != nil {
			log.Printf("[rides] failed to publish ride.day_updated: %v", err)
		}
	}()

	return true, nil
}

// AddParticipant adds a rider to the ride's participant set. Adding a
// rider who already opted in is a no-op that still reports success.
func (s *Service) AddParticipant(ctx context.Context, rideID int64, riderID string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE rides SET participants = array_append(participants,$1)
		 WHERE ride_id=$2 AND NOT ($1 = ANY(participants))`,
		riderID, rideID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish "already present" (fine) from "no such ride".
		if _, err := s.GetByID(ctx, rideID); err != nil {
			return ErrNotFound
		}
		return nil
	}
	if err := s.redis.InvalidateParticipation(ctx, riderID); err != nil {
		log.Printf("[rides] cache invalidation failed: %v", err)
	}
	return nil
}

// RemoveParticipant removes a rider from the ride's participant set.
// Removing an absent rider is a no-op that still reports success.
func (s *Service) RemoveParticipant(ctx context.Context, rideID int64, riderID string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE rides SET participants = array_remove(participants,$1) WHERE ride_id=$2`,
		riderID, rideID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if err := s.redis.InvalidateParticipation(ctx, riderID); err != nil {
		log.Printf("[rides] cache invalidation failed: %v", err)
	}
	return nil
}

// ListUpcoming returns rides whose end date is on or after now, soonest first.
func (s *Service) ListUpcoming(ctx context.Context, now time.Time) ([]Ride, error) {
	return s.list(ctx,
		`SELECT `+rideColumns+` FROM rides WHERE end_date >= $1 ORDER BY start_date ASC`, now)
}

// ListPast returns rides whose end date is before now, most recent first.
func (s *Service) ListPast(ctx context.Context, now time.Time) ([]Ride, error) {
	return s.list(ctx,
		`SELECT `+rideColumns+` FROM rides WHERE end_date < $1 ORDER BY start_date DESC`, now)
}

// ListAll returns every ride. Used by the participation aggregator, which
// scans the full corpus per rider.
func (s *Service) ListAll(ctx context.Context) ([]Ride, error) {
	return s.list(ctx, `SELECT `+rideColumns+` FROM rides`)
}

// SetStatus moves a ride through its lifecycle.
func (s *Service) SetStatus(ctx context.Context, rideID int64, status string) error {
	switch status {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
	default:
		return errors.New("unknown status")
	}
	tag, err := s.db.Exec(ctx, `UPDATE rides SET status=$1 WHERE ride_id=$2`, status, rideID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MeetingPoints returns the managed set of named meeting locations.
func (s *Service) MeetingPoints(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT name FROM meeting_points ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// AddMeetingPoint adds a named location. Idempotent.
func (s *Service) AddMeetingPoint(ctx context.Context, name string) error {
	if !validation.ValidateName(name) {
		return errors.New("meeting point name is required")
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO meeting_points (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	return err
}

// RemoveMeetingPoint deletes a named location. Existing rides keep the
// text they were created with.
func (s *Service) RemoveMeetingPoint(ctx context.Context, name string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM meeting_points WHERE name=$1`, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("unknown meeting point")
	}
	return nil
}

func (s *Service) list(ctx context.Context, query string, args ...any) ([]Ride, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ride
	for rows.Next() {
		var r Ride
		if err := rows.Scan(rideFields(&r)...); err != nil {
			return nil, err
		}
		r.RideMarshal.ID = r.CreatorID
		out = append(out, r)
	}
	return out, rows.Err()
}

// rideFields lists scan targets in rideColumns order.
func rideFields(r *Ride) []any {
	return []any{
		&r.RideID, &r.Name, &r.MeetingPoint, &r.MeetingTime, &r.DepartureTime, &r.ArrivalTime,
		&r.StartDate, &r.EndDate, &r.Description, &r.CreatorID,
		&r.RideMarshal.Name, &r.RideMarshal.Phone, &r.Status, &r.Participants, &r.Days, &r.CreatedAt,
	}
}

func validateCreate(req CreateRequest) error {
	switch {
	case !validation.ValidateName(req.Name):
		return errors.New("ride name is required")
	case req.MeetingPoint == "":
		return errors.New("meeting point is required")
	case !validation.ValidateClock(req.MeetingTime):
		return errors.New("meeting time must be HH:MM")
	case !validation.ValidateClock(req.DepartureTime):
		return errors.New("departure time must be HH:MM")
	case req.ArrivalTime != "" && !validation.ValidateClock(req.ArrivalTime):
		return errors.New("arrival time must be HH:MM")
	case !validation.ValidateDate(req.StartDate):
		return errors.New("start date must be YYYY-MM-DD")
	case !validation.ValidateDate(req.EndDate):
		return errors.New("end date must be YYYY-MM-DD")
	}
	return nil
}
