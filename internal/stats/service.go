package stats

import (
	"context"
	"log"
	"time"

	"club-service/internal/riders"
	"club-service/internal/rides"
	rredis "club-service/pkg/redis"
)

// Service computes participation, combined stats, and eligibility on
// demand. The Redis wrapper around Aggregate is read-through with a short
// TTL; every answer is recomputable from the ride corpus alone.
type Service struct {
	rides  *rides.Service
	riders *riders.Service
	cache  *rredis.Client
}

// NewService creates a stats service. cache may be nil to disable caching.
func NewService(rideSvc *rides.Service, riderSvc *riders.Service, cache *rredis.Client) *Service {
	return &Service{rides: rideSvc, riders: riderSvc, cache: cache}
}

// Participation returns the rider's live participation snapshot, served
// from cache when a fresh entry exists.
func (s *Service) Participation(ctx context.Context, riderID string) (Participation, error) {
	if s.cache != nil {
		var cached Participation
		hit, err := s.cache.GetParticipation(ctx, riderID, &cached)
		if err != nil {
			log.Printf("[stats] cache read failed: %v", err)
		} else if hit {
			return cached, nil
		}
	}

	all, err := s.rides.ListAll(ctx)
	if err != nil {
		return Participation{}, err
	}
	p := Aggregate(all, riderID, time.Now())

	if s.cache != nil {
		if err := s.cache.SetParticipation(ctx, riderID, p); err != nil {
			log.Printf("[stats] cache write failed: %v", err)
		}
	}
	return p, nil
}

// CombinedStats merges the rider's legacy snapshot with live participation.
func (s *Service) CombinedStats(ctx context.Context, riderID string) (Combined, error) {
	rd, err := s.riders.GetByID(ctx, riderID)
	if err != nil {
		return Combined{}, err
	}
	p, err := s.Participation(ctx, riderID)
	if err != nil {
		return Combined{}, err
	}
	return Combine(rd, p), nil
}

// EligibilityFor applies the fixed thresholds to the rider's combined stats.
func (s *Service) EligibilityFor(ctx context.Context, riderID string) (Eligibility, error) {
	c, err := s.CombinedStats(ctx, riderID)
	if err != nil {
		return Eligibility{}, err
	}
	return Evaluate(c), nil
}

// PrerideReport returns every rider with combined stats and eligibility
// verdicts, computed against a single scan of the ride corpus.
func (s *Service) PrerideReport(ctx context.Context) (*Report, error) {
	members, err := s.riders.List(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.rides.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	report := &Report{Rules: PolicyRules(), Riders: make([]ReportEntry, 0, len(members))}
	for i := range members {
		rd := &members[i]
		combined := Combine(rd, Aggregate(all, rd.ID, now))
		report.Riders = append(report.Riders, ReportEntry{
			RiderID:          rd.ID,
			Name:             rd.Name,
			Email:            rd.Email,
			Phone:            rd.Phone,
			EmergencyContact: rd.EmergencyContact,
			Stats:            combined,
			Eligibility:      Evaluate(combined),
		})
	}
	return report, nil
}
