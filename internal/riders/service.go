package riders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"club-service/pkg/jwt"
	"club-service/pkg/validation"
)

var (
	// ErrNotFound is returned when no rider matches the given id.
	ErrNotFound = errors.New("rider not found")
	// ErrDuplicate is returned when the email or phone is already registered.
	ErrDuplicate = errors.New("rider with this phone or email already exists")
)

const riderColumns = `id,name,email,phone,emergency_contact,roles,status,is_existing_user,
	legacy_sweeps,legacy_leads,legacy_running_pilots,legacy_ride_marshals,legacy_total_rides,created_at`

// Service contains rider account business logic.
type Service struct {
	db *pgxpool.Pool
}

// NewService creates a rider service backed by the given pool.
func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// Register creates a new rider account and returns a JWT. The first account
// ever registered is granted admin and flag-holder alongside rider.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	var exists bool
	_ = s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM riders WHERE email=$1 OR phone=$2)",
		req.Email, req.Phone).Scan(&exists)
	if exists {
		return nil, ErrDuplicate
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	roles := []string{RoleRider}
	var count int
	_ = s.db.QueryRow(ctx, "SELECT COUNT(*) FROM riders").Scan(&count)
	if count == 0 {
		roles = append(roles, RoleAdmin, RoleFlagHolder)
	}

	legacy := legacySnapshot(req)
	id := uuid.New().String()
	_, err = s.db.Exec(ctx,
		`INSERT INTO riders (id,name,email,phone,emergency_contact,password_hash,roles,status,is_existing_user,
		                     legacy_sweeps,legacy_leads,legacy_running_pilots,legacy_ride_marshals,legacy_total_rides)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		id, req.Name, req.Email, req.Phone, req.EmergencyContact, string(hash), roles, StatusActive,
		req.IsExistingUser, legacy.Sweeps, legacy.Leads, legacy.RunningPilots, legacy.RideMarshals, legacy.TotalRides)
	if err != nil {
		return nil, err
	}

	token, err := jwt.Generate(id, req.Email, roles)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token: token,
		Rider: &Rider{
			ID: id, Name: req.Name, Email: req.Email, Phone: req.Phone,
			EmergencyContact: req.EmergencyContact, Roles: roles, Status: StatusActive,
			IsExistingUser: req.IsExistingUser, LegacyStats: legacy,
		},
	}, nil
}

// Login authenticates a rider by email or phone and returns a JWT.
// Blocked accounts are refused.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var rd Rider
	var hash string
	err := s.db.QueryRow(ctx,
		`SELECT `+riderColumns+`,password_hash FROM riders WHERE email=$1 OR phone=$1`,
		req.Identifier).Scan(riderFields(&rd, &hash)...)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		return nil, errors.New("invalid credentials")
	}
	if rd.Status == StatusBlocked {
		return nil, errors.New("account is blocked")
	}

	token, err := jwt.Generate(rd.ID, rd.Email, rd.Roles)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, Rider: &rd}, nil
}

// GetByID fetches a single rider by primary key.
func (s *Service) GetByID(ctx context.Context, id string) (*Rider, error) {
	var rd Rider
	err := s.db.QueryRow(ctx,
		`SELECT `+riderColumns+` FROM riders WHERE id=$1`, id).
		Scan(riderFields(&rd, nil)...)
	if err != nil {
		return nil, ErrNotFound
	}
	return &rd, nil
}

// List returns every rider, newest first.
func (s *Service) List(ctx context.Context) ([]Rider, error) {
	rows, err := s.db.Query(ctx, `SELECT `+riderColumns+` FROM riders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Rider
	for rows.Next() {
		var rd Rider
		if err := rows.Scan(riderFields(&rd, nil)...); err != nil {
			return nil, err
		}
		out = append(out, rd)
	}
	return out, rows.Err()
}

// PromoteRole adds a capability tag to a rider. Returns false when the
// rider already held the role.
func (s *Service) PromoteRole(ctx context.Context, id, role string) (bool, error) {
	if role != RoleRider && role != RoleFlagHolder && role != RoleAdmin {
		return false, errors.New("unknown role")
	}
	rd, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if rd.HasRole(role) {
		return false, nil
	}
	_, err = s.db.Exec(ctx,
		`UPDATE riders SET roles = array_append(roles,$1) WHERE id=$2 AND NOT ($1 = ANY(roles))`,
		role, id)
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetStatus sets a rider's account status (Active or Blocked).
func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	if status != StatusActive && status != StatusBlocked {
		return errors.New("unknown status")
	}
	tag, err := s.db.Exec(ctx, `UPDATE riders SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// riderFields lists scan targets in riderColumns order; hash may be nil
// when password_hash is not selected.
func riderFields(rd *Rider, hash *string) []any {
	fields := []any{
		&rd.ID, &rd.Name, &rd.Email, &rd.Phone, &rd.EmergencyContact,
		&rd.Roles, &rd.Status, &rd.IsExistingUser,
		&rd.LegacyStats.Sweeps, &rd.LegacyStats.Leads, &rd.LegacyStats.RunningPilots,
		&rd.LegacyStats.RideMarshals, &rd.LegacyStats.TotalRides, &rd.CreatedAt,
	}
	if hash != nil {
		fields = append(fields, hash)
	}
	return fields
}

func validateRegistration(req RegisterRequest) error {
	switch {
	case !validation.ValidateName(req.Name):
		return errors.New("name is required")
	case !validation.ValidateEmail(req.Email):
		return errors.New("a valid email is required")
	case !validation.ValidatePhone(req.Phone):
		return errors.New("a valid phone number is required")
	case !validation.ValidatePhone(req.EmergencyContact):
		return errors.New("a valid emergency contact number is required")
	case !validation.ValidatePassword(req.Password):
		return errors.New("password must be between 6 and 100 characters")
	case req.Password != req.ConfirmPassword:
		return errors.New("passwords do not match")
	}
	return nil
}
