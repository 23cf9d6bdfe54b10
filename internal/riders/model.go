package riders

import "time"

// Capability tags a rider can hold. Order is irrelevant.
const (
	RoleRider      = "rider"
	RoleFlagHolder = "flag_holder"
	RoleAdmin      = "admin"
)

// Account statuses.
const (
	StatusActive  = "Active"
	StatusBlocked = "Blocked"
)

// LegacyStats is the one-time snapshot of a rider's history imported from
// the previous system at registration. It is never incremented afterwards;
// live activity is aggregated separately and merged on read.
type LegacyStats struct {
	Sweeps        int `json:"sweeps"`
	Leads         int `json:"leads"`
	RunningPilots int `json:"running_pilots"`
	RideMarshals  int `json:"ride_marshals"`
	TotalRides    int `json:"total_rides"`
}

// Rider represents a club member account.
type Rider struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Email            string      `json:"email"`
	Phone            string      `json:"phone"`
	EmergencyContact string      `json:"emergency_contact"`
	PasswordHash     string      `json:"-"`
	Roles            []string    `json:"roles"`
	Status           string      `json:"status"`
	IsExistingUser   bool        `json:"is_existing_user"`
	LegacyStats      LegacyStats `json:"legacy_stats"`
	CreatedAt        time.Time   `json:"created_at"`
}

// HasRole reports whether the rider carries the given capability tag.
func (r *Rider) HasRole(role string) bool {
	for _, have := range r.Roles {
		if have == role {
			return true
		}
	}
	return false
}

// RegisterRequest is the body for POST /riders/register.
type RegisterRequest struct {
	Name             string       `json:"name"`
	Email            string       `json:"email"`
	Phone            string       `json:"phone"`
	EmergencyContact string       `json:"emergency_contact"`
	Password         string       `json:"password"`
	ConfirmPassword  string       `json:"confirm_password"`
	IsExistingUser   bool         `json:"is_existing_user"`
	LegacyStats      *LegacyStats `json:"legacy_stats,omitempty"`
}

// LoginRequest is the body for POST /riders/login. Identifier may be the
// registered email or phone number.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// AuthResponse is returned on register / login.
type AuthResponse struct {
	Token string `json:"token"`
	Rider *Rider `json:"rider,omitempty"`
}

// RoleRequest is the body for POST /riders/{id}/roles.
type RoleRequest struct {
	Role string `json:"role"`
}

// StatusRequest is the body for PATCH /riders/{id}/status.
type StatusRequest struct {
	Status string `json:"status"`
}

// legacySnapshot builds the stats snapshot persisted at registration.
// Riders not migrated from the previous system get an all-zero snapshot;
// migrated riders keep whatever they reported, with every absent field,
// total_rides included, defaulting to zero.
func legacySnapshot(req RegisterRequest) LegacyStats {
	if !req.IsExistingUser || req.LegacyStats == nil {
		return LegacyStats{}
	}
	return *req.LegacyStats
}
