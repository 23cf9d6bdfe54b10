package riders

import "testing"

func TestLegacySnapshot_NotMigrated(t *testing.T) {
	// A rider not flagged as migrated gets an all-zero snapshot even when
	// legacy numbers were submitted.
	req := RegisterRequest{
		IsExistingUser: false,
		LegacyStats:    &LegacyStats{Sweeps: 5, TotalRides: 40},
	}
	if got := legacySnapshot(req); got != (LegacyStats{}) {
		t.Errorf("expected zero snapshot, got %+v", got)
	}
}

func TestLegacySnapshot_MigratedWithoutStats(t *testing.T) {
	req := RegisterRequest{IsExistingUser: true}
	got := legacySnapshot(req)
	if got.TotalRides != 0 || got.Sweeps != 0 {
		t.Errorf("expected explicit zero defaults, got %+v", got)
	}
}

func TestLegacySnapshot_Migrated(t *testing.T) {
	req := RegisterRequest{
		IsExistingUser: true,
		LegacyStats:    &LegacyStats{Sweeps: 3, Leads: 2, RunningPilots: 1, RideMarshals: 4, TotalRides: 27},
	}
	got := legacySnapshot(req)
	if got != *req.LegacyStats {
		t.Errorf("expected snapshot preserved, got %+v", got)
	}
}

func TestValidateRegistration(t *testing.T) {
	valid := RegisterRequest{
		Name:             "Test Rider",
		Email:            "rider@example.com",
		Phone:            "+919800000001",
		EmergencyContact: "+919800000002",
		Password:         "secret1",
		ConfirmPassword:  "secret1",
	}
	if err := validateRegistration(valid); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	cases := map[string]func(*RegisterRequest){
		"missing name":      func(r *RegisterRequest) { r.Name = "" },
		"bad email":         func(r *RegisterRequest) { r.Email = "not-an-email" },
		"bad phone":         func(r *RegisterRequest) { r.Phone = "abc" },
		"missing emergency": func(r *RegisterRequest) { r.EmergencyContact = "" },
		"short password":    func(r *RegisterRequest) { r.Password = "abc"; r.ConfirmPassword = "abc" },
		"password mismatch": func(r *RegisterRequest) { r.ConfirmPassword = "different" },
	}
	for name, mutate := range cases {
		req := valid
		mutate(&req)
		if err := validateRegistration(req); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestRiderHasRole(t *testing.T) {
	rd := Rider{Roles: []string{RoleRider, RoleFlagHolder}}
	if !rd.HasRole(RoleFlagHolder) {
		t.Error("expected flag_holder role")
	}
	if rd.HasRole(RoleAdmin) {
		t.Error("did not expect admin role")
	}
}
