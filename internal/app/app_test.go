package app

import (
	"errors"
	"testing"

	"github.com/novaterra/estatecrm/internal/config"
	"github.com/novaterra/estatecrm/internal/models"
)

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("failed to connect to `host=localhost`: server error (FATAL: password authentication failed for user \"estatecrm\" (SQLSTATE 28P01))"), true},
		{errors.New("FATAL: role \"estatecrm\" does not exist (SQLSTATE 28000)"), true},
		{errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), false},
		{errors.New("context deadline exceeded"), false},
	}

	for _, tt := range tests {
		if got := isAuthError(tt.err); got != tt.want {
			t.Errorf("isAuthError(%v): expected %v, got %v", tt.err, tt.want, got)
		}
	}
}

func TestNew_RoleGatesSidebarEntities(t *testing.T) {
	cfg := config.GetDefaults()
	cfg.General.Role = "viewer"

	a := New(cfg, models.ConnectionConfig{}, nil, nil, nil)

	if len(a.entities) != 2 {
		t.Fatalf("expected 2 entities for viewer, got %d", len(a.entities))
	}
	for _, e := range a.entities {
		if e.Table == "contacts" || e.Table == "employees" {
			t.Errorf("viewer should not see %s", e.Table)
		}
	}
}
