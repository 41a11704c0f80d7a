package domain

import "testing"

func TestRole_TotalOrder(t *testing.T) {
	tests := []struct {
		role Role
		min  Role
		want bool
	}{
		{RoleHost, RoleHost, true},
		{RoleHost, RoleProducer, false},
		{RoleHost, RoleAdmin, false},
		{RoleProducer, RoleHost, true},
		{RoleProducer, RoleProducer, true},
		{RoleProducer, RoleAdmin, false},
		{RoleAdmin, RoleHost, true},
		{RoleAdmin, RoleProducer, true},
		{RoleAdmin, RoleAdmin, true},
	}

	for _, tt := range tests {
		if got := tt.role.AtLeast(tt.min); got != tt.want {
			t.Errorf("%s.AtLeast(%s) = %v, want %v", tt.role, tt.min, got, tt.want)
		}
	}
}

func TestRole_UnknownRoleSatisfiesNoGate(t *testing.T) {
	unknown := Role("superuser")
	if unknown.Valid() {
		t.Error("unknown role must not be valid")
	}
	for _, min := range []Role{RoleHost, RoleProducer, RoleAdmin} {
		if unknown.AtLeast(min) {
			t.Errorf("unknown role must not satisfy gate %s", min)
		}
	}
}

func TestSeason_CardByID(t *testing.T) {
	s := &Season{Cards: []Card{{ID: "c1"}, {ID: "c2"}}}

	if s.CardByID("c2") == nil {
		t.Error("expected to find c2")
	}
	if s.CardByID("c3") != nil {
		t.Error("expected nil for unknown card")
	}
}
