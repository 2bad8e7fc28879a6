package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Role
		ok    bool
	}{
		{name: "student", input: "student", want: RoleStudent, ok: true},
		{name: "employer", input: "employer", want: RoleEmployer, ok: true},
		{name: "tpo", input: "tpo", want: RoleTPO, ok: true},
		{name: "admin", input: "admin", want: RoleAdmin, ok: true},
		{name: "mixed case", input: " Student ", want: RoleStudent, ok: true},
		{name: "empty", input: "", want: RoleUnknown, ok: false},
		{name: "unknown", input: "recruiter", want: RoleUnknown, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRole(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range Roles() {
		assert.True(t, r.Valid(), "role %q should be valid", r)
	}
	assert.False(t, RoleUnknown.Valid())
	assert.False(t, Role("superuser").Valid())
}

func TestDashboardPath_TotalOverRoles(t *testing.T) {
	// Every defined role maps to /dashboard/{role}; absent role falls back.
	for _, r := range Roles() {
		assert.Equal(t, "/dashboard/"+string(r), DashboardPath(r))
	}
	assert.Equal(t, "/dashboard", DashboardPath(RoleUnknown))
	assert.Equal(t, "/dashboard", DashboardPath(Role("bogus")))
}

func TestNavEntries_TotalOverRoles(t *testing.T) {
	for _, r := range Roles() {
		entries := NavEntries(r)
		require.NotEmpty(t, entries, "role %q must have nav entries", r)

		// First entry is always the role dashboard.
		assert.Equal(t, DashboardPath(r), entries[0].Path)

		// Common entries are appended last.
		n := len(entries)
		assert.Equal(t, "/settings", entries[n-1].Path)
		assert.Equal(t, "/notifications", entries[n-2].Path)
	}
}

func TestNavEntries_UnknownRoleGetsCommonOnly(t *testing.T) {
	entries := NavEntries(RoleUnknown)
	require.Len(t, entries, 2)
	assert.Equal(t, "/notifications", entries[0].Path)
	assert.Equal(t, "/settings", entries[1].Path)
}

func TestNavEntries_ReturnsCopy(t *testing.T) {
	first := NavEntries(RoleStudent)
	first[0].Path = "/mutated"
	second := NavEntries(RoleStudent)
	assert.Equal(t, "/dashboard/student", second[0].Path)
}

func TestUnauthenticatedSnapshot(t *testing.T) {
	snap := UnauthenticatedSnapshot()
	assert.Nil(t, snap.Session)
	assert.Nil(t, snap.User)
	assert.Equal(t, RoleUnknown, snap.Role)
	assert.False(t, snap.Loading)
	assert.False(t, snap.IsAuthenticated)
}
