package auth

// NavEntry is a single navigation item offered to a signed-in user.
type NavEntry struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// dashboardBasePath is the fallback destination when no role is resolved.
const dashboardBasePath = "/dashboard"

// navTable is the single source of truth for role-conditional navigation.
// Adding a role means adding exactly one entry here (plus its Role constant).
var navTable = map[Role][]NavEntry{
	RoleStudent: {
		{Label: "Dashboard", Path: "/dashboard/student"},
		{Label: "My Profile", Path: "/profile"},
		{Label: "My Applications", Path: "/applications"},
		{Label: "Saved Jobs", Path: "/saved-jobs"},
	},
	RoleEmployer: {
		{Label: "Dashboard", Path: "/dashboard/employer"},
		{Label: "Company Profile", Path: "/profile"},
		{Label: "Job Listings", Path: "/manage-jobs"},
		{Label: "Applications", Path: "/applications-received"},
		{Label: "Post New Job", Path: "/create-job"},
	},
	RoleTPO: {
		{Label: "Dashboard", Path: "/dashboard/tpo"},
		{Label: "College Profile", Path: "/profile"},
		{Label: "Students", Path: "/students"},
		{Label: "Placement Stats", Path: "/placement-stats"},
		{Label: "Job Fairs", Path: "/job-fairs"},
	},
	RoleAdmin: {
		{Label: "Dashboard", Path: "/dashboard/admin"},
		{Label: "Manage Users", Path: "/admin/users"},
		{Label: "Manage Jobs", Path: "/admin/jobs"},
		{Label: "Manage Colleges", Path: "/admin/colleges"},
		{Label: "Manage Employers", Path: "/admin/employers"},
	},
}

// commonNavEntries are appended for every signed-in role.
var commonNavEntries = []NavEntry{
	{Label: "Notifications", Path: "/notifications"},
	{Label: "Settings", Path: "/settings"},
}

// NavEntries returns the ordered navigation entries for a role. It is total
// over the defined roles plus the absent case: an unknown role yields only
// the common entries.
func NavEntries(role Role) []NavEntry {
	entries, ok := navTable[role]
	if !ok {
		return append([]NavEntry(nil), commonNavEntries...)
	}
	out := make([]NavEntry, 0, len(entries)+len(commonNavEntries))
	out = append(out, entries...)
	return append(out, commonNavEntries...)
}

// DashboardPath returns the role-specific dashboard path, or the base
// dashboard path when the role is absent.
func DashboardPath(role Role) string {
	if !role.Valid() {
		return dashboardBasePath
	}
	return dashboardBasePath + "/" + string(role)
}
