package model

// JobListOptions controls paging and sorting for job listing queries.
type JobListOptions struct {
	Limit  int
	Offset int
	Status *JobStatus // exact match
	Sort   string     // allowed: "created_at", "title"
	Dir    string     // allowed: "asc", "desc" (case-insensitive; normalized internally)
}

// ProfileListOptions controls paging and filtering for listing profiles.
type ProfileListOptions struct {
	Limit  int
	Offset int
	Q      *string // substring match on email or full name (ILIKE)
	Role   *string // exact match
	Sort   string  // allowed: "created_at", "email"
	Dir    string  // allowed: "asc", "desc"
}
