package model

// StudentDashboardStats backs the student dashboard cards.
type StudentDashboardStats struct {
	ApplicationsSubmitted int `json:"applications_submitted" db:"applications_submitted"`
	ApplicationsAccepted  int `json:"applications_accepted"  db:"applications_accepted"`
	SavedJobs             int `json:"saved_jobs"             db:"saved_jobs"`
	OpenJobs              int `json:"open_jobs"              db:"open_jobs"`
}

// EmployerDashboardStats backs the employer dashboard cards.
type EmployerDashboardStats struct {
	ActiveListings       int `json:"active_listings"       db:"active_listings"`
	TotalApplications    int `json:"total_applications"    db:"total_applications"`
	PendingReview        int `json:"pending_review"        db:"pending_review"`
	AcceptedApplications int `json:"accepted_applications" db:"accepted_applications"`
}

// TPODashboardStats backs the placement officer dashboard cards.
type TPODashboardStats struct {
	Students          int `json:"students"           db:"students"`
	StudentsPlaced    int `json:"students_placed"    db:"students_placed"`
	OpenJobs          int `json:"open_jobs"          db:"open_jobs"`
	TotalApplications int `json:"total_applications" db:"total_applications"`
}

// AdminDashboardStats backs the admin dashboard cards.
type AdminDashboardStats struct {
	TotalUsers     int `json:"total_users"     db:"total_users"`
	TotalEmployers int `json:"total_employers" db:"total_employers"`
	TotalJobs      int `json:"total_jobs"      db:"total_jobs"`
	TotalColleges  int `json:"total_colleges"  db:"total_colleges"`
}
