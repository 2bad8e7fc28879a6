package model

import "time"

// SavedJob is a student's bookmark on a job listing.
type SavedJob struct {
	ID        string    `json:"id"         db:"id"`
	StudentID string    `json:"student_id" db:"student_id"`
	JobID     string    `json:"job_id"     db:"job_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SavedJobWithListing joins a bookmark with its listing for display.
type SavedJobWithListing struct {
	SavedJob
	JobTitle string    `json:"job_title"  db:"job_title"`
	Company  string    `json:"company"    db:"company"`
	Location string    `json:"location"   db:"location"`
	Status   JobStatus `json:"job_status" db:"job_status"`
}
