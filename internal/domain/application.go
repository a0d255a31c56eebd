package domain

import "time"

// Application is a job application held in memory for the current session.
// The collection is append-only and keeps insertion order; duplicates for
// the same job are not prevented at this layer.
type Application struct {
	ID        string            `json:"id"`
	JobID     string            `json:"job_id"`
	CoverNote string            `json:"cover_note,omitempty"`
	Answers   map[string]string `json:"answers,omitempty"`
	AppliedAt time.Time         `json:"applied_at"`
}
