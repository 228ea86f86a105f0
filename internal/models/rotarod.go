package models

import "time"

// RotarodTrial is one rotarod run for a subject
type RotarodTrial struct {
	SubjectID     string    `json:"subject_id"`
	Sex           Sex       `json:"sex"`
	Session       int       `json:"session"`         // 1-based, assigned chronologically per subject
	Timestamp     time.Time `json:"timestamp"`       // Zero when the date, or a given time of day, does not parse
	LatencyToFall float64   `json:"latency_to_fall"` // Seconds on the rod before falling
}
