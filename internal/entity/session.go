package entity

import "time"

type SessionStatus string

const (
	SessionStatusProcessing SessionStatus = "processing"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusFailed     SessionStatus = "failed"
)

// Session is one classroom-image analysis invocation and its persisted output.
type Session struct {
	ID            string                `json:"id"`
	ClassName     string                `json:"class_name"`
	ImageName     string                `json:"image_name"`
	StoredImage   string                `json:"stored_image,omitempty"`
	AnnotatedName string                `json:"annotated_image,omitempty"`
	Status        SessionStatus         `json:"status"`
	Statistics    *EngagementStatistics `json:"statistics,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	CompletedAt   *time.Time            `json:"completed_at,omitempty"`
}
