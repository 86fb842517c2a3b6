package analysis

import "ClassVision/internal/entity"

type UploadResponse struct {
	SessionID      string                      `json:"session_id"`
	Message        string                      `json:"message"`
	Faces          []entity.FaceResult         `json:"faces"`
	Statistics     entity.EngagementStatistics `json:"statistics"`
	OriginalImage  string                      `json:"original_image,omitempty"`
	AnnotatedImage string                      `json:"annotated_image,omitempty"`
}

type SessionResponse struct {
	Session entity.Session      `json:"session"`
	Faces   []entity.FaceResult `json:"faces"`
}

type RecentSessionsResponse struct {
	Sessions []entity.Session `json:"sessions"`
	Count    int              `json:"count"`
}

type TrendPoint struct {
	Date       string `json:"date"`
	Total      int    `json:"total"`
	Engaged    int    `json:"engaged"`
	Disengaged int    `json:"disengaged"`
}

type DashboardResponse struct {
	TotalSessions        int              `json:"total_sessions"`
	TotalStudents        int              `json:"total_students"`
	EngagementPercentage float64          `json:"engagement_percentage"`
	Trends               []TrendPoint     `json:"trends"`
	RecentSessions       []entity.Session `json:"recent_sessions"`
}

type ImageURLResponse struct {
	URL string `json:"url"`
}

// LiveDetectionResult is the reply for one websocket frame: just the face
// positions, no emotion inference.
type LiveDetectionResult struct {
	FaceCount int                  `json:"face_count"`
	Faces     []entity.BoundingBox `json:"faces"`
}
