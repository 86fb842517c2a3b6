package entity

// EngagementLevel is the attentiveness class derived from a face's top emotion.
type EngagementLevel string

const (
	EngagementEngaged    EngagementLevel = "engaged"
	EngagementDisengaged EngagementLevel = "disengaged"
	EngagementUnknown    EngagementLevel = "unknown"
	EngagementError      EngagementLevel = "error"
)

// BoundingBox is a face region in pixel coordinates, always clamped to the
// source image bounds by the locator.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FaceCandidate is one detected face region. Crop holds the JPEG-encoded
// sub-image and is discarded after classification, never persisted.
type FaceCandidate struct {
	BBox       BoundingBox
	Crop       []byte
	Confidence float64
}

type EmotionPrediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// FaceResult is the per-face analysis outcome. Exactly one is produced for
// every detected face, whether classification succeeded or not.
type FaceResult struct {
	FaceID              int                 `json:"face_id"`
	BBox                BoundingBox         `json:"bbox"`
	DetectionConfidence float64             `json:"detection_confidence"`
	Emotion             string              `json:"emotion"`
	EmotionScore        float64             `json:"emotion_score"`
	EngagementLevel     EngagementLevel     `json:"engagement_level"`
	AllEmotions         []EmotionPrediction `json:"all_emotions,omitempty"`
	Error               string              `json:"error,omitempty"`
}

// EngagementStatistics is recomputed in full from a FaceResult slice,
// never mutated incrementally.
type EngagementStatistics struct {
	TotalFaces           int            `json:"total_faces"`
	EngagedCount         int            `json:"engaged_count"`
	DisengagedCount      int            `json:"disengaged_count"`
	UnknownCount         int            `json:"unknown_count"`
	ErrorCount           int            `json:"error_count"`
	EngagementPercentage float64        `json:"engagement_percentage"`
	EmotionDistribution  map[string]int `json:"emotion_distribution"`
}
