package vision

import (
	"ClassVision/internal/entity"
	"ClassVision/pkg/response"
	"net/http"
)

var (
	ErrImageDecode = response.NewError(http.StatusBadRequest, "image could not be decoded")
)

// Locator defines the interface for face localization implementations.
type Locator interface {
	// Locate scans a decoded image and returns one candidate per face-like
	// region, in detector-scan order. Returns an empty slice if no faces
	// are detected.
	Locate(image []byte) ([]entity.FaceCandidate, error)

	// Annotate draws the candidate bounding boxes onto the image and
	// returns a new JPEG.
	Annotate(image []byte, faces []entity.FaceCandidate) ([]byte, error)

	// Close releases any resources held by the locator.
	Close() error
}

// Config holds configuration options for face localization.
type Config struct {
	// ModelPath is the path to the Haar cascade XML model. When empty,
	// well-known locations are searched.
	ModelPath string

	// ScaleFactor controls the detector's multi-scale step. Smaller steps
	// (1.05) favor recall over speed.
	ScaleFactor float64

	// MinNeighbors is the cascade acceptance threshold.
	MinNeighbors int

	// MinFaceSize is the minimum face edge length in pixels.
	MinFaceSize int

	// JPEGQuality is the encoding quality for face crops and annotations.
	JPEGQuality int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		ScaleFactor:  1.05,
		MinNeighbors: 4,
		MinFaceSize:  20,
		JPEGQuality:  85,
	}
}

// DefaultConfidence is reported for every candidate: the cascade detector
// only accepts or rejects a window, so no per-face probability exists. A
// richer detector backend should surface its real score here instead.
const DefaultConfidence = 0.9
