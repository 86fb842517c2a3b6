package vision

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"

	"gocv.io/x/gocv"

	"ClassVision/internal/entity"
)

// CascadeLocator implements Locator using an OpenCV Haar cascade.
type CascadeLocator struct {
	config     Config
	classifier gocv.CascadeClassifier
	mu         sync.Mutex
}

// NewCascadeLocator loads the frontal-face cascade model and returns a
// ready locator. The classifier is not safe for concurrent detection, so
// Locate serializes access internally.
func NewCascadeLocator(config Config) (*CascadeLocator, error) {
	modelPath := config.ModelPath
	if modelPath == "" {
		modelPath = findCascadeModel()
	}
	if modelPath == "" {
		return nil, fmt.Errorf("haarcascade_frontalface_default.xml not found")
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(modelPath) {
		classifier.Close()
		return nil, fmt.Errorf("load cascade model %s", modelPath)
	}

	return &CascadeLocator{
		config:     config,
		classifier: classifier,
	}, nil
}

// Locate decodes the image, runs multi-scale detection on its grayscale
// version and returns clamped, JPEG-encoded face candidates.
func (l *CascadeLocator) Locate(imageData []byte) ([]entity.FaceCandidate, error) {
	img, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	defer img.Close()

	if img.Empty() || img.Cols() == 0 || img.Rows() == 0 {
		return nil, ErrImageDecode
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	width := img.Cols()
	height := img.Rows()
	minSize := image.Pt(l.config.MinFaceSize, l.config.MinFaceSize)

	l.mu.Lock()
	rects := l.classifier.DetectMultiScaleWithParams(
		gray,
		l.config.ScaleFactor,
		l.config.MinNeighbors,
		0,
		minSize,
		image.Pt(0, 0),
	)
	l.mu.Unlock()

	candidates := make([]entity.FaceCandidate, 0, len(rects))
	for _, r := range rects {
		bbox, ok := clampBox(r, width, height)
		if !ok {
			// Detector geometry ran past the image edge, nothing left.
			continue
		}

		region := img.Region(image.Rect(bbox.X, bbox.Y, bbox.X+bbox.Width, bbox.Y+bbox.Height))
		crop, err := encodeJPEG(region, l.config.JPEGQuality)
		region.Close()
		if err != nil {
			return nil, fmt.Errorf("encode face crop: %w", err)
		}

		candidates = append(candidates, entity.FaceCandidate{
			BBox:       bbox,
			Crop:       crop,
			Confidence: DefaultConfidence,
		})
	}

	return candidates, nil
}

// Annotate draws a green rectangle and the confidence label for each
// candidate onto a copy of the image.
func (l *CascadeLocator) Annotate(imageData []byte, faces []entity.FaceCandidate) ([]byte, error) {
	img, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	defer img.Close()

	green := color.RGBA{G: 255, A: 255}
	for _, face := range faces {
		rect := image.Rect(
			face.BBox.X,
			face.BBox.Y,
			face.BBox.X+face.BBox.Width,
			face.BBox.Y+face.BBox.Height,
		)
		gocv.Rectangle(&img, rect, green, 2)
		gocv.PutText(
			&img,
			fmt.Sprintf("%.2f", face.Confidence),
			image.Pt(face.BBox.X, face.BBox.Y-10),
			gocv.FontHersheySimplex,
			0.5,
			green,
			2,
		)
	}

	return encodeJPEG(img, l.config.JPEGQuality)
}

// Close releases the cascade classifier.
func (l *CascadeLocator) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.classifier.Close()
}

func encodeJPEG(img gocv.Mat, quality int) ([]byte, error) {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}

// clampBox clips a detector rectangle to the image bounds. The second
// return value is false when nothing remains after clipping.
func clampBox(r image.Rectangle, width, height int) (entity.BoundingBox, bool) {
	x := r.Min.X
	y := r.Min.Y
	w := r.Dx()
	h := r.Dy()

	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > width {
		w = width - x
	}
	if y+h > height {
		h = height - y
	}

	if w <= 0 || h <= 0 || x >= width || y >= height {
		return entity.BoundingBox{}, false
	}

	return entity.BoundingBox{X: x, Y: y, Width: w, Height: h}, true
}

func findCascadeModel() string {
	if path := os.Getenv("CASCADE_MODEL_PATH"); path != "" {
		return path
	}

	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"models/haarcascade_frontalface_default.xml",
		"../models/haarcascade_frontalface_default.xml",
		filepath.Join(execDir, "models/haarcascade_frontalface_default.xml"),
		"/usr/share/opencv4/haarcascades/haarcascade_frontalface_default.xml",
		"/usr/local/share/opencv4/haarcascades/haarcascade_frontalface_default.xml",
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
