package analysisService

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"testing"

	"ClassVision/internal/entity"
	"ClassVision/pkg/vision"

	"github.com/sirupsen/logrus"
)

type fakeClassifier struct {
	classifyFn func(ctx context.Context, faceJPEG []byte) ([]entity.EmotionPrediction, error)
}

func (f *fakeClassifier) Classify(ctx context.Context, faceJPEG []byte) ([]entity.EmotionPrediction, error) {
	return f.classifyFn(ctx, faceJPEG)
}

func newTestPipeline(locator vision.Locator, classifier *fakeClassifier) *pipelineDomainImpl {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &pipelineDomainImpl{
		log:        logger,
		locator:    locator,
		classifier: classifier,
		mapper:     NewEngagementMapper(defaultEngagedEmotions, defaultDisengagedEmotions),
		workers:    4,
	}
}

func candidateWithCrop(crop string) entity.FaceCandidate {
	return entity.FaceCandidate{
		BBox:       entity.BoundingBox{X: 10, Y: 10, Width: 40, Height: 40},
		Crop:       []byte(crop),
		Confidence: 0.9,
	}
}

func TestAnalyzeZeroFaces(t *testing.T) {
	locator := vision.NewMockLocator()
	locator.SetFaces(nil)

	classifier := &fakeClassifier{
		classifyFn: func(ctx context.Context, faceJPEG []byte) ([]entity.EmotionPrediction, error) {
			t.Fatal("classifier must not be called when no faces are found")
			return nil, nil
		},
	}

	pipeline := newTestPipeline(locator, classifier)

	results, stats, err := pipeline.Analyze(context.Background(), []byte("image"))
	if err != nil {
		t.Fatalf("Analyze returned error for zero faces: %v", err)
	}

	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
	if stats.TotalFaces != 0 || stats.EngagementPercentage != 0 {
		t.Errorf("expected zeroed statistics, got %+v", stats)
	}
	if stats.EmotionDistribution == nil || len(stats.EmotionDistribution) != 0 {
		t.Errorf("expected empty emotion distribution, got %v", stats.EmotionDistribution)
	}
}

func TestAnalyzeLocateError(t *testing.T) {
	locator := vision.NewMockLocator()
	locator.SetError(vision.ErrImageDecode)

	pipeline := newTestPipeline(locator, &fakeClassifier{})

	_, _, err := pipeline.Analyze(context.Background(), []byte("not an image"))
	if !errors.Is(err, vision.ErrImageDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestAnalyzePerFaceIsolation(t *testing.T) {
	locator := vision.NewMockLocator()
	locator.SetFaces([]entity.FaceCandidate{
		candidateWithCrop("face-0"),
		candidateWithCrop("face-1"),
		candidateWithCrop("face-2"),
	})

	classifyErr := errors.New("inference request failed: 500 - boom")
	classifier := &fakeClassifier{
		classifyFn: func(ctx context.Context, faceJPEG []byte) ([]entity.EmotionPrediction, error) {
			if bytes.Equal(faceJPEG, []byte("face-1")) {
				return nil, classifyErr
			}
			return []entity.EmotionPrediction{{Label: "happy", Score: 0.92}}, nil
		},
	}

	pipeline := newTestPipeline(locator, classifier)

	results, stats, err := pipeline.Analyze(context.Background(), []byte("image"))
	if err != nil {
		t.Fatalf("Analyze must not fail when one face fails: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i, result := range results {
		if result.FaceID != i {
			t.Errorf("result %d has face_id %d, results must keep detection order", i, result.FaceID)
		}
	}

	if results[1].EngagementLevel != entity.EngagementError {
		t.Errorf("failed face level = %q, want error", results[1].EngagementLevel)
	}
	if results[1].Error == "" {
		t.Error("failed face must carry the error detail")
	}
	if results[1].Emotion != "error" {
		t.Errorf("failed face emotion = %q, want the error marker", results[1].Emotion)
	}

	for _, i := range []int{0, 2} {
		if results[i].EngagementLevel != entity.EngagementEngaged {
			t.Errorf("face %d level = %q, want engaged", i, results[i].EngagementLevel)
		}
		if results[i].Emotion != "happy" {
			t.Errorf("face %d emotion = %q, want happy", i, results[i].Emotion)
		}
	}

	if stats.TotalFaces != 3 || stats.EngagedCount != 2 || stats.ErrorCount != 1 {
		t.Errorf("unexpected statistics: %+v", stats)
	}
	if stats.EmotionDistribution["error"] != 1 || stats.EmotionDistribution["happy"] != 2 {
		t.Errorf("unexpected emotion distribution: %v", stats.EmotionDistribution)
	}
	if sum := stats.EngagedCount + stats.DisengagedCount + stats.UnknownCount + stats.ErrorCount; sum != stats.TotalFaces {
		t.Errorf("count buckets sum to %d, want %d", sum, stats.TotalFaces)
	}
}

func TestAnalyzeStatisticsPercentage(t *testing.T) {
	locator := vision.NewMockLocator()
	locator.SetFaces([]entity.FaceCandidate{
		candidateWithCrop("face-0"),
		candidateWithCrop("face-1"),
		candidateWithCrop("face-2"),
		candidateWithCrop("face-3"),
	})

	emotions := map[string]string{
		"face-0": "happy",
		"face-1": "neutral",
		"face-2": "surprise",
		"face-3": "sad",
	}

	classifier := &fakeClassifier{
		classifyFn: func(ctx context.Context, faceJPEG []byte) ([]entity.EmotionPrediction, error) {
			return []entity.EmotionPrediction{{Label: emotions[string(faceJPEG)], Score: 0.8}}, nil
		},
	}

	pipeline := newTestPipeline(locator, classifier)

	_, stats, err := pipeline.Analyze(context.Background(), []byte("image"))
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if stats.EngagedCount != 3 || stats.DisengagedCount != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if math.Abs(stats.EngagementPercentage-75.0) > 1e-9 {
		t.Errorf("engagement percentage = %v, want 75", stats.EngagementPercentage)
	}
	if stats.EmotionDistribution["happy"] != 1 || stats.EmotionDistribution["sad"] != 1 {
		t.Errorf("unexpected emotion distribution: %v", stats.EmotionDistribution)
	}
}

func TestAnalyzeUnknownPrediction(t *testing.T) {
	locator := vision.NewMockLocator()
	locator.SetFaces([]entity.FaceCandidate{candidateWithCrop("face-0")})

	classifier := &fakeClassifier{
		classifyFn: func(ctx context.Context, faceJPEG []byte) ([]entity.EmotionPrediction, error) {
			return []entity.EmotionPrediction{{Label: "unknown", Score: 0.0}}, nil
		},
	}

	pipeline := newTestPipeline(locator, classifier)

	results, stats, err := pipeline.Analyze(context.Background(), []byte("image"))
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if results[0].EngagementLevel != entity.EngagementUnknown {
		t.Errorf("level = %q, want unknown for the synthetic prediction", results[0].EngagementLevel)
	}
	if stats.UnknownCount != 1 || stats.ErrorCount != 0 {
		t.Errorf("unexpected statistics: %+v", stats)
	}
}

func TestAnalyzeManyFacesKeepsOrder(t *testing.T) {
	const faceCount = 32

	faces := make([]entity.FaceCandidate, 0, faceCount)
	for i := 0; i < faceCount; i++ {
		faces = append(faces, candidateWithCrop(fmt.Sprintf("face-%d", i)))
	}

	locator := vision.NewMockLocator()
	locator.SetFaces(faces)

	classifier := &fakeClassifier{
		classifyFn: func(ctx context.Context, faceJPEG []byte) ([]entity.EmotionPrediction, error) {
			return []entity.EmotionPrediction{{Label: "happy", Score: 0.9}}, nil
		},
	}

	pipeline := newTestPipeline(locator, classifier)

	results, stats, err := pipeline.Analyze(context.Background(), []byte("image"))
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if len(results) != faceCount {
		t.Fatalf("expected %d results, got %d", faceCount, len(results))
	}

	for i, result := range results {
		if result.FaceID != i {
			t.Fatalf("result %d has face_id %d", i, result.FaceID)
		}
	}

	if stats.EngagedCount != faceCount {
		t.Errorf("engaged count = %d, want %d", stats.EngagedCount, faceCount)
	}
}

func TestDetectOnly(t *testing.T) {
	locator := vision.NewMockLocator()
	locator.SetFaces([]entity.FaceCandidate{
		{BBox: entity.BoundingBox{X: 5, Y: 6, Width: 30, Height: 30}, Confidence: 0.9},
		{BBox: entity.BoundingBox{X: 50, Y: 60, Width: 25, Height: 25}, Confidence: 0.9},
	})

	pipeline := newTestPipeline(locator, &fakeClassifier{
		classifyFn: func(ctx context.Context, faceJPEG []byte) ([]entity.EmotionPrediction, error) {
			t.Fatal("DetectOnly must not run emotion inference")
			return nil, nil
		},
	})

	result, err := pipeline.DetectOnly(context.Background(), []byte("frame"))
	if err != nil {
		t.Fatalf("DetectOnly returned error: %v", err)
	}

	if result.FaceCount != 2 || len(result.Faces) != 2 {
		t.Fatalf("unexpected live result: %+v", result)
	}
	if result.Faces[0].X != 5 || result.Faces[1].Y != 60 {
		t.Errorf("bounding boxes not preserved: %+v", result.Faces)
	}
}
