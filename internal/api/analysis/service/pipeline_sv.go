package analysisService

import (
	"ClassVision/internal/api/analysis"
	"ClassVision/internal/entity"
	contextPkg "ClassVision/pkg/context"
	"context"
	"os"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
)

const defaultWorkerCount = 4

func workerCountFromEnv() int {
	if raw := os.Getenv("ANALYSIS_MAX_CONCURRENCY"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return defaultWorkerCount
}

// Analyze runs the full pass over one classroom image: face location,
// per-face emotion classification, engagement mapping, then aggregation.
// A classification failure never fails the pass; the face is reported
// with the error engagement level instead.
func (s *pipelineDomainImpl) Analyze(c context.Context, image []byte) ([]entity.FaceResult, entity.EngagementStatistics, error) {
	requestID := contextPkg.GetRequestID(c)

	candidates, err := s.locator.Locate(image)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Face location failed")
		return nil, entity.EngagementStatistics{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"face_count": len(candidates),
	}).Info("Face location completed")

	// An image with no faces is still a successful analysis.
	if len(candidates) == 0 {
		return []entity.FaceResult{}, s.calculateStatistics(c, nil), nil
	}

	results := make([]entity.FaceResult, len(candidates))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)

	for i, candidate := range candidates {
		wg.Add(1)
		go func(faceID int, face entity.FaceCandidate) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[faceID] = s.analyzeFace(c, faceID, face)
		}(i, candidate)
	}

	wg.Wait()

	return results, s.calculateStatistics(c, results), nil
}

func (s *pipelineDomainImpl) analyzeFace(c context.Context, faceID int, face entity.FaceCandidate) entity.FaceResult {
	requestID := contextPkg.GetRequestID(c)

	result := entity.FaceResult{
		FaceID:              faceID,
		BBox:                face.BBox,
		DetectionConfidence: face.Confidence,
	}

	predictions, err := s.classifier.Classify(c, face.Crop)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"face_id":    faceID,
			"error":      err.Error(),
		}).Warn("Emotion classification failed for face")

		result.Emotion = "error"
		result.EngagementLevel = entity.EngagementError
		result.Error = err.Error()
		return result
	}

	top := predictions[0]
	result.Emotion = top.Label
	result.EmotionScore = top.Score
	result.EngagementLevel = s.mapper.Map(top.Label)
	result.AllEmotions = predictions

	return result
}

// calculateStatistics recomputes the aggregate from scratch on every call.
func (s *pipelineDomainImpl) calculateStatistics(c context.Context, results []entity.FaceResult) entity.EngagementStatistics {
	stats := entity.EngagementStatistics{
		TotalFaces:          len(results),
		EmotionDistribution: make(map[string]int),
	}

	if len(results) == 0 {
		return stats
	}

	for _, result := range results {
		switch result.EngagementLevel {
		case entity.EngagementEngaged:
			stats.EngagedCount++
		case entity.EngagementDisengaged:
			stats.DisengagedCount++
		case entity.EngagementError:
			stats.ErrorCount++
		default:
			stats.UnknownCount++
		}

		if result.Emotion != "" {
			stats.EmotionDistribution[result.Emotion]++
		}
	}

	if sum := stats.EngagedCount + stats.DisengagedCount + stats.UnknownCount + stats.ErrorCount; sum != stats.TotalFaces {
		s.log.WithFields(logrus.Fields{
			"request_id":  contextPkg.GetRequestID(c),
			"total_faces": stats.TotalFaces,
			"counted":     sum,
		}).Warn("Engagement count mismatch in statistics")
	}

	stats.EngagementPercentage = float64(stats.EngagedCount) / float64(stats.TotalFaces) * 100

	return stats
}

// DetectOnly locates faces in a single frame without emotion inference,
// used by the live websocket endpoint.
func (s *pipelineDomainImpl) DetectOnly(c context.Context, frame []byte) (analysis.LiveDetectionResult, error) {
	candidates, err := s.locator.Locate(frame)
	if err != nil {
		return analysis.LiveDetectionResult{}, err
	}

	boxes := make([]entity.BoundingBox, 0, len(candidates))
	for _, candidate := range candidates {
		boxes = append(boxes, candidate.BBox)
	}

	return analysis.LiveDetectionResult{
		FaceCount: len(boxes),
		Faces:     boxes,
	}, nil
}
