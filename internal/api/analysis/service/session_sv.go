package analysisService

import (
	"ClassVision/internal/api/analysis"
	"ClassVision/internal/entity"
	contextPkg "ClassVision/pkg/context"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const dashboardCacheKey = "classvision:dashboard"

// CreateAndAnalyze stores the uploaded image, runs the analysis pass and
// persists the per-face results. A failed pass still leaves a session row
// behind with the failed status so the upload is traceable.
func (s *sessionDomainImpl) CreateAndAnalyze(c context.Context, className, fileName string, image []byte) (analysis.UploadResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	sessionID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate session ID")
		return analysis.UploadResponse{}, err
	}

	storedName := fmt.Sprintf("sessions/%s/original%s", sessionID, safeExtension(fileName))
	storedURL, err := s.s3Client.UploadBytes(storedName, image, "image/jpeg")
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to upload original image")
		return analysis.UploadResponse{}, err
	}

	repoClient, err := s.repo.NewClient(false)
	if err != nil {
		return analysis.UploadResponse{}, err
	}

	session := entity.Session{
		ID:          sessionID,
		ClassName:   className,
		ImageName:   fileName,
		StoredImage: storedURL,
		Status:      entity.SessionStatusProcessing,
	}

	if err := repoClient.Sessions.CreateSession(c, session); err != nil {
		return analysis.UploadResponse{}, err
	}

	results, stats, err := s.pipeline.Analyze(c, image)
	if err != nil {
		if statusErr := repoClient.Sessions.UpdateSessionStatus(c, sessionID, entity.SessionStatusFailed); statusErr != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": sessionID,
				"error":      statusErr.Error(),
			}).Error("Failed to mark session as failed")
		}
		return analysis.UploadResponse{}, err
	}

	annotatedURL := s.uploadAnnotated(c, sessionID, image, results)

	now := time.Now()
	session.Status = entity.SessionStatusCompleted
	session.AnnotatedName = annotatedURL
	session.Statistics = &stats
	session.CompletedAt = &now

	if err := repoClient.Sessions.UpdateSessionResult(c, session); err != nil {
		return analysis.UploadResponse{}, err
	}

	if err := repoClient.Faces.SaveFaces(c, sessionID, results); err != nil {
		return analysis.UploadResponse{}, err
	}

	if err := s.redisServer.Delete(c, defaultDashboardCacheKey()); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to invalidate dashboard cache")
	}

	s.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"session_id":  sessionID,
		"class_name":  className,
		"total_faces": stats.TotalFaces,
	}).Info("Analysis session completed")

	return analysis.UploadResponse{
		SessionID:      sessionID,
		Message:        fmt.Sprintf("Analyzed %d faces", stats.TotalFaces),
		Faces:          results,
		Statistics:     stats,
		OriginalImage:  storedURL,
		AnnotatedImage: annotatedURL,
	}, nil
}

// uploadAnnotated draws the detection overlay and stores it. Annotation is
// cosmetic, so any failure here only logs and leaves the URL empty.
func (s *sessionDomainImpl) uploadAnnotated(c context.Context, sessionID string, image []byte, results []entity.FaceResult) string {
	requestID := contextPkg.GetRequestID(c)

	if len(results) == 0 {
		return ""
	}

	candidates := make([]entity.FaceCandidate, 0, len(results))
	for _, result := range results {
		candidates = append(candidates, entity.FaceCandidate{
			BBox:       result.BBox,
			Confidence: result.DetectionConfidence,
		})
	}

	annotated, err := s.locator.Annotate(image, candidates)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Failed to annotate image")
		return ""
	}

	key := fmt.Sprintf("sessions/%s/annotated-%s.jpg", sessionID, uuid.New().String())
	url, err := s.s3Client.UploadBytes(key, annotated, "image/jpeg")
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Failed to upload annotated image")
		return ""
	}

	return url
}

func (s *sessionDomainImpl) GetSession(c context.Context, id string) (analysis.SessionResponse, error) {
	repoClient, err := s.repo.NewClient(false)
	if err != nil {
		return analysis.SessionResponse{}, err
	}

	session, err := repoClient.Sessions.GetByID(c, id)
	if err != nil {
		return analysis.SessionResponse{}, err
	}

	faces, err := repoClient.Faces.GetBySessionID(c, id)
	if err != nil {
		return analysis.SessionResponse{}, err
	}

	return analysis.SessionResponse{
		Session: session,
		Faces:   faces,
	}, nil
}

func (s *sessionDomainImpl) GetRecent(c context.Context, limit int) (analysis.RecentSessionsResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	repoClient, err := s.repo.NewClient(false)
	if err != nil {
		return analysis.RecentSessionsResponse{}, err
	}

	sessions, err := repoClient.Sessions.GetRecent(c, limit)
	if err != nil {
		return analysis.RecentSessionsResponse{}, err
	}

	return analysis.RecentSessionsResponse{
		Sessions: sessions,
		Count:    len(sessions),
	}, nil
}

func (s *sessionDomainImpl) GetImageURL(c context.Context, id string, annotated bool) (string, error) {
	repoClient, err := s.repo.NewClient(false)
	if err != nil {
		return "", err
	}

	session, err := repoClient.Sessions.GetByID(c, id)
	if err != nil {
		return "", err
	}

	stored := session.StoredImage
	if annotated {
		stored = session.AnnotatedName
	}

	if stored == "" {
		return "", analysis.ErrImageNotStored
	}

	return s.s3Client.PresignUrl(stored)
}

func (s *sessionDomainImpl) DeleteSession(c context.Context, id string) error {
	requestID := contextPkg.GetRequestID(c)

	repoClient, err := s.repo.NewClient(false)
	if err != nil {
		return err
	}

	session, err := repoClient.Sessions.GetByID(c, id)
	if err != nil {
		return err
	}

	if err := repoClient.Sessions.DeleteSession(c, id); err != nil {
		return err
	}

	for _, stored := range []string{session.StoredImage, session.AnnotatedName} {
		if stored == "" {
			continue
		}
		if err := s.s3Client.DeleteFile(stored); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": id,
				"error":      err.Error(),
			}).Warn("Failed to delete stored image")
		}
	}

	if err := s.redisServer.Delete(c, defaultDashboardCacheKey()); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to invalidate dashboard cache")
	}

	return nil
}

func safeExtension(fileName string) string {
	switch ext := filepath.Ext(fileName); ext {
	case ".png", ".jpg", ".jpeg":
		return ext
	default:
		return ".jpg"
	}
}
