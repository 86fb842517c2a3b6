package analysisService

import (
	"ClassVision/internal/api/analysis"
	analysisRepository "ClassVision/internal/api/analysis/repository"
	"ClassVision/internal/entity"
	"ClassVision/pkg/huggingface"
	"ClassVision/pkg/redis"
	"ClassVision/pkg/s3"
	"ClassVision/pkg/utils"
	"ClassVision/pkg/vision"
	"context"
	"github.com/sirupsen/logrus"
)

type AnalysisService interface {
	Pipeline() PipelineDomain
	Sessions() SessionDomain
	Dashboard() DashboardDomain
	GetRepository() analysisRepository.Repository
}

type PipelineDomain interface {
	Analyze(c context.Context, image []byte) ([]entity.FaceResult, entity.EngagementStatistics, error)
	DetectOnly(c context.Context, frame []byte) (analysis.LiveDetectionResult, error)
}

type SessionDomain interface {
	CreateAndAnalyze(c context.Context, className, fileName string, image []byte) (analysis.UploadResponse, error)
	GetSession(c context.Context, id string) (analysis.SessionResponse, error)
	GetRecent(c context.Context, limit int) (analysis.RecentSessionsResponse, error)
	GetImageURL(c context.Context, id string, annotated bool) (string, error)
	DeleteSession(c context.Context, id string) error
}

type DashboardDomain interface {
	GetDashboard(c context.Context, days int) (analysis.DashboardResponse, error)
}

type analysisService struct {
	log        *logrus.Logger
	repository analysisRepository.Repository

	pipelineDomain  PipelineDomain
	sessionDomain   SessionDomain
	dashboardDomain DashboardDomain
}

func (a *analysisService) Pipeline() PipelineDomain {
	return a.pipelineDomain
}

func (a *analysisService) Sessions() SessionDomain {
	return a.sessionDomain
}

func (a *analysisService) Dashboard() DashboardDomain {
	return a.dashboardDomain
}

func (a *analysisService) GetRepository() analysisRepository.Repository {
	return a.repository
}

type pipelineDomainImpl struct {
	log        *logrus.Logger
	locator    vision.Locator
	classifier huggingface.IHuggingFace
	mapper     *EngagementMapper
	workers    int
}

type sessionDomainImpl struct {
	log         *logrus.Logger
	repo        analysisRepository.Repository
	pipeline    PipelineDomain
	locator     vision.Locator
	s3Client    s3.ItfS3
	redisServer redis.IRedis
	utils       utils.IUtils
}

type dashboardDomainImpl struct {
	log         *logrus.Logger
	repo        analysisRepository.Repository
	redisServer redis.IRedis
}

func New(log *logrus.Logger,
	repo analysisRepository.Repository,
	locator vision.Locator,
	classifier huggingface.IHuggingFace,
	redisServer redis.IRedis,
	s3Client s3.ItfS3,
	utils utils.IUtils,
) AnalysisService {
	pipeline := &pipelineDomainImpl{
		log:        log,
		locator:    locator,
		classifier: classifier,
		mapper:     NewEngagementMapperFromEnv(),
		workers:    workerCountFromEnv(),
	}

	return &analysisService{
		log:        log,
		repository: repo,

		pipelineDomain:  pipeline,
		sessionDomain:   &sessionDomainImpl{log: log, repo: repo, pipeline: pipeline, locator: locator, s3Client: s3Client, redisServer: redisServer, utils: utils},
		dashboardDomain: &dashboardDomainImpl{log: log, repo: repo, redisServer: redisServer},
	}
}
