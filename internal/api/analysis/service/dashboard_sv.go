package analysisService

import (
	"ClassVision/internal/api/analysis"
	"ClassVision/internal/entity"
	contextPkg "ClassVision/pkg/context"
	"ClassVision/pkg/redis"
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const (
	dashboardCacheTTL     = 5 * time.Minute
	dashboardDefaultDays  = 7
	dashboardMaxTrendDays = 90
	dashboardRecent       = 5
)

// defaultDashboardCacheKey is the key for the default window, the one the
// session domain invalidates on writes. Other windows age out via the TTL.
func defaultDashboardCacheKey() string {
	return fmt.Sprintf("%s:%d", dashboardCacheKey, dashboardDefaultDays)
}

// GetDashboard aggregates the last `days` of completed sessions. The result
// is cached in redis per window and invalidated whenever a session is
// created or deleted.
func (s *dashboardDomainImpl) GetDashboard(c context.Context, days int) (analysis.DashboardResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	if days <= 0 || days > dashboardMaxTrendDays {
		days = dashboardDefaultDays
	}

	cacheKey := fmt.Sprintf("%s:%d", dashboardCacheKey, days)

	if cached, err := s.redisServer.GetJSON(c, cacheKey); err == nil {
		var response analysis.DashboardResponse
		if err := jsoniter.UnmarshalFromString(cached, &response); err == nil {
			return response, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Dashboard cache read failed")
	}

	repoClient, err := s.repo.NewClient(false)
	if err != nil {
		return analysis.DashboardResponse{}, err
	}

	since := time.Now().AddDate(0, 0, -days)
	sessions, err := repoClient.Sessions.ListSince(c, since)
	if err != nil {
		return analysis.DashboardResponse{}, err
	}

	response := buildDashboard(sessions, days)

	if payload, err := jsoniter.MarshalToString(response); err == nil {
		if err := s.redisServer.SetJSON(c, cacheKey, payload, dashboardCacheTTL); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Dashboard cache write failed")
		}
	}

	return response, nil
}

func buildDashboard(sessions []entity.Session, days int) analysis.DashboardResponse {
	response := analysis.DashboardResponse{
		Trends:         make([]analysis.TrendPoint, 0, days),
		RecentSessions: make([]entity.Session, 0, dashboardRecent),
	}

	var totalEngaged int
	daily := make(map[string]*analysis.TrendPoint)

	for _, session := range sessions {
		if session.Status != entity.SessionStatusCompleted || session.Statistics == nil {
			continue
		}

		response.TotalSessions++
		response.TotalStudents += session.Statistics.TotalFaces
		totalEngaged += session.Statistics.EngagedCount

		date := session.CreatedAt.Format("2006-01-02")
		point, ok := daily[date]
		if !ok {
			point = &analysis.TrendPoint{Date: date}
			daily[date] = point
		}
		point.Total += session.Statistics.TotalFaces
		point.Engaged += session.Statistics.EngagedCount
		point.Disengaged += session.Statistics.DisengagedCount
	}

	if response.TotalStudents > 0 {
		response.EngagementPercentage = float64(totalEngaged) / float64(response.TotalStudents) * 100
	}

	for day := 0; day < days; day++ {
		date := time.Now().AddDate(0, 0, day-days+1).Format("2006-01-02")
		if point, ok := daily[date]; ok {
			response.Trends = append(response.Trends, *point)
		} else {
			response.Trends = append(response.Trends, analysis.TrendPoint{Date: date})
		}
	}

	// sessions arrive ordered oldest first; the newest completed ones go
	// on the dashboard
	for i := len(sessions) - 1; i >= 0 && len(response.RecentSessions) < dashboardRecent; i-- {
		if sessions[i].Status != entity.SessionStatusCompleted {
			continue
		}
		response.RecentSessions = append(response.RecentSessions, sessions[i])
	}

	return response
}
