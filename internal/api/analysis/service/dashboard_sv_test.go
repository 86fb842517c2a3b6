package analysisService

import (
	"math"
	"testing"
	"time"

	"ClassVision/internal/entity"
)

func completedSession(id string, createdAt time.Time, engaged, disengaged int) entity.Session {
	total := engaged + disengaged
	return entity.Session{
		ID:        id,
		ClassName: "10-A",
		Status:    entity.SessionStatusCompleted,
		CreatedAt: createdAt,
		Statistics: &entity.EngagementStatistics{
			TotalFaces:      total,
			EngagedCount:    engaged,
			DisengagedCount: disengaged,
		},
	}
}

func TestBuildDashboard(t *testing.T) {
	now := time.Now()
	sessions := []entity.Session{
		completedSession("01A", now.AddDate(0, 0, -2), 6, 2),
		completedSession("01B", now, 3, 1),
		{
			ID:        "01C",
			Status:    entity.SessionStatusFailed,
			CreatedAt: now,
		},
	}

	dashboard := buildDashboard(sessions, dashboardDefaultDays)

	if dashboard.TotalSessions != 2 {
		t.Errorf("total sessions = %d, want 2 (failed run excluded)", dashboard.TotalSessions)
	}
	if dashboard.TotalStudents != 12 {
		t.Errorf("total students = %d, want 12", dashboard.TotalStudents)
	}
	if math.Abs(dashboard.EngagementPercentage-75.0) > 1e-9 {
		t.Errorf("engagement percentage = %v, want 75", dashboard.EngagementPercentage)
	}

	if len(dashboard.Trends) != dashboardDefaultDays {
		t.Fatalf("trend length = %d, want %d", len(dashboard.Trends), dashboardDefaultDays)
	}

	today := dashboard.Trends[len(dashboard.Trends)-1]
	if today.Date != now.Format("2006-01-02") {
		t.Errorf("last trend point date = %s, want today", today.Date)
	}
	if today.Engaged != 3 || today.Disengaged != 1 {
		t.Errorf("unexpected trend point for today: %+v", today)
	}

	if len(dashboard.RecentSessions) != 2 {
		t.Fatalf("recent sessions = %d, want 2 (failed run excluded)", len(dashboard.RecentSessions))
	}
	if dashboard.RecentSessions[0].ID != "01B" {
		t.Errorf("recent sessions must start with the newest completed, got %s", dashboard.RecentSessions[0].ID)
	}
	for _, session := range dashboard.RecentSessions {
		if session.Status != entity.SessionStatusCompleted {
			t.Errorf("session %s with status %s must not appear in recent list", session.ID, session.Status)
		}
	}
}

func TestBuildDashboardEmpty(t *testing.T) {
	dashboard := buildDashboard(nil, dashboardDefaultDays)

	if dashboard.TotalSessions != 0 || dashboard.TotalStudents != 0 {
		t.Errorf("unexpected totals: %+v", dashboard)
	}
	if dashboard.EngagementPercentage != 0 {
		t.Errorf("engagement percentage = %v, want 0 with no sessions", dashboard.EngagementPercentage)
	}
	if len(dashboard.Trends) != dashboardDefaultDays {
		t.Errorf("trend length = %d, want %d even when empty", len(dashboard.Trends), dashboardDefaultDays)
	}
}
