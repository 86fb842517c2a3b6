package analysisRepository

import (
	"ClassVision/internal/api/analysis"
	"ClassVision/internal/entity"
	contextPkg "ClassVision/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type SessionDB struct {
	ID            sql.NullString `db:"id"`
	ClassName     sql.NullString `db:"class_name"`
	ImageName     sql.NullString `db:"image_name"`
	StoredImage   sql.NullString `db:"stored_image"`
	AnnotatedName sql.NullString `db:"annotated_name"`
	Status        sql.NullString `db:"status"`
	Statistics    []byte         `db:"statistics"`
	CreatedAt     sql.NullTime   `db:"created_at"`
	CompletedAt   sql.NullTime   `db:"completed_at"`
}

func (r *sessionRepository) CreateSession(c context.Context, session entity.Session) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":           session.ID,
		"class_name":   session.ClassName,
		"image_name":   session.ImageName,
		"stored_image": session.StoredImage,
		"status":       session.Status,
		"created_at":   time.Now(),
	}

	query, args, err := sqlx.Named(queryCreateSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateSession named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating session")
		return err
	}

	return nil
}

func (r *sessionRepository) UpdateSessionResult(c context.Context, session entity.Session) error {
	requestID := contextPkg.GetRequestID(c)

	var stats []byte
	if session.Statistics != nil {
		var err error
		stats, err = jsoniter.Marshal(session.Statistics)
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("UpdateSessionResult statistics marshal err")
			return err
		}
	}

	argsKV := map[string]interface{}{
		"id":             session.ID,
		"status":         session.Status,
		"annotated_name": session.AnnotatedName,
		"statistics":     stats,
		"completed_at":   session.CompletedAt,
	}

	query, args, err := sqlx.Named(queryUpdateSessionResult, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateSessionResult named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateSessionResult execution err")
		return err
	}

	return nil
}

func (r *sessionRepository) UpdateSessionStatus(c context.Context, id string, status entity.SessionStatus) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":     id,
		"status": status,
	}

	query, args, err := sqlx.Named(queryUpdateSessionStatus, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateSessionStatus named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateSessionStatus execution err")
		return err
	}

	return nil
}

func (r *sessionRepository) GetByID(c context.Context, id string) (entity.Session, error) {
	requestID := contextPkg.GetRequestID(c)
	var session SessionDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetSessionByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID named query preparation err")
		return entity.Session{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&session); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": id,
			}).Warn("GetByID no rows found")
			return entity.Session{}, analysis.ErrSessionNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID execution err")
		return entity.Session{}, err
	}

	return r.makeSession(session)
}

func (r *sessionRepository) GetRecent(c context.Context, limit int) ([]entity.Session, error) {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"limit": limit,
	}

	query, args, err := sqlx.Named(queryGetRecentSessions, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRecent named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	return r.querySessions(c, requestID, query, args)
}

func (r *sessionRepository) ListSince(c context.Context, since time.Time) ([]entity.Session, error) {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"since": since,
	}

	query, args, err := sqlx.Named(queryListSessionsSince, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListSince named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	return r.querySessions(c, requestID, query, args)
}

func (r *sessionRepository) DeleteSession(c context.Context, id string) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryDeleteSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteSession named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	res, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteSession execution err")
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": id,
		}).Warn("DeleteSession no rows found")
		return analysis.ErrSessionNotFound
	}

	return nil
}

func (r *sessionRepository) querySessions(c context.Context, requestID, query string, args []interface{}) ([]entity.Session, error) {
	rows, err := r.q.QueryxContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("session list execution err")
		return nil, err
	}
	defer rows.Close()

	sessions := make([]entity.Session, 0)
	for rows.Next() {
		var row SessionDB
		if err := rows.StructScan(&row); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("session list scan err")
			return nil, err
		}

		session, err := r.makeSession(row)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

func (r *sessionRepository) makeSession(row SessionDB) (entity.Session, error) {
	session := entity.Session{
		ID:            row.ID.String,
		ClassName:     row.ClassName.String,
		ImageName:     row.ImageName.String,
		StoredImage:   row.StoredImage.String,
		AnnotatedName: row.AnnotatedName.String,
		Status:        entity.SessionStatus(row.Status.String),
	}

	if row.CreatedAt.Valid {
		session.CreatedAt = row.CreatedAt.Time
	}

	if row.CompletedAt.Valid {
		completedAt := row.CompletedAt.Time
		session.CompletedAt = &completedAt
	}

	if len(row.Statistics) > 0 {
		var stats entity.EngagementStatistics
		if err := jsoniter.Unmarshal(row.Statistics, &stats); err != nil {
			r.log.WithFields(logrus.Fields{
				"session_id": row.ID.String,
				"error":      err.Error(),
			}).Error("session statistics unmarshal err")
			return entity.Session{}, err
		}
		session.Statistics = &stats
	}

	return session, nil
}
