package analysisRepository

import (
	"ClassVision/internal/entity"
	contextPkg "ClassVision/pkg/context"
	"context"
	"database/sql"

	jsoniter "github.com/json-iterator/go"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type FaceDB struct {
	SessionID           sql.NullString  `db:"session_id"`
	FaceID              int             `db:"face_id"`
	X                   int             `db:"x"`
	Y                   int             `db:"y"`
	Width               int             `db:"width"`
	Height              int             `db:"height"`
	DetectionConfidence float64         `db:"detection_confidence"`
	Emotion             sql.NullString  `db:"emotion"`
	EmotionScore        sql.NullFloat64 `db:"emotion_score"`
	EngagementLevel     sql.NullString  `db:"engagement_level"`
	AllEmotions         []byte          `db:"all_emotions"`
	ErrorDetail         sql.NullString  `db:"error_detail"`
}

func (r *faceRepository) SaveFaces(c context.Context, sessionID string, faces []entity.FaceResult) error {
	requestID := contextPkg.GetRequestID(c)

	for _, face := range faces {
		var allEmotions []byte
		if len(face.AllEmotions) > 0 {
			var err error
			allEmotions, err = jsoniter.Marshal(face.AllEmotions)
			if err != nil {
				r.log.WithFields(logrus.Fields{
					"request_id": requestID,
					"error":      err.Error(),
				}).Error("SaveFaces emotions marshal err")
				return err
			}
		}

		argsKV := map[string]interface{}{
			"session_id":           sessionID,
			"face_id":              face.FaceID,
			"x":                    face.BBox.X,
			"y":                    face.BBox.Y,
			"width":                face.BBox.Width,
			"height":               face.BBox.Height,
			"detection_confidence": face.DetectionConfidence,
			"emotion":              face.Emotion,
			"emotion_score":        face.EmotionScore,
			"engagement_level":     face.EngagementLevel,
			"all_emotions":         allEmotions,
			"error_detail":         face.Error,
		}

		query, args, err := sqlx.Named(queryInsertFace, argsKV)
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("SaveFaces named query preparation err")
			return err
		}
		query = r.q.Rebind(query)

		if _, err := r.q.ExecContext(c, query, args...); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("SaveFaces execution err")
			return err
		}
	}

	return nil
}

func (r *faceRepository) GetBySessionID(c context.Context, sessionID string) ([]entity.FaceResult, error) {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"session_id": sessionID,
	}

	query, args, err := sqlx.Named(queryGetFacesBySession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBySessionID named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	rows, err := r.q.QueryxContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBySessionID execution err")
		return nil, err
	}
	defer rows.Close()

	faces := make([]entity.FaceResult, 0)
	for rows.Next() {
		var row FaceDB
		if err := rows.StructScan(&row); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("GetBySessionID scan err")
			return nil, err
		}

		face, err := r.makeFace(row)
		if err != nil {
			return nil, err
		}
		faces = append(faces, face)
	}

	return faces, rows.Err()
}

func (r *faceRepository) makeFace(row FaceDB) (entity.FaceResult, error) {
	face := entity.FaceResult{
		FaceID: row.FaceID,
		BBox: entity.BoundingBox{
			X:      row.X,
			Y:      row.Y,
			Width:  row.Width,
			Height: row.Height,
		},
		DetectionConfidence: row.DetectionConfidence,
		Emotion:             row.Emotion.String,
		EmotionScore:        row.EmotionScore.Float64,
		EngagementLevel:     entity.EngagementLevel(row.EngagementLevel.String),
		Error:               row.ErrorDetail.String,
	}

	if len(row.AllEmotions) > 0 {
		if err := jsoniter.Unmarshal(row.AllEmotions, &face.AllEmotions); err != nil {
			r.log.WithFields(logrus.Fields{
				"session_id": row.SessionID.String,
				"face_id":    row.FaceID,
				"error":      err.Error(),
			}).Error("face emotions unmarshal err")
			return entity.FaceResult{}, err
		}
	}

	return face, nil
}
