package analysisRepository

import (
	"ClassVision/internal/entity"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var db sqlx.ExtContext
	var commitFunc, rollbackFunc func() error

	db = r.DB

	if tx {
		var err error
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		db = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Sessions: &sessionRepository{q: db, log: r.log},
		Faces:    &faceRepository{q: db, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Sessions interface {
		CreateSession(ctx context.Context, session entity.Session) error
		UpdateSessionResult(ctx context.Context, session entity.Session) error
		UpdateSessionStatus(ctx context.Context, id string, status entity.SessionStatus) error
		GetByID(ctx context.Context, id string) (entity.Session, error)
		GetRecent(ctx context.Context, limit int) ([]entity.Session, error)
		ListSince(ctx context.Context, since time.Time) ([]entity.Session, error)
		DeleteSession(ctx context.Context, id string) error
	}

	Faces interface {
		SaveFaces(ctx context.Context, sessionID string, faces []entity.FaceResult) error
		GetBySessionID(ctx context.Context, sessionID string) ([]entity.FaceResult, error)
	}

	Commit   func() error
	Rollback func() error
}

type sessionRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}

type faceRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}
