package authService

import (
	"ClassVision/internal/api/auth"
	"ClassVision/internal/entity"
	contextPkg "ClassVision/pkg/context"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *userDomainImpl) RegisterInstitution(c context.Context, req auth.RegisterInstitutionRequest) error {
	requestID := contextPkg.GetRequestID(c)

	repoClient, err := s.repo.NewClient(false)
	if err != nil {
		return err
	}

	hashed, err := s.bcryptUtils.HashPassword(req.Password)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash password")
		return err
	}

	userID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate user ID")
		return err
	}

	user := entity.User{
		ID:              userID,
		Email:           req.Email,
		InstitutionName: req.InstitutionName,
		Password:        hashed,
		Role:            entity.RoleInstitution,
	}

	if err := repoClient.Users.CreateUser(c, user); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    userID,
	}).Info("Institution registered")

	return nil
}

func (s *userDomainImpl) GetProfile(c context.Context, userID string) (auth.UserProfile, error) {
	repoClient, err := s.repo.NewClient(false)
	if err != nil {
		return auth.UserProfile{}, err
	}

	user, err := repoClient.Users.GetByID(c, userID)
	if err != nil {
		return auth.UserProfile{}, err
	}

	return auth.UserProfile{
		ID:              user.ID,
		Email:           user.Email,
		InstitutionName: user.InstitutionName,
		Role:            user.Role,
	}, nil
}
