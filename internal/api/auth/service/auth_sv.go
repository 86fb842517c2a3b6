package authService

import (
	"ClassVision/internal/api/auth"
	contextPkg "ClassVision/pkg/context"
	jwtPkg "ClassVision/pkg/jwt"
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

const accessTokenTTL = 24 * time.Hour

func (s *authDomainImpl) Login(c context.Context, req auth.LoginUserRequest) (auth.LoginUserResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	repoClient, err := s.repo.NewClient(false)
	if err != nil {
		return auth.LoginUserResponse{}, err
	}

	user, err := repoClient.Users.GetByEmail(c, req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return auth.LoginUserResponse{}, auth.ErrInvalidEmailOrPassword
		}
		return auth.LoginUserResponse{}, err
	}

	if err := s.bcryptUtils.ComparePassword(user.Password, req.Password); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warn("Password mismatch on login")
		return auth.LoginUserResponse{}, auth.ErrInvalidEmailOrPassword
	}

	claims := map[string]interface{}{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
	}

	token, expiresAt, err := jwtPkg.Sign(claims, accessTokenTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign access token")
		return auth.LoginUserResponse{}, err
	}

	return auth.LoginUserResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User: auth.UserProfile{
			ID:              user.ID,
			Email:           user.Email,
			InstitutionName: user.InstitutionName,
			Role:            user.Role,
		},
	}, nil
}
