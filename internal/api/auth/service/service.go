package authService

import (
	"ClassVision/internal/api/auth"
	authRepository "ClassVision/internal/api/auth/repository"
	"ClassVision/pkg/bcrypt"
	"ClassVision/pkg/utils"
	"context"
	"github.com/sirupsen/logrus"
)

type AuthService interface {
	User() UserDomain
	Auth() AuthDomain
	GetRepository() authRepository.Repository
}

type UserDomain interface {
	RegisterInstitution(c context.Context, req auth.RegisterInstitutionRequest) error
	GetProfile(c context.Context, userID string) (auth.UserProfile, error)
}

type AuthDomain interface {
	Login(c context.Context, req auth.LoginUserRequest) (auth.LoginUserResponse, error)
}

type authService struct {
	log            *logrus.Logger
	authRepository authRepository.Repository
	bcryptUtils    bcrypt.IBcrypt
	utils          utils.IUtils

	userDomain UserDomain
	authDomain AuthDomain
}

func (a *authService) User() UserDomain {
	return a.userDomain
}

func (a *authService) Auth() AuthDomain {
	return a.authDomain
}

func (a *authService) GetRepository() authRepository.Repository {
	return a.authRepository
}

type userDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	bcryptUtils bcrypt.IBcrypt
	utils       utils.IUtils
}

type authDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	bcryptUtils bcrypt.IBcrypt
}

func New(log *logrus.Logger,
	authRepo authRepository.Repository,
	bcryptUtils bcrypt.IBcrypt,
	utils utils.IUtils,
) AuthService {
	return &authService{
		log:            log,
		authRepository: authRepo,
		bcryptUtils:    bcryptUtils,
		utils:          utils,

		userDomain: &userDomainImpl{log: log, repo: authRepo, bcryptUtils: bcryptUtils, utils: utils},
		authDomain: &authDomainImpl{log: log, repo: authRepo, bcryptUtils: bcryptUtils},
	}
}
