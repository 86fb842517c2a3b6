package authService

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"ClassVision/internal/api/auth"
	authRepository "ClassVision/internal/api/auth/repository"
	"ClassVision/internal/entity"
	"ClassVision/pkg/bcrypt"
	"ClassVision/pkg/utils"

	"github.com/sirupsen/logrus"
)

type fakeUserStore struct {
	byEmail map[string]entity.User
	created []entity.User
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user entity.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return auth.ErrEmailAlreadyExists
	}
	f.byEmail[user.Email] = user
	f.created = append(f.created, user)
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (entity.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return entity.User{}, auth.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return entity.User{}, auth.ErrUserNotFound
	}
	return user, nil
}

type fakeRepository struct {
	users *fakeUserStore
}

func (f *fakeRepository) NewClient(tx bool) (authRepository.Client, error) {
	return authRepository.Client{
		Users:    f.users,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

func newTestAuthService(t *testing.T) (AuthService, *fakeUserStore) {
	t.Helper()
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "test-secret")

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := &fakeUserStore{byEmail: make(map[string]entity.User)}
	service := New(logger, &fakeRepository{users: store}, bcrypt.NewWithCost(4), utils.New())

	return service, store
}

func TestRegisterInstitution(t *testing.T) {
	service, store := newTestAuthService(t)

	req := auth.RegisterInstitutionRequest{
		Email:           "sma1@school.id",
		InstitutionName: "SMA Negeri 1",
		Password:        "correct horse",
	}

	if err := service.User().RegisterInstitution(context.Background(), req); err != nil {
		t.Fatalf("RegisterInstitution returned error: %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("expected 1 created user, got %d", len(store.created))
	}

	user := store.created[0]
	if user.ID == "" {
		t.Error("user must get a generated ID")
	}
	if user.Role != entity.RoleInstitution {
		t.Errorf("role = %q, want %q", user.Role, entity.RoleInstitution)
	}
	if user.Password == req.Password {
		t.Error("password must be stored hashed")
	}

	if err := service.User().RegisterInstitution(context.Background(), req); !errors.Is(err, auth.ErrEmailAlreadyExists) {
		t.Errorf("duplicate registration error = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestLogin(t *testing.T) {
	service, _ := newTestAuthService(t)

	req := auth.RegisterInstitutionRequest{
		Email:           "sma1@school.id",
		InstitutionName: "SMA Negeri 1",
		Password:        "correct horse",
	}
	if err := service.User().RegisterInstitution(context.Background(), req); err != nil {
		t.Fatalf("RegisterInstitution returned error: %v", err)
	}

	res, err := service.Auth().Login(context.Background(), auth.LoginUserRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if res.AccessToken == "" {
		t.Error("login must return an access token")
	}
	if res.ExpiresAt <= time.Now().Unix() {
		t.Errorf("token expiry %d is not in the future", res.ExpiresAt)
	}
	if res.User.Email != req.Email || res.User.Role != entity.RoleInstitution {
		t.Errorf("unexpected user profile: %+v", res.User)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	service, _ := newTestAuthService(t)

	req := auth.RegisterInstitutionRequest{
		Email:           "sma1@school.id",
		InstitutionName: "SMA Negeri 1",
		Password:        "correct horse",
	}
	if err := service.User().RegisterInstitution(context.Background(), req); err != nil {
		t.Fatalf("RegisterInstitution returned error: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", req.Email, "battery staple"},
		{"unknown email", "nobody@school.id", req.Password},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Auth().Login(context.Background(), auth.LoginUserRequest{
				Email:    tt.email,
				Password: tt.password,
			})
			if !errors.Is(err, auth.ErrInvalidEmailOrPassword) {
				t.Errorf("Login error = %v, want ErrInvalidEmailOrPassword", err)
			}
		})
	}
}
