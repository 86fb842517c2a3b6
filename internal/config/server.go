package config

import (
	"ClassVision/database/postgres"
	analysisHandler "ClassVision/internal/api/analysis/handler"
	analysisRepository "ClassVision/internal/api/analysis/repository"
	analysisService "ClassVision/internal/api/analysis/service"
	authHandler "ClassVision/internal/api/auth/handler"
	authRepository "ClassVision/internal/api/auth/repository"
	authService "ClassVision/internal/api/auth/service"
	"ClassVision/internal/middleware"
	"ClassVision/pkg/bcrypt"
	"ClassVision/pkg/huggingface"
	"ClassVision/pkg/redis"
	"ClassVision/pkg/s3"
	"ClassVision/pkg/utils"
	"ClassVision/pkg/vision"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"os"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	bcryptUtils bcrypt.IBcrypt
	handlers    []handler
	redisServer redis.IRedis
	s3Client    s3.ItfS3
	locator     vision.Locator
	classifier  huggingface.IHuggingFace
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithFaceLocator() ServerOption {
	return func(s *Server) error {
		locator, err := vision.NewCascadeLocator(vision.DefaultConfig())
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to load face cascade: %v", err)
			}
			return fmt.Errorf("failed to create face locator: %w", err)
		}
		s.locator = locator
		return nil
	}
}

func WithEmotionClassifier() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before emotion classifier")
		}
		classifier, err := huggingface.New(s.log)
		if err != nil {
			return fmt.Errorf("failed to create emotion classifier: %w", err)
		}
		s.classifier = classifier
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Auth Domain
	authRepo := authRepository.New(s.db, s.log)
	authServices := authService.New(s.log, authRepo, s.bcryptUtils, s.utils)
	authHandlers := authHandler.New(s.log, authServices, s.validator, s.middleware)

	// Analysis Domain
	analysisRepo := analysisRepository.New(s.db, s.log)
	analysisServices := analysisService.New(s.log, analysisRepo, s.locator, s.classifier, s.redisServer, s.s3Client, s.utils)
	analysisHandlers := analysisHandler.New(s.log, s.validator, s.middleware, analysisServices, s.utils)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, authHandlers, analysisHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		return err
	}

	return nil
}

func (s *Server) Shutdown() error {
	if s.locator != nil {
		if err := s.locator.Close(); err != nil {
			s.log.Errorf("Failed to close face locator: %v", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.log.Errorf("Failed to close database: %v", err)
		}
	}

	return s.engine.Shutdown()
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
