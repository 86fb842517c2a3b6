package analysisHandler

import (
	analysisService "ClassVision/internal/api/analysis/service"
	"ClassVision/internal/middleware"
	"ClassVision/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type AnalysisHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	analysisService analysisService.AnalysisService
	utils           utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	as analysisService.AnalysisService,
	utils utils.IUtils,
) *AnalysisHandler {
	return &AnalysisHandler{
		log:             log,
		validator:       validator,
		middleware:      middleware,
		analysisService: as,
		utils:           utils,
	}
}

func (h *AnalysisHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	analysis := srv.Group("/analysis")
	analysis.Post("/upload", h.middleware.NewTokenMiddleware, h.HandleUpload)
	analysis.Get("/sessions/recent", h.middleware.NewTokenMiddleware, h.HandleGetRecentSessions)
	analysis.Get("/session/:id", h.middleware.NewTokenMiddleware, h.HandleGetSession)
	analysis.Get("/session/:id/image", h.middleware.NewTokenMiddleware, h.HandleGetSessionImage)
	analysis.Delete("/session/:id", h.middleware.NewTokenMiddleware, h.HandleDeleteSession)
	analysis.Get("/dashboard", h.middleware.NewTokenMiddleware, h.HandleGetDashboard)

	analysis.Use("/live/ws", wsMiddleware)
	analysis.Get("/live/ws", websocket.New(h.handleLiveDetection))
}
