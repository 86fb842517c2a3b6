package analysisHandler

import (
	"ClassVision/internal/api/analysis"
	contextPkg "ClassVision/pkg/context"
	"ClassVision/pkg/handlerUtil"
	"ClassVision/pkg/log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

// Uploads run the full detection and inference pass, so they get a much
// longer deadline than the read endpoints.
const uploadTimeout = 120 * time.Second

func (h *AnalysisHandler) HandleUpload(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), uploadTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	className := ctx.FormValue("class_name", "Unknown Class")

	file, err := ctx.FormFile("image")
	if err != nil {
		return errHandler.Handle(ctx, requestID, analysis.ErrNoImageProvided, ctx.Path(), "read_form_file")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"file_name":  file.Filename,
		"file_size":  file.Size,
		"class_name": className,
	}).Debug("Processing classroom image upload")

	if err := h.utils.ValidateImageFile(file); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "validate_image_file")
	}

	fileContent, err := file.Open()
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "open_file")
	}
	defer fileContent.Close()

	image, err := h.utils.FileToBytes(fileContent)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_file")
	}

	res, err := h.analysisService.Sessions().CreateAndAnalyze(c, className, file.Filename, image)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze_classroom_image")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AnalysisHandler) HandleGetSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := h.analysisService.Sessions().GetSession(c, ctx.Params("id"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_session")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AnalysisHandler) HandleGetRecentSessions(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))

	res, err := h.analysisService.Sessions().GetRecent(c, limit)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_recent_sessions")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AnalysisHandler) HandleGetSessionImage(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	annotated := ctx.Query("annotated") == "true"

	url, err := h.analysisService.Sessions().GetImageURL(c, ctx.Params("id"), annotated)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_session_image")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, analysis.ImageURLResponse{URL: url})
	}
}

func (h *AnalysisHandler) HandleDeleteSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	if err := h.analysisService.Sessions().DeleteSession(c, ctx.Params("id")); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_session")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusNoContent, nil)
	}
}

func (h *AnalysisHandler) HandleGetDashboard(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	days, _ := strconv.Atoi(ctx.Query("days", "7"))

	res, err := h.analysisService.Dashboard().GetDashboard(c, days)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_dashboard")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}
