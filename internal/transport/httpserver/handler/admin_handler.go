package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"camp-slides/internal/app/service"
	"camp-slides/internal/job"
	"camp-slides/internal/transport/httpserver/dto"
)

// DeckRefresher rebuilds every slide deck on demand.
// Implementations: internal/job/refresh_scheduler.go
type DeckRefresher interface {
	RefreshNow(ctx context.Context) ([]service.RefreshResult, error)
}

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	decks   DeckRefresher
	content *service.ContentService
	logger  *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(decks DeckRefresher, content *service.ContentService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		decks:   decks,
		content: content,
		logger:  logger,
	}
}

// Refresh handles POST /api/v1/admin/refresh
func (h *AdminHandler) Refresh(c *fiber.Ctx) error {
	h.logger.Info("manual deck refresh triggered")

	results, err := h.decks.RefreshNow(c.UserContext())
	if errors.Is(err, job.ErrRefreshInProgress) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "REFRESH_IN_PROGRESS",
		})
	}
	if err != nil {
		h.logger.Error("manual deck refresh failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "deck refresh failed",
			Code:  "REFRESH_FAILED",
		})
	}

	return c.JSON(dto.FromRefreshResults(results))
}

// ClearContent handles DELETE /api/v1/admin/content
func (h *AdminHandler) ClearContent(c *fiber.Ctx) error {
	if err := h.content.ClearAll(c.UserContext()); err != nil {
		h.logger.Error("clearing content cache failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to clear content cache",
			Code:  "CLEAR_FAILED",
		})
	}

	return c.JSON(dto.ClearResponse{Cleared: "all"})
}

// ClearPost handles DELETE /api/v1/admin/content/:postId
func (h *AdminHandler) ClearPost(c *fiber.Ctx) error {
	postID, err := postIDParam(c)
	if err != nil {
		return trackerError(c, err)
	}

	if err := h.content.Clear(c.UserContext(), postID); err != nil {
		h.logger.Error("clearing post content failed", zap.Int("post_id", postID), zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to clear post content",
			Code:  "CLEAR_FAILED",
		})
	}

	h.logger.Info("post content cleared", zap.Int("post_id", postID))

	return c.JSON(dto.ClearResponse{Cleared: "post", PostID: postID})
}
