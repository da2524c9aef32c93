package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"camp-slides/internal/domain"
	"camp-slides/internal/transport/httpserver/dto"
)

// RelayHandler forwards single-post requests to the CMS.
type RelayHandler struct {
	source domain.PostSource
	logger *zap.Logger
}

// NewRelayHandler creates a new RelayHandler.
func NewRelayHandler(source domain.PostSource, logger *zap.Logger) *RelayHandler {
	return &RelayHandler{
		source: source,
		logger: logger,
	}
}

// Get handles GET /api/wordpress?postId=<id>
func (h *RelayHandler) Get(c *fiber.Ctx) error {
	raw := c.Query("postId")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Post ID is required",
		})
	}

	postID, err := strconv.Atoi(raw)
	if err != nil || postID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Post ID must be a positive integer",
		})
	}

	body, err := h.source.GetPostRaw(c.UserContext(), postID)
	if err != nil {
		h.logger.Error("relay fetch failed", zap.Int("post_id", postID), zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to fetch post content",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// Options handles OPTIONS /api/wordpress
func (h *RelayHandler) Options(c *fiber.Ctx) error {
	c.Status(fiber.StatusOK)
	return nil
}
