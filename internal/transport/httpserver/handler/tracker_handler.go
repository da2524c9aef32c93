package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"

	"camp-slides/internal/app/service"
	"camp-slides/internal/transport/httpserver/dto"
	"camp-slides/internal/validator"
)

// TrackerHandler receives the host's scroll, visibility, key and menu events.
type TrackerHandler struct {
	sessions  *service.SessionService
	store     *session.Store
	validator *validator.Validator
	logger    *zap.Logger
}

// NewTrackerHandler creates a new TrackerHandler.
func NewTrackerHandler(
	sessions *service.SessionService,
	store *session.Store,
	v *validator.Validator,
	logger *zap.Logger,
) *TrackerHandler {
	return &TrackerHandler{
		sessions:  sessions,
		store:     store,
		validator: v,
		logger:    logger,
	}
}

// View handles GET /api/v1/tracker
func (h *TrackerHandler) View(c *fiber.Ctx) error {
	return h.apply(c, func(id string) (*service.TrackerView, error) {
		return h.sessions.View(id)
	})
}

// Scroll handles POST /api/v1/tracker/scroll
func (h *TrackerHandler) Scroll(c *fiber.Ctx) error {
	var req dto.ScrollRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	return h.apply(c, func(id string) (*service.TrackerView, error) {
		return h.sessions.Scroll(id, max(req.Offset, 0), req.ViewportHeight)
	})
}

// Slide handles POST /api/v1/tracker/slide
func (h *TrackerHandler) Slide(c *fiber.Ctx) error {
	var req dto.SlideRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	return h.apply(c, func(id string) (*service.TrackerView, error) {
		return h.sessions.ObserveSlide(id, *req.Index)
	})
}

// ToggleCard handles POST /api/v1/tracker/cards/:postId/toggle
func (h *TrackerHandler) ToggleCard(c *fiber.Ctx) error {
	postID, err := postIDParam(c)
	if err != nil {
		return trackerError(c, err)
	}

	return h.apply(c, func(id string) (*service.TrackerView, error) {
		return h.sessions.ToggleCard(id, postID)
	})
}

// CloseCard handles POST /api/v1/tracker/cards/:postId/close
func (h *TrackerHandler) CloseCard(c *fiber.Ctx) error {
	postID, err := postIDParam(c)
	if err != nil {
		return trackerError(c, err)
	}

	return h.apply(c, func(id string) (*service.TrackerView, error) {
		return h.sessions.CloseCard(id, postID)
	})
}

// Escape handles POST /api/v1/tracker/escape
func (h *TrackerHandler) Escape(c *fiber.Ctx) error {
	return h.apply(c, h.sessions.Escape)
}

// ToggleMenu handles POST /api/v1/tracker/menu/toggle
func (h *TrackerHandler) ToggleMenu(c *fiber.Ctx) error {
	return h.apply(c, h.sessions.ToggleMenu)
}

// SelectMenuItem handles POST /api/v1/tracker/menu/select
func (h *TrackerHandler) SelectMenuItem(c *fiber.Ctx) error {
	var req dto.MenuSelectRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	return h.apply(c, func(id string) (*service.TrackerView, error) {
		return h.sessions.SelectMenuItem(id, req.Key)
	})
}

// bind parses and validates a JSON body. When ok is false the error
// response has been written and err is the result of writing it.
func (h *TrackerHandler) bind(c *fiber.Ctx, req any) (ok bool, err error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	if err := h.validator.Validate(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	return true, nil
}

func (h *TrackerHandler) apply(c *fiber.Ctx, event func(sessionID string) (*service.TrackerView, error)) error {
	id, err := viewerSession(h.store, c)
	if err != nil {
		return trackerError(c, err)
	}

	view, err := event(id)
	if err != nil {
		return trackerError(c, err)
	}

	return c.JSON(dto.FromTrackerView(view))
}
