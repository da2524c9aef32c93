package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"

	"camp-slides/internal/app/service"
)

const cardPartial = "partials/card"

// CardHandler renders the content card fragment of a slide.
type CardHandler struct {
	sessions *service.SessionService
	store    *session.Store
	logger   *zap.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(sessions *service.SessionService, store *session.Store, logger *zap.Logger) *CardHandler {
	return &CardHandler{
		sessions: sessions,
		store:    store,
		logger:   logger,
	}
}

// Get handles GET /cards/:postId
func (h *CardHandler) Get(c *fiber.Ctx) error {
	postID, err := postIDParam(c)
	if err != nil {
		return trackerError(c, err)
	}

	id, err := viewerSession(h.store, c)
	if err != nil {
		return trackerError(c, err)
	}

	card, err := h.sessions.Card(id, postID)
	if err != nil {
		return trackerError(c, err)
	}

	return c.Render(cardPartial, newCardView(card))
}

// Retry handles POST /cards/:postId/retry
func (h *CardHandler) Retry(c *fiber.Ctx) error {
	postID, err := postIDParam(c)
	if err != nil {
		return trackerError(c, err)
	}

	id, err := viewerSession(h.store, c)
	if err != nil {
		return trackerError(c, err)
	}

	card, err := h.sessions.RetryCard(id, postID)
	if err != nil {
		return trackerError(c, err)
	}

	h.logger.Debug("card retry requested", zap.Int("post_id", postID))

	return c.Render(cardPartial, newCardView(card))
}
