// Package handler provides HTTP handlers for the slide site and its API.
package handler

import (
	"errors"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"camp-slides/internal/app/service"
	"camp-slides/internal/domain"
	"camp-slides/internal/transport/httpserver/dto"
)

// cardView is the template binding of the card partial.
type cardView struct {
	domain.Card
	Content template.HTML
}

// newCardView wraps a card for rendering. Loaded bodies went through the
// sanitizer before they were cached, so they are emitted unescaped.
func newCardView(card domain.Card) cardView {
	return cardView{
		Card:    card,
		Content: template.HTML(card.Body.HTML),
	}
}

// ViewHeader carries the page view id the host was rendered with.
const ViewHeader = "X-View-ID"

// viewKey names the tracker of one page view within a viewer session.
func viewKey(sessionID, viewID string) string {
	return sessionID + "/" + viewID
}

// viewerSession returns the tracker key of the caller's page view.
// Requests without a session or a well-formed view id get
// service.ErrSessionNotFound.
func viewerSession(store *session.Store, c *fiber.Ctx) (string, error) {
	viewID, err := uuid.Parse(c.Get(ViewHeader))
	if err != nil {
		return "", service.ErrSessionNotFound
	}

	sess, err := store.Get(c)
	if err != nil {
		return "", fmt.Errorf("loading session: %w", err)
	}
	if sess.Fresh() {
		return "", service.ErrSessionNotFound
	}
	return viewKey(sess.ID(), viewID.String()), nil
}

// postIDParam parses the :postId route parameter.
func postIDParam(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("postId")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "postId must be a positive integer")
	}
	return id, nil
}

// trackerError maps tracker and session errors onto API responses.
func trackerError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(dto.ErrorResponse{
			Error: fe.Message,
			Code:  "INVALID_PARAMS",
		})
	case errors.Is(err, service.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "viewer session not found, reload the page",
			Code:  "SESSION_NOT_FOUND",
		})
	case errors.Is(err, domain.ErrUnknownPost):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "post is not part of the deck",
			Code:  "UNKNOWN_POST",
		})
	case errors.Is(err, domain.ErrUnknownMenuItem):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "unknown menu item",
			Code:  "UNKNOWN_MENU_ITEM",
		})
	default:
		return err
	}
}
