package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"camp-slides/internal/app/service"
	"camp-slides/internal/domain"
)

const (
	siteTitle       = "CAMP MX"
	siteDescription = "CAMP MX"
	baseLayout      = "layouts/base"
)

// PageConfig holds settings of the rendered page.
type PageConfig struct {
	Origin         string
	DefaultLang    string
	ViewportHeight float64
	LogoURL        string
}

// slideView is one full-viewport section of the page.
type slideView struct {
	Index int
	Post  domain.ProcessedPost
	Card  cardView
}

// pageView is the template binding of the slide page.
type pageView struct {
	ViewID         string
	Lang           string
	Head           domain.Head
	Origin         string
	LogoURL        string
	Menu           []domain.MenuItem
	MenuOpen       bool
	ViewportHeight float64
	Slides         []slideView
}

// PageHandler renders the slide site.
type PageHandler struct {
	slides   *service.SlideService
	sessions *service.SessionService
	store    *session.Store
	cfg      PageConfig
	logger   *zap.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(
	slides *service.SlideService,
	sessions *service.SessionService,
	store *session.Store,
	cfg PageConfig,
	logger *zap.Logger,
) *PageHandler {
	return &PageHandler{
		slides:   slides,
		sessions: sessions,
		store:    store,
		cfg:      cfg,
		logger:   logger,
	}
}

// Render handles GET /
func (h *PageHandler) Render(c *fiber.Ctx) error {
	lang := domain.ParseLanguage(c.Query("lang", h.cfg.DefaultLang))
	deck := h.slides.Slides(c.UserContext(), lang)

	view := pageView{
		Lang:           string(lang),
		Head:           h.baseHead(),
		Origin:         h.cfg.Origin,
		LogoURL:        h.cfg.LogoURL,
		ViewportHeight: h.cfg.ViewportHeight,
	}

	if len(deck) == 0 {
		h.logger.Warn("rendering empty deck", zap.String("lang", string(lang)))
		return c.Render("pages/empty", view, baseLayout)
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	viewID := uuid.NewString()
	key := viewKey(sess.ID(), viewID)
	sess.Set("lang", string(lang))
	if err := sess.Save(); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	// Each render gets its own tracker; tabs sharing the cookie stay independent.
	tracker := h.sessions.Start(key, deck)
	tracker.Scroll(0, h.cfg.ViewportHeight)

	cards, err := h.sessions.Cards(key)
	if err != nil {
		return fmt.Errorf("building cards: %w", err)
	}

	st := tracker.State()
	view.ViewID = viewID
	view.MenuOpen = st.MenuOpen
	view.Menu = domain.Menu()
	view.Slides = make([]slideView, len(deck))
	for i, post := range deck {
		view.Slides[i] = slideView{
			Index: i,
			Post:  post,
			Card:  newCardView(cards[i]),
		}
	}

	if post, ok := tracker.CurrentPost(); ok {
		if meta, ok := domain.MetaFor(post, st.HasOpenCard, h.cfg.Origin); ok {
			view.Head.Apply(meta)
		}
	}

	h.logger.Debug("slide page rendered",
		zap.String("lang", string(lang)),
		zap.Int("slides", len(deck)),
	)

	return c.Render("pages/slides", view, baseLayout)
}

func (h *PageHandler) baseHead() domain.Head {
	head := domain.Head{Title: siteTitle}
	head.Set("meta", "name", "description", siteDescription)
	head.Set("link", "rel", "canonical", h.cfg.Origin)
	return head
}
