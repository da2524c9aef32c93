package service

import (
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"camp-slides/internal/domain"
)

// ErrSessionNotFound is returned when a page view has no tracker, usually
// because the page was not rendered for it or the session expired.
var ErrSessionNotFound = errors.New("viewer session not found")

// SessionConfig holds tracker session settings.
type SessionConfig struct {
	MaxSessions int
	TTL         time.Duration
	Origin      string
}

// TrackerView is what the host receives after every tracker event.
type TrackerView struct {
	State      domain.TrackerState `json:"state"`
	OpenCards  []int               `json:"open_cards"`
	Changed    bool                `json:"changed"`
	Meta       *domain.PageMeta    `json:"meta,omitempty"`
	Navigation *domain.Navigation  `json:"navigation,omitempty"`
	Cards      []domain.Card       `json:"-"`
}

// SessionService keeps one slide tracker per page view. Keys are opaque;
// callers combine the viewer session with the id of the rendered page.
type SessionService struct {
	sessions *expirable.LRU[string, *domain.Tracker]
	content  *ContentService
	origin   string
	logger   *zap.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(cfg SessionConfig, content *ContentService, logger *zap.Logger) *SessionService {
	onEvict := func(id string, _ *domain.Tracker) {
		logger.Debug("viewer session evicted", zap.String("session", id))
	}

	return &SessionService{
		sessions: expirable.NewLRU[string, *domain.Tracker](cfg.MaxSessions, onEvict, cfg.TTL),
		content:  content,
		origin:   cfg.Origin,
		logger:   logger,
	}
}

// Start seeds a fresh tracker for the deck a page view was just served.
func (s *SessionService) Start(sessionID string, deck []domain.ProcessedPost) *domain.Tracker {
	t := domain.NewTracker(deck)
	s.sessions.Add(sessionID, t)
	return t
}

// Tracker returns the viewer's tracker.
func (s *SessionService) Tracker(sessionID string) (*domain.Tracker, error) {
	t, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return t, nil
}

// Len returns the number of live sessions.
func (s *SessionService) Len() int {
	return s.sessions.Len()
}

// View returns the current view without changing state.
func (s *SessionService) View(sessionID string) (*TrackerView, error) {
	t, err := s.Tracker(sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(t, false, nil), nil
}

// Scroll reports a scroll position.
func (s *SessionService) Scroll(sessionID string, offset, viewportHeight float64) (*TrackerView, error) {
	t, err := s.Tracker(sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(t, t.Scroll(offset, viewportHeight), nil), nil
}

// ObserveSlide reports that slide index became dominant.
func (s *SessionService) ObserveSlide(sessionID string, index int) (*TrackerView, error) {
	t, err := s.Tracker(sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(t, t.ObserveSlide(index), nil), nil
}

// ToggleCard flips a card. Opening a card starts loading its content.
func (s *SessionService) ToggleCard(sessionID string, postID int) (*TrackerView, error) {
	t, err := s.Tracker(sessionID)
	if err != nil {
		return nil, err
	}

	open, err := t.ToggleCard(postID)
	if err != nil {
		return nil, err
	}
	if open {
		s.content.Fetch(postID)
	}

	return s.view(t, true, nil), nil
}

// Card returns the card of postID as the viewer currently sees it.
func (s *SessionService) Card(sessionID string, postID int) (domain.Card, error) {
	t, err := s.Tracker(sessionID)
	if err != nil {
		return domain.Card{}, err
	}
	return s.card(t, postID)
}

// RetryCard re-issues the content fetch of postID and returns its card.
// Fetch is a no-op while the post is loading or loaded.
func (s *SessionService) RetryCard(sessionID string, postID int) (domain.Card, error) {
	t, err := s.Tracker(sessionID)
	if err != nil {
		return domain.Card{}, err
	}
	if _, err := s.card(t, postID); err != nil {
		return domain.Card{}, err
	}

	if s.content.Fetch(postID) {
		s.logger.Debug("card content fetch retried", zap.Int("post_id", postID))
	}

	return s.card(t, postID)
}

// Cards returns the cards of every slide in the viewer's deck.
func (s *SessionService) Cards(sessionID string) ([]domain.Card, error) {
	t, err := s.Tracker(sessionID)
	if err != nil {
		return nil, err
	}
	return s.cards(t, t.State()), nil
}

// CloseCard closes postID if it is open.
func (s *SessionService) CloseCard(sessionID string, postID int) (*TrackerView, error) {
	t, err := s.Tracker(sessionID)
	if err != nil {
		return nil, err
	}

	changed := t.OpenCards()[postID]
	t.CloseCard(postID)

	return s.view(t, changed, nil), nil
}

// Escape closes the open card.
func (s *SessionService) Escape(sessionID string) (*TrackerView, error) {
	t, err := s.Tracker(sessionID)
	if err != nil {
		return nil, err
	}

	changed := t.State().HasOpenCard
	t.Escape()

	return s.view(t, changed, nil), nil
}

// ToggleMenu flips the menu.
func (s *SessionService) ToggleMenu(sessionID string) (*TrackerView, error) {
	t, err := s.Tracker(sessionID)
	if err != nil {
		return nil, err
	}

	t.ToggleMenu()

	return s.view(t, true, nil), nil
}

// SelectMenuItem applies a menu click.
func (s *SessionService) SelectMenuItem(sessionID, key string) (*TrackerView, error) {
	t, err := s.Tracker(sessionID)
	if err != nil {
		return nil, err
	}

	nav, err := t.SelectMenuItem(key)
	if err != nil {
		return nil, err
	}

	return s.view(t, nav == nil || nav.ExternalURL == "", nav), nil
}

func (s *SessionService) view(t *domain.Tracker, changed bool, nav *domain.Navigation) *TrackerView {
	st := t.State()

	open := make([]int, 0, 1)
	if st.HasOpenCard {
		open = append(open, st.OpenCard)
	}

	v := &TrackerView{
		State:      st,
		OpenCards:  open,
		Changed:    changed,
		Navigation: nav,
		Cards:      s.cards(t, st),
	}

	if post, ok := t.CurrentPost(); ok {
		if meta, ok := domain.MetaFor(post, st.HasOpenCard, s.origin); ok {
			v.Meta = meta
		}
	}

	return v
}

func (s *SessionService) card(t *domain.Tracker, postID int) (domain.Card, error) {
	st := t.State()
	for i, p := range t.Deck() {
		if p.ID == postID {
			return domain.BuildCard(p, i, st, s.content.Get(p.ID)), nil
		}
	}
	return domain.Card{}, domain.ErrUnknownPost
}

func (s *SessionService) cards(t *domain.Tracker, st domain.TrackerState) []domain.Card {
	deck := t.Deck()
	out := make([]domain.Card, len(deck))
	for i, p := range deck {
		out[i] = domain.BuildCard(p, i, st, s.content.Get(p.ID))
	}
	return out
}
