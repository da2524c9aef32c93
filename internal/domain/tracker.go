package domain

import (
	"errors"
	"math"
	"sync"
)

var (
	// ErrUnknownPost is returned when a card operation names a post outside the deck.
	ErrUnknownPost = errors.New("post is not part of the deck")

	// ErrUnknownMenuItem is returned for a menu key that does not exist.
	ErrUnknownMenuItem = errors.New("unknown menu item")
)

const (
	// DefaultViewportHeight is assumed until the host reports its real height.
	DefaultViewportHeight = 1000.0

	// A slide becomes current once this share of its height is inside the
	// viewport, after the viewport is shrunk by visibilityMargin at top and bottom.
	visibilityThreshold = 0.5
	visibilityMargin    = 0.1
)

// TrackerState is a snapshot of one viewer's slide state.
type TrackerState struct {
	CurrentIndex   int     `json:"current_index"`
	OpenCard       int     `json:"open_card,omitempty"`
	HasOpenCard    bool    `json:"has_open_card"`
	MenuOpen       bool    `json:"menu_open"`
	ScrollOffset   float64 `json:"scroll_offset"`
	ViewportHeight float64 `json:"viewport_height"`
}

// Navigation is what the host must do after a menu selection.
type Navigation struct {
	SlideIndex  int     `json:"slide_index"`
	ScrollTo    float64 `json:"scroll_to"`
	Smooth      bool    `json:"smooth"`
	ExternalURL string  `json:"external_url,omitempty"`
	Target      string  `json:"target,omitempty"`
}

// Tracker is the slide/viewport state machine for a single viewer.
// It is safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	deck  []ProcessedPost
	index map[int]int

	current  int
	openCard int
	hasOpen  bool
	menuOpen bool
	scroll   float64
	viewport float64
}

// NewTracker creates a tracker positioned on the first slide of deck.
func NewTracker(deck []ProcessedPost) *Tracker {
	t := &Tracker{
		deck:     make([]ProcessedPost, len(deck)),
		index:    make(map[int]int, len(deck)),
		viewport: DefaultViewportHeight,
	}
	copy(t.deck, deck)
	for i, p := range deck {
		if _, dup := t.index[p.ID]; !dup {
			t.index[p.ID] = i
		}
	}
	return t
}

// Deck returns the slides this tracker was built for.
func (t *Tracker) Deck() []ProcessedPost {
	out := make([]ProcessedPost, len(t.deck))
	copy(out, t.deck)
	return out
}

// State returns a snapshot.
func (t *Tracker) State() TrackerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

// OpenCards returns the open-card registry view: empty or a single entry.
func (t *Tracker) OpenCards() map[int]bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.hasOpen {
		return map[int]bool{}
	}
	return map[int]bool{t.openCard: true}
}

// CurrentPost returns the post on the current slide.
func (t *Tracker) CurrentPost() (ProcessedPost, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current < 0 || t.current >= len(t.deck) {
		return ProcessedPost{}, false
	}
	return t.deck[t.current], true
}

// Scroll records the scroll offset and, when a slide dominates the viewport,
// makes it current. viewportHeight <= 0 keeps the previous height.
func (t *Tracker) Scroll(offset, viewportHeight float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.scroll = offset
	if viewportHeight > 0 {
		t.viewport = viewportHeight
	}

	idx, ok := DominantSlide(t.scroll, t.viewport, len(t.deck))
	if !ok {
		return false
	}
	return t.observe(idx)
}

// ObserveSlide makes index current. Returns true when the slide changed.
// Changing slide closes any open card.
func (t *Tracker) ObserveSlide(index int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.observe(index)
}

// OpenCard makes postID the only open card.
func (t *Tracker) OpenCard(postID int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.index[postID]; !ok {
		return ErrUnknownPost
	}
	t.openCard, t.hasOpen = postID, true
	return nil
}

// CloseCard closes postID if it is the open card.
func (t *Tracker) CloseCard(postID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.hasOpen && t.openCard == postID {
		t.closeAll()
	}
}

// ToggleCard flips postID and returns whether it is now open.
func (t *Tracker) ToggleCard(postID int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.index[postID]; !ok {
		return false, ErrUnknownPost
	}
	if t.hasOpen && t.openCard == postID {
		t.closeAll()
		return false, nil
	}
	t.openCard, t.hasOpen = postID, true
	return true, nil
}

// Escape closes whichever card is open.
func (t *Tracker) Escape() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeAll()
}

// ToggleMenu flips the menu and returns the new state.
func (t *Tracker) ToggleMenu() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.menuOpen = !t.menuOpen
	return t.menuOpen
}

// CloseMenu closes the menu.
func (t *Tracker) CloseMenu() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.menuOpen = false
}

// SelectMenuItem applies a menu click. The special entry returns an external
// navigation and leaves state untouched. A post entry jumps to its slide and
// closes the menu; when the post is not in the deck the menu closes and nil is returned.
func (t *Tracker) SelectMenuItem(key string) (*Navigation, error) {
	item, ok := LookupMenuItem(key)
	if !ok {
		return nil, ErrUnknownMenuItem
	}
	if item.IsSpecial() {
		return &Navigation{ExternalURL: item.ExternalURL, Target: "_blank"}, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	defer func() { t.menuOpen = false }()

	idx, ok := t.index[item.PostID]
	if !ok {
		return nil, nil
	}
	t.observe(idx)

	return &Navigation{
		SlideIndex: idx,
		ScrollTo:   float64(idx) * t.viewport,
		Smooth:     true,
	}, nil
}

func (t *Tracker) observe(index int) bool {
	if index < 0 || index >= len(t.deck) || index == t.current {
		return false
	}
	t.current = index
	t.closeAll()
	return true
}

func (t *Tracker) closeAll() {
	t.openCard, t.hasOpen = 0, false
}

func (t *Tracker) snapshot() TrackerState {
	return TrackerState{
		CurrentIndex:   t.current,
		OpenCard:       t.openCard,
		HasOpenCard:    t.hasOpen,
		MenuOpen:       t.menuOpen,
		ScrollOffset:   t.scroll,
		ViewportHeight: t.viewport,
	}
}

// DominantSlide returns the slide that fills at least half of the viewport
// once the viewport loses 10% at its top and bottom edges. Slides are one
// viewport tall. At most one slide can qualify.
func DominantSlide(offset, viewportHeight float64, slides int) (int, bool) {
	if slides == 0 || viewportHeight <= 0 {
		return 0, false
	}

	rootTop := offset + viewportHeight*visibilityMargin
	rootBottom := offset + viewportHeight*(1-visibilityMargin)

	first := int(math.Floor(offset / viewportHeight))
	for i := first; i <= first+1; i++ {
		if i < 0 || i >= slides {
			continue
		}
		top := float64(i) * viewportHeight
		overlap := math.Min(rootBottom, top+viewportHeight) - math.Max(rootTop, top)
		if overlap/viewportHeight >= visibilityThreshold {
			return i, true
		}
	}
	return 0, false
}
