package domain

import (
	"errors"
	"sync"
	"testing"
)

func testDeck() []ProcessedPost {
	return []ProcessedPost{
		{ID: 16972, Title: "Mapa", FeatureImage: MapImageURL},
		{ID: 12978, Title: "Calendario", FeatureImage: "cal.jpg"},
		{ID: 11777, Title: "Orientación", VideoURL: "o.mp4"},
		{ID: 11783, Title: "Huéspedes", FeatureImage: "h.jpg"},
	}
}

func TestTracker_InitialState(t *testing.T) {
	tr := NewTracker(testDeck())
	st := tr.State()

	if st.CurrentIndex != 0 {
		t.Errorf("expected first slide, got %d", st.CurrentIndex)
	}
	if st.HasOpenCard || st.MenuOpen {
		t.Errorf("expected no open card or menu, got %+v", st)
	}
	if st.ViewportHeight != DefaultViewportHeight {
		t.Errorf("expected default viewport height, got %v", st.ViewportHeight)
	}
	if len(tr.OpenCards()) != 0 {
		t.Error("expected empty registry")
	}
}

func TestTracker_OpenCardIsExclusive(t *testing.T) {
	tr := NewTracker(testDeck())

	for _, id := range []int{16972, 12978, 11783, 12978} {
		if err := tr.OpenCard(id); err != nil {
			t.Fatalf("OpenCard(%d): %v", id, err)
		}
		reg := tr.OpenCards()
		if len(reg) != 1 || !reg[id] {
			t.Fatalf("after opening %d expected registry {%d:true}, got %v", id, id, reg)
		}
	}
}

func TestTracker_OpenUnknownCard(t *testing.T) {
	tr := NewTracker(testDeck())
	if err := tr.OpenCard(999); !errors.Is(err, ErrUnknownPost) {
		t.Errorf("expected ErrUnknownPost, got %v", err)
	}
	if _, err := tr.ToggleCard(999); !errors.Is(err, ErrUnknownPost) {
		t.Errorf("expected ErrUnknownPost from toggle, got %v", err)
	}
}

func TestTracker_SlideChangeClosesCard(t *testing.T) {
	tr := NewTracker(testDeck())
	if err := tr.OpenCard(16972); err != nil {
		t.Fatal(err)
	}

	if !tr.ObserveSlide(1) {
		t.Fatal("expected slide change")
	}
	if n := len(tr.OpenCards()); n != 0 {
		t.Errorf("expected empty registry after slide change, got %d", n)
	}
	if tr.State().HasOpenCard {
		t.Error("new slide's card must not auto-open")
	}
}

func TestTracker_ObserveSameSlideKeepsCard(t *testing.T) {
	tr := NewTracker(testDeck())
	_ = tr.OpenCard(16972)

	if tr.ObserveSlide(0) {
		t.Error("re-observing the current slide is not a change")
	}
	if !tr.OpenCards()[16972] {
		t.Error("card should stay open without a slide change")
	}
}

func TestTracker_ObserveOutOfRange(t *testing.T) {
	tr := NewTracker(testDeck())
	for _, idx := range []int{-1, 4, 100} {
		if tr.ObserveSlide(idx) {
			t.Errorf("ObserveSlide(%d) should be ignored", idx)
		}
	}
	if tr.State().CurrentIndex != 0 {
		t.Error("current index must stay bounded")
	}
}

func TestTracker_EscapeClosesAnyCard(t *testing.T) {
	for _, id := range []int{16972, 11777} {
		tr := NewTracker(testDeck())
		_ = tr.OpenCard(id)
		tr.Escape()
		if n := len(tr.OpenCards()); n != 0 {
			t.Errorf("escape with card %d open left %d entries", id, n)
		}
	}
}

func TestTracker_CloseCard(t *testing.T) {
	tr := NewTracker(testDeck())
	_ = tr.OpenCard(12978)

	tr.CloseCard(16972)
	if !tr.OpenCards()[12978] {
		t.Error("closing another card must not close the open one")
	}

	tr.CloseCard(12978)
	if len(tr.OpenCards()) != 0 {
		t.Error("expected card to be closed")
	}
}

func TestTracker_ToggleCard(t *testing.T) {
	tr := NewTracker(testDeck())

	open, err := tr.ToggleCard(11777)
	if err != nil || !open {
		t.Fatalf("expected open, got %v %v", open, err)
	}
	open, err = tr.ToggleCard(11783)
	if err != nil || !open {
		t.Fatalf("expected second card open, got %v %v", open, err)
	}
	if reg := tr.OpenCards(); len(reg) != 1 || !reg[11783] {
		t.Fatalf("expected only 11783 open, got %v", reg)
	}
	open, _ = tr.ToggleCard(11783)
	if open {
		t.Error("expected toggle to close")
	}
}

func TestTracker_Scroll(t *testing.T) {
	tr := NewTracker(testDeck())

	if tr.Scroll(100, 800) {
		t.Error("a small scroll should keep the first slide")
	}
	st := tr.State()
	if st.ScrollOffset != 100 || st.ViewportHeight != 800 {
		t.Errorf("unexpected offset/viewport: %+v", st)
	}

	_ = tr.OpenCard(16972)
	if !tr.Scroll(800, 0) {
		t.Fatal("expected second slide to become current")
	}
	st = tr.State()
	if st.CurrentIndex != 1 || st.HasOpenCard || st.ViewportHeight != 800 {
		t.Errorf("unexpected state after scroll: %+v", st)
	}
}

func TestDominantSlide(t *testing.T) {
	tests := []struct {
		name     string
		offset   float64
		expected int
		ok       bool
	}{
		{"top of deck", 0, 0, true},
		{"aligned on slide 2", 2000, 2, true},
		{"a third past slide 1", 1300, 1, true},
		{"halfway between slides", 1500, 0, false},
		{"just past the midpoint", 1650, 2, true},
		{"past the last slide", 10000, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := DominantSlide(tt.offset, 1000, 4)
			if ok != tt.ok || (ok && idx != tt.expected) {
				t.Errorf("DominantSlide(%v) = (%d, %v), want (%d, %v)", tt.offset, idx, ok, tt.expected, tt.ok)
			}
		})
	}

	if _, ok := DominantSlide(0, 1000, 0); ok {
		t.Error("empty deck has no dominant slide")
	}
}

func TestTracker_MenuToggle(t *testing.T) {
	tr := NewTracker(testDeck())
	if !tr.ToggleMenu() {
		t.Error("expected menu open")
	}
	if tr.ToggleMenu() {
		t.Error("expected menu closed")
	}
	tr.ToggleMenu()
	tr.CloseMenu()
	if tr.State().MenuOpen {
		t.Error("CloseMenu should close")
	}
}

func TestTracker_SelectMenuItem_Post(t *testing.T) {
	tr := NewTracker(testDeck())
	tr.Scroll(0, 900)
	tr.ToggleMenu()
	_ = tr.OpenCard(16972)

	nav, err := tr.SelectMenuItem("11783")
	if err != nil {
		t.Fatal(err)
	}
	if nav == nil || nav.SlideIndex != 3 || nav.ScrollTo != 2700 || !nav.Smooth {
		t.Fatalf("unexpected navigation: %+v", nav)
	}

	st := tr.State()
	if st.CurrentIndex != 3 || st.MenuOpen || st.HasOpenCard {
		t.Errorf("unexpected state after menu jump: %+v", st)
	}
}

func TestTracker_SelectMenuItem_Special(t *testing.T) {
	tr := NewTracker(testDeck())
	tr.ToggleMenu()
	_ = tr.OpenCard(12978)
	before := tr.State()

	nav, err := tr.SelectMenuItem("voluntarixs")
	if err != nil {
		t.Fatal(err)
	}
	if nav == nil || nav.ExternalURL != VolunteerURL || nav.Target != "_blank" {
		t.Fatalf("expected external navigation, got %+v", nav)
	}
	if after := tr.State(); after != before {
		t.Errorf("special entry must not change state: before %+v after %+v", before, after)
	}
}

func TestTracker_SelectMenuItem_NotInDeck(t *testing.T) {
	tr := NewTracker(testDeck())
	tr.ToggleMenu()

	nav, err := tr.SelectMenuItem("18971")
	if err != nil {
		t.Fatal(err)
	}
	if nav != nil {
		t.Errorf("expected no navigation, got %+v", nav)
	}
	if st := tr.State(); st.MenuOpen || st.CurrentIndex != 0 {
		t.Errorf("expected menu closed and slide unchanged, got %+v", st)
	}
}

func TestTracker_SelectMenuItem_Unknown(t *testing.T) {
	tr := NewTracker(testDeck())
	if _, err := tr.SelectMenuItem("nope"); !errors.Is(err, ErrUnknownMenuItem) {
		t.Errorf("expected ErrUnknownMenuItem, got %v", err)
	}
}

func TestTracker_ConcurrentOpens(t *testing.T) {
	deck := testDeck()
	tr := NewTracker(deck)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = tr.OpenCard(deck[i%len(deck)].ID)
		}(i)
	}
	wg.Wait()

	if n := len(tr.OpenCards()); n != 1 {
		t.Errorf("expected exactly one open card, got %d", n)
	}
}

func TestMenu(t *testing.T) {
	items := Menu()
	if len(items) != 13 {
		t.Fatalf("expected 13 menu items, got %d", len(items))
	}

	special := 0
	for _, m := range items {
		if m.IsSpecial() {
			special++
		}
	}
	if special != 1 {
		t.Errorf("expected one special item, got %d", special)
	}

	items[0].Label = "changed"
	if Menu()[0].Label != "Mapa" {
		t.Error("Menu must return a copy")
	}
}
