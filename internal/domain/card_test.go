package domain

import "testing"

func TestBuildCard_TitlePosition(t *testing.T) {
	post := ProcessedPost{ID: 12978, Title: "Calendario", FeatureImage: "cal.jpg"}
	st := TrackerState{ScrollOffset: 500, ViewportHeight: 1000}

	card := BuildCard(post, 1, st, IdleContent())

	if card.TitleTop != 524 {
		t.Errorf("expected title top 524, got %v", card.TitleTop)
	}
	if !card.TitleVisible {
		t.Error("title within one viewport must be visible")
	}
	if card.Title != "CALENDARIO" {
		t.Errorf("expected upper-cased title, got %q", card.Title)
	}
	if card.Open {
		t.Error("card should be closed")
	}
}

func TestBuildCard_TitleHiddenFarAway(t *testing.T) {
	post := ProcessedPost{ID: 11783, Title: "Huéspedes"}
	st := TrackerState{ScrollOffset: 0, ViewportHeight: 1000}

	card := BuildCard(post, 3, st, IdleContent())
	if card.TitleVisible {
		t.Error("title three viewports away must be hidden")
	}

	st.OpenCard, st.HasOpenCard = 11783, true
	card = BuildCard(post, 3, st, IdleContent())
	if !card.TitleVisible || !card.Open {
		t.Error("an open card keeps its title visible")
	}
}

func TestBuildCard_DefaultViewport(t *testing.T) {
	card := BuildCard(ProcessedPost{ID: 1, Title: "Map"}, 2, TrackerState{}, IdleContent())
	if card.TitleTop != 2024 {
		t.Errorf("expected default viewport height to apply, got %v", card.TitleTop)
	}
}

func TestBuildCard_FallbackTitle(t *testing.T) {
	if got := BuildCard(ProcessedPost{ID: 11771}, 0, TrackerState{}, IdleContent()).Title; got != "GALERÍA" {
		t.Errorf("expected static title, got %q", got)
	}
	if got := BuildCard(ProcessedPost{ID: 42}, 0, TrackerState{}, IdleContent()).Title; got != "CAMP" {
		t.Errorf("expected fallback title, got %q", got)
	}
}

func TestCardBodyFor(t *testing.T) {
	tests := []struct {
		state    ContentState
		kind     CardBodyKind
		contains string
	}{
		{LoadingContent(), CardBodyLoading, "Loading..."},
		{FailedContent("HTTP error! status: 500"), CardBodyError, "HTTP error! status: 500"},
		{LoadedContent("<p>hola</p>"), CardBodyContent, "<p>hola</p>"},
		{IdleContent(), CardBodyPlaceholder, "Click to load content"},
		{ContentState{}, CardBodyPlaceholder, "Click to load content"},
	}

	for _, tt := range tests {
		body := CardBodyFor(tt.state)
		if body.Kind != tt.kind {
			t.Errorf("state %q: expected kind %q, got %q", tt.state.Status, tt.kind, body.Kind)
			continue
		}
		got := body.Message
		switch body.Kind {
		case CardBodyError:
			got = body.Error
		case CardBodyContent:
			got = body.HTML
		}
		if got != tt.contains {
			t.Errorf("state %q: expected %q, got %q", tt.state.Status, tt.contains, got)
		}
	}
}

func TestContentState_Settled(t *testing.T) {
	if !LoadingContent().Settled() || !LoadedContent("x").Settled() {
		t.Error("loading and loaded are settled")
	}
	if FailedContent("x").Settled() || IdleContent().Settled() {
		t.Error("failed and idle allow a new fetch")
	}
}
