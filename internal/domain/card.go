package domain

import (
	"math"
	"strings"
)

// titleInset is the distance between the top of a slide and its title overlay.
const titleInset = 24.0

// fallbackSlideTitle is shown when neither the post nor slideTitles name a slide.
const fallbackSlideTitle = "CAMP"

// slideTitles names slides by post id when the post has no title of its own.
var slideTitles = map[int]string{
	16972: "MAPA",
	12978: "CALENDARIO",
	11777: "ORIENTACIÓN",
	11783: "HUÉSPEDES",
	14850: "ORGANIZADORXS",
	11780: "ARTISTAS",
	19917: "MEDITADORES",
	11789: "NOSOTRXS",
	11771: "GALERÍA",
	11766: "CONTEXTO",
	18978: "RESTAURANTE",
	18971: "CONTRIBUIR",
}

// SlideTitle returns the static title for a post id.
func SlideTitle(postID int) string {
	if t, ok := slideTitles[postID]; ok {
		return t
	}
	return fallbackSlideTitle
}

// CardBodyKind selects what the card surface shows.
type CardBodyKind string

const (
	CardBodyLoading     CardBodyKind = "loading"
	CardBodyError       CardBodyKind = "error"
	CardBodyContent     CardBodyKind = "content"
	CardBodyPlaceholder CardBodyKind = "placeholder"
)

// CardBody is exactly one of the four card surfaces.
type CardBody struct {
	Kind    CardBodyKind `json:"kind"`
	HTML    string       `json:"html,omitempty"`
	Error   string       `json:"error,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Card is the view model of one slide's content card.
type Card struct {
	PostID       int      `json:"post_id"`
	SlideIndex   int      `json:"slide_index"`
	Title        string   `json:"title"`
	Open         bool     `json:"open"`
	TitleTop     float64  `json:"title_top"`
	TitleVisible bool     `json:"title_visible"`
	Body         CardBody `json:"body"`
}

// BuildCard positions the title overlay of slide index relative to the scroll
// offset and picks the card body from the post's content state.
func BuildCard(post ProcessedPost, index int, st TrackerState, content ContentState) Card {
	viewport := st.ViewportHeight
	if viewport <= 0 {
		viewport = DefaultViewportHeight
	}

	relative := float64(index)*viewport - st.ScrollOffset
	open := st.HasOpenCard && st.OpenCard == post.ID

	title := post.Title
	if title == "" {
		title = SlideTitle(post.ID)
	}

	return Card{
		PostID:       post.ID,
		SlideIndex:   index,
		Title:        strings.ToUpper(title),
		Open:         open,
		TitleTop:     titleInset + relative,
		TitleVisible: math.Abs(relative) < viewport || open,
		Body:         CardBodyFor(content),
	}
}

// CardBodyFor maps a content state onto a card surface.
func CardBodyFor(content ContentState) CardBody {
	switch content.Status {
	case ContentLoading:
		return CardBody{Kind: CardBodyLoading, Message: "Loading..."}
	case ContentFailed:
		return CardBody{Kind: CardBodyError, Error: content.Error}
	case ContentLoaded:
		return CardBody{Kind: CardBodyContent, HTML: content.Content}
	default:
		return CardBody{Kind: CardBodyPlaceholder, Message: "Click to load content"}
	}
}
