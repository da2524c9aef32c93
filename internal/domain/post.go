// Package domain contains the core slide-deck logic and entities.
// This package has no external dependencies (only stdlib).
package domain

import (
	"regexp"
	"time"
)

// Language selects which title allow-list builds a deck.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
)

// ParseLanguage maps a request tag to a Language. Anything that is not "es" is English.
func ParseLanguage(tag string) Language {
	if Language(tag) == LanguageSpanish {
		return LanguageSpanish
	}
	return LanguageEnglish
}

// MapImageURL replaces the feature image of the Map/Mapa post.
const MapImageURL = "https://camp.mx/wp-content/uploads/mapa_escrit.webp"

// Slide titles per language. Both lists are kept positionally aligned:
// index i of englishTitles is the same slide as index i of spanishTitles.
var (
	englishTitles = []string{"Map", "Calendar", "Orientation", "Guests", "Organisers", "Artists", "Meditators", "About", "Gallery", "Context", "RESTAURANT", "GIVING"}
	spanishTitles = []string{"Mapa", "Calendario", "Orientación", "Huéspedes", "Organizadorxs", "Artistas", "Meditadores", "Nosotrxs", "Galería", "Contexto", "RESTAURANTE", "CONTRIBUIR"}
)

// videoSourcePattern matches the first <source src="..."> tag embedded in an excerpt.
var videoSourcePattern = regexp.MustCompile(`(?i)<source[^>]*src="([^"]*)"[^>]*/?>`)

// Post is a raw CMS post.
type Post struct {
	ID               int       `json:"id"`
	Title            string    `json:"title"`
	Excerpt          string    `json:"excerpt"`
	Content          string    `json:"content,omitempty"` // only populated by single-post fetches
	FeaturedMediaURL string    `json:"featured_media_url,omitempty"`
	Date             time.Time `json:"date"`
}

// ProcessedPost is the display-ready view of a Post.
type ProcessedPost struct {
	ID           int    `json:"id"`
	Title        string `json:"title,omitempty"`
	FeatureImage string `json:"feature_image,omitempty"`
	VideoURL     string `json:"video_url,omitempty"`
}

// HasMedia reports whether the post can back a slide.
func (p ProcessedPost) HasMedia() bool {
	return p.FeatureImage != "" || p.VideoURL != ""
}

// Titles returns the slide title allow-list for a language.
func Titles(lang Language) []string {
	if lang == LanguageSpanish {
		return spanishTitles
	}
	return englishTitles
}

// IsMapTitle reports whether a rendered title is the map slide in either language.
func IsMapTitle(title string) bool {
	return title == englishTitles[0] || title == spanishTitles[0]
}

// ExtractVideoURL returns the src of the first <source> tag in html, or "".
func ExtractVideoURL(html string) string {
	m := videoSourcePattern.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return m[1]
}

// ProcessPosts filters posts by the language allow-list and derives their media.
// Order follows the input. Posts without an image or video are dropped.
func ProcessPosts(posts []*Post, lang Language) []ProcessedPost {
	allowed := make(map[string]struct{}, len(Titles(lang)))
	for _, t := range Titles(lang) {
		allowed[t] = struct{}{}
	}

	deck := make([]ProcessedPost, 0, len(posts))
	for _, p := range posts {
		if p == nil {
			continue
		}
		if _, ok := allowed[p.Title]; !ok {
			continue
		}

		processed := ProcessedPost{
			ID:       p.ID,
			Title:    p.Title,
			VideoURL: ExtractVideoURL(p.Excerpt),
		}
		if IsMapTitle(p.Title) {
			processed.FeatureImage = MapImageURL
		} else {
			processed.FeatureImage = p.FeaturedMediaURL
		}

		if processed.HasMedia() {
			deck = append(deck, processed)
		}
	}

	return deck
}
