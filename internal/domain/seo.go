package domain

import (
	"fmt"
	"strings"
)

// SEOEntry is the static metadata of one slide.
type SEOEntry struct {
	Title       string
	Description string
	Keywords    string
	OGImage     string
}

// cardOpenTitleSuffix is appended to the document title while a card is expanded.
const cardOpenTitleSuffix = " - Contenido Detallado"

var seoEntries = map[int]SEOEntry{
	16972: {
		Title:       "Mapa - CAMP MX",
		Description: "Explora el mapa interactivo de CAMP MX y descubre todas las instalaciones y actividades disponibles.",
		Keywords:    "mapa, ubicación, instalaciones, CAMP MX",
		OGImage:     MapImageURL,
	},
	12978: {
		Title:       "Calendario - CAMP MX",
		Description: "Consulta el calendario de eventos y actividades de CAMP MX.",
		Keywords:    "calendario, eventos, actividades, fechas, CAMP MX",
	},
	11777: {
		Title:       "Orientación - CAMP MX",
		Description: "Información sobre la orientación y guías para nuevos visitantes de CAMP MX.",
		Keywords:    "orientación, guía, información, visitantes, CAMP MX",
	},
	11783: {
		Title:       "Huéspedes - CAMP MX",
		Description: "Información para huéspedes y alojamiento en CAMP MX.",
		Keywords:    "huéspedes, alojamiento, hospedaje, CAMP MX",
	},
	14850: {
		Title:       "Organizadores - CAMP MX",
		Description: "Conoce al equipo organizador de CAMP MX.",
		Keywords:    "organizadores, equipo, staff, CAMP MX",
	},
	11780: {
		Title:       "Artistas - CAMP MX",
		Description: "Descubre los artistas que participan en CAMP MX.",
		Keywords:    "artistas, música, arte, espectáculos, CAMP MX",
	},
	19917: {
		Title:       "Meditadores - CAMP MX",
		Description: "Información sobre las sesiones de meditación en CAMP MX.",
		Keywords:    "meditación, mindfulness, bienestar, CAMP MX",
	},
	11789: {
		Title:       "Nosotros - CAMP MX",
		Description: "Conoce más sobre CAMP MX, nuestra misión y valores.",
		Keywords:    "sobre nosotros, misión, valores, CAMP MX",
	},
	11771: {
		Title:       "Galería - CAMP MX",
		Description: "Explora la galería de fotos y videos de CAMP MX.",
		Keywords:    "galería, fotos, videos, imágenes, CAMP MX",
	},
	11766: {
		Title:       "Contexto - CAMP MX",
		Description: "Comprende el contexto y la historia detrás de CAMP MX.",
		Keywords:    "contexto, historia, background, CAMP MX",
	},
	18978: {
		Title:       "Restaurante - CAMP MX",
		Description: "Descubre las opciones gastronómicas en el restaurante de CAMP MX.",
		Keywords:    "restaurante, comida, gastronomía, menú, CAMP MX",
	},
	18971: {
		Title:       "Contribuir - CAMP MX",
		Description: "Aprende cómo puedes contribuir y apoyar a CAMP MX.",
		Keywords:    "contribuir, donar, apoyar, colaborar, CAMP MX",
	},
}

// PageMeta is the metadata of one render of the slide page.
type PageMeta struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Keywords      string `json:"keywords"`
	OGTitle       string `json:"og_title"`
	OGDescription string `json:"og_description"`
	OGType        string `json:"og_type"`
	OGURL         string `json:"og_url"`
	OGImage       string `json:"og_image,omitempty"`
	Canonical     string `json:"canonical"`
	Fragment      string `json:"fragment"`
}

// SlideFragment is the address-bar fragment of a slide.
func SlideFragment(postID int) string {
	return fmt.Sprintf("#slide-%d", postID)
}

// MetaFor builds the metadata of the current slide. ok is false when the
// post has no static entry, in which case nothing should be written.
func MetaFor(post ProcessedPost, cardOpen bool, origin string) (*PageMeta, bool) {
	entry, ok := seoEntries[post.ID]
	if !ok {
		return nil, false
	}

	title := entry.Title
	if cardOpen {
		title += cardOpenTitleSuffix
	}

	fragment := SlideFragment(post.ID)
	url := strings.TrimRight(origin, "/") + fragment

	image := entry.OGImage
	if image == "" {
		image = post.FeatureImage
	}

	return &PageMeta{
		Title:         title,
		Description:   entry.Description,
		Keywords:      entry.Keywords,
		OGTitle:       entry.Title,
		OGDescription: entry.Description,
		OGType:        "website",
		OGURL:         url,
		OGImage:       image,
		Canonical:     url,
		Fragment:      fragment,
	}, true
}

// SyncFragment returns the fragment to write into the address bar, and false
// when current already matches so no history entry is replaced.
func SyncFragment(current string, meta *PageMeta) (string, bool) {
	if meta == nil || current == meta.Fragment {
		return "", false
	}
	return meta.Fragment, true
}

// HeadTag is a <meta> or <link> element. Attr names the identifying attribute
// (name, property or rel), Key its value and Value the content/href.
type HeadTag struct {
	Element string
	Attr    string
	Key     string
	Value   string
}

// Head is the document head as an ordered tag list.
type Head struct {
	Title string
	Tags  []HeadTag
}

// Set updates the tag identified by element/attr/key in place, or appends it.
func (h *Head) Set(element, attr, key, value string) {
	for i := range h.Tags {
		t := &h.Tags[i]
		if t.Element == element && t.Attr == attr && t.Key == key {
			t.Value = value
			return
		}
	}
	h.Tags = append(h.Tags, HeadTag{Element: element, Attr: attr, Key: key, Value: value})
}

// Get returns the value of a tag.
func (h *Head) Get(element, attr, key string) (string, bool) {
	for _, t := range h.Tags {
		if t.Element == element && t.Attr == attr && t.Key == key {
			return t.Value, true
		}
	}
	return "", false
}

// Apply writes meta into the head, creating missing tags and updating present ones.
func (h *Head) Apply(meta *PageMeta) {
	if meta == nil {
		return
	}
	h.Title = meta.Title
	h.Set("meta", "name", "description", meta.Description)
	h.Set("meta", "name", "keywords", meta.Keywords)
	h.Set("meta", "property", "og:title", meta.OGTitle)
	h.Set("meta", "property", "og:description", meta.OGDescription)
	h.Set("meta", "property", "og:type", meta.OGType)
	h.Set("meta", "property", "og:url", meta.OGURL)
	if meta.OGImage != "" {
		h.Set("meta", "property", "og:image", meta.OGImage)
	}
	h.Set("link", "rel", "canonical", meta.Canonical)
}
