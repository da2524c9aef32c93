package domain

// VolunteerURL is where the special menu entry sends visitors.
const VolunteerURL = "https://worldpackers.com/locations/camp"

// MenuItem is one entry of the slide-jump menu.
// PostID is zero for entries that link outside the deck.
type MenuItem struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	PostID      int    `json:"post_id,omitempty"`
	ExternalURL string `json:"external_url,omitempty"`
}

// IsSpecial reports whether the entry opens an external link instead of a slide.
func (m MenuItem) IsSpecial() bool {
	return m.PostID == 0 && m.ExternalURL != ""
}

var menuItems = []MenuItem{
	{Key: "16972", Label: "Mapa", PostID: 16972},
	{Key: "12978", Label: "Calendario", PostID: 12978},
	{Key: "11777", Label: "Orientación", PostID: 11777},
	{Key: "11783", Label: "Huéspedes", PostID: 11783},
	{Key: "voluntarixs", Label: "VOLUNTARIXS", ExternalURL: VolunteerURL},
	{Key: "14850", Label: "ORGANIZADORXS", PostID: 14850},
	{Key: "11780", Label: "Artistas", PostID: 11780},
	{Key: "19917", Label: "Meditadores", PostID: 19917},
	{Key: "11789", Label: "Nosotrxs", PostID: 11789},
	{Key: "11771", Label: "Galería", PostID: 11771},
	{Key: "11766", Label: "Contexto", PostID: 11766},
	{Key: "18978", Label: "RESTAURANTE", PostID: 18978},
	{Key: "18971", Label: "CONTRIBUIR", PostID: 18971},
}

// Menu returns a copy of the fixed menu in display order.
func Menu() []MenuItem {
	out := make([]MenuItem, len(menuItems))
	copy(out, menuItems)
	return out
}

// LookupMenuItem finds a menu entry by key.
func LookupMenuItem(key string) (MenuItem, bool) {
	for _, m := range menuItems {
		if m.Key == key {
			return m, true
		}
	}
	return MenuItem{}, false
}
