package dto

import (
	"camp-slides/internal/app/service"
	"camp-slides/internal/domain"
)

// TitleResponse positions one slide's title overlay.
type TitleResponse struct {
	PostID  int     `json:"post_id"`
	Top     float64 `json:"top"`
	Visible bool    `json:"visible"`
	Open    bool    `json:"open"`
}

// TrackerResponse is returned by every tracker endpoint.
type TrackerResponse struct {
	State      domain.TrackerState `json:"state"`
	OpenCards  []int               `json:"open_cards"`
	Changed    bool                `json:"changed"`
	Meta       *domain.PageMeta    `json:"meta,omitempty"`
	Navigation *domain.Navigation  `json:"navigation,omitempty"`
	Titles     []TitleResponse     `json:"titles"`
}

// FromTrackerView converts a tracker view, flattening its cards to title geometry.
func FromTrackerView(v *service.TrackerView) TrackerResponse {
	titles := make([]TitleResponse, len(v.Cards))
	for i, c := range v.Cards {
		titles[i] = TitleResponse{
			PostID:  c.PostID,
			Top:     c.TitleTop,
			Visible: c.TitleVisible,
			Open:    c.Open,
		}
	}

	return TrackerResponse{
		State:      v.State,
		OpenCards:  v.OpenCards,
		Changed:    v.Changed,
		Meta:       v.Meta,
		Navigation: v.Navigation,
		Titles:     titles,
	}
}

// RefreshResultResponse is the outcome of rebuilding one deck.
type RefreshResultResponse struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// RefreshResponse represents the response of a manual deck refresh.
type RefreshResponse struct {
	Results []RefreshResultResponse `json:"results"`
	Summary RefreshSummary          `json:"summary"`
}

// RefreshSummary holds the summary of a refresh.
type RefreshSummary struct {
	TotalSlides int `json:"total_slides"`
	DecksOK     int `json:"decks_ok"`
	DecksFail   int `json:"decks_fail"`
}

// FromRefreshResults converts service.RefreshResult slice to RefreshResponse.
func FromRefreshResults(results []service.RefreshResult) RefreshResponse {
	resp := RefreshResponse{
		Results: make([]RefreshResultResponse, len(results)),
	}

	for i, r := range results {
		errMsg := ""
		if r.Error != nil {
			errMsg = r.Error.Error()
			resp.Summary.DecksFail++
		} else {
			resp.Summary.TotalSlides += r.Count
			resp.Summary.DecksOK++
		}

		resp.Results[i] = RefreshResultResponse{
			Language: string(r.Language),
			Count:    r.Count,
			Duration: r.Duration.String(),
			Error:    errMsg,
		}
	}

	return resp
}

// ClearResponse acknowledges a content cache clear.
type ClearResponse struct {
	Cleared string `json:"cleared"`
	PostID  int    `json:"post_id,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
