// Package dto holds the request and response bodies of the HTTP API.
package dto

// ScrollRequest is pushed by the host on every scroll frame. Offset may be
// negative during overscroll; the handler clamps it.
type ScrollRequest struct {
	Offset         float64 `json:"offset"`
	ViewportHeight float64 `json:"viewport_height" validate:"gte=0,lte=100000"`
}

// SlideRequest reports the slide the visibility observer saw become dominant.
type SlideRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}

// MenuSelectRequest is a click on a menu entry.
type MenuSelectRequest struct {
	Key string `json:"key" validate:"required,menukey"`
}
