package domain

// ContentStatus is the lifecycle stage of a post body in the content cache.
type ContentStatus string

const (
	ContentIdle    ContentStatus = "idle"
	ContentLoading ContentStatus = "loading"
	ContentLoaded  ContentStatus = "loaded"
	ContentFailed  ContentStatus = "failed"
)

// ContentState is the cached state of one post body.
// Content is set only when Loaded, Error only when Failed.
type ContentState struct {
	Status  ContentStatus `json:"status"`
	Content string        `json:"content,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// IdleContent is the state of a post that was never requested.
func IdleContent() ContentState {
	return ContentState{Status: ContentIdle}
}

// LoadingContent marks a fetch in flight.
func LoadingContent() ContentState {
	return ContentState{Status: ContentLoading}
}

// LoadedContent holds sanitized HTML.
func LoadedContent(html string) ContentState {
	return ContentState{Status: ContentLoaded, Content: html}
}

// FailedContent holds the fetch error message.
func FailedContent(msg string) ContentState {
	return ContentState{Status: ContentFailed, Error: msg}
}

// IsLoading reports whether a fetch is in flight.
func (s ContentState) IsLoading() bool {
	return s.Status == ContentLoading
}

// IsLoaded reports whether content is available.
func (s ContentState) IsLoaded() bool {
	return s.Status == ContentLoaded
}

// IsFailed reports whether the last fetch failed.
func (s ContentState) IsFailed() bool {
	return s.Status == ContentFailed
}

// Settled reports whether a new fetch would be redundant.
func (s ContentState) Settled() bool {
	return s.IsLoading() || s.IsLoaded()
}
