package wordpress

import (
	"time"

	"camp-slides/internal/domain"
)

// gmtLayout is the format of the CMS date_gmt field (UTC, no zone suffix).
const gmtLayout = "2006-01-02T15:04:05"

// rendered wraps CMS fields that are delivered as rendered HTML.
type rendered struct {
	Rendered string `json:"rendered"`
}

// postResponse represents a single post of /wp-json/wp/v2/posts.
type postResponse struct {
	ID       int      `json:"id"`
	DateGMT  string   `json:"date_gmt"`
	Title    rendered `json:"title"`
	Excerpt  rendered `json:"excerpt"`
	Content  rendered `json:"content"`
	Embedded embedded `json:"_embedded"`
}

// embedded holds the relations expanded by the _embed query parameter.
type embedded struct {
	FeaturedMedia []media `json:"wp:featuredmedia"`
}

type media struct {
	ID        int    `json:"id"`
	SourceURL string `json:"source_url"`
}

// ToDomain converts postResponse to domain.Post.
func (p *postResponse) ToDomain() *domain.Post {
	date, _ := time.ParseInLocation(gmtLayout, p.DateGMT, time.UTC)

	post := &domain.Post{
		ID:      p.ID,
		Title:   p.Title.Rendered,
		Excerpt: p.Excerpt.Rendered,
		Content: p.Content.Rendered,
		Date:    date,
	}
	if len(p.Embedded.FeaturedMedia) > 0 {
		post.FeaturedMediaURL = p.Embedded.FeaturedMedia[0].SourceURL
	}

	return post
}
