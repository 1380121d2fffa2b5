package blogify

import (
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultExcerptLength is the truncation limit applied when deriving a
// meta description from post content.
const DefaultExcerptLength = 160

// Post is the core content entity. A post is a draft until PublishedAt is
// set; the presence of that timestamp is the sole published signal.
type Post struct {
	ID               int64
	Title            string
	Slug             string
	Content          string
	ShortDescription string
	MetaTitle        string
	MetaDescription  string
	MetaData         map[string]string
	Author           string
	PublishedAt      *time.Time
	FeaturedImage    *FeaturedImage
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FeaturedImage records an attached image and the metadata needed for
// validation and URL resolution. Size variants share the base filename.
type FeaturedImage struct {
	Filename    string
	ContentType string
	ByteSize    int64
}

// IsPublished reports whether the post has been published.
func (p *Post) IsPublished() bool {
	return p.PublishedAt != nil
}

// HasFeaturedImage reports whether an image is attached.
func (p *Post) HasFeaturedImage() bool {
	return p.FeaturedImage != nil
}

// CanonicalIdentifier returns the slug when set, otherwise the surrogate
// id as text. Canonical URLs are built from this value.
func (p *Post) CanonicalIdentifier() string {
	if strings.TrimSpace(p.Slug) != "" {
		return p.Slug
	}
	return strconv.FormatInt(p.ID, 10)
}

// Keywords returns the keywords entry from the post's open metadata map.
// Only a single comma-separated string is supported.
func (p *Post) Keywords() string {
	if p.MetaData == nil {
		return ""
	}
	return p.MetaData["keywords"]
}

var stripTagsPolicy = bluemonday.StripTagsPolicy()

// Excerpt strips markup tags from the post content and truncates the
// result to at most maxLen runes. Returns "" when there is no content.
func (p *Post) Excerpt(maxLen int) string {
	if p.Content == "" {
		return ""
	}
	text := strings.TrimSpace(stripTagsPolicy.Sanitize(p.Content))
	r := []rune(text)
	if maxLen > 0 && len(r) > maxLen {
		return strings.TrimSpace(string(r[:maxLen]))
	}
	return text
}

// DeriveFields fills derived values on a post before it is persisted, in
// a fixed order: slug, then meta title, then meta description. It is the
// explicit replacement for hidden save callbacks: call sites invoke it
// right before saving. Fields that already hold a value are never
// overwritten.
func DeriveFields(p *Post, cfg Config, policy SlugPolicy, now time.Time) {
	if policy == nil {
		policy = DefaultSlugPolicy
	}
	if strings.TrimSpace(p.Slug) == "" && p.Title != "" {
		p.Slug = policy.Generate(p.Title, p.PublishedAt, cfg.SlugFormat, now)
	}
	if p.MetaTitle == "" && p.Title != "" {
		p.MetaTitle = formatTemplate(cfg.MetaTitleFormat, map[string]string{
			"title":     p.Title,
			"site_name": cfg.SiteName,
		})
	}
	if p.MetaDescription == "" && p.Content != "" {
		p.MetaDescription = formatTemplate(cfg.MetaDescriptionFormat, map[string]string{
			"excerpt": p.Excerpt(DefaultExcerptLength),
		})
	}
}

// metaTitleOrTitle is the fallback chain used across the SEO surface.
func metaTitleOrTitle(p *Post) string {
	if p.MetaTitle != "" {
		return p.MetaTitle
	}
	return p.Title
}
