package blogify

// URLResolver builds the absolute URLs the SEO surface embeds in tags and
// schema objects. The default implementation joins paths onto
// Config.BaseURL; hosts with their own routing substitute a resolver via
// WithURLResolver.
type URLResolver interface {
	// RootURL is the absolute URL of the host site root.
	RootURL() string
	// PostsURL is the absolute URL of the blog index.
	PostsURL() string
	// PostURL is the canonical absolute URL of a post (slug-based when a
	// slug exists, id-based otherwise).
	PostURL(p *Post) string
	// ImageURL resolves the named variant of a post's featured image.
	// An empty variant resolves the original rendition. Returns "" when
	// no image is attached.
	ImageURL(p *Post, variant string) string
}

type baseURLResolver struct {
	base  string
	mount string
}

// NewURLResolver returns the default resolver for cfg.
func NewURLResolver(cfg Config) URLResolver {
	return &baseURLResolver{base: cfg.BaseURL, mount: cfg.MountPath}
}

func (r *baseURLResolver) RootURL() string {
	return BuildURL(r.base)
}

func (r *baseURLResolver) PostsURL() string {
	return BuildURL(r.base, r.mount)
}

func (r *baseURLResolver) PostURL(p *Post) string {
	return BuildURL(r.base, r.mount, p.CanonicalIdentifier())
}

func (r *baseURLResolver) ImageURL(p *Post, variant string) string {
	if p == nil || p.FeaturedImage == nil {
		return ""
	}
	u := BuildURL(r.base, "public", uploadsSubdir, variantFilename(p.FeaturedImage.Filename, variant))
	// Image URLs point at files, not directories.
	return trimTrailingSlash(u)
}

func trimTrailingSlash(s string) string {
	if len(s) > 1 && s[len(s)-1] == '/' {
		return s[:len(s)-1]
	}
	return s
}
