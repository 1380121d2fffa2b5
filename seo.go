package blogify

import (
	"net/url"
	"strings"
	"time"
)

// HeadTag describes one <head> element: a meta tag, the document title,
// or a link element. The assembler emits raw text values plus tag
// metadata; escaping for the output medium is the rendering layer's job
// (templ components escape automatically).
type HeadTag struct {
	Kind     string // "meta", "title", or "link"
	Name     string // meta name attribute
	Property string // meta property attribute (Open Graph)
	Content  string
	Rel      string // link rel attribute
	Href     string // link href attribute
}

func metaName(name, content string) HeadTag {
	return HeadTag{Kind: "meta", Name: name, Content: content}
}

func metaProperty(property, content string) HeadTag {
	return HeadTag{Kind: "meta", Property: property, Content: content}
}

func titleTag(text string) HeadTag {
	return HeadTag{Kind: "title", Content: text}
}

func linkTag(rel, href string) HeadTag {
	return HeadTag{Kind: "link", Rel: rel, Href: href}
}

// ShareButton is one social share link, rendered by user templates.
type ShareButton struct {
	Network string
	Label   string
	URL     string
	Class   string
}

// SEO assembles per-page metadata from a post, the engine configuration,
// and the URL resolver. All methods are pure; passing a nil post yields
// the blog-index variants.
type SEO struct {
	cfg  Config
	urls URLResolver
}

// NewSEO returns an assembler bound to cfg and urls.
func NewSEO(cfg Config, urls URLResolver) *SEO {
	return &SEO{cfg: cfg, urls: urls}
}

// MetaTags returns the basic SEO tags: description, keywords, document
// title, and the canonical link. Tags whose source field is absent are
// omitted.
func (s *SEO) MetaTags(p *Post) []HeadTag {
	var tags []HeadTag

	if p != nil {
		if p.MetaDescription != "" {
			tags = append(tags, metaName("description", p.MetaDescription))
		}
		if kw := p.Keywords(); kw != "" {
			tags = append(tags, metaName("keywords", kw))
		}
		tags = append(tags,
			titleTag(metaTitleOrTitle(p)),
			linkTag("canonical", s.urls.PostURL(p)),
		)
		return tags
	}

	if s.cfg.BlogDescription != "" {
		tags = append(tags, metaName("description", s.cfg.BlogDescription))
	}
	tags = append(tags, titleTag(s.cfg.BlogTitle))
	return tags
}

// OpenGraphTags returns the Open Graph tag sequence for a post page or,
// with a nil post, the blog index.
func (s *SEO) OpenGraphTags(p *Post) []HeadTag {
	tags := []HeadTag{
		metaProperty("og:site_name", s.cfg.SiteName),
		metaProperty("og:locale", s.cfg.Locale),
	}
	if s.cfg.FacebookAppID != "" {
		tags = append(tags, metaProperty("fb:app_id", s.cfg.FacebookAppID))
	}

	if p != nil {
		tags = append(tags,
			metaProperty("og:type", "post"),
			metaProperty("og:title", metaTitleOrTitle(p)),
		)
		if p.MetaDescription != "" {
			tags = append(tags, metaProperty("og:description", p.MetaDescription))
		}
		tags = append(tags, metaProperty("og:url", s.urls.PostURL(p)))
		if p.PublishedAt != nil {
			tags = append(tags,
				metaProperty("post:published_time", p.PublishedAt.Format(time.RFC3339)),
				metaProperty("post:modified_time", p.UpdatedAt.Format(time.RFC3339)),
			)
		}
		if p.HasFeaturedImage() {
			tags = append(tags,
				metaProperty("og:image", s.urls.ImageURL(p, "")),
				metaProperty("og:image:alt", metaTitleOrTitle(p)),
			)
		}
		return tags
	}

	tags = append(tags,
		metaProperty("og:type", "website"),
		metaProperty("og:title", s.cfg.BlogTitle),
	)
	if s.cfg.BlogDescription != "" {
		tags = append(tags, metaProperty("og:description", s.cfg.BlogDescription))
	}
	tags = append(tags, metaProperty("og:url", s.urls.PostsURL()))
	if s.cfg.SiteLogo != "" {
		tags = append(tags,
			metaProperty("og:image", s.cfg.SiteLogo),
			metaProperty("og:image:alt", s.cfg.SiteName),
		)
	}
	return tags
}

// TwitterCardTags returns the Twitter Card tag sequence, analogous to
// OpenGraphTags.
func (s *SEO) TwitterCardTags(p *Post) []HeadTag {
	tags := []HeadTag{metaName("twitter:card", "summary_large_image")}
	if s.cfg.TwitterSite != "" {
		tags = append(tags, metaName("twitter:site", s.cfg.TwitterSite))
	}
	if s.cfg.TwitterCreator != "" {
		tags = append(tags, metaName("twitter:creator", s.cfg.TwitterCreator))
	}

	if p != nil {
		tags = append(tags, metaName("twitter:title", metaTitleOrTitle(p)))
		if p.MetaDescription != "" {
			tags = append(tags, metaName("twitter:description", p.MetaDescription))
		}
		if p.HasFeaturedImage() {
			tags = append(tags,
				metaName("twitter:image", s.urls.ImageURL(p, "")),
				metaName("twitter:image:alt", metaTitleOrTitle(p)),
			)
		}
		return tags
	}

	tags = append(tags, metaName("twitter:title", s.cfg.BlogTitle))
	if s.cfg.BlogDescription != "" {
		tags = append(tags, metaName("twitter:description", s.cfg.BlogDescription))
	}
	if s.cfg.SiteLogo != "" {
		tags = append(tags,
			metaName("twitter:image", s.cfg.SiteLogo),
			metaName("twitter:image:alt", s.cfg.SiteName),
		)
	}
	return tags
}

// BreadcrumbSchema returns a schema.org BreadcrumbList object for the
// current page: Home, the blog index, and the post when present. Returns
// nil when breadcrumbs are disabled.
func (s *SEO) BreadcrumbSchema(p *Post) map[string]any {
	if s.cfg.DisableBreadcrumbs {
		return nil
	}
	items := []map[string]any{
		{"@type": "ListItem", "position": 1, "name": "Home", "item": s.urls.RootURL()},
		{"@type": "ListItem", "position": 2, "name": s.cfg.BlogTitle, "item": s.urls.PostsURL()},
	}
	if p != nil {
		items = append(items, map[string]any{
			"@type": "ListItem", "position": 3, "name": p.Title, "item": s.urls.PostURL(p),
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": items,
	}
}

// SocialShareButtons builds share links for each enabled target in the
// configured order. Pinterest requires a media URL and is emitted only
// when a featured image is attached. Returns nil for a nil post.
func (s *SEO) SocialShareButtons(p *Post) []ShareButton {
	if p == nil {
		return nil
	}
	postURL := s.urls.PostURL(p)

	var buttons []ShareButton
	for _, target := range s.cfg.SocialShareButtons {
		switch target {
		case ShareTwitter:
			buttons = append(buttons, ShareButton{
				Network: ShareTwitter,
				Label:   "Share on Twitter",
				URL: "https://twitter.com/intent/tweet?url=" + url.QueryEscape(postURL) +
					"&text=" + url.QueryEscape(p.Title),
				Class: "blogify-share-button blogify-twitter-share",
			})
		case ShareFacebook:
			buttons = append(buttons, ShareButton{
				Network: ShareFacebook,
				Label:   "Share on Facebook",
				URL:     "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(postURL),
				Class:   "blogify-share-button blogify-facebook-share",
			})
		case ShareLinkedIn:
			buttons = append(buttons, ShareButton{
				Network: ShareLinkedIn,
				Label:   "Share on LinkedIn",
				URL:     "https://www.linkedin.com/sharing/share-offsite/?url=" + url.QueryEscape(postURL),
				Class:   "blogify-share-button blogify-linkedin-share",
			})
		case SharePinterest:
			if !p.HasFeaturedImage() {
				continue
			}
			description := p.MetaDescription
			if description == "" {
				description = p.Title
			}
			buttons = append(buttons, ShareButton{
				Network: SharePinterest,
				Label:   "Pin on Pinterest",
				URL: "https://pinterest.com/pin/create/button/?url=" + url.QueryEscape(postURL) +
					"&media=" + url.QueryEscape(s.urls.ImageURL(p, "")) +
					"&description=" + url.QueryEscape(description),
				Class: "blogify-share-button blogify-pinterest-share",
			})
		case ShareEmail:
			buttons = append(buttons, ShareButton{
				Network: ShareEmail,
				Label:   "Share via Email",
				URL: "mailto:?subject=" + mailtoEscape(p.Title) +
					"&body=" + mailtoEscape("Check out this post: "+postURL),
				Class: "blogify-share-button blogify-email-share",
			})
		}
	}
	return buttons
}

// mailto links use percent-encoded spaces; QueryEscape's "+" is not
// understood by mail clients.
func mailtoEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
