package blogify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seoConfig() Config {
	cfg := Config{
		SiteName:        "Acme Publishing",
		BlogTitle:       "Acme Blog",
		BlogDescription: "News from Acme",
		BaseURL:         "https://acme.example",
		MountPath:       "/blog",
	}
	cfg.setDefaults()
	return cfg
}

func newTestSEO(cfg Config) *SEO {
	return NewSEO(cfg, NewURLResolver(cfg))
}

func publishedPost() *Post {
	publishedAt := time.Date(2023, 4, 15, 12, 0, 0, 0, time.UTC)
	return &Post{
		ID:              7,
		Title:           "Hello World",
		Slug:            "hello-world",
		Content:         "<p>Body</p>",
		MetaTitle:       "Hello World | Acme Publishing",
		MetaDescription: "A greeting.",
		MetaData:        map[string]string{"keywords": "hello, world"},
		Author:          "Jordan Smith",
		PublishedAt:     &publishedAt,
		UpdatedAt:       publishedAt.Add(48 * time.Hour),
	}
}

func findTag(tags []HeadTag, kind, name, property string) (HeadTag, bool) {
	for _, tag := range tags {
		if tag.Kind == kind && tag.Name == name && tag.Property == property {
			return tag, true
		}
	}
	return HeadTag{}, false
}

func hasTag(tags []HeadTag, kind, name, property string) bool {
	_, ok := findTag(tags, kind, name, property)
	return ok
}

func TestMetaTagsForPost(t *testing.T) {
	s := newTestSEO(seoConfig())
	p := publishedPost()

	tags := s.MetaTags(p)

	desc, ok := findTag(tags, "meta", "description", "")
	require.True(t, ok)
	assert.Equal(t, "A greeting.", desc.Content)

	kw, ok := findTag(tags, "meta", "keywords", "")
	require.True(t, ok)
	assert.Equal(t, "hello, world", kw.Content)

	title, ok := findTag(tags, "title", "", "")
	require.True(t, ok)
	assert.Equal(t, "Hello World | Acme Publishing", title.Content)

	canonical, ok := findTag(tags, "link", "", "")
	require.True(t, ok)
	assert.Equal(t, "canonical", canonical.Rel)
	assert.Equal(t, "https://acme.example/blog/hello-world/", canonical.Href)
}

func TestMetaTagsOmitAbsentFields(t *testing.T) {
	s := newTestSEO(seoConfig())
	p := &Post{ID: 1, Title: "Bare", Slug: "bare"}

	tags := s.MetaTags(p)
	assert.False(t, hasTag(tags, "meta", "description", ""))
	assert.False(t, hasTag(tags, "meta", "keywords", ""))

	title, ok := findTag(tags, "title", "", "")
	require.True(t, ok)
	assert.Equal(t, "Bare", title.Content, "title falls back when meta title is unset")

	for _, tag := range tags {
		if tag.Kind == "meta" {
			assert.NotEmpty(t, tag.Content, "no tag may carry empty content")
		}
	}
}

func TestMetaTagsForIndex(t *testing.T) {
	s := newTestSEO(seoConfig())

	tags := s.MetaTags(nil)
	desc, ok := findTag(tags, "meta", "description", "")
	require.True(t, ok)
	assert.Equal(t, "News from Acme", desc.Content)

	title, ok := findTag(tags, "title", "", "")
	require.True(t, ok)
	assert.Equal(t, "Acme Blog", title.Content)
}

func TestOpenGraphTagsForPost(t *testing.T) {
	cfg := seoConfig()
	cfg.FacebookAppID = "12345"
	s := newTestSEO(cfg)
	p := publishedPost()

	tags := s.OpenGraphTags(p)

	want := map[string]string{
		"og:site_name":        "Acme Publishing",
		"og:locale":           "en",
		"fb:app_id":           "12345",
		"og:type":             "post",
		"og:title":            "Hello World | Acme Publishing",
		"og:description":      "A greeting.",
		"og:url":              "https://acme.example/blog/hello-world/",
		"post:published_time": "2023-04-15T12:00:00Z",
		"post:modified_time":  "2023-04-17T12:00:00Z",
	}
	for property, content := range want {
		tag, ok := findTag(tags, "meta", "", property)
		require.True(t, ok, "expected %s", property)
		assert.Equal(t, content, tag.Content, property)
	}

	assert.False(t, hasTag(tags, "meta", "", "og:image"), "no og:image without an attachment")
}

func TestOpenGraphTagsForDraftOmitTimes(t *testing.T) {
	s := newTestSEO(seoConfig())
	p := publishedPost()
	p.PublishedAt = nil

	tags := s.OpenGraphTags(p)
	assert.False(t, hasTag(tags, "meta", "", "post:published_time"))
	assert.False(t, hasTag(tags, "meta", "", "post:modified_time"))
}

func TestOpenGraphTagsWithFeaturedImage(t *testing.T) {
	s := newTestSEO(seoConfig())
	p := publishedPost()
	p.FeaturedImage = &FeaturedImage{Filename: "hello.jpg", ContentType: "image/jpeg", ByteSize: 1000}

	tags := s.OpenGraphTags(p)
	img, ok := findTag(tags, "meta", "", "og:image")
	require.True(t, ok)
	assert.Equal(t, "https://acme.example/public/uploads/hello.jpg", img.Content)

	alt, ok := findTag(tags, "meta", "", "og:image:alt")
	require.True(t, ok)
	assert.Equal(t, "Hello World | Acme Publishing", alt.Content)
}

func TestOpenGraphTagsForIndex(t *testing.T) {
	cfg := seoConfig()
	cfg.SiteLogo = "https://acme.example/logo.png"
	s := newTestSEO(cfg)

	tags := s.OpenGraphTags(nil)

	typ, ok := findTag(tags, "meta", "", "og:type")
	require.True(t, ok)
	assert.Equal(t, "website", typ.Content)

	u, ok := findTag(tags, "meta", "", "og:url")
	require.True(t, ok)
	assert.Equal(t, "https://acme.example/blog/", u.Content)

	img, ok := findTag(tags, "meta", "", "og:image")
	require.True(t, ok)
	assert.Equal(t, "https://acme.example/logo.png", img.Content)

	alt, ok := findTag(tags, "meta", "", "og:image:alt")
	require.True(t, ok)
	assert.Equal(t, "Acme Publishing", alt.Content)
}

func TestTwitterCardTags(t *testing.T) {
	cfg := seoConfig()
	cfg.TwitterSite = "@acme"
	cfg.TwitterCreator = "@jordan"
	s := newTestSEO(cfg)
	p := publishedPost()

	tags := s.TwitterCardTags(p)

	card, ok := findTag(tags, "meta", "twitter:card", "")
	require.True(t, ok)
	assert.Equal(t, "summary_large_image", card.Content)

	site, ok := findTag(tags, "meta", "twitter:site", "")
	require.True(t, ok)
	assert.Equal(t, "@acme", site.Content)

	creator, ok := findTag(tags, "meta", "twitter:creator", "")
	require.True(t, ok)
	assert.Equal(t, "@jordan", creator.Content)

	title, ok := findTag(tags, "meta", "twitter:title", "")
	require.True(t, ok)
	assert.Equal(t, "Hello World | Acme Publishing", title.Content)

	assert.False(t, hasTag(tags, "meta", "twitter:image", ""), "no image tag without an attachment")
}

func TestTwitterCardTagsOmitUnconfiguredHandles(t *testing.T) {
	s := newTestSEO(seoConfig())
	tags := s.TwitterCardTags(nil)
	assert.False(t, hasTag(tags, "meta", "twitter:site", ""))
	assert.False(t, hasTag(tags, "meta", "twitter:creator", ""))
}

func TestBreadcrumbSchema(t *testing.T) {
	s := newTestSEO(seoConfig())
	p := publishedPost()

	schema := s.BreadcrumbSchema(p)
	require.NotNil(t, schema)
	assert.Equal(t, "BreadcrumbList", schema["@type"])

	items, ok := schema["itemListElement"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, items, 3)
	assert.Equal(t, 1, items[0]["position"])
	assert.Equal(t, "Home", items[0]["name"])
	assert.Equal(t, "https://acme.example/", items[0]["item"])
	assert.Equal(t, 2, items[1]["position"])
	assert.Equal(t, "Acme Blog", items[1]["name"])
	assert.Equal(t, 3, items[2]["position"])
	assert.Equal(t, "Hello World", items[2]["name"])
	assert.Equal(t, "https://acme.example/blog/hello-world/", items[2]["item"])
}

func TestBreadcrumbSchemaIndexAndDisabled(t *testing.T) {
	s := newTestSEO(seoConfig())
	schema := s.BreadcrumbSchema(nil)
	require.NotNil(t, schema)
	items := schema["itemListElement"].([]map[string]any)
	assert.Len(t, items, 2, "index breadcrumbs stop at the blog listing")

	cfg := seoConfig()
	cfg.DisableBreadcrumbs = true
	assert.Nil(t, newTestSEO(cfg).BreadcrumbSchema(publishedPost()))
}

func TestSocialShareButtons(t *testing.T) {
	cfg := seoConfig()
	cfg.SocialShareButtons = []string{ShareTwitter, ShareFacebook, ShareLinkedIn, SharePinterest, ShareEmail}
	s := newTestSEO(cfg)

	t.Run("nil post yields nothing", func(t *testing.T) {
		assert.Nil(t, s.SocialShareButtons(nil))
	})

	t.Run("pinterest requires an image", func(t *testing.T) {
		buttons := s.SocialShareButtons(publishedPost())
		networks := make([]string, len(buttons))
		for i, b := range buttons {
			networks[i] = b.Network
		}
		assert.Equal(t, []string{ShareTwitter, ShareFacebook, ShareLinkedIn, ShareEmail}, networks)
	})

	t.Run("configured order with an image", func(t *testing.T) {
		p := publishedPost()
		p.FeaturedImage = &FeaturedImage{Filename: "hello.jpg", ContentType: "image/jpeg", ByteSize: 1}
		buttons := s.SocialShareButtons(p)
		networks := make([]string, len(buttons))
		for i, b := range buttons {
			networks[i] = b.Network
		}
		assert.Equal(t, []string{ShareTwitter, ShareFacebook, ShareLinkedIn, SharePinterest, ShareEmail}, networks)
	})

	t.Run("urls are escaped", func(t *testing.T) {
		buttons := s.SocialShareButtons(publishedPost())
		require.NotEmpty(t, buttons)
		twitter := buttons[0]
		assert.Contains(t, twitter.URL, "url=https%3A%2F%2Facme.example%2Fblog%2Fhello-world%2F")
		assert.Contains(t, twitter.URL, "text=Hello+World")
	})

	t.Run("email uses a mailto link with percent-encoded spaces", func(t *testing.T) {
		buttons := s.SocialShareButtons(publishedPost())
		email := buttons[len(buttons)-1]
		assert.Equal(t, ShareEmail, email.Network)
		assert.Contains(t, email.URL, "mailto:?subject=Hello%20World")
		assert.NotContains(t, email.URL, "+")
	})
}
