package blogify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.setDefaults()

	assert.Equal(t, "Blog", cfg.SiteName)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
	assert.Equal(t, "/", cfg.MountPath)
	assert.Equal(t, SlugFormatDefault, cfg.SlugFormat)
	assert.Equal(t, int64(5<<20), cfg.FeaturedImageMaxSize)
	assert.Equal(t, ImageSize{Width: 300, Height: 300}, cfg.FeaturedImageSizes["thumbnail"])
	assert.Equal(t, ImageSize{Width: 600, Height: 600}, cfg.FeaturedImageSizes["medium"])
	assert.Equal(t, ImageSize{Width: 1200, Height: 1200}, cfg.FeaturedImageSizes["large"])
	assert.Contains(t, cfg.FeaturedImageContentTypes, "image/webp")
	assert.Equal(t, "{title} | {site_name}", cfg.MetaTitleFormat)
	assert.Equal(t, "{excerpt}", cfg.MetaDescriptionFormat)
	assert.Equal(t, []string{ShareTwitter, ShareFacebook, ShareLinkedIn}, cfg.SocialShareButtons)
	assert.Equal(t, "BlogPosting", cfg.SchemaOrgType)
	assert.Equal(t, 5*time.Minute, cfg.PostCacheTTL)
	assert.False(t, cfg.DisableBreadcrumbs, "breadcrumbs are on unless disabled")
}

func TestConfigDefaultsPreserveExplicitValues(t *testing.T) {
	cfg := Config{
		SiteName:   "Custom",
		SlugFormat: SlugFormatDatePrefix,
	}
	cfg.setDefaults()
	assert.Equal(t, "Custom", cfg.SiteName)
	assert.Equal(t, SlugFormatDatePrefix, cfg.SlugFormat)
}

func TestConfigValidate(t *testing.T) {
	t.Run("defaults validate cleanly", func(t *testing.T) {
		var cfg Config
		cfg.setDefaults()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects unknown slug format", func(t *testing.T) {
		var cfg Config
		cfg.setDefaults()
		cfg.SlugFormat = "reverse_chronological"

		err := cfg.Validate()
		var cerr *ConfigError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "slug_format", cerr.Field)
		assert.Contains(t, cerr.Reason, "reverse_chronological")
	})

	t.Run("rejects non-positive image sizes", func(t *testing.T) {
		var cfg Config
		cfg.setDefaults()
		cfg.FeaturedImageSizes = map[string]ImageSize{"banner": {Width: 0, Height: 400}}

		err := cfg.Validate()
		var cerr *ConfigError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "featured_image_sizes", cerr.Field)
		assert.Contains(t, cerr.Reason, "banner")
	})

	t.Run("rejects unknown share button", func(t *testing.T) {
		var cfg Config
		cfg.setDefaults()
		cfg.SocialShareButtons = []string{ShareTwitter, "myspace"}

		err := cfg.Validate()
		var cerr *ConfigError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "social_share_buttons", cerr.Field)
		assert.Contains(t, cerr.Reason, "myspace")
	})
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blogify.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
site_name: Acme Publishing
base_url: https://acme.example
mount_path: /blog
slug_format: date_prefix
featured_image_max_size: 1048576
featured_image_sizes:
  small:
    width: 200
    height: 200
social_share_buttons:
  - twitter
  - email
organization_schema:
  "@type": Organization
  name: Acme
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme Publishing", cfg.SiteName)
	assert.Equal(t, "https://acme.example", cfg.BaseURL)
	assert.Equal(t, "/blog", cfg.MountPath)
	assert.Equal(t, SlugFormatDatePrefix, cfg.SlugFormat)
	assert.Equal(t, int64(1<<20), cfg.FeaturedImageMaxSize)
	assert.Equal(t, ImageSize{Width: 200, Height: 200}, cfg.FeaturedImageSizes["small"])
	assert.Equal(t, []string{ShareTwitter, ShareEmail}, cfg.SocialShareButtons)
	assert.Equal(t, "Acme", cfg.OrganizationSchema["name"])
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
