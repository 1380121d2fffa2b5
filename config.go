package blogify

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Slug formats accepted by Config.SlugFormat.
const (
	SlugFormatDefault         = "default"
	SlugFormatDatePrefix      = "date_prefix"
	SlugFormatDateMonthPrefix = "date_month_prefix"
	SlugFormatCustom          = "custom"
)

// Social share targets accepted by Config.SocialShareButtons.
const (
	ShareTwitter   = "twitter"
	ShareFacebook  = "facebook"
	ShareLinkedIn  = "linkedin"
	SharePinterest = "pinterest"
	ShareEmail     = "email"
)

// ImageSize is a resize-to-limit bound for a named featured-image variant.
// Images are scaled down to fit within Width x Height, never scaled up.
type ImageSize struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// Config holds all configuration for a blogify engine. It is read-only
// after Start; every component receives it by value rather than reading
// a package-level singleton.
type Config struct {
	// Site identity.
	SiteName        string `mapstructure:"site_name"`
	SiteLogo        string `mapstructure:"site_logo"` // absolute URL, used for index og:image and publisher logo
	Locale          string `mapstructure:"locale"`
	BlogTitle       string `mapstructure:"blog_title"`
	BlogDescription string `mapstructure:"blog_description"`

	// Layout names handed through to user view functions.
	BlogLayout string `mapstructure:"blog_layout"`
	PostLayout string `mapstructure:"post_layout"`

	// URLs and server.
	BaseURL      string `mapstructure:"base_url"`
	MountPath    string `mapstructure:"mount_path"` // path prefix the engine's routes are mounted under
	Addr         string `mapstructure:"addr"`
	DatabasePath string `mapstructure:"database_path"`

	// Slug generation.
	SlugFormat string `mapstructure:"slug_format"`

	// Featured images.
	FeaturedImageSizes        map[string]ImageSize `mapstructure:"featured_image_sizes"`
	FeaturedImageMaxSize      int64                `mapstructure:"featured_image_max_size"`
	FeaturedImageContentTypes []string             `mapstructure:"featured_image_content_types"`

	// Meta tag derivation templates. Placeholders: {title}, {site_name}, {excerpt}.
	MetaTitleFormat       string `mapstructure:"meta_title_format"`
	MetaDescriptionFormat string `mapstructure:"meta_description_format"`

	// Social.
	FacebookAppID      string   `mapstructure:"facebook_app_id"`
	TwitterSite        string   `mapstructure:"twitter_site"`
	TwitterCreator     string   `mapstructure:"twitter_creator"`
	SocialShareButtons []string `mapstructure:"social_share_buttons"`

	// Structured data.
	SchemaOrgType      string         `mapstructure:"schema_org_type"` // BlogPosting, Article, or NewsArticle
	OrganizationSchema map[string]any `mapstructure:"organization_schema"`
	DisableBreadcrumbs bool           `mapstructure:"disable_breadcrumbs"`

	PostCacheTTL time.Duration `mapstructure:"post_cache_ttl"`
}

func (c *Config) setDefaults() {
	if c.SiteName == "" {
		c.SiteName = "Blog"
	}
	if c.Locale == "" {
		c.Locale = "en"
	}
	if c.BlogTitle == "" {
		c.BlogTitle = "Blog"
	}
	if c.BlogDescription == "" {
		c.BlogDescription = "Latest blog posts"
	}
	if c.BlogLayout == "" {
		c.BlogLayout = "blog"
	}
	if c.PostLayout == "" {
		c.PostLayout = "post"
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:3000"
	}
	if c.MountPath == "" {
		c.MountPath = "/"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.SlugFormat == "" {
		c.SlugFormat = SlugFormatDefault
	}
	if c.FeaturedImageSizes == nil {
		c.FeaturedImageSizes = map[string]ImageSize{
			"thumbnail": {Width: 300, Height: 300},
			"medium":    {Width: 600, Height: 600},
			"large":     {Width: 1200, Height: 1200},
		}
	}
	if c.FeaturedImageMaxSize == 0 {
		c.FeaturedImageMaxSize = 5 << 20 // 5 MB
	}
	if c.FeaturedImageContentTypes == nil {
		c.FeaturedImageContentTypes = []string{
			"image/png", "image/jpeg", "image/jpg", "image/gif", "image/webp",
		}
	}
	if c.MetaTitleFormat == "" {
		c.MetaTitleFormat = "{title} | {site_name}"
	}
	if c.MetaDescriptionFormat == "" {
		c.MetaDescriptionFormat = "{excerpt}"
	}
	if c.SocialShareButtons == nil {
		c.SocialShareButtons = []string{ShareTwitter, ShareFacebook, ShareLinkedIn}
	}
	if c.SchemaOrgType == "" {
		c.SchemaOrgType = "BlogPosting"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// ConfigError reports an invalid configuration value. It is returned once
// at startup and is fatal; it never surfaces at request time.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("blogify: invalid configuration: %s: %s", e.Field, e.Reason)
}

// Validate checks the configuration and returns a *ConfigError describing
// the first invalid value found.
func (c *Config) Validate() error {
	switch c.SlugFormat {
	case SlugFormatDefault, SlugFormatDatePrefix, SlugFormatDateMonthPrefix, SlugFormatCustom:
	default:
		return &ConfigError{
			Field: "slug_format",
			Reason: fmt.Sprintf("unknown format %q, valid options are: %s, %s, %s, %s",
				c.SlugFormat, SlugFormatDefault, SlugFormatDatePrefix, SlugFormatDateMonthPrefix, SlugFormatCustom),
		}
	}
	for name, size := range c.FeaturedImageSizes {
		if size.Width <= 0 || size.Height <= 0 {
			return &ConfigError{
				Field:  "featured_image_sizes",
				Reason: fmt.Sprintf("size %q must specify a positive width and height", name),
			}
		}
	}
	for _, button := range c.SocialShareButtons {
		switch button {
		case ShareTwitter, ShareFacebook, ShareLinkedIn, SharePinterest, ShareEmail:
		default:
			return &ConfigError{
				Field: "social_share_buttons",
				Reason: fmt.Sprintf("unknown button %q, valid options are: %s, %s, %s, %s, %s",
					button, ShareTwitter, ShareFacebook, ShareLinkedIn, SharePinterest, ShareEmail),
			}
		}
	}
	return nil
}

// LoadConfig reads a Config from the file at path (any format viper
// understands: YAML, TOML, JSON, env files). Defaults are applied later
// by New, so an empty file yields a fully usable configuration.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("blogify: read config: %w", err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("blogify: parse config: %w", err)
	}
	return cfg, nil
}
