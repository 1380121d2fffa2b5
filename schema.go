package blogify

import (
	"encoding/json"
	"time"
)

// SchemaShaper shapes the JSON-LD object emitted for a post. The built-in
// shaper selects the @type from Config.SchemaOrgType; hosts needing a
// different structure entirely supply their own via WithSchemaShaper.
type SchemaShaper interface {
	Shape(p *Post) map[string]any
}

// SchemaGenerator builds schema.org JSON-LD objects for posts.
type SchemaGenerator struct {
	cfg    Config
	urls   URLResolver
	shaper SchemaShaper
}

// NewSchemaGenerator returns a generator using the built-in shaper.
func NewSchemaGenerator(cfg Config, urls URLResolver) *SchemaGenerator {
	return &SchemaGenerator{cfg: cfg, urls: urls}
}

// Generate returns the JSON-LD object for a post, or an empty object for
// a nil post.
func (g *SchemaGenerator) Generate(p *Post) map[string]any {
	if p == nil {
		return map[string]any{}
	}
	if g.shaper != nil {
		return g.shaper.Shape(p)
	}
	return g.articleSchema(p, schemaType(g.cfg.SchemaOrgType))
}

// schemaType maps the configured schema.org type onto a supported one,
// falling back to BlogPosting for anything unrecognized.
func schemaType(configured string) string {
	switch configured {
	case "Article", "NewsArticle":
		return configured
	default:
		return "BlogPosting"
	}
}

// articleSchema assembles the shared property set; the three supported
// types differ only in @type. Each property is added only when its source
// data is present.
func (g *SchemaGenerator) articleSchema(p *Post, typ string) map[string]any {
	schema := map[string]any{
		"@context": "https://schema.org",
		"@type":    typ,
	}
	if headline := metaTitleOrTitle(p); headline != "" {
		schema["headline"] = headline
	}
	if p.PublishedAt != nil {
		schema["datePublished"] = p.PublishedAt.Format(time.RFC3339)
	}
	if !p.UpdatedAt.IsZero() {
		schema["dateModified"] = p.UpdatedAt.Format(time.RFC3339)
	}
	if g.urls != nil {
		postURL := g.urls.PostURL(p)
		schema["url"] = postURL
		schema["mainEntityOfPage"] = map[string]any{
			"@type": "WebPage",
			"@id":   postURL,
		}
	}
	if p.MetaDescription != "" {
		schema["description"] = p.MetaDescription
	}
	if p.HasFeaturedImage() && g.urls != nil {
		schema["image"] = map[string]any{
			"@type": "ImageObject",
			"url":   g.urls.ImageURL(p, ""),
		}
	}
	if p.Author != "" {
		schema["author"] = map[string]any{
			"@type": "Person",
			"name":  p.Author,
		}
	}
	if g.cfg.SiteName != "" {
		publisher := map[string]any{
			"@type": "Organization",
			"name":  g.cfg.SiteName,
		}
		if g.cfg.SiteLogo != "" {
			publisher["logo"] = map[string]any{
				"@type": "ImageObject",
				"url":   g.cfg.SiteLogo,
			}
		}
		schema["publisher"] = publisher
	}
	if p.Content != "" {
		schema["postBody"] = p.Content
	}
	return schema
}

// JSONLD marshals a schema object for embedding in a script tag.
func JSONLD(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
