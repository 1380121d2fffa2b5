// Package blogify is a mountable blog engine built with Go, Echo, and templ.
// It provides a Post entity with a publish/draft lifecycle, slug generation,
// SEO metadata assembly (meta tags, Open Graph, Twitter Cards, JSON-LD),
// featured-image size variants, and handlers to list and show posts.
//
// Users provide their own templ components via the ViewFuncs struct, and
// blogify handles the routing, persistence, derivation rules, and metadata
// assembly.
package blogify

import (
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds user-provided templ components that the engine calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets hosts own and customize all templates.
type ViewFuncs struct {
	Index       func(posts []Post, seo PageSEO) templ.Component
	Post        func(post Post, seo PageSEO, shares []ShareButton) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// PageSEO bundles everything a page <head> needs: ordered tag sequences
// plus pre-marshalled JSON-LD payloads. Empty JSON strings mean the block
// should not be rendered.
type PageSEO struct {
	MetaTags        []HeadTag
	OpenGraphTags   []HeadTag
	TwitterCardTags []HeadTag
	SchemaJSON      string
	BreadcrumbJSON  string
}

// App is the central blogify engine. It wires together the store, cache,
// SEO assemblers, handlers, and user-provided templates.
type App struct {
	Config Config
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Views  ViewFuncs
	SEO    *SEO
	Schema *SchemaGenerator

	slugPolicy   SlugPolicy
	urls         URLResolver
	shaper       SchemaShaper
	customRoutes []func(*App)
	staticDir    string
	logger       *slog.Logger
	now          func() time.Time
}

// Option configures additional App behavior.
type Option func(*App)

// WithSlugPolicy substitutes the slug derivation strategy, typically to
// implement the "custom" slug format.
func WithSlugPolicy(p SlugPolicy) Option {
	return func(a *App) { a.slugPolicy = p }
}

// WithSchemaShaper substitutes the JSON-LD shaping strategy.
func WithSchemaShaper(s SchemaShaper) Option {
	return func(a *App) { a.shaper = s }
}

// WithURLResolver substitutes the URL resolution capability, for hosts
// whose canonical URLs are not derived from Config.BaseURL.
func WithURLResolver(r URLResolver) Option {
	return func(a *App) { a.urls = r }
}

// WithStaticDir sets the directory for static assets and image uploads
// (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) { a.staticDir = dir }
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the engine's own routes are mounted.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) { a.customRoutes = append(a.customRoutes, fn) }
}

// WithLogger sets the structured logger used for startup messages.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// New creates a blogify App with the given configuration and views.
func New(cfg Config, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Bootstrap validates the configuration and initializes the store, cache,
// SEO assemblers, middleware, and routes without starting a server. Hosts
// embedding the engine in their own server call Bootstrap and then serve
// a.Echo themselves.
func (a *App) Bootstrap() error {
	if err := a.Config.Validate(); err != nil {
		return err
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("blogify: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(store, a.Config.PostCacheTTL)

	if a.urls == nil {
		a.urls = NewURLResolver(a.Config)
	}
	if a.slugPolicy == nil {
		a.slugPolicy = DefaultSlugPolicy
	}
	a.SEO = NewSEO(a.Config, a.urls)
	a.Schema = &SchemaGenerator{cfg: a.Config, urls: a.urls, shaper: a.shaper}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start bootstraps the engine and runs the HTTP server.
func (a *App) Start() error {
	if err := a.Bootstrap(); err != nil {
		return err
	}
	if a.logger != nil {
		a.logger.Info("starting blogify", slog.String("addr", a.Config.Addr),
			slog.String("mount_path", a.Config.MountPath))
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	mount := a.mountPrefix()
	e.GET(mount+"/", a.handleIndex)
	e.GET(mount+"/:idOrSlug/", a.handleShow)
}

// mountPrefix normalizes Config.MountPath into a route prefix without a
// trailing slash ("" for the root mount).
func (a *App) mountPrefix() string {
	mount := "/" + strings.Trim(a.Config.MountPath, "/")
	if mount == "/" {
		return ""
	}
	return mount
}

// postPath returns the site-relative canonical path for a post.
func (a *App) postPath(p *Post) string {
	return path.Join(a.mountPrefix(), "/", p.CanonicalIdentifier()) + "/"
}

// SavePost derives missing fields, validates, persists the post, and
// invalidates the cache. It is the single write entry point: derivation
// runs only here, right before persistence, never as a hidden callback.
func (a *App) SavePost(p *Post) error {
	DeriveFields(p, a.Config, a.slugPolicy, a.now())
	if err := ValidatePost(p, a.Config, a.Store.SlugTaken); err != nil {
		return err
	}
	if err := a.Store.Save(p); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return nil
}

// PublishPost stamps the publish time and saves. When the slug format is
// date-based the slug is regenerated, since it depends on the publish
// time. Publishing an already-published post just refreshes PublishedAt.
func (a *App) PublishPost(p *Post) error {
	now := a.now()
	p.PublishedAt = &now
	if a.Config.SlugFormat != SlugFormatDefault && p.Title != "" {
		p.Slug = a.slugPolicy.Generate(p.Title, p.PublishedAt, a.Config.SlugFormat, now)
	}
	return a.SavePost(p)
}

// UnpublishPost clears the publish time and saves. The slug is left
// untouched.
func (a *App) UnpublishPost(p *Post) error {
	p.PublishedAt = nil
	return a.SavePost(p)
}

// DeletePost removes a post and its cache entry.
func (a *App) DeletePost(id int64) error {
	if err := a.Store.Delete(id); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return nil
}

// pageSEO assembles the complete head metadata bundle for a post page,
// or for the index when p is nil.
func (a *App) pageSEO(p *Post) PageSEO {
	seo := PageSEO{
		MetaTags:        a.SEO.MetaTags(p),
		OpenGraphTags:   a.SEO.OpenGraphTags(p),
		TwitterCardTags: a.SEO.TwitterCardTags(p),
	}
	if p != nil {
		seo.SchemaJSON = JSONLD(a.Schema.Generate(p))
	} else if a.Config.OrganizationSchema != nil {
		seo.SchemaJSON = JSONLD(a.Config.OrganizationSchema)
	}
	if crumbs := a.SEO.BreadcrumbSchema(p); crumbs != nil {
		seo.BreadcrumbJSON = JSONLD(crumbs)
	}
	return seo
}
