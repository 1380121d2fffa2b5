package blogify

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func (a *App) handleIndex(c echo.Context) error {
	posts, err := a.Cache.ListPublished()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Index(posts, a.pageSEO(nil)))
}

// handleShow resolves a post by slug first, then by numeric id, reading
// from the cache like every other public surface. A hit by id on a post
// that has a slug redirects permanently to the slug URL so the canonical
// address is the only one search engines see. The cache holds published
// posts only, so drafts look exactly like missing posts.
func (a *App) handleShow(c echo.Context) error {
	value := c.Param("idOrSlug")
	post, err := a.Cache.GetBySlug(value)
	if errors.Is(err, ErrNotFound) {
		if id, parseErr := strconv.ParseInt(value, 10, 64); parseErr == nil {
			post, err = a.Cache.GetByID(id)
		}
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	if post.Slug != "" && value != post.Slug {
		return c.Redirect(http.StatusMovedPermanently, a.postPath(&post))
	}
	return Render(c, a.Views.Post(post, a.pageSEO(&post), a.SEO.SocialShareButtons(&post)))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPublished()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPublished()
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
