package markdown

import (
	"context"
	"fmt"

	"github.com/zjrosen/folio/internal/cachemanager"
	"github.com/zjrosen/folio/internal/log"
)

type renderInput struct {
	width   int
	content string
}

// Cache renders markdown through a content-addressed cache. Equal content
// at an equal width renders once.
type Cache struct {
	style     string
	renderers map[int]*Renderer
	rt        *cachemanager.ReadThroughCache[cachemanager.RenderKey, string, renderInput]
}

// NewCache returns a Cache for style. When disabled every call renders.
func NewCache(style string, disabled bool) *Cache {
	c := &Cache{style: style, renderers: make(map[int]*Renderer)}
	store := cachemanager.NewInMemoryCacheManager[cachemanager.RenderKey, string](
		"markdown", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	c.rt = cachemanager.NewReadThroughCache[cachemanager.RenderKey, string, renderInput](store, c.render, disabled)
	return c
}

// Render returns the rendering of content wrapped at width. namespace
// keeps slides and notes apart.
func (c *Cache) Render(namespace string, width int, content string) (string, error) {
	if width < 1 {
		width = 1
	}
	key := cachemanager.NewRenderKey(namespace, width, content)
	return c.rt.GetWithRefresh(context.Background(), key, renderInput{width: width, content: content}, cachemanager.DefaultExpiration)
}

// Len reports cached entries.
func (c *Cache) Len() int {
	return c.rt.Cache().Len()
}

// Flush drops every cached rendering, e.g. after a style change.
func (c *Cache) Flush() {
	_ = c.rt.Cache().Flush(context.Background())
	clear(c.renderers)
}

func (c *Cache) render(_ context.Context, in renderInput) (string, error) {
	r, ok := c.renderers[in.width]
	if !ok {
		var err error
		r, err = New(in.width, c.style)
		if err != nil {
			return "", fmt.Errorf("creating renderer: %w", err)
		}
		c.renderers[in.width] = r
	}
	out, err := r.Render(in.content)
	if err != nil {
		log.ErrorErr(log.CatUI, "markdown render failed", err, "width", in.width)
		return "", err
	}
	return out, nil
}
