package cachemanager

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// RenderKey identifies one rendering of content at a given width.
// Identical content at the same width shares an entry regardless of
// which slide it came from.
type RenderKey string

// NewRenderKey builds a key from a namespace, the render width and the
// content hash.
func NewRenderKey(namespace string, width int, content string) RenderKey {
	h := xxhash.Sum64String(content)
	return RenderKey(namespace + ":w" + strconv.Itoa(width) + ":" + strconv.FormatUint(h, 16))
}
