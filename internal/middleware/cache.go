package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	responseMetaKey = "response_meta"
	metaStartedKey  = "started_at"
	cacheHitKey     = "cache_hit"
)

// WithResponseMeta initialises response metadata storage on the request
// context. Handlers read it back through ExtractMeta when building the
// response envelope.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, map[string]interface{}{metaStartedKey: time.Now()})
		c.Next()
	}
}

// SetCacheHit records whether the current response was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	meta := ensureMeta(c)
	meta[cacheHitKey] = hit
}

// ExtractMeta returns the metadata recorded for the current request with
// the processing time resolved. Returns nil when WithResponseMeta is not
// installed on the route.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	stored, exists := c.Get(responseMetaKey)
	if !exists {
		return nil
	}
	typed, ok := stored.(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]interface{}, len(typed))
	for k, v := range typed {
		if k == metaStartedKey {
			continue
		}
		out[k] = v
	}
	if started, ok := typed[metaStartedKey].(time.Time); ok {
		out["processing_time_ms"] = time.Since(started).Milliseconds()
	}
	return out
}

func ensureMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return map[string]interface{}{}
	}
	if meta, exists := c.Get(responseMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	newMeta := make(map[string]interface{})
	c.Set(responseMetaKey, newMeta)
	return newMeta
}
