package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// weakETag builds a weak validator from a collection's size and its most
// recent element. Any create or delete changes at least one component.
func weakETag(kind, scope string, count int, newestID string, newest time.Time) string {
	var ts int64
	if !newest.IsZero() {
		ts = newest.UnixNano()
	}
	return fmt.Sprintf(`W/"%s:%s:%d:%s:%d"`, kind, scope, count, newestID, ts)
}

// notModified sets ETag and reports whether If-None-Match already matches it.
func notModified(c *gin.Context, etag string) bool {
	c.Header("ETag", etag)
	inm := c.GetHeader("If-None-Match")
	if inm == "" {
		return false
	}
	for _, candidate := range strings.Split(inm, ",") {
		if candidate = strings.TrimSpace(candidate); candidate == etag || candidate == "*" {
			return true
		}
	}
	return false
}
