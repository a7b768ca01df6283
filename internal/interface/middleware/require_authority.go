package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/entity"
)

// RequireAuthority gates a route on the caller's role rank. The slug set by
// Auth is ranked through the domain's authority table; lower rank means more
// authority, so a caller passes when their rank is at most maxRank.
func RequireAuthority(maxRank int) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.GetString(CtxUserRoleKey)
		if slug == "" {
			abort(c, http.StatusForbidden, "no role assigned", nil)
			return
		}
		if entity.AuthorityRank(slug) > maxRank {
			abort(c, http.StatusForbidden, "insufficient role authority", nil)
			return
		}
		c.Next()
	}
}

// RequireRole gates a route on an exact set of role slugs.
func RequireRole(slugs ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		allowed[s] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := allowed[c.GetString(CtxUserRoleKey)]; !ok {
			abort(c, http.StatusForbidden, "insufficient role authority", nil)
			return
		}
		c.Next()
	}
}
