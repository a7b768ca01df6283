package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/container"
	handlers "github.com/mustafa-mbari/wmsv1-sub001/internal/interface/http"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/interface/middleware"
)

// RoleModule registers role management under /api/roles. Reads need a
// session; every write is admin-only.
type RoleModule struct {
	Handler *handlers.RoleHandler
}

func NewRoleModule(h *handlers.RoleHandler) *RoleModule {
	return &RoleModule{Handler: h}
}

func (m *RoleModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	roles := rg.Group("/roles")
	roles.Use(
		middleware.Auth(rdb, container.GetJWT()),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		roles.GET("", m.Handler.ListRoles)
		roles.GET("/:id", m.Handler.GetRole)

		admin := roles.Group("", middleware.RequireAuthority(adminRank))
		{
			admin.POST("", m.Handler.CreateRole)
			admin.PUT("/:id", m.Handler.UpdateRole)
			admin.POST("/:id/deactivate", m.Handler.DeactivateRole)
			admin.DELETE("/:id", m.Handler.DeleteRole)
			admin.POST("/:id/assign", m.Handler.AssignRole)
			admin.POST("/:id/revoke", m.Handler.RevokeRole)
		}
	}
}
