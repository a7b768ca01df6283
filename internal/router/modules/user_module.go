package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/container"
	handlers "github.com/mustafa-mbari/wmsv1-sub001/internal/interface/http"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/interface/middleware"
)

// UserModule registers the user management surface under /api/users. All
// routes require a session; mutating routes additionally require manager
// authority or better, and destructive batch routes admin authority.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

const (
	adminRank   = 1 // super-admin, admin
	managerRank = 2 // and above
)

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	users := rg.Group("/users")
	users.Use(
		middleware.Auth(rdb, container.GetJWT()),
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		// Self-service
		users.GET("/me", m.Handler.GetMe)
		users.POST("/me/avatar", m.Handler.UploadAvatar)

		// Reads
		users.GET("", m.Handler.ListUsers)
		users.GET("/search", m.Handler.SearchUsers)
		users.GET("/:id", m.Handler.GetUser)

		// Writes
		manage := users.Group("", middleware.RequireAuthority(managerRank))
		{
			manage.POST("", m.Handler.CreateUser)
			manage.PUT("/:id", m.Handler.UpdateUser)
			manage.POST("/:id/activate", m.Handler.ActivateUser)
			manage.POST("/:id/deactivate", m.Handler.DeactivateUser)
		}
		users.POST("/:id/password", m.Handler.ChangePassword)

		// Destructive batches
		admin := users.Group("", middleware.RequireAuthority(adminRank))
		{
			admin.POST("/delete", m.Handler.DeleteUsers)
			admin.POST("/restore", m.Handler.RestoreUsers)
			admin.POST("/purge", m.Handler.PurgeUsers)
		}
	}
}
