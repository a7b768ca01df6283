package router

import (
	"github.com/mustafa-mbari/wmsv1-sub001/internal/application"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/container"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/infrastructure/messaging"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/infrastructure/postgres"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/infrastructure/search"
	handlers "github.com/mustafa-mbari/wmsv1-sub001/internal/interface/http"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/router/modules"
)

// InitModules builds the repositories, use cases and handlers from the
// container singletons and registers every feature module. Called once at
// startup after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	userRepo := postgres.NewUserRepository(container.GetPGPool())
	roleRepo := postgres.NewRoleRepository(container.GetPGPool())

	dispatcher := messaging.NewRabbitDispatcher(container.GetRabbitPub(), logger)
	userIndex := search.NewUserIndex(container.GetES(), cfg.ESUsersIndex, logger)

	authSvc := application.NewAuthService(
		userRepo, roleRepo,
		container.GetJWT(), container.GetRedis(),
		container.GetGCS(), cfg.GCSBucket,
		dispatcher, userIndex, logger,
	)

	userHandler := handlers.NewUserHandler(
		application.NewCreateUserUseCase(userRepo, dispatcher, userIndex, logger),
		application.NewGetUserByIDUseCase(userRepo),
		application.NewUpdateUserUseCase(userRepo, dispatcher, userIndex, logger),
		application.NewGetUsersWithPaginationUseCase(userRepo),
		application.NewUserLifecycleUseCase(userRepo, dispatcher, userIndex, logger),
		authSvc,
		logger,
	)
	roleHandler := handlers.NewRoleHandler(
		application.NewRoleUseCases(roleRepo, userRepo, dispatcher, logger),
		logger,
	)
	authHandler := handlers.NewAuthHandler(authSvc, logger, cfg.CookieDomain, cfg.CookieSecure)

	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewUserModule(userHandler))
	r.Add(modules.NewRoleModule(roleHandler))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
