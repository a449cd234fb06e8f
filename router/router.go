// api/router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/conditioncraft/composer/api/config"
	"github.com/conditioncraft/composer/api/controller"
	"github.com/conditioncraft/composer/api/middleware"
)

func SetupRouter(
	controllers *controller.Controllers,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))
	router.Use(middleware.GroupAuthMiddleware(config.GetStringSlice("auth.admin.groups")))

	api := router.Group("/api/v1")

	controllers.Session.RegisterRoutes(api)
	controllers.Catalog.RegisterRoutes(api)
	controllers.Template.RegisterRoutes(api)
	controllers.Directory.RegisterRoutes(api)
	controllers.Audit.RegisterRoutes(api)

	return router
}
