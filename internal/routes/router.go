package routes

import (
	"github.com/gin-gonic/gin"

	"taskboard/internal/controller"
	"taskboard/internal/middleware"
	"taskboard/internal/token"
)

// Router assembles the HTTP surface: public auth endpoints, the
// optional-auth session probe, and the JWT-gated task CRUD group.
func Router(codec *token.Codec, auth *controller.AuthController, tasks *controller.TaskController, health *controller.HealthController) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())

	// Health for load balancers and K8s probes
	router.GET("/health", health.Health)
	router.GET("/ready", health.Ready)

	// Public: no auth
	router.POST("/auth/sign-up", auth.SignUp)
	router.POST("/auth/sign-in", auth.SignIn)
	router.POST("/auth/sign-out", auth.SignOut)

	// Probe: identity optional, never rejects
	router.GET("/auth/session", middleware.OptionalAuth(codec), auth.Session)

	// Protected: JWT required
	authed := router.Group("")
	authed.Use(middleware.RequireAuth(codec))
	{
		authed.GET("/auth/me", auth.Me)
		authed.GET("/auth/verify", auth.Verify)

		authed.POST("/tasks", tasks.Create)
		authed.GET("/tasks", tasks.List)
		authed.GET("/tasks/:id", tasks.Get)
		authed.PUT("/tasks/:id", tasks.Update)
		authed.DELETE("/tasks/:id", tasks.Delete)
		authed.PATCH("/tasks/:id/complete", tasks.ToggleComplete)
	}

	return router
}
