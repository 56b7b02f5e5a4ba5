package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yoraldineaminah-commits/version20/internal/config"
	"github.com/yoraldineaminah-commits/version20/internal/http/handler"
	httpmiddleware "github.com/yoraldineaminah-commits/version20/internal/http/middleware"
	"github.com/yoraldineaminah-commits/version20/internal/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(cfg config.Config, authHandler *handler.AuthHandler, userHandler *handler.UserHandler, authMiddleware *httpmiddleware.Auth, rateLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/check-email", authHandler.CheckEmail)
		auth.POST("/create-password", authHandler.CreatePassword)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/init-admin", authHandler.InitAdmin)

		register := auth.Group("/register")
		{
			register.POST("/admin", authHandler.RegisterAdmin)
			register.POST("/supervisor", authHandler.RegisterSupervisor)
			register.POST("/intern", authHandler.RegisterIntern)
		}

		auth.GET("/me", authMiddleware.ValidateJWT, authHandler.Me)
	}

	supervisors := api.Group("/supervisors", authMiddleware.ValidateJWT)
	{
		supervisors.GET("", userHandler.ListSupervisors)
		supervisors.GET("/:id", userHandler.GetSupervisor)
		supervisors.GET("/:id/interns", userHandler.ListSupervisorInterns)
		supervisors.PUT("/:id", userHandler.UpdateSupervisor)
	}

	interns := api.Group("/interns", authMiddleware.ValidateJWT)
	{
		interns.GET("", userHandler.ListInterns)
		interns.GET("/:id", userHandler.GetIntern)
		interns.PUT("/:id", userHandler.UpdateIntern)
	}

	return r
}
