package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dtroode/pushlogin/internal/api/http/handler"
	"github.com/dtroode/pushlogin/internal/api/http/middleware"
	"github.com/dtroode/pushlogin/internal/logger"
)

// New builds the agent API engine.
func New(login *handler.Login, authorizer middleware.Authorizer, logger *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logging(logger))

	api := r.Group("/api/v1")
	{
		api.POST("/login", login.Start)
		api.GET("/login/:id", login.Get)
		api.DELETE("/login/:id", login.Cancel)
		api.POST("/logout", login.Logout)
		api.POST("/verification/refresh", login.RefreshVerification)
		api.GET("/gate", login.Gate)

		protected := api.Group("")
		protected.Use(middleware.Gate(authorizer))
		protected.GET("/me", login.Me)
	}

	return r
}
