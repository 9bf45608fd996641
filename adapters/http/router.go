package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authUC "github.com/melevanoronha/admin-console/internal/application/usecase/auth"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

type RouterDeps struct {
	Auth    *AuthHandler
	Catalog *CatalogHandler
	Media   *MediaHandler
	Session *authUC.Session
	Refresh *authUC.RefreshUseCase
	Logger  logger.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(d.Logger), ErrorMiddleware(d.Logger))

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	console := router.Group("/console")
	{
		console.POST("/login", d.Auth.Login)
		console.GET("/session", d.Auth.Session)

		private := console.Group("/")
		private.Use(RequireSession(d.Session, d.Refresh))
		{
			private.POST("/logout", d.Auth.Logout)
			private.GET("/toasts", d.Catalog.Toasts)

			entities := private.Group("/catalog")
			{
				entities.GET("", d.Catalog.Entities)
				entities.GET("/:entity", d.Catalog.List)
				entities.GET("/:entity/state", d.Catalog.State)
				entities.POST("/:entity/form", d.Catalog.ShowForm)
				entities.POST("/:entity/form/:id", d.Catalog.Edit)
				entities.DELETE("/:entity/form", d.Catalog.CloseForm)
				entities.POST("/:entity/submit", d.Catalog.Submit)
				entities.GET("/:entity/items/:id", d.Catalog.Details)
				entities.DELETE("/:entity/items/:id", d.Catalog.Delete)
				entities.GET("/:entity/items/:id/media", d.Catalog.MediaLinks)
				entities.DELETE("/:entity/details", d.Catalog.CloseDetails)
			}

			mediaViews := private.Group("/media")
			{
				mediaViews.PUT("/images/:slot", d.Media.SetImage)
				mediaViews.GET("/images/:slot", d.Media.GetImage)
				mediaViews.POST("/images/:slot/reload", d.Media.ReloadImage)
				mediaViews.DELETE("/images/:slot", d.Media.CloseImage)

				mediaViews.PUT("/videos/:slot", d.Media.SetVideo)
				mediaViews.GET("/videos/:slot", d.Media.GetVideo)
				mediaViews.POST("/videos/:slot/playback-error", d.Media.VideoPlaybackError)
				mediaViews.POST("/videos/:slot/playback-ready", d.Media.VideoPlaybackReady)
				mediaViews.POST("/videos/:slot/download", d.Media.DownloadVideo)
				mediaViews.DELETE("/videos/:slot", d.Media.CloseVideo)
			}

			private.GET("/blob/:id", d.Media.ServeBlob)
		}
	}
	return router
}
