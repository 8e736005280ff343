package routing

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"mizan/internal/handlers"
)

// InitMiddleware - recover, request logging through zap, and CORS for the frontend
func InitMiddleware(e *echo.Echo, frontendURL string, logger *zap.Logger) {
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Debug("request", fields...)
			return nil
		},
	}))
	if frontendURL != "" {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     []string{frontendURL},
			AllowMethods:     []string{echo.GET, echo.POST, echo.PATCH, echo.DELETE, echo.OPTIONS},
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
		}))
	}
}

// InitRoutes - every api route, plus the volume files themselves under /data when dataDir is set
func InitRoutes(e *echo.Echo, handler *handlers.Handler, dataDir string) {
	api := e.Group("/api")

	volumes := api.Group("/volumes")
	volumes.GET("", handler.GetVolumesHandler)
	volumes.GET("/:volume", handler.GetVolumeHandler)
	volumes.GET("/:volume/chapters/:chapter", handler.GetChapterHandler)

	hadith := volumes.Group("/:volume/chapters/:chapter/sections/:section/hadiths/:hadith")
	hadith.GET("/share", handler.ShareTextHandler)
	hadith.POST("/share/image", handler.ShareImageHandler)

	search := api.Group("/search")
	search.GET("", handler.SearchHandler)
	search.GET("/headings", handler.SearchHeadingsHandler)
	search.GET("/semantic", handler.SemanticSearchHandler)
	search.GET("/live", handler.LiveSearchHandler)

	settings := api.Group("/settings")
	settings.GET("", handler.GetSettingsHandler)
	settings.PATCH("", handler.UpdateSettingsHandler)
	settings.DELETE("", handler.ResetSettingsHandler)

	if dataDir != "" {
		e.Static("/data", dataDir)
	}
}
