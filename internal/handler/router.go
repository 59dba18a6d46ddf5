package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pagemill/pagemill/internal/middleware"
)

type RouterDeps struct {
	Collections *CollectionHandler
	Contents    *ContentHandler
	Versions    *VersionHandler
	Releases    *ReleaseHandler
	Locks       *LockHandler
	Export      *ExportHandler
	JWTSecret   []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))

	authGroup.POST("/collections", deps.Collections.Create)
	authGroup.GET("/collections", deps.Collections.List)
	authGroup.GET("/collections/:id", deps.Collections.Get)
	authGroup.DELETE("/collections/:id", deps.Collections.Delete)

	authGroup.POST("/collections/:id/contents", deps.Contents.Create)
	authGroup.GET("/collections/:id/contents", deps.Contents.List)
	authGroup.GET("/contents/:id", deps.Contents.Get)
	authGroup.PUT("/contents/:id", deps.Contents.Update)
	authGroup.DELETE("/contents/:id", deps.Contents.Delete)
	authGroup.GET("/contents/:id/elements", deps.Contents.Flatten)
	authGroup.POST("/contents/:id/elements/:eid/move", deps.Contents.Move)
	authGroup.GET("/contents/:id/at/:release", deps.Contents.GetAtRelease)

	authGroup.GET("/contents/:id/versions", deps.Versions.List)
	authGroup.GET("/contents/:id/versions/diff", deps.Versions.Diff)
	authGroup.GET("/contents/:id/versions/purgeable", deps.Versions.CountPurgeable)
	authGroup.POST("/contents/:id/versions/purge", deps.Versions.Purge)
	authGroup.POST("/contents/:id/versions/mark-release-end", deps.Versions.MarkReleaseEnd)
	authGroup.GET("/contents/:id/versions/:version", deps.Versions.Get)
	authGroup.POST("/contents/:id/versions/:version/restore", deps.Versions.Restore)

	authGroup.POST("/contents/:id/lock", deps.Locks.Acquire)
	authGroup.GET("/contents/:id/lock", deps.Locks.Get)
	authGroup.DELETE("/contents/:id/lock", deps.Locks.Release)

	authGroup.POST("/collections/:id/releases", deps.Releases.Create)
	authGroup.GET("/collections/:id/releases", deps.Releases.List)
	authGroup.GET("/collections/:id/releases/:release", deps.Releases.Get)
	authGroup.GET("/collections/:id/releases/:release/contents", deps.Releases.Resolve)

	authGroup.POST("/collections/:id/releases/:release/export",
		middleware.RateLimit(time.Second), deps.Export.Export)
	authGroup.GET("/exports/:key", deps.Export.Download)
}
