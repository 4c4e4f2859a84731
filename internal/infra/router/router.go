/*
 * @Description: API 路由表
 * @Author: 安知鱼
 * @Date: 2025-06-15 11:30:55
 * @LastEditTime: 2026-09-29 14:08:52
 * @LastEditors: 安知鱼
 */
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/predelnews/predelnews-app/internal/app/middleware"
	article_handler "github.com/predelnews/predelnews-app/pkg/handler/article"
	search_handler "github.com/predelnews/predelnews-app/pkg/handler/search"
	taxonomy_handler "github.com/predelnews/predelnews-app/pkg/handler/taxonomy"
	version_handler "github.com/predelnews/predelnews-app/pkg/handler/version"
)

// NoCacheMiddleware 全局反缓存中间件，确保所有API响应都不会被CDN缓存
func NoCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Next()
	}
}

// Router 封装了应用的所有路由和其依赖的处理器。
type Router struct {
	articleHandler  *article_handler.Handler
	taxonomyHandler *taxonomy_handler.Handler
	searchHandler   *search_handler.Handler
	versionHandler  *version_handler.Handler
	mw              *middleware.Middleware
	searchLimiter   *middleware.IPRateLimiter
}

// NewRouter 是 Router 的构造函数，通过依赖注入接收所有处理器。
func NewRouter(
	articleHandler *article_handler.Handler,
	taxonomyHandler *taxonomy_handler.Handler,
	searchHandler *search_handler.Handler,
	versionHandler *version_handler.Handler,
	mw *middleware.Middleware,
	searchLimiter *middleware.IPRateLimiter,
) *Router {
	return &Router{
		articleHandler:  articleHandler,
		taxonomyHandler: taxonomyHandler,
		searchHandler:   searchHandler,
		versionHandler:  versionHandler,
		mw:              mw,
		searchLimiter:   searchLimiter,
	}
}

// Setup 将所有路由注册到 Gin 引擎。
func (r *Router) Setup(engine *gin.Engine) {
	apiGroup := engine.Group("/api")
	apiGroup.Use(NoCacheMiddleware())

	r.registerArticleRoutes(apiGroup)
	r.registerTaxonomyRoutes(apiGroup)
	r.registerSearchRoutes(apiGroup)
	r.registerAdminRoutes(apiGroup)
	r.registerVersionRoutes(apiGroup)
}

func (r *Router) registerArticleRoutes(api *gin.RouterGroup) {
	articlesPublic := api.Group("/public/articles")
	{
		articlesPublic.GET("", r.articleHandler.ListLatest)
		articlesPublic.GET("/featured", r.articleHandler.ListFeatured)
		articlesPublic.GET("/breaking", r.articleHandler.ListBreaking)
		articlesPublic.GET("/most-read", r.articleHandler.ListMostRead)
		articlesPublic.GET("/:id", r.articleHandler.Get)
		articlesPublic.GET("/:id/related", r.articleHandler.ListRelated)
		articlesPublic.POST("/:id/view", r.articleHandler.RecordView)
	}
}

func (r *Router) registerTaxonomyRoutes(api *gin.RouterGroup) {
	public := api.Group("/public")
	{
		public.GET("/categories", r.taxonomyHandler.ListCategories)
		public.GET("/categories/:slug/articles", r.articleHandler.ListByCategory)
		public.GET("/categories/:slug/articles/:articleSlug", r.articleHandler.GetBySlug)

		public.GET("/tags", r.taxonomyHandler.ListTags)
		public.GET("/tags/popular", r.taxonomyHandler.ListPopularTags)
		public.GET("/tags/:slug/articles", r.articleHandler.ListByTag)

		public.GET("/regions", r.taxonomyHandler.ListRegions)
		public.GET("/regions/:slug/articles", r.articleHandler.ListByRegion)

		public.GET("/authors", r.taxonomyHandler.ListAuthors)
		public.GET("/authors/:slug/articles", r.articleHandler.ListByAuthor)
	}
}

func (r *Router) registerSearchRoutes(api *gin.RouterGroup) {
	searchGroup := api.Group("/search")
	if r.searchLimiter != nil {
		searchGroup.Use(middleware.RateLimit(r.searchLimiter))
	}
	{
		searchGroup.GET("", r.searchHandler.Search)
		searchGroup.GET("/suggestions", r.searchHandler.Suggestions)
	}
}

func (r *Router) registerAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin").Use(r.mw.JWTAuth(), r.mw.AdminAuth())
	{
		admin.POST("/articles", r.articleHandler.Create)
		admin.PUT("/articles/:id", r.articleHandler.Update)
		admin.DELETE("/articles/:id", r.articleHandler.Delete)
		admin.POST("/slug", r.articleHandler.PreviewSlug)

		admin.POST("/categories", r.taxonomyHandler.CreateCategory)
		admin.DELETE("/categories/:id", r.taxonomyHandler.DeleteCategory)
		admin.POST("/regions", r.taxonomyHandler.CreateRegion)
		admin.DELETE("/regions/:id", r.taxonomyHandler.DeleteRegion)
		admin.POST("/tags", r.taxonomyHandler.CreateTag)
		admin.POST("/authors", r.taxonomyHandler.CreateAuthor)
	}
}

func (r *Router) registerVersionRoutes(api *gin.RouterGroup) {
	api.GET("/public/version", r.versionHandler.GetVersion)
}
