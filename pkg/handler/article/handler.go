/*
 * @Description: 文章接口：公开列表、详情、相关文章、浏览量与后台保存
 * @Author: 安知鱼
 * @Date: 2025-07-25 14:20:11
 * @LastEditTime: 2026-09-29 10:12:36
 * @LastEditors: 安知鱼
 */
package article

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/predelnews/predelnews-app/internal/pkg/auth"
	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/predelnews/predelnews-app/pkg/response"
	article_service "github.com/predelnews/predelnews-app/pkg/service/article"
	"github.com/predelnews/predelnews-app/pkg/service/query"
)

// Handler 封装了所有与文章相关的 HTTP 处理器。
type Handler struct {
	svc article_service.Service
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(svc article_service.Service) *Handler {
	return &Handler{svc: svc}
}

type pageLoader func(ctx context.Context, page, pageSize int) (*model.PagedResult[*model.ArticleSummary], error)

// respondPage 解析分页参数并返回一页文章，显式请求的页码超出范围时返回 404
func respondPage(c *gin.Context, load pageLoader) {
	p := query.GetPaginationParams(c.Request.URL.Query(), model.DefaultPageSize)
	result, err := load(c.Request.Context(), p.Page, p.PageSize)
	if err != nil {
		response.Error(c, err, "获取文章列表失败")
		return
	}
	if p.OutOfRange(result.TotalPages()) {
		response.Fail(c, http.StatusNotFound, "页码超出范围")
		return
	}
	response.Success(c, result, "获取成功")
}

// ListLatest
// @Summary      最新文章
// @Tags         文章
// @Produce      json
// @Param        page  query  int  false  "页码"  default(1)
// @Param        size  query  int  false  "每页数量"  default(20)
// @Success      200  {object}  response.Response{data=model.PagedResult[model.ArticleSummary]}
// @Failure      404  {object}  response.Response  "页码超出范围"
// @Router       /public/articles [get]
func (h *Handler) ListLatest(c *gin.Context) {
	respondPage(c, h.svc.GetLatest)
}

// ListByCategory 分类下的文章
func (h *Handler) ListByCategory(c *gin.Context) {
	slug := c.Param("slug")
	respondPage(c, func(ctx context.Context, page, pageSize int) (*model.PagedResult[*model.ArticleSummary], error) {
		return h.svc.GetByCategory(ctx, slug, page, pageSize)
	})
}

// ListByTag 标签下的文章
func (h *Handler) ListByTag(c *gin.Context) {
	slug := c.Param("slug")
	respondPage(c, func(ctx context.Context, page, pageSize int) (*model.PagedResult[*model.ArticleSummary], error) {
		return h.svc.GetByTag(ctx, slug, page, pageSize)
	})
}

// ListByAuthor 作者的文章
func (h *Handler) ListByAuthor(c *gin.Context) {
	slug := c.Param("slug")
	respondPage(c, func(ctx context.Context, page, pageSize int) (*model.PagedResult[*model.ArticleSummary], error) {
		return h.svc.GetByAuthor(ctx, slug, page, pageSize)
	})
}

// ListByRegion 地区下的文章
func (h *Handler) ListByRegion(c *gin.Context) {
	slug := c.Param("slug")
	respondPage(c, func(ctx context.Context, page, pageSize int) (*model.PagedResult[*model.ArticleSummary], error) {
		return h.svc.GetByRegion(ctx, slug, page, pageSize)
	})
}

// ListFeatured 精选文章
func (h *Handler) ListFeatured(c *gin.Context) {
	count := query.GetCount(c.Request.URL.Query(), "count", article_service.DefaultFeaturedCount)
	items, err := h.svc.GetFeatured(c.Request.Context(), count)
	if err != nil {
		response.Error(c, err, "获取精选文章失败")
		return
	}
	response.Success(c, items, "获取成功")
}

// ListBreaking 快讯
func (h *Handler) ListBreaking(c *gin.Context) {
	count := query.GetCount(c.Request.URL.Query(), "count", article_service.DefaultBreakingCount)
	items, err := h.svc.GetBreakingNews(c.Request.Context(), count)
	if err != nil {
		response.Error(c, err, "获取快讯失败")
		return
	}
	response.Success(c, items, "获取成功")
}

// ListMostRead
// @Summary      热门文章
// @Tags         文章
// @Produce      json
// @Param        days   query  int  false  "统计天数"  default(7)
// @Param        count  query  int  false  "数量"  default(10)
// @Success      200  {object}  response.Response{data=[]model.ArticleSummary}
// @Router       /public/articles/most-read [get]
func (h *Handler) ListMostRead(c *gin.Context) {
	q := c.Request.URL.Query()
	days := query.GetCount(q, "days", article_service.DefaultMostReadDays)
	count := query.GetCount(q, "count", article_service.DefaultMostReadCount)
	items, err := h.svc.GetMostRead(c.Request.Context(), days, count)
	if err != nil {
		response.Error(c, err, "获取热门文章失败")
		return
	}
	response.Success(c, items, "获取成功")
}

// Get 根据公共ID获取文章详情
func (h *Handler) Get(c *gin.Context) {
	a, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err, "获取文章失败")
		return
	}
	response.Success(c, a, "获取成功")
}

// GetBySlug 根据分类 slug 与文章 slug 获取文章详情
func (h *Handler) GetBySlug(c *gin.Context) {
	a, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"), c.Param("articleSlug"))
	if err != nil {
		response.Error(c, err, "获取文章失败")
		return
	}
	response.Success(c, a, "获取成功")
}

// ListRelated
// @Summary      相关文章
// @Description  默认按标签重合度计算；mode=weighted 时综合标签、分类、地区与发布时间
// @Tags         文章
// @Produce      json
// @Param        id     path   string  true   "文章公共ID"
// @Param        mode   query  string  false  "weighted"
// @Param        count  query  int     false  "数量"  default(5)
// @Success      200  {object}  response.Response{data=[]model.ArticleSummary}
// @Failure      404  {object}  response.Response  "文章不存在"
// @Router       /public/articles/{id}/related [get]
func (h *Handler) ListRelated(c *gin.Context) {
	var (
		items []*model.ArticleSummary
		err   error
	)
	if c.Query("mode") == "weighted" {
		items, err = h.svc.GetRelatedWeighted(c.Request.Context(), c.Param("id"))
	} else {
		count := query.GetCount(c.Request.URL.Query(), "count", article_service.DefaultRelatedCount)
		items, err = h.svc.GetRelated(c.Request.Context(), c.Param("id"), count)
	}
	if err != nil {
		response.Error(c, err, "获取相关文章失败")
		return
	}
	response.Success(c, items, "获取成功")
}

// RecordView 记录一次浏览
func (h *Handler) RecordView(c *gin.Context) {
	if err := h.svc.IncrementViewCount(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err, "记录浏览量失败")
		return
	}
	response.Success(c, nil, "记录成功")
}

// actorFrom 取出认证中间件写入的用户信息，未登录时返回 nil
func actorFrom(c *gin.Context) *auth.CustomClaims {
	value, ok := c.Get(auth.ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*auth.CustomClaims)
	return claims
}

// Create
// @Summary      创建文章
// @Tags         文章管理
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        article  body  model.SaveArticleRequest  true  "文章内容"
// @Success      201  {object}  response.Response{data=model.ArticleResponse}
// @Failure      400  {object}  response.Response  "请求参数错误"
// @Failure      403  {object}  response.Response  "权限不足"
// @Router       /admin/articles [post]
func (h *Handler) Create(c *gin.Context) {
	var req model.SaveArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}
	a, err := h.svc.Save(c.Request.Context(), actorFrom(c), "", &req)
	if err != nil {
		response.Error(c, err, "创建文章失败")
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, a, "创建成功")
}

// Update 更新文章
func (h *Handler) Update(c *gin.Context) {
	var req model.SaveArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}
	a, err := h.svc.Save(c.Request.Context(), actorFrom(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err, "更新文章失败")
		return
	}
	response.Success(c, a, "更新成功")
}

// Delete 删除文章
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err, "删除文章失败")
		return
	}
	response.Success(c, nil, "删除成功")
}

type previewSlugRequest struct {
	Title     string `json:"title" binding:"required"`
	ArticleID string `json:"article_id"`
}

// PreviewSlug 预览标题对应的可用 slug
func (h *Handler) PreviewSlug(c *gin.Context) {
	var req previewSlugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}
	slug, err := h.svc.PreviewSlug(c.Request.Context(), req.Title, req.ArticleID)
	if err != nil {
		response.Error(c, err, "生成 slug 失败")
		return
	}
	response.Success(c, gin.H{"slug": slug}, "生成成功")
}
