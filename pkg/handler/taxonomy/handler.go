/*
 * @Description: 分类、地区、标签与作者接口
 * @Author: 安知鱼
 * @Date: 2025-06-28 15:32:10
 * @LastEditTime: 2026-09-29 11:05:44
 * @LastEditors: 安知鱼
 */
package taxonomy

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/predelnews/predelnews-app/pkg/response"
	"github.com/predelnews/predelnews-app/pkg/service/query"
	taxonomy_service "github.com/predelnews/predelnews-app/pkg/service/taxonomy"
)

// Handler 封装了分类体系相关的 HTTP 处理器。
type Handler struct {
	svc taxonomy_service.Service
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(svc taxonomy_service.Service) *Handler {
	return &Handler{svc: svc}
}

// ListCategories
// @Summary      获取分类列表
// @Description  按排序值与名称排序，附带已发布文章数
// @Tags         分类
// @Produce      json
// @Success      200 {object} response.Response{data=[]model.CategoryResponse} "成功响应"
// @Failure      500 {object} response.Response "服务器内部错误"
// @Router       /public/categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	items, err := h.svc.GetAllCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err, "获取分类列表失败")
		return
	}
	response.Success(c, items, "获取成功")
}

// ListRegions 获取地区列表
func (h *Handler) ListRegions(c *gin.Context) {
	items, err := h.svc.GetAllRegions(c.Request.Context())
	if err != nil {
		response.Error(c, err, "获取地区列表失败")
		return
	}
	response.Success(c, items, "获取成功")
}

// ListTags 获取标签列表
func (h *Handler) ListTags(c *gin.Context) {
	items, err := h.svc.GetAllTags(c.Request.Context())
	if err != nil {
		response.Error(c, err, "获取标签列表失败")
		return
	}
	response.Success(c, items, "获取成功")
}

// ListPopularTags 获取热门标签
func (h *Handler) ListPopularTags(c *gin.Context) {
	count := query.GetCount(c.Request.URL.Query(), "count", taxonomy_service.DefaultPopularTagCount)
	items, err := h.svc.GetPopularTags(c.Request.Context(), count)
	if err != nil {
		response.Error(c, err, "获取热门标签失败")
		return
	}
	response.Success(c, items, "获取成功")
}

// ListAuthors 获取作者列表
func (h *Handler) ListAuthors(c *gin.Context) {
	items, err := h.svc.GetAllAuthors(c.Request.Context())
	if err != nil {
		response.Error(c, err, "获取作者列表失败")
		return
	}
	response.Success(c, items, "获取成功")
}

// CreateCategory
// @Summary      创建分类
// @Tags         分类
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        category body model.SaveCategoryRequest true "创建分类的请求体"
// @Success      201 {object} response.Response{data=model.CategoryResponse} "成功响应"
// @Failure      400 {object} response.Response "请求参数错误"
// @Router       /admin/categories [post]
func (h *Handler) CreateCategory(c *gin.Context) {
	var req model.SaveCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}
	item, err := h.svc.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err, "创建分类失败")
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, item, "创建成功")
}

// CreateRegion 创建地区
func (h *Handler) CreateRegion(c *gin.Context) {
	var req model.SaveRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}
	item, err := h.svc.CreateRegion(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err, "创建地区失败")
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, item, "创建成功")
}

// CreateTag 创建标签
func (h *Handler) CreateTag(c *gin.Context) {
	var req model.SaveTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}
	item, err := h.svc.CreateTag(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err, "创建标签失败")
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, item, "创建成功")
}

// CreateAuthor 创建作者
func (h *Handler) CreateAuthor(c *gin.Context) {
	var req model.SaveAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}
	item, err := h.svc.CreateAuthor(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err, "创建作者失败")
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, item, "创建成功")
}

// DeleteCategory
// @Summary      删除分类
// @Description  仍有文章引用该分类时拒绝删除
// @Tags         分类
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "分类公共ID"
// @Success      200 {object} response.Response "删除成功"
// @Failure      409 {object} response.Response "分类仍被文章使用"
// @Router       /admin/categories/{id} [delete]
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.svc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err, "删除分类失败")
		return
	}
	response.Success(c, nil, "删除成功")
}

// DeleteRegion 删除地区
func (h *Handler) DeleteRegion(c *gin.Context) {
	if err := h.svc.DeleteRegion(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err, "删除地区失败")
		return
	}
	response.Success(c, nil, "删除成功")
}
