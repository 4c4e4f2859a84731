/*
 * @Description: 搜索处理器
 * @Author: 安知鱼
 * @Date: 2025-01-27 10:00:00
 * @LastEditTime: 2026-09-29 10:40:27
 * @LastEditors: 安知鱼
 */
package search

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/predelnews/predelnews-app/pkg/response"
	"github.com/predelnews/predelnews-app/pkg/service/query"
	"github.com/predelnews/predelnews-app/pkg/service/ranking"
	"github.com/predelnews/predelnews-app/pkg/service/search"
)

type Handler struct {
	searchService search.Service
	pageSize      int
}

// NewHandler pageSize 为搜索结果的默认每页条数
func NewHandler(searchService search.Service, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}
	return &Handler{
		searchService: searchService,
		pageSize:      pageSize,
	}
}

// Search 搜索接口
// @Summary      搜索
// @Description  按关键词搜索已发布文章，所有关键词都需命中标题、摘要或正文
// @Tags         全站搜索
// @Produce      json
// @Param        q     query  string  false  "搜索关键词"
// @Param        page  query  int     false  "页码"  default(1)
// @Param        size  query  int     false  "每页数量"  default(20)
// @Success      200  {object}  response.Response{data=model.SearchResult}  "搜索成功"
// @Failure      404  {object}  response.Response  "页码超出范围"
// @Failure      500  {object}  response.Response  "搜索失败"
// @Router       /search [get]
func (h *Handler) Search(c *gin.Context) {
	p := query.GetPaginationParams(c.Request.URL.Query(), h.pageSize)

	result, err := h.searchService.Search(c.Request.Context(), &model.SearchRequest{
		Query: c.Query("q"),
		Page:  p.Page,
		Size:  p.PageSize,
	})
	if err != nil {
		response.Error(c, err, "搜索失败")
		return
	}
	if p.OutOfRange(result.Articles.TotalPages()) {
		response.Fail(c, http.StatusNotFound, "页码超出范围")
		return
	}

	response.Success(c, result, "搜索成功")
}

// Suggestions 搜索建议
// @Summary      搜索建议
// @Tags         全站搜索
// @Produce      json
// @Param        q      query  string  true   "查询串，至少 2 个字符"
// @Param        count  query  int     false  "数量"  default(10)
// @Success      200  {object}  response.Response{data=[]string}
// @Router       /search/suggestions [get]
func (h *Handler) Suggestions(c *gin.Context) {
	items, err := h.searchService.Suggestions(c.Request.Context(), &model.SuggestionsRequest{
		Query: c.Query("q"),
		Count: query.GetCount(c.Request.URL.Query(), "count", ranking.DefaultSuggestionCount),
	})
	if err != nil {
		response.Error(c, err, "获取搜索建议失败")
		return
	}
	response.Success(c, items, "获取成功")
}
