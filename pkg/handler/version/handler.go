/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-09-26 09:52:32
 * @LastEditTime: 2026-09-29 14:12:40
 * @LastEditors: 安知鱼
 */
package version

import (
	"github.com/gin-gonic/gin"

	"github.com/predelnews/predelnews-app/internal/pkg/version"
	"github.com/predelnews/predelnews-app/pkg/response"
)

// Handler 版本信息处理器
type Handler struct{}

// NewHandler 创建版本信息处理器实例
func NewHandler() *Handler {
	return &Handler{}
}

// GetVersion 获取版本信息
// @Summary      获取版本信息
// @Tags         辅助工具
// @Produce      json
// @Success      200  {object}  response.Response{data=version.BuildInfo}  "版本信息"
// @Router       /public/version [get]
func (h *Handler) GetVersion(c *gin.Context) {
	response.Success(c, version.GetBuildInfo(), "获取版本信息成功")
}
