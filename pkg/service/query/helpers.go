/*
 * @Description: 列表接口的分页参数解析
 * @Author: 安知鱼
 * @Date: 2025-06-26 16:57:56
 * @LastEditTime: 2026-09-28 17:20:31
 * @LastEditors: 安知鱼
 */
package query

import (
	"strconv"

	"github.com/predelnews/predelnews-app/pkg/domain/model"
)

// MaxPageSize 每页条数上限
const MaxPageSize = 100

// Pagination 是从查询参数解析出的分页信息
type Pagination struct {
	Page     int
	PageSize int
	// Explicit 表示请求中带了合法的 page 参数
	Explicit bool
}

// GetPaginationParams 从查询参数中解析分页信息。
// page 缺失、非数字或小于 1 时为 1；size（或 pageSize）缺失时使用 defaultSize，超过上限时截断。
func GetPaginationParams(query map[string][]string, defaultSize int) Pagination {
	if defaultSize <= 0 {
		defaultSize = model.DefaultPageSize
	}
	p := Pagination{Page: 1, PageSize: defaultSize}

	if v, ok := first(query, "page"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Page = n
			p.Explicit = true
		}
	}
	if v, ok := first(query, "size", "pageSize"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.PageSize = n
		}
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// OutOfRange 显式请求的页码超过了总页数
func (p Pagination) OutOfRange(totalPages int) bool {
	return p.Explicit && totalPages > 0 && p.Page > totalPages
}

// GetCount 解析数量类参数，非法或缺失时返回 fallback
func GetCount(query map[string][]string, key string, fallback int) int {
	if v, ok := first(query, key); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func first(query map[string][]string, keys ...string) (string, bool) {
	for _, key := range keys {
		if values := query[key]; len(values) > 0 && values[0] != "" {
			return values[0], true
		}
	}
	return "", false
}
