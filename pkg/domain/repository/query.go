/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-06-21 19:42:38
 * @LastEditTime: 2026-10-14 10:21:37
 * @LastEditors: 安知鱼
 */
package repository

import "math"

// PageQuery 包含了所有列表查询都通用的分页参数，Page 从 1 开始。
type PageQuery struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"pageSize" json:"pageSize"`
}

// Normalize 修正非法的页码与每页条数
func (q PageQuery) Normalize(defaultSize int) PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultSize
	}
	return q
}

// Offset 返回 SQL 的偏移量，调用前应先 Normalize。
// 乘积溢出时返回 math.MaxInt，结果为空页。
func (q PageQuery) Offset() int {
	if q.Page <= 1 || q.PageSize <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.PageSize {
		return math.MaxInt
	}
	return (q.Page - 1) * q.PageSize
}

// PageResult 包含了所有分页查询返回的通用结构。
type PageResult[T any] struct {
	Items []*T  `json:"items"`
	Total int64 `json:"total"`
}
