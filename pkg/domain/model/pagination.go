/*
 * @Description: 通用分页结果
 * @Author: 安知鱼
 * @Date: 2026-09-03 09:42:55
 * @LastEditTime: 2026-10-14 10:21:37
 * @LastEditors: 安知鱼
 */
package model

import "encoding/json"

// DefaultPageSize 列表与搜索的默认每页条数
const DefaultPageSize = 20

// PagedResult 是一页有序数据及其分页元信息，PageNumber 从 1 开始
type PagedResult[T any] struct {
	Items      []T
	TotalItems int
	PageNumber int
	PageSize   int
}

// NewPagedResult 构造分页结果
func NewPagedResult[T any](items []T, totalItems, pageNumber, pageSize int) *PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PagedResult[T]{
		Items:      items,
		TotalItems: totalItems,
		PageNumber: pageNumber,
		PageSize:   pageSize,
	}
}

// EmptyPagedResult 返回第 1 页的空结果，pageSize<=0 时使用默认值
func EmptyPagedResult[T any](pageSize int) *PagedResult[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return NewPagedResult[T](nil, 0, 1, pageSize)
}

// TotalPages = ceil(TotalItems / PageSize)
func (p *PagedResult[T]) TotalPages() int {
	if p.PageSize <= 0 || p.TotalItems <= 0 {
		return 0
	}
	return (p.TotalItems-1)/p.PageSize + 1
}

// HasPreviousPage 当前页是否有上一页
func (p *PagedResult[T]) HasPreviousPage() bool {
	return p.PageNumber > 1
}

// HasNextPage 当前页是否有下一页
func (p *PagedResult[T]) HasNextPage() bool {
	return p.PageNumber < p.TotalPages()
}

type pagedResultJSON[T any] struct {
	Items           []T  `json:"items"`
	TotalItems      int  `json:"total_items"`
	PageNumber      int  `json:"page_number"`
	PageSize        int  `json:"page_size"`
	TotalPages      int  `json:"total_pages"`
	HasPreviousPage bool `json:"has_previous_page"`
	HasNextPage     bool `json:"has_next_page"`
}

// MarshalJSON 输出时附带派生的分页字段
func (p PagedResult[T]) MarshalJSON() ([]byte, error) {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return json.Marshal(pagedResultJSON[T]{
		Items:           items,
		TotalItems:      p.TotalItems,
		PageNumber:      p.PageNumber,
		PageSize:        p.PageSize,
		TotalPages:      p.TotalPages(),
		HasPreviousPage: p.HasPreviousPage(),
		HasNextPage:     p.HasNextPage(),
	})
}

// UnmarshalJSON 读取缓存中的分页结果，派生字段会被忽略
func (p *PagedResult[T]) UnmarshalJSON(data []byte) error {
	var raw pagedResultJSON[T]
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Items = raw.Items
	p.TotalItems = raw.TotalItems
	p.PageNumber = raw.PageNumber
	p.PageSize = raw.PageSize
	return nil
}
