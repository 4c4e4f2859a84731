/*
 * @Description: 内存分页
 * @Author: 安知鱼
 * @Date: 2026-09-04 16:12:44
 * @LastEditTime: 2026-10-14 10:21:37
 * @LastEditors: 安知鱼
 */
package ranking

import "github.com/predelnews/predelnews-app/pkg/domain/model"

// Paginate 截取 [(page-1)*pageSize, page*pageSize) 区间，超出末页时返回空页。
// page<1 视为 1，pageSize<=0 使用默认值。
func Paginate[T any](items []T, page, pageSize int) *model.PagedResult[T] {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}

	total := len(items)
	// 先比较页码再相乘，避免超大页码溢出
	if total == 0 || page-1 > (total-1)/pageSize {
		return model.NewPagedResult[T](nil, total, page, pageSize)
	}
	start := (page - 1) * pageSize
	end := total
	if pageSize < total-start {
		end = start + pageSize
	}

	pageItems := make([]T, end-start)
	copy(pageItems, items[start:end])
	return model.NewPagedResult(pageItems, total, page, pageSize)
}
