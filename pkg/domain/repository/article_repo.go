/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-07-25 10:48:41
 * @LastEditTime: 2026-09-06 10:40:05
 * @LastEditors: 安知鱼
 */
package repository

import (
	"context"
	"time"

	"github.com/predelnews/predelnews-app/pkg/domain/model"
)

// ArticleScope 描述一次已发布文章查询的范围，零值字段表示不限制。
type ArticleScope struct {
	CategoryID   uint
	TagID        uint
	AuthorID     uint
	RegionID     uint
	OnlyFeatured bool
	OnlyBreaking bool
	// Since 只返回该时间之后发布的文章
	Since time.Time
}

// ArticleRepository 定义了文章数据仓库的接口。
// 返回的文章都已填充 Author、Category、Region 与 Tags。
type ArticleRepository interface {
	// FindByID 根据 ID 获取文章，不存在时返回 constant.ErrNotFound。
	FindByID(ctx context.Context, id uint) (*model.Article, error)

	// FindByIDs 按 ids 的顺序返回存在的文章。
	FindByIDs(ctx context.Context, ids []uint) ([]*model.Article, error)

	// FindBySlug 根据分类与文章 slug 获取文章，slug 比较不区分大小写。
	FindBySlug(ctx context.Context, categoryID uint, slug string) (*model.Article, error)

	// ExistsBySlug 检查 slug 是否已被 excludeID 以外的文章使用。
	ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error)

	// ListPublished 返回范围内所有已发布文章，按发布时间降序。
	ListPublished(ctx context.Context, scope ArticleScope) ([]*model.Article, error)

	// List 按 ID 升序分页遍历全部文章（包括草稿）。
	List(ctx context.Context, q PageQuery) (*PageResult[model.Article], error)

	// Create 保存新文章并回写 ID。
	Create(ctx context.Context, article *model.Article) error

	// Update 更新已有文章及其标签。
	Update(ctx context.Context, article *model.Article) error

	// Delete 删除文章。
	Delete(ctx context.Context, id uint) error

	// UpdateViewCounts 批量增加文章的浏览量。
	UpdateViewCounts(ctx context.Context, updates map[uint]int) error
}
