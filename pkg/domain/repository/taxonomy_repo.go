/*
 * @Description: 分类法数据仓库接口
 * @Author: 安知鱼
 * @Date: 2026-09-06 11:02:48
 * @LastEditTime: 2026-09-20 17:31:12
 * @LastEditors: 安知鱼
 */
package repository

import (
	"context"

	"github.com/predelnews/predelnews-app/pkg/domain/model"
)

// TaxonomyRepository 是分类、地区、标签、作者共用的仓储行为。
// 查找不到时返回 constant.ErrNotFound，slug 比较不区分大小写。
type TaxonomyRepository[T any] interface {
	List(ctx context.Context) ([]*T, error)
	FindByID(ctx context.Context, id uint) (*T, error)
	FindBySlug(ctx context.Context, slug string) (*T, error)
	// ExistsBySlug 检查 slug 是否已被 excludeID 以外的记录使用
	ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error)
	Create(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uint) error
}

type (
	CategoryRepository = TaxonomyRepository[model.Category]
	RegionRepository   = TaxonomyRepository[model.Region]
	TagRepository      = TaxonomyRepository[model.Tag]
	AuthorRepository   = TaxonomyRepository[model.Author]
)

// Repositories 聚合了所有仓储接口。
type Repositories struct {
	Article  ArticleRepository
	Category CategoryRepository
	Region   RegionRepository
	Tag      TagRepository
	Author   AuthorRepository
}
