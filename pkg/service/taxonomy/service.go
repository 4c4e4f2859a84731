/*
 * @Description: 分类、地区、标签、作者服务
 * @Author: 安知鱼
 * @Date: 2026-09-25 14:02:44
 * @LastEditTime: 2026-09-26 10:31:05
 * @LastEditors: 安知鱼
 */
package taxonomy

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/predelnews/predelnews-app/internal/pkg/event"
	"github.com/predelnews/predelnews-app/pkg/constant"
	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/predelnews/predelnews-app/pkg/domain/repository"
	"github.com/predelnews/predelnews-app/pkg/idgen"
	"github.com/predelnews/predelnews-app/pkg/service/slug"
	"github.com/predelnews/predelnews-app/pkg/service/utility"
	"github.com/predelnews/predelnews-app/pkg/service/validation"
)

// DefaultPopularTagCount 热门标签的默认数量
const DefaultPopularTagCount = 20

// Service 定义了分类体系服务的接口
type Service interface {
	GetAllCategories(ctx context.Context) ([]*model.CategoryResponse, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*model.CategoryResponse, error)
	GetAllRegions(ctx context.Context) ([]*model.RegionResponse, error)
	GetRegionBySlug(ctx context.Context, slug string) (*model.RegionResponse, error)
	GetAllTags(ctx context.Context) ([]*model.TagResponse, error)
	GetTagBySlug(ctx context.Context, slug string) (*model.TagResponse, error)
	GetPopularTags(ctx context.Context, count int) ([]*model.TagResponse, error)
	GetAllAuthors(ctx context.Context) ([]*model.AuthorResponse, error)
	GetAuthorBySlug(ctx context.Context, slug string) (*model.AuthorResponse, error)

	CreateCategory(ctx context.Context, req *model.SaveCategoryRequest) (*model.CategoryResponse, error)
	CreateRegion(ctx context.Context, req *model.SaveRegionRequest) (*model.RegionResponse, error)
	CreateTag(ctx context.Context, req *model.SaveTagRequest) (*model.TagResponse, error)
	CreateAuthor(ctx context.Context, req *model.SaveAuthorRequest) (*model.AuthorResponse, error)

	DeleteCategory(ctx context.Context, publicID string) error
	DeleteRegion(ctx context.Context, publicID string) error
}

type serviceImpl struct {
	repos    repository.Repositories
	cacheSvc utility.CacheService
	bus      *event.EventBus
	slugGen  *slug.Generator
}

// NewService 创建分类体系服务，bus 可以为 nil
func NewService(repos repository.Repositories, cacheSvc utility.CacheService, bus *event.EventBus, slugGen *slug.Generator) Service {
	if slugGen == nil {
		slugGen = slug.NewGenerator()
	}
	return &serviceImpl{
		repos:    repos,
		cacheSvc: cacheSvc,
		bus:      bus,
		slugGen:  slugGen,
	}
}

// articleCounts 是已发布文章在各分类体系上的数量
type articleCounts struct {
	categories map[uint]int
	regions    map[uint]int
	tags       map[uint]int
	authors    map[uint]int
}

func (s *serviceImpl) countPublished(ctx context.Context) (*articleCounts, error) {
	articles, err := s.repos.Article.ListPublished(ctx, repository.ArticleScope{})
	if err != nil {
		return nil, fmt.Errorf("统计文章数量失败: %w", err)
	}
	counts := &articleCounts{
		categories: make(map[uint]int),
		regions:    make(map[uint]int),
		tags:       make(map[uint]int),
		authors:    make(map[uint]int),
	}
	for _, a := range articles {
		counts.categories[a.CategoryID]++
		counts.authors[a.AuthorID]++
		if a.RegionID != nil {
			counts.regions[*a.RegionID]++
		}
		for id := range a.TagIDs() {
			counts.tags[id]++
		}
	}
	return counts, nil
}

// --- 查询 ---

func (s *serviceImpl) GetAllCategories(ctx context.Context) ([]*model.CategoryResponse, error) {
	return utility.GetOrSet(ctx, s.cacheSvc, constant.CacheKeyAllCategories, 0, func(ctx context.Context) ([]*model.CategoryResponse, error) {
		categories, err := s.repos.Category.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("获取分类列表失败: %w", err)
		}
		counts, err := s.countPublished(ctx)
		if err != nil {
			return nil, err
		}
		for _, c := range categories {
			c.ArticleCount = counts.categories[c.ID]
		}
		sort.SliceStable(categories, func(i, j int) bool {
			if categories[i].SortOrder != categories[j].SortOrder {
				return categories[i].SortOrder < categories[j].SortOrder
			}
			return categories[i].Name < categories[j].Name
		})
		return CategoriesToResponse(categories), nil
	})
}

func (s *serviceImpl) GetCategoryBySlug(ctx context.Context, slugValue string) (*model.CategoryResponse, error) {
	all, err := s.GetAllCategories(ctx)
	if err != nil {
		return nil, err
	}
	return findBySlug(all, slugValue, func(c *model.CategoryResponse) string { return c.Slug })
}

func (s *serviceImpl) GetAllRegions(ctx context.Context) ([]*model.RegionResponse, error) {
	return utility.GetOrSet(ctx, s.cacheSvc, constant.CacheKeyAllRegions, 0, func(ctx context.Context) ([]*model.RegionResponse, error) {
		regions, err := s.repos.Region.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("获取地区列表失败: %w", err)
		}
		counts, err := s.countPublished(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]*model.RegionResponse, 0, len(regions))
		for _, r := range regions {
			r.ArticleCount = counts.regions[r.ID]
			out = append(out, RegionToResponse(r))
		}
		return out, nil
	})
}

func (s *serviceImpl) GetRegionBySlug(ctx context.Context, slugValue string) (*model.RegionResponse, error) {
	all, err := s.GetAllRegions(ctx)
	if err != nil {
		return nil, err
	}
	return findBySlug(all, slugValue, func(r *model.RegionResponse) string { return r.Slug })
}

func (s *serviceImpl) GetAllTags(ctx context.Context) ([]*model.TagResponse, error) {
	return utility.GetOrSet(ctx, s.cacheSvc, constant.CacheKeyAllTags, 0, func(ctx context.Context) ([]*model.TagResponse, error) {
		return s.loadTags(ctx)
	})
}

func (s *serviceImpl) loadTags(ctx context.Context) ([]*model.TagResponse, error) {
	tags, err := s.repos.Tag.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取标签列表失败: %w", err)
	}
	counts, err := s.countPublished(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tags {
		t.ArticleCount = counts.tags[t.ID]
	}
	return TagsToResponse(tags), nil
}

func (s *serviceImpl) GetTagBySlug(ctx context.Context, slugValue string) (*model.TagResponse, error) {
	all, err := s.GetAllTags(ctx)
	if err != nil {
		return nil, err
	}
	return findBySlug(all, slugValue, func(t *model.TagResponse) string { return t.Slug })
}

// GetPopularTags 按已发布文章数降序返回前 count 个标签，没有文章的标签不出现
func (s *serviceImpl) GetPopularTags(ctx context.Context, count int) ([]*model.TagResponse, error) {
	if count <= 0 {
		count = DefaultPopularTagCount
	}
	popular, err := utility.GetOrSet(ctx, s.cacheSvc, constant.CacheKeyPopularTags, constant.PopularTagsCacheTTL, func(ctx context.Context) ([]*model.TagResponse, error) {
		tags, err := s.loadTags(ctx)
		if err != nil {
			return nil, err
		}
		used := make([]*model.TagResponse, 0, len(tags))
		for _, t := range tags {
			if t.ArticleCount > 0 {
				used = append(used, t)
			}
		}
		sort.SliceStable(used, func(i, j int) bool {
			if used[i].ArticleCount != used[j].ArticleCount {
				return used[i].ArticleCount > used[j].ArticleCount
			}
			return used[i].Name < used[j].Name
		})
		return used, nil
	})
	if err != nil {
		return nil, err
	}
	if len(popular) > count {
		popular = popular[:count]
	}
	return popular, nil
}

func (s *serviceImpl) GetAllAuthors(ctx context.Context) ([]*model.AuthorResponse, error) {
	return utility.GetOrSet(ctx, s.cacheSvc, constant.CacheKeyAllAuthors, 0, func(ctx context.Context) ([]*model.AuthorResponse, error) {
		authors, err := s.repos.Author.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("获取作者列表失败: %w", err)
		}
		counts, err := s.countPublished(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]*model.AuthorResponse, 0, len(authors))
		for _, a := range authors {
			a.ArticleCount = counts.authors[a.ID]
			out = append(out, AuthorToResponse(a))
		}
		return out, nil
	})
}

func (s *serviceImpl) GetAuthorBySlug(ctx context.Context, slugValue string) (*model.AuthorResponse, error) {
	all, err := s.GetAllAuthors(ctx)
	if err != nil {
		return nil, err
	}
	return findBySlug(all, slugValue, func(a *model.AuthorResponse) string { return a.Slug })
}

func findBySlug[T any](items []*T, slugValue string, slugOf func(*T) string) (*T, error) {
	slugValue = strings.TrimSpace(slugValue)
	for _, item := range items {
		if strings.EqualFold(slugOf(item), slugValue) {
			return item, nil
		}
	}
	return nil, fmt.Errorf("%w: slug '%s'", constant.ErrNotFound, slugValue)
}

// --- 写入 ---

// uniqueSlug 优先使用传入的 slug，否则从名称生成，并在同一分类体系内去重
func (s *serviceImpl) uniqueSlug(ctx context.Context, requested, name string, exists func(ctx context.Context, slug string, excludeID uint) (bool, error)) (string, error) {
	input := strings.TrimSpace(requested)
	if input == "" {
		input = name
	}
	value, err := s.slugGen.GenerateUnique(ctx, input, func(ctx context.Context, candidate string) (bool, error) {
		return exists(ctx, candidate, 0)
	})
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", fmt.Errorf("%w: 无法从 '%s' 生成 slug", constant.ErrBadRequest, input)
	}
	return value, nil
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: 名称不能为空", constant.ErrBadRequest)
	}
	return name, nil
}

func (s *serviceImpl) publishChanged(kind string, id uint) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.TaxonomyChanged, event.TaxonomyPayload{Kind: kind, ID: id})
}

func (s *serviceImpl) CreateCategory(ctx context.Context, req *model.SaveCategoryRequest) (*model.CategoryResponse, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}
	slugValue, err := s.uniqueSlug(ctx, req.Slug, name, s.repos.Category.ExistsBySlug)
	if err != nil {
		return nil, err
	}
	category := &model.Category{
		Name:             name,
		Slug:             slugValue,
		Description:      strings.TrimSpace(req.Description),
		SortOrder:        req.SortOrder,
		IsMainNavigation: req.IsMainNavigation,
		MetaTitle:        strings.TrimSpace(req.MetaTitle),
		MetaDescription:  strings.TrimSpace(req.MetaDescription),
	}
	if err := s.repos.Category.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("创建分类失败: %w", err)
	}
	log.Printf("✅ 已创建分类 '%s' (%s)", category.Name, category.Slug)
	s.publishChanged(model.TaxonomyCategory, category.ID)
	return CategoryToResponse(category), nil
}

func (s *serviceImpl) CreateRegion(ctx context.Context, req *model.SaveRegionRequest) (*model.RegionResponse, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}
	slugValue, err := s.uniqueSlug(ctx, req.Slug, name, s.repos.Region.ExistsBySlug)
	if err != nil {
		return nil, err
	}
	region := &model.Region{Name: name, Slug: slugValue}
	if err := s.repos.Region.Create(ctx, region); err != nil {
		return nil, fmt.Errorf("创建地区失败: %w", err)
	}
	log.Printf("✅ 已创建地区 '%s' (%s)", region.Name, region.Slug)
	s.publishChanged(model.TaxonomyRegion, region.ID)
	return RegionToResponse(region), nil
}

func (s *serviceImpl) CreateTag(ctx context.Context, req *model.SaveTagRequest) (*model.TagResponse, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}
	slugValue, err := s.uniqueSlug(ctx, req.Slug, name, s.repos.Tag.ExistsBySlug)
	if err != nil {
		return nil, err
	}
	tag := &model.Tag{Name: name, Slug: slugValue}
	if err := s.repos.Tag.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("创建标签失败: %w", err)
	}
	s.publishChanged(model.TaxonomyTag, tag.ID)
	return TagToResponse(tag), nil
}

func (s *serviceImpl) CreateAuthor(ctx context.Context, req *model.SaveAuthorRequest) (*model.AuthorResponse, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}
	slugValue, err := s.uniqueSlug(ctx, req.Slug, name, s.repos.Author.ExistsBySlug)
	if err != nil {
		return nil, err
	}
	author := &model.Author{
		Name:          name,
		Slug:          slugValue,
		Bio:           strings.TrimSpace(req.Bio),
		Email:         strings.TrimSpace(req.Email),
		TwitterHandle: strings.TrimSpace(req.TwitterHandle),
		FacebookURL:   strings.TrimSpace(req.FacebookURL),
		LinkedInURL:   strings.TrimSpace(req.LinkedInURL),
	}
	if err := s.repos.Author.Create(ctx, author); err != nil {
		return nil, fmt.Errorf("创建作者失败: %w", err)
	}
	s.publishChanged(model.TaxonomyAuthor, author.ID)
	return AuthorToResponse(author), nil
}

func (s *serviceImpl) DeleteCategory(ctx context.Context, publicID string) error {
	id, err := idgen.DecodeEntityID(publicID, idgen.EntityTypeCategory)
	if err != nil {
		return err
	}
	return deleteGuarded(ctx, s, s.repos.Category, model.TaxonomyCategory, id)
}

func (s *serviceImpl) DeleteRegion(ctx context.Context, publicID string) error {
	id, err := idgen.DecodeEntityID(publicID, idgen.EntityTypeRegion)
	if err != nil {
		return err
	}
	return deleteGuarded(ctx, s, s.repos.Region, model.TaxonomyRegion, id)
}

// deleteGuarded 在删除前确认记录存在且没有文章引用
func deleteGuarded[T any](ctx context.Context, s *serviceImpl, repo repository.TaxonomyRepository[T], kind string, id uint) error {
	if _, err := repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := validation.GuardTaxonomyDelete(ctx, s.repos.Article, kind, id); err != nil {
		return err
	}
	if err := repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("删除%s失败: %w", kind, err)
	}
	log.Printf("🗑️ 已删除 %s %d", kind, id)
	s.publishChanged(kind, id)
	return nil
}
