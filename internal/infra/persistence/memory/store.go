/*
 * @Description: 内存仓储实现，用于测试与 Database.Type = memory
 * @Author: 安知鱼
 * @Date: 2026-09-09 09:12:05
 * @LastEditTime: 2026-09-22 14:26:41
 * @LastEditors: 安知鱼
 */
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/predelnews/predelnews-app/pkg/constant"
	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/predelnews/predelnews-app/pkg/domain/repository"
)

// Store 持有全部内存数据，读操作返回副本
type Store struct {
	mu         sync.RWMutex
	nextID     uint
	articles   map[uint]*model.Article
	categories map[uint]*model.Category
	regions    map[uint]*model.Region
	tags       map[uint]*model.Tag
	authors    map[uint]*model.Author
}

// NewStore 创建空的内存存储
func NewStore() *Store {
	return &Store{
		articles:   make(map[uint]*model.Article),
		categories: make(map[uint]*model.Category),
		regions:    make(map[uint]*model.Region),
		tags:       make(map[uint]*model.Tag),
		authors:    make(map[uint]*model.Author),
	}
}

// NewRepositories 创建全部内存仓储
func NewRepositories() repository.Repositories {
	return NewStore().Repositories()
}

// Repositories 返回共享同一份数据的仓储
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Article:  &articleRepo{s: s},
		Category: newCategoryRepo(s),
		Region:   newRegionRepo(s),
		Tag:      newTagRepo(s),
		Author:   newAuthorRepo(s),
	}
}

func newCategoryRepo(s *Store) *taxonomyRepo[model.Category] {
	return &taxonomyRepo[model.Category]{
		s:      s,
		items:  func() map[uint]*model.Category { return s.categories },
		slugOf: func(c *model.Category) string { return c.Slug },
		idOf:   func(c *model.Category) *uint { return &c.ID },
		less: func(a, b *model.Category) bool {
			if a.SortOrder != b.SortOrder {
				return a.SortOrder < b.SortOrder
			}
			return a.Name < b.Name
		},
	}
}

func newRegionRepo(s *Store) *taxonomyRepo[model.Region] {
	return &taxonomyRepo[model.Region]{
		s:      s,
		items:  func() map[uint]*model.Region { return s.regions },
		slugOf: func(r *model.Region) string { return r.Slug },
		idOf:   func(r *model.Region) *uint { return &r.ID },
		less:   func(a, b *model.Region) bool { return a.ID < b.ID },
	}
}

func newTagRepo(s *Store) *taxonomyRepo[model.Tag] {
	return &taxonomyRepo[model.Tag]{
		s:      s,
		items:  func() map[uint]*model.Tag { return s.tags },
		slugOf: func(t *model.Tag) string { return t.Slug },
		idOf:   func(t *model.Tag) *uint { return &t.ID },
		less:   func(a, b *model.Tag) bool { return a.Name < b.Name },
	}
}

func newAuthorRepo(s *Store) *taxonomyRepo[model.Author] {
	return &taxonomyRepo[model.Author]{
		s:      s,
		items:  func() map[uint]*model.Author { return s.authors },
		slugOf: func(a *model.Author) string { return a.Slug },
		idOf:   func(a *model.Author) *uint { return &a.ID },
		less:   func(a, b *model.Author) bool { return a.Name < b.Name },
	}
}

func (s *Store) newID() uint {
	s.nextID++
	return s.nextID
}

// taxonomyRepo 是四类分类法数据的通用内存实现
type taxonomyRepo[T any] struct {
	s      *Store
	items  func() map[uint]*T
	slugOf func(*T) string
	idOf   func(*T) *uint
	less   func(a, b *T) bool
}

func clone[T any](e *T) *T {
	c := *e
	return &c
}

func (r *taxonomyRepo[T]) List(ctx context.Context) ([]*T, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*T, 0, len(r.items()))
	for _, e := range r.items() {
		out = append(out, clone(e))
	}
	sort.SliceStable(out, func(i, j int) bool { return r.less(out[i], out[j]) })
	return out, nil
}

func (r *taxonomyRepo[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.items()[id]
	if !ok {
		return nil, constant.ErrNotFound
	}
	return clone(e), nil
}

func (r *taxonomyRepo[T]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	slug = strings.TrimSpace(slug)
	for _, e := range r.items() {
		if strings.EqualFold(r.slugOf(e), slug) {
			return clone(e), nil
		}
	}
	return nil, constant.ErrNotFound
}

func (r *taxonomyRepo[T]) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for id, e := range r.items() {
		if id != excludeID && strings.EqualFold(r.slugOf(e), slug) {
			return true, nil
		}
	}
	return false, nil
}

func (r *taxonomyRepo[T]) Create(ctx context.Context, e *T) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.items() {
		if strings.EqualFold(r.slugOf(existing), r.slugOf(e)) {
			return constant.ErrConflict
		}
	}
	*r.idOf(e) = r.s.newID()
	r.items()[*r.idOf(e)] = clone(e)
	return nil
}

func (r *taxonomyRepo[T]) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.items()[id]; !ok {
		return constant.ErrNotFound
	}
	delete(r.items(), id)
	return nil
}

// articleRepo 文章的内存仓储，Tags 只保存 ID，读取时重新关联
type articleRepo struct {
	s *Store
}

var _ repository.ArticleRepository = (*articleRepo)(nil)

// hydrate 必须在持有读锁时调用
func (r *articleRepo) hydrate(a *model.Article) *model.Article {
	c := *a
	c.Author, c.Category, c.Region = nil, nil, nil
	if au, ok := r.s.authors[a.AuthorID]; ok {
		c.Author = clone(au)
	}
	if cat, ok := r.s.categories[a.CategoryID]; ok {
		c.Category = clone(cat)
	}
	if a.RegionID != nil {
		rid := *a.RegionID
		c.RegionID = &rid
		if rg, ok := r.s.regions[rid]; ok {
			c.Region = clone(rg)
		}
	}
	c.Tags = make([]*model.Tag, 0, len(a.Tags))
	for _, t := range a.Tags {
		if tag, ok := r.s.tags[t.ID]; ok {
			c.Tags = append(c.Tags, clone(tag))
		}
	}
	c.RelatedOverrideIDs = append([]uint(nil), a.RelatedOverrideIDs...)
	if a.FeaturedImage != nil {
		c.FeaturedImage = clone(a.FeaturedImage)
	}
	return &c
}

// stored 规整后写入的副本
func stored(a *model.Article) *model.Article {
	c := *a
	c.Slug = strings.ToLower(a.Slug)
	c.Author, c.Category, c.Region = nil, nil, nil
	seen := make(map[uint]struct{})
	c.Tags = nil
	for _, t := range a.Tags {
		if t == nil {
			continue
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		c.Tags = append(c.Tags, &model.Tag{ID: t.ID})
	}
	if a.RegionID != nil {
		rid := *a.RegionID
		c.RegionID = &rid
	}
	c.RelatedOverrideIDs = append([]uint(nil), a.RelatedOverrideIDs...)
	if a.FeaturedImage != nil {
		c.FeaturedImage = clone(a.FeaturedImage)
	}
	return &c
}

func (r *articleRepo) FindByID(ctx context.Context, id uint) (*model.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.articles[id]
	if !ok {
		return nil, constant.ErrNotFound
	}
	return r.hydrate(a), nil
}

func (r *articleRepo) FindByIDs(ctx context.Context, ids []uint) ([]*model.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*model.Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.s.articles[id]; ok {
			out = append(out, r.hydrate(a))
		}
	}
	return out, nil
}

func (r *articleRepo) FindBySlug(ctx context.Context, categoryID uint, slug string) (*model.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	slug = strings.TrimSpace(slug)
	for _, a := range r.s.articles {
		if a.CategoryID == categoryID && strings.EqualFold(a.Slug, slug) {
			return r.hydrate(a), nil
		}
	}
	return nil, constant.ErrNotFound
}

func (r *articleRepo) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for id, a := range r.s.articles {
		if id != excludeID && strings.EqualFold(a.Slug, slug) {
			return true, nil
		}
	}
	return false, nil
}

func inScope(a *model.Article, scope repository.ArticleScope) bool {
	if !a.IsPublished() {
		return false
	}
	if scope.CategoryID != 0 && a.CategoryID != scope.CategoryID {
		return false
	}
	if scope.AuthorID != 0 && a.AuthorID != scope.AuthorID {
		return false
	}
	if scope.RegionID != 0 && (a.RegionID == nil || *a.RegionID != scope.RegionID) {
		return false
	}
	if scope.TagID != 0 {
		if _, ok := a.TagIDs()[scope.TagID]; !ok {
			return false
		}
	}
	if scope.OnlyFeatured && !a.IsFeatured {
		return false
	}
	if scope.OnlyBreaking && !a.IsBreakingNews {
		return false
	}
	if !scope.Since.IsZero() && a.PublishDate.Before(scope.Since) {
		return false
	}
	return true
}

func (r *articleRepo) ListPublished(ctx context.Context, scope repository.ArticleScope) ([]*model.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*model.Article
	for _, a := range r.s.articles {
		if inScope(a, scope) {
			out = append(out, r.hydrate(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishDate.Equal(out[j].PublishDate) {
			return out[i].PublishDate.After(out[j].PublishDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *articleRepo) List(ctx context.Context, q repository.PageQuery) (*repository.PageResult[model.Article], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := make([]uint, 0, len(r.s.articles))
	for id := range r.s.articles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	q = q.Normalize(20)
	start := q.Offset()

	result := &repository.PageResult[model.Article]{Total: int64(len(ids))}
	for i := start; i < len(ids) && i < start+q.PageSize; i++ {
		result.Items = append(result.Items, r.hydrate(r.s.articles[ids[i]]))
	}
	return result, nil
}

func (r *articleRepo) Create(ctx context.Context, a *model.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.articles {
		if strings.EqualFold(existing.Slug, a.Slug) {
			return constant.ErrConflict
		}
	}
	a.ID = r.s.newID()
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = time.Now().UTC()
	}
	r.s.articles[a.ID] = stored(a)
	return nil
}

func (r *articleRepo) Update(ctx context.Context, a *model.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.articles[a.ID]
	if !ok {
		return constant.ErrNotFound
	}
	for id, other := range r.s.articles {
		if id != a.ID && strings.EqualFold(other.Slug, a.Slug) {
			return constant.ErrConflict
		}
	}
	a.UpdatedAt = time.Now().UTC()
	// 浏览量只由 UpdateViewCounts 维护
	next := stored(a)
	next.ViewCount = existing.ViewCount
	r.s.articles[a.ID] = next
	return nil
}

func (r *articleRepo) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.articles[id]; !ok {
		return constant.ErrNotFound
	}
	delete(r.s.articles, id)
	return nil
}

func (r *articleRepo) UpdateViewCounts(ctx context.Context, updates map[uint]int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, delta := range updates {
		if a, ok := r.s.articles[id]; ok {
			a.ViewCount += delta
		}
	}
	return nil
}
