/*
 * @Description: 仓储实现共用的行为测试
 * @Author: 安知鱼
 * @Date: 2026-09-09 15:40:26
 * @LastEditTime: 2026-09-22 14:50:17
 * @LastEditors: 安知鱼
 */
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predelnews/predelnews-app/pkg/constant"
	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/predelnews/predelnews-app/pkg/domain/repository"
)

// Factory 为每个子测试创建一组全新的仓储
type Factory func(t *testing.T) repository.Repositories

type fixture struct {
	repos    repository.Repositories
	society  *model.Category
	sport    *model.Category
	sofia    *model.Region
	tagFire  *model.Tag
	tagCourt *model.Tag
	author   *model.Author
	base     time.Time
}

func setup(t *testing.T, f Factory) *fixture {
	t.Helper()
	ctx := context.Background()
	fx := &fixture{
		repos:    f(t),
		society:  &model.Category{Name: "Общество", Slug: "obshtestvo", SortOrder: 2},
		sport:    &model.Category{Name: "Спорт", Slug: "sport", SortOrder: 1, IsMainNavigation: true},
		sofia:    &model.Region{Name: "София", Slug: "sofiya"},
		tagFire:  &model.Tag{Name: "пожар", Slug: "pozhar"},
		tagCourt: &model.Tag{Name: "съд", Slug: "sad"},
		author:   &model.Author{Name: "Иван Петров", Slug: "ivan-petrov", Email: "ivan@example.com"},
		base:     time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, fx.repos.Category.Create(ctx, fx.society))
	require.NoError(t, fx.repos.Category.Create(ctx, fx.sport))
	require.NoError(t, fx.repos.Region.Create(ctx, fx.sofia))
	require.NoError(t, fx.repos.Tag.Create(ctx, fx.tagFire))
	require.NoError(t, fx.repos.Tag.Create(ctx, fx.tagCourt))
	require.NoError(t, fx.repos.Author.Create(ctx, fx.author))
	return fx
}

func (fx *fixture) article(t *testing.T, slug string, cat *model.Category, hoursAfter int, mutate func(a *model.Article)) *model.Article {
	t.Helper()
	a := &model.Article{
		Title:       slug,
		Slug:        slug,
		Content:     "<p>" + slug + "</p>",
		PublishDate: fx.base.Add(time.Duration(hoursAfter) * time.Hour),
		Status:      model.ArticleStatusPublished,
		AuthorID:    fx.author.ID,
		CategoryID:  cat.ID,
	}
	if mutate != nil {
		mutate(a)
	}
	require.NoError(t, fx.repos.Article.Create(context.Background(), a))
	require.NotZero(t, a.ID)
	return a
}

func slugs(articles []*model.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.Slug
	}
	return out
}

// Run 执行全部仓储行为测试
func Run(t *testing.T, f Factory) {
	t.Run("分类法增删查", func(t *testing.T) { testTaxonomy(t, f) })
	t.Run("文章读写与关联填充", func(t *testing.T) { testArticleRoundTrip(t, f) })
	t.Run("已发布文章范围查询", func(t *testing.T) { testListPublished(t, f) })
	t.Run("分页遍历全部文章", func(t *testing.T) { testList(t, f) })
	t.Run("slug 检查", func(t *testing.T) { testSlugs(t, f) })
	t.Run("浏览量与删除", func(t *testing.T) { testViewCountsAndDelete(t, f) })
}

func testTaxonomy(t *testing.T, f Factory) {
	fx := setup(t, f)
	ctx := context.Background()

	cats, err := fx.repos.Category.List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	// 按排序值排列
	assert.Equal(t, "sport", cats[0].Slug)
	assert.True(t, cats[0].IsMainNavigation)

	got, err := fx.repos.Category.FindBySlug(ctx, "OBSHTESTVO")
	require.NoError(t, err)
	assert.Equal(t, fx.society.ID, got.ID)

	_, err = fx.repos.Region.FindBySlug(ctx, "missing")
	assert.ErrorIs(t, err, constant.ErrNotFound)

	author, err := fx.repos.Author.FindByID(ctx, fx.author.ID)
	require.NoError(t, err)
	assert.Equal(t, "ivan@example.com", author.Email)

	exists, err := fx.repos.Tag.ExistsBySlug(ctx, "pozhar", 0)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = fx.repos.Tag.ExistsBySlug(ctx, "pozhar", fx.tagFire.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, fx.repos.Region.Delete(ctx, fx.sofia.ID))
	_, err = fx.repos.Region.FindByID(ctx, fx.sofia.ID)
	assert.ErrorIs(t, err, constant.ErrNotFound)
	assert.ErrorIs(t, fx.repos.Region.Delete(ctx, fx.sofia.ID), constant.ErrNotFound)
}

func testArticleRoundTrip(t *testing.T, f Factory) {
	fx := setup(t, f)
	ctx := context.Background()

	a := fx.article(t, "pozhar-v-sofiya", fx.society, 0, func(a *model.Article) {
		a.RegionID = &fx.sofia.ID
		a.Tags = []*model.Tag{{ID: fx.tagFire.ID}, {ID: fx.tagCourt.ID}, {ID: fx.tagFire.ID}}
		a.IsFeatured = true
		a.FeaturedImage = &model.MediaImage{URL: "/media/fire.jpg", AltText: "Пожар"}
		a.RelatedOverrideIDs = []uint{7, 3}
		a.CoverImage = `[{"mediaKey":"abc","altText":"Пожар"}]`
	})

	got, err := fx.repos.Article.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "pozhar-v-sofiya", got.Slug)
	assert.True(t, got.PublishDate.Equal(fx.base))
	require.NotNil(t, got.Category)
	assert.Equal(t, "Общество", got.Category.Name)
	require.NotNil(t, got.Author)
	assert.Equal(t, "Иван Петров", got.Author.Name)
	require.NotNil(t, got.Region)
	assert.Equal(t, "София", got.Region.Name)
	require.Len(t, got.Tags, 2)
	assert.Equal(t, "pozhar", got.Tags[0].Slug)
	assert.Equal(t, "sad", got.Tags[1].Slug)
	assert.True(t, got.IsFeatured)
	require.NotNil(t, got.FeaturedImage)
	assert.Equal(t, "Пожар", got.FeaturedImage.AltText)
	assert.Equal(t, []uint{7, 3}, got.RelatedOverrideIDs)
	assert.Equal(t, `[{"mediaKey":"abc","altText":"Пожар"}]`, got.CoverImage)

	bySlug, err := fx.repos.Article.FindBySlug(ctx, fx.society.ID, "POZHAR-V-SOFIYA")
	require.NoError(t, err)
	assert.Equal(t, a.ID, bySlug.ID)
	_, err = fx.repos.Article.FindBySlug(ctx, fx.sport.ID, "pozhar-v-sofiya")
	assert.ErrorIs(t, err, constant.ErrNotFound)

	got.Title = "Нов заглавие"
	got.Tags = []*model.Tag{{ID: fx.tagCourt.ID}}
	got.RegionID = nil
	require.NoError(t, fx.repos.Article.Update(ctx, got))

	updated, err := fx.repos.Article.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Нов заглавие", updated.Title)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, fx.tagCourt.ID, updated.Tags[0].ID)
	assert.Nil(t, updated.RegionID)
	assert.Nil(t, updated.Region)

	many, err := fx.repos.Article.FindByIDs(ctx, []uint{a.ID + 100, a.ID})
	require.NoError(t, err)
	require.Len(t, many, 1)
	assert.Equal(t, a.ID, many[0].ID)

	_, err = fx.repos.Article.FindByID(ctx, a.ID+100)
	assert.ErrorIs(t, err, constant.ErrNotFound)
}

func testListPublished(t *testing.T, f Factory) {
	fx := setup(t, f)
	ctx := context.Background()

	fx.article(t, "a1", fx.society, 1, func(a *model.Article) { a.Tags = []*model.Tag{{ID: fx.tagFire.ID}} })
	fx.article(t, "a2", fx.sport, 2, func(a *model.Article) { a.IsFeatured = true })
	fx.article(t, "a3", fx.society, 3, func(a *model.Article) {
		a.RegionID = &fx.sofia.ID
		a.IsBreakingNews = true
	})
	fx.article(t, "draft", fx.society, 4, func(a *model.Article) { a.Status = model.ArticleStatusDraft })

	all, err := fx.repos.Article.ListPublished(ctx, repository.ArticleScope{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a3", "a2", "a1"}, slugs(all))

	tests := []struct {
		name  string
		scope repository.ArticleScope
		want  []string
	}{
		{name: "按分类", scope: repository.ArticleScope{CategoryID: fx.society.ID}, want: []string{"a3", "a1"}},
		{name: "按标签", scope: repository.ArticleScope{TagID: fx.tagFire.ID}, want: []string{"a1"}},
		{name: "按地区", scope: repository.ArticleScope{RegionID: fx.sofia.ID}, want: []string{"a3"}},
		{name: "按作者", scope: repository.ArticleScope{AuthorID: fx.author.ID}, want: []string{"a3", "a2", "a1"}},
		{name: "推荐", scope: repository.ArticleScope{OnlyFeatured: true}, want: []string{"a2"}},
		{name: "快讯", scope: repository.ArticleScope{OnlyBreaking: true}, want: []string{"a3"}},
		{name: "时间下限", scope: repository.ArticleScope{Since: fx.base.Add(2 * time.Hour)}, want: []string{"a3", "a2"}},
		{name: "不存在的分类", scope: repository.ArticleScope{CategoryID: 9999}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fx.repos.Article.ListPublished(ctx, tt.scope)
			require.NoError(t, err)
			assert.Equal(t, tt.want, slugs(got))
		})
	}
}

func testList(t *testing.T, f Factory) {
	fx := setup(t, f)
	ctx := context.Background()
	for i, s := range []string{"p1", "p2", "p3", "p4", "p5"} {
		status := model.ArticleStatusPublished
		if i%2 == 1 {
			status = model.ArticleStatusDraft
		}
		fx.article(t, s, fx.sport, i, func(a *model.Article) { a.Status = status })
	}

	page, err := fx.repos.Article.List(ctx, repository.PageQuery{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "p1", page.Items[0].Slug)

	last, err := fx.repos.Article.List(ctx, repository.PageQuery{Page: 3, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.Equal(t, "p5", last.Items[0].Slug)

	beyond, err := fx.repos.Article.List(ctx, repository.PageQuery{Page: 4, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
}

func testSlugs(t *testing.T, f Factory) {
	fx := setup(t, f)
	ctx := context.Background()
	a := fx.article(t, "test", fx.sport, 0, nil)

	exists, err := fx.repos.Article.ExistsBySlug(ctx, "test", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = fx.repos.Article.ExistsBySlug(ctx, "test", a.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = fx.repos.Article.ExistsBySlug(ctx, "test-2", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func testViewCountsAndDelete(t *testing.T, f Factory) {
	fx := setup(t, f)
	ctx := context.Background()
	a := fx.article(t, "v1", fx.sport, 0, nil)
	b := fx.article(t, "v2", fx.sport, 1, nil)

	require.NoError(t, fx.repos.Article.UpdateViewCounts(ctx, map[uint]int{a.ID: 3, b.ID: 1}))
	require.NoError(t, fx.repos.Article.UpdateViewCounts(ctx, map[uint]int{a.ID: 2}))

	got, err := fx.repos.Article.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.ViewCount)

	// 更新文章不会覆盖浏览量
	got.ViewCount = 0
	require.NoError(t, fx.repos.Article.Update(ctx, got))
	got, err = fx.repos.Article.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.ViewCount)

	require.NoError(t, fx.repos.Article.Delete(ctx, a.ID))
	_, err = fx.repos.Article.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, constant.ErrNotFound)
	assert.ErrorIs(t, fx.repos.Article.Delete(ctx, a.ID), constant.ErrNotFound)
}
