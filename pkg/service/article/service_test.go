package article

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predelnews/predelnews-app/internal/infra/persistence/memory"
	"github.com/predelnews/predelnews-app/internal/pkg/auth"
	"github.com/predelnews/predelnews-app/internal/pkg/event"
	"github.com/predelnews/predelnews-app/pkg/constant"
	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/predelnews/predelnews-app/pkg/domain/repository"
	"github.com/predelnews/predelnews-app/pkg/idgen"
	"github.com/predelnews/predelnews-app/pkg/service/utility"
)

var fixedNow = time.Date(2026, 9, 30, 12, 0, 0, 0, time.UTC)

var admin = &auth.CustomClaims{Username: "admin", Groups: []string{auth.AdminGroup}}

type fixture struct {
	svc     Service
	repos   repository.Repositories
	society *model.Category
	sport   *model.Category
	sofia   *model.Region
	tags    []*model.Tag
	author  *model.Author
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewRepositories()
	fx := &fixture{
		repos:   repos,
		society: &model.Category{Name: "Общество", Slug: "obshtestvo"},
		sport:   &model.Category{Name: "Спорт", Slug: "sport"},
		sofia:   &model.Region{Name: "София", Slug: "sofiya"},
		author:  &model.Author{Name: "Мария Иванова", Slug: "mariya-ivanova"},
	}
	require.NoError(t, repos.Category.Create(ctx, fx.society))
	require.NoError(t, repos.Category.Create(ctx, fx.sport))
	require.NoError(t, repos.Region.Create(ctx, fx.sofia))
	require.NoError(t, repos.Author.Create(ctx, fx.author))
	for i := 1; i <= 12; i++ {
		tag := &model.Tag{Name: fmt.Sprintf("таг %d", i), Slug: fmt.Sprintf("tag-%d", i)}
		require.NoError(t, repos.Tag.Create(ctx, tag))
		fx.tags = append(fx.tags, tag)
	}
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	fx.svc = NewService(repos, nil, opts...)
	return fx
}

// seed 直接写入仓储，daysAgo 相对 fixedNow
func (fx *fixture) seed(t *testing.T, slugValue string, cat *model.Category, daysAgo int, mutate func(a *model.Article)) *model.Article {
	t.Helper()
	a := &model.Article{
		Title:       slugValue,
		Slug:        slugValue,
		Content:     "<p>" + slugValue + "</p>",
		PublishDate: fixedNow.AddDate(0, 0, -daysAgo),
		Status:      model.ArticleStatusPublished,
		AuthorID:    fx.author.ID,
		CategoryID:  cat.ID,
	}
	if mutate != nil {
		mutate(a)
	}
	require.NoError(t, fx.repos.Article.Create(context.Background(), a))
	return a
}

func publicID(a *model.Article) string {
	return idgen.MustPublicID(a.ID, idgen.EntityTypeArticle)
}

func (fx *fixture) baseRequest(title string) *model.SaveArticleRequest {
	return &model.SaveArticleRequest{
		Title:      title,
		Status:     model.ArticleStatusPublished,
		CategoryID: idgen.MustPublicID(fx.society.ID, idgen.EntityTypeCategory),
		AuthorID:   idgen.MustPublicID(fx.author.ID, idgen.EntityTypeAuthor),
	}
}

func (fx *fixture) tagIDs(n int) string {
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = idgen.MustPublicID(fx.tags[i].ID, idgen.EntityTypeTag)
	}
	return strings.Join(ids, ",")
}

func summarySlugs(items []*model.ArticleSummary) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = s.Slug
	}
	return out
}

func TestSaveCreatesArticle(t *testing.T) {
	bus := event.NewEventBus()
	t.Cleanup(bus.Shutdown)
	saved := make(chan event.ArticlePayload, 1)
	bus.Subscribe(event.ArticleSaved, func(payload interface{}) {
		saved <- payload.(event.ArticlePayload)
	})

	fx := newFixture(t, WithEventBus(bus))
	req := fx.baseRequest("Пожар в Благоевград")
	req.ContentMarkdown = "Горя **склад** в индустриалната зона."
	req.Tags = fx.tagIDs(2)
	req.RegionID = idgen.MustPublicID(fx.sofia.ID, idgen.EntityTypeRegion)

	resp, err := fx.svc.Save(context.Background(), nil, "", req)
	require.NoError(t, err)

	assert.Equal(t, "pozhar-v-blagoevgrad", resp.Slug)
	assert.Equal(t, "/obshtestvo/pozhar-v-blagoevgrad", resp.URL)
	assert.Contains(t, resp.Content, "<strong>склад</strong>")
	assert.Equal(t, "Горя склад в индустриалната зона.", resp.Excerpt)
	assert.Equal(t, fixedNow, resp.PublishDate)
	assert.Len(t, resp.Tags, 2)
	require.NotNil(t, resp.Region)
	assert.Equal(t, "sofiya", resp.Region.Slug)
	assert.Equal(t, "Мария Иванова", resp.Author.Name)

	select {
	case payload := <-saved:
		assert.Equal(t, "pozhar-v-blagoevgrad", payload.Slug)
		assert.Equal(t, "obshtestvo", payload.CategorySlug)
	case <-time.After(2 * time.Second):
		t.Fatal("没有收到 article:saved 事件")
	}
}

func TestSaveSlugUniqueness(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	first, err := fx.svc.Save(ctx, nil, "", fx.baseRequest("Избори 2026"))
	require.NoError(t, err)
	second, err := fx.svc.Save(ctx, nil, "", fx.baseRequest("Избори 2026"))
	require.NoError(t, err)
	assert.Equal(t, "izbori-2026", first.Slug)
	assert.Equal(t, "izbori-2026-2", second.Slug)

	t.Run("更新时不与自身冲突", func(t *testing.T) {
		req := fx.baseRequest("Избори 2026")
		req.Subtitle = "обновено"
		updated, err := fx.svc.Save(ctx, nil, first.ID, req)
		require.NoError(t, err)
		assert.Equal(t, "izbori-2026", updated.Slug)
		assert.Equal(t, "обновено", updated.Subtitle)
	})
}

func TestSaveValidation(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   *auth.CustomClaims
		mutate  func(r *model.SaveArticleRequest)
		wantErr error
		wantMsg string
	}{
		{
			name:    "标签过多",
			mutate:  func(r *model.SaveArticleRequest) { r.Tags = fx.tagIDs(11) },
			wantErr: constant.ErrBadRequest,
			wantMsg: "Максималният брой тагове е 10. Избрали сте 11.",
		},
		{
			name:    "封面缺少替代文本",
			mutate:  func(r *model.SaveArticleRequest) { r.CoverImage = `[{"mediaKey":"m1","altText":""}]` },
			wantErr: constant.ErrBadRequest,
			wantMsg: "Моля, добавете алтернативен текст за основната снимка.",
		},
		{
			name:    "非管理员标记赞助",
			actor:   &auth.CustomClaims{Username: "editor"},
			mutate:  func(r *model.SaveArticleRequest) { r.IsSponsored = true; r.SponsorName = "X" },
			wantErr: constant.ErrForbidden,
		},
		{
			name:    "分类不存在",
			mutate:  func(r *model.SaveArticleRequest) { r.CategoryID = idgen.MustPublicID(999, idgen.EntityTypeCategory) },
			wantErr: constant.ErrBadRequest,
		},
		{
			name:    "未知状态",
			mutate:  func(r *model.SaveArticleRequest) { r.Status = "archived" },
			wantErr: constant.ErrBadRequest,
		},
		{
			name:    "标题无法生成 slug",
			mutate:  func(r *model.SaveArticleRequest) { r.Title = "!!!" },
			wantErr: constant.ErrBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := fx.baseRequest("Валидна статия")
			tt.mutate(req)
			_, err := fx.svc.Save(ctx, tt.actor, "", req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
		})
	}

	t.Run("管理员可以保存赞助内容", func(t *testing.T) {
		req := fx.baseRequest("Спонсорирана статия")
		req.IsSponsored = true
		req.SponsorName = "Фирма ООД"
		resp, err := fx.svc.Save(ctx, admin, "", req)
		require.NoError(t, err)
		assert.True(t, resp.IsSponsored)
		assert.Equal(t, "Фирма ООД", resp.SponsorName)
	})
}

func TestGetBySlugAndID(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	published := fx.seed(t, "novina", fx.society, 1, nil)
	draft := fx.seed(t, "chernova", fx.society, 1, func(a *model.Article) { a.Status = model.ArticleStatusDraft })

	resp, err := fx.svc.GetBySlug(ctx, "OBSHTESTVO", "Novina")
	require.NoError(t, err)
	assert.Equal(t, publicID(published), resp.ID)

	_, err = fx.svc.GetBySlug(ctx, "sport", "novina")
	assert.ErrorIs(t, err, constant.ErrNotFound)

	_, err = fx.svc.GetBySlug(ctx, "obshtestvo", "chernova")
	assert.ErrorIs(t, err, constant.ErrNotFound)

	resp, err = fx.svc.GetByID(ctx, publicID(published))
	require.NoError(t, err)
	assert.Equal(t, "novina", resp.Slug)

	_, err = fx.svc.GetByID(ctx, publicID(draft))
	assert.ErrorIs(t, err, constant.ErrNotFound)

	_, err = fx.svc.GetByID(ctx, "???")
	assert.ErrorIs(t, err, constant.ErrInvalidPublicID)
}

func TestListings(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 45; i++ {
		fx.seed(t, fmt.Sprintf("latest-%02d", i), fx.society, i, nil)
	}

	t.Run("最新文章分页", func(t *testing.T) {
		page, err := fx.svc.GetLatest(ctx, 3, 0)
		require.NoError(t, err)
		assert.Equal(t, 45, page.TotalItems)
		assert.Equal(t, 3, page.TotalPages())
		assert.Len(t, page.Items, 5)
		assert.Equal(t, "latest-40", page.Items[0].Slug)
		assert.False(t, page.HasNextPage())
	})

	t.Run("非法页码回退到第一页", func(t *testing.T) {
		page, err := fx.svc.GetLatest(ctx, -2, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, page.PageNumber)
		assert.Equal(t, "latest-00", page.Items[0].Slug)
	})

	t.Run("未知分类返回空页", func(t *testing.T) {
		page, err := fx.svc.GetByCategory(ctx, "nyama-takava", 1, 20)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, 0, page.TotalItems)
	})

	t.Run("分类过滤", func(t *testing.T) {
		fx.seed(t, "match", fx.sport, 0, nil)
		page, err := fx.svc.GetByCategory(ctx, "sport", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, []string{"match"}, summarySlugs(page.Items))
	})

	t.Run("作者列表", func(t *testing.T) {
		page, err := fx.svc.GetByAuthor(ctx, "mariya-ivanova", 1, 5)
		require.NoError(t, err)
		assert.Equal(t, 46, page.TotalItems)
		assert.Equal(t, "Мария Иванова", page.Items[0].AuthorName)
	})
}

func TestTagAndRegionListings(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.seed(t, "s-tagom", fx.society, 1, func(a *model.Article) { a.Tags = []*model.Tag{fx.tags[0]} })
	fx.seed(t, "v-sofiya", fx.society, 2, func(a *model.Article) { a.RegionID = &fx.sofia.ID })
	fx.seed(t, "obiknovena", fx.society, 3, nil)

	page, err := fx.svc.GetByTag(ctx, "tag-1", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"s-tagom"}, summarySlugs(page.Items))

	page, err = fx.svc.GetByRegion(ctx, "sofiya", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"v-sofiya"}, summarySlugs(page.Items))
}

func TestHighlights(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		fx.seed(t, fmt.Sprintf("featured-%d", i), fx.society, i, func(a *model.Article) { a.IsFeatured = true })
	}
	fx.seed(t, "breaking-old", fx.society, 5, func(a *model.Article) { a.IsBreakingNews = true })
	fx.seed(t, "breaking-new", fx.society, 0, func(a *model.Article) { a.IsBreakingNews = true })
	fx.seed(t, "popular", fx.sport, 2, func(a *model.Article) { a.ViewCount = 500 })
	fx.seed(t, "popular-but-old", fx.sport, 30, func(a *model.Article) { a.ViewCount = 9000 })
	fx.seed(t, "less-popular", fx.sport, 1, func(a *model.Article) { a.ViewCount = 100 })

	featured, err := fx.svc.GetFeatured(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, featured, DefaultFeaturedCount)
	assert.Equal(t, "featured-0", featured[0].Slug)

	breaking, err := fx.svc.GetBreakingNews(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"breaking-new", "breaking-old"}, summarySlugs(breaking))

	mostRead, err := fx.svc.GetMostRead(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"popular", "less-popular"}, summarySlugs(mostRead))
}

func TestGetRelated(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	t1, t2, t3 := fx.tags[0], fx.tags[1], fx.tags[2]

	ref := fx.seed(t, "ref", fx.society, 0, func(a *model.Article) { a.Tags = []*model.Tag{t1, t2, t3} })
	fx.seed(t, "two-common", fx.society, 3, func(a *model.Article) { a.Tags = []*model.Tag{t1, t2} })
	fx.seed(t, "one-common", fx.society, 1, func(a *model.Article) { a.Tags = []*model.Tag{t3} })
	fx.seed(t, "none", fx.society, 2, nil)
	fx.seed(t, "other-category", fx.sport, 0, func(a *model.Article) { a.Tags = []*model.Tag{t1, t2, t3} })
	fx.seed(t, "draft", fx.society, 0, func(a *model.Article) {
		a.Status = model.ArticleStatusDraft
		a.Tags = []*model.Tag{t1, t2, t3}
	})

	related, err := fx.svc.GetRelated(ctx, publicID(ref), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"two-common", "one-common", "none"}, summarySlugs(related))

	_, err = fx.svc.GetRelated(ctx, idgen.MustPublicID(999, idgen.EntityTypeArticle), 0)
	assert.ErrorIs(t, err, constant.ErrNotFound)
}

func TestGetRelatedWeighted(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	t1, t2 := fx.tags[0], fx.tags[1]

	ref := fx.seed(t, "ref", fx.society, 0, func(a *model.Article) {
		a.Tags = []*model.Tag{t1, t2}
		a.RegionID = &fx.sofia.ID
	})
	fx.seed(t, "same-tags", fx.sport, 10, func(a *model.Article) { a.Tags = []*model.Tag{t1, t2} })
	fx.seed(t, "same-category-region", fx.society, 0, func(a *model.Article) { a.RegionID = &fx.sofia.ID })
	fx.seed(t, "same-category", fx.society, 0, nil)
	fx.seed(t, "fresh-other", fx.sport, 0, nil)
	fx.seed(t, "old-other", fx.sport, 60, nil)

	t.Run("加权得分", func(t *testing.T) {
		related, err := fx.svc.GetRelatedWeighted(ctx, publicID(ref))
		require.NoError(t, err)
		assert.Equal(t, []string{"same-tags", "same-category-region", "same-category", "fresh-other"}, summarySlugs(related))
	})

	t.Run("手动指定优先", func(t *testing.T) {
		pick := fx.seed(t, "picked", fx.sport, 90, nil)
		draft := fx.seed(t, "picked-draft", fx.sport, 0, func(a *model.Article) { a.Status = model.ArticleStatusDraft })
		withOverride := fx.seed(t, "with-override", fx.society, 0, func(a *model.Article) {
			a.RelatedOverrideIDs = []uint{draft.ID, pick.ID}
		})
		related, err := fx.svc.GetRelatedWeighted(ctx, publicID(withOverride))
		require.NoError(t, err)
		assert.Equal(t, []string{"picked"}, summarySlugs(related))
	})
}

func TestIncrementViewCount(t *testing.T) {
	t.Run("缓存计数", func(t *testing.T) {
		cache := utility.NewMemoryCacheService()
		t.Cleanup(func() { utility.StopCacheService(cache) })
		fx := newFixture(t)
		fx.svc = NewService(fx.repos, cache)
		a := fx.seed(t, "chetena", fx.society, 0, nil)

		require.NoError(t, fx.svc.IncrementViewCount(context.Background(), publicID(a)))
		require.NoError(t, fx.svc.IncrementViewCount(context.Background(), publicID(a)))

		value, err := cache.Get(context.Background(), constant.ArticleViewCountKeyPrefix+publicID(a))
		require.NoError(t, err)
		assert.Equal(t, "2", value)
	})

	t.Run("无缓存直接写库", func(t *testing.T) {
		fx := newFixture(t)
		a := fx.seed(t, "chetena", fx.society, 0, nil)
		require.NoError(t, fx.svc.IncrementViewCount(context.Background(), publicID(a)))

		stored, err := fx.repos.Article.FindByID(context.Background(), a.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.ViewCount)
	})

	t.Run("草稿不计数", func(t *testing.T) {
		fx := newFixture(t)
		a := fx.seed(t, "chernova", fx.society, 0, func(a *model.Article) { a.Status = model.ArticleStatusDraft })
		assert.ErrorIs(t, fx.svc.IncrementViewCount(context.Background(), publicID(a)), constant.ErrNotFound)
	})
}

func TestDelete(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	a := fx.seed(t, "za-iztrivane", fx.society, 0, nil)

	require.NoError(t, fx.svc.Delete(ctx, publicID(a)))
	_, err := fx.repos.Article.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, constant.ErrNotFound)
	assert.ErrorIs(t, fx.svc.Delete(ctx, publicID(a)), constant.ErrNotFound)
}

func TestToSummaryDefaults(t *testing.T) {
	summary := ToSummary(&model.Article{ID: 1, Title: "x", Slug: "x"})
	assert.Equal(t, model.UnknownAuthorName, summary.AuthorName)
	assert.Equal(t, model.UncategorizedName, summary.CategoryName)
	assert.Equal(t, "//x", summary.URL)
}

func TestPreviewSlug(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	own := fx.seed(t, "test", fx.society, 1, nil)

	got, err := fx.svc.PreviewSlug(ctx, "Тест", "")
	require.NoError(t, err)
	assert.Equal(t, "test-2", got)

	got, err = fx.svc.PreviewSlug(ctx, "Тест", publicID(own))
	require.NoError(t, err)
	assert.Equal(t, "test", got)

	_, err = fx.svc.PreviewSlug(ctx, "!!!", "")
	assert.ErrorIs(t, err, constant.ErrBadRequest)

	_, err = fx.svc.PreviewSlug(ctx, "Тест", "bad-id")
	assert.ErrorIs(t, err, constant.ErrInvalidPublicID)
}
