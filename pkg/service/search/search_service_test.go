package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predelnews/predelnews-app/internal/infra/persistence/memory"
	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/predelnews/predelnews-app/pkg/domain/repository"
	"github.com/predelnews/predelnews-app/pkg/service/utility"
)

var fixedNow = time.Date(2026, 9, 30, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repos   repository.Repositories
	society *model.Category
	sport   *model.Category
	author  *model.Author
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	fx := &fixture{
		repos:   memory.NewRepositories(),
		society: &model.Category{Name: "Общество", Slug: "obshtestvo"},
		sport:   &model.Category{Name: "Спорт", Slug: "sport"},
		author:  &model.Author{Name: "Мария Иванова", Slug: "mariya-ivanova"},
	}
	require.NoError(t, fx.repos.Category.Create(ctx, fx.society))
	require.NoError(t, fx.repos.Category.Create(ctx, fx.sport))
	require.NoError(t, fx.repos.Author.Create(ctx, fx.author))
	return fx
}

func (fx *fixture) seed(t *testing.T, a *model.Article, cat *model.Category, daysAgo int) {
	t.Helper()
	a.PublishDate = fixedNow.AddDate(0, 0, -daysAgo)
	if a.Status == "" {
		a.Status = model.ArticleStatusPublished
	}
	a.CategoryID = cat.ID
	a.AuthorID = fx.author.ID
	require.NoError(t, fx.repos.Article.Create(context.Background(), a))
}

// seedNews 写入一组用于检索的新闻
func (fx *fixture) seedNews(t *testing.T) {
	fx.seed(t, &model.Article{Title: "Пожар в склад", Slug: "pozhar-v-sklad", Content: "<p>Огънят е овладян.</p>"}, fx.society, 1)
	fx.seed(t, &model.Article{Title: "Голям пожар", Slug: "golyam-pozhar", Excerpt: "Пожар в града", IsFeatured: true, Content: "<p>Без пострадали.</p>"}, fx.sport, 2)
	fx.seed(t, &model.Article{Title: "Футбол", Slug: "futbol", Content: "<p>Пожар на стадиона.</p>"}, fx.society, 3)
	fx.seed(t, &model.Article{Title: "Времето", Slug: "vremeto", Content: `<span class="пожар">Слънчево.</span>`}, fx.society, 4)
	fx.seed(t, &model.Article{Title: "Пожар в чернова", Slug: "pozhar-chernova", Status: model.ArticleStatusDraft}, fx.society, 0)
}

func fixedClock() func() time.Time {
	return func() time.Time { return fixedNow }
}

func slugs(items []*model.ArticleSummary) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = s.Slug
	}
	return out
}

func TestSearch(t *testing.T) {
	fx := newFixture(t)
	fx.seedNews(t)
	svc := NewSearchService(fx.repos.Article, nil, WithClock(fixedClock()))

	tests := []struct {
		name       string
		req        *model.SearchRequest
		wantSlugs  []string
		wantTotal  int
		wantCats   []string
		wantQuery  string
		wantPageSz int
	}{
		{
			name:       "同分按发布时间降序，正文命中排最后",
			req:        &model.SearchRequest{Query: "пожар"},
			wantSlugs:  []string{"pozhar-v-sklad", "golyam-pozhar", "futbol"},
			wantTotal:  3,
			wantCats:   []string{"obshtestvo", "sport"},
			wantQuery:  "пожар",
			wantPageSz: model.DefaultPageSize,
		},
		{
			name:       "每个检索词都必须命中",
			req:        &model.SearchRequest{Query: "  ПОЖАР   склад "},
			wantSlugs:  []string{"pozhar-v-sklad"},
			wantTotal:  1,
			wantCats:   []string{"obshtestvo"},
			wantQuery:  "ПОЖАР   склад",
			wantPageSz: model.DefaultPageSize,
		},
		{
			name:       "分页在排序之后截取",
			req:        &model.SearchRequest{Query: "пожар", Page: 2, Size: 2},
			wantSlugs:  []string{"futbol"},
			wantTotal:  3,
			wantCats:   []string{"obshtestvo", "sport"},
			wantQuery:  "пожар",
			wantPageSz: 2,
		},
		{
			name:       "超出末页返回空页",
			req:        &model.SearchRequest{Query: "пожар", Page: 5, Size: 2},
			wantSlugs:  []string{},
			wantTotal:  3,
			wantCats:   []string{"obshtestvo", "sport"},
			wantQuery:  "пожар",
			wantPageSz: 2,
		},
		{
			name:       "没有命中",
			req:        &model.SearchRequest{Query: "избори"},
			wantSlugs:  []string{},
			wantTotal:  0,
			wantCats:   []string{},
			wantQuery:  "избори",
			wantPageSz: model.DefaultPageSize,
		},
		{
			name:       "空白查询",
			req:        &model.SearchRequest{Query: "   "},
			wantSlugs:  []string{},
			wantTotal:  0,
			wantCats:   []string{},
			wantQuery:  "",
			wantPageSz: model.DefaultPageSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Search(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuery, result.Query)
			assert.Equal(t, tt.wantSlugs, slugs(result.Articles.Items))
			assert.Equal(t, tt.wantTotal, result.Articles.TotalItems)
			assert.Equal(t, tt.wantPageSz, result.Articles.PageSize)

			cats := make([]string, len(result.RelatedCategories))
			for i, c := range result.RelatedCategories {
				cats[i] = c.Slug
			}
			assert.Equal(t, tt.wantCats, cats)
		})
	}
}

func TestSearchNilRequest(t *testing.T) {
	fx := newFixture(t)
	result, err := NewSearchService(fx.repos.Article, nil).Search(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Articles.Items)
	assert.Equal(t, 1, result.Articles.PageNumber)
}

func TestSearchDefaultPageSize(t *testing.T) {
	fx := newFixture(t)
	fx.seedNews(t)
	svc := NewSearchService(fx.repos.Article, nil, WithPageSize(1))

	result, err := svc.Search(context.Background(), &model.SearchRequest{Query: "пожар"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Articles.PageSize)
	assert.Equal(t, 3, result.Articles.TotalPages())
	assert.True(t, result.Articles.HasNextPage())
}

func TestSearchDuration(t *testing.T) {
	fx := newFixture(t)
	fx.seedNews(t)

	tick := fixedNow
	clock := func() time.Time {
		current := tick
		tick = tick.Add(1500 * time.Microsecond)
		return current
	}
	svc := NewSearchService(fx.repos.Article, nil, WithClock(clock))

	result, err := svc.Search(context.Background(), &model.SearchRequest{Query: "пожар"})
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Microsecond, result.SearchDuration)
	assert.InDelta(t, 1.5, result.DurationMs, 0.0001)
}

func TestSearchUsesCache(t *testing.T) {
	fx := newFixture(t)
	fx.seedNews(t)
	cache := utility.NewMemoryCacheService()
	svc := NewSearchService(fx.repos.Article, cache, WithClock(fixedClock()))
	ctx := context.Background()

	first, err := svc.Search(ctx, &model.SearchRequest{Query: "пожар"})
	require.NoError(t, err)
	require.Equal(t, 3, first.Articles.TotalItems)

	fx.seed(t, &model.Article{Title: "Пожар в гората", Slug: "pozhar-v-gorata"}, fx.sport, 0)

	// 规范化后的查询命中同一个缓存键
	second, err := svc.Search(ctx, &model.SearchRequest{Query: " ПОЖАР "})
	require.NoError(t, err)
	assert.Equal(t, "ПОЖАР", second.Query)
	assert.Equal(t, 3, second.Articles.TotalItems)
	assert.Equal(t, slugs(first.Articles.Items), slugs(second.Articles.Items))

	_, err = utility.RemoveByPrefixes(ctx, cache, "predel:search:")
	require.NoError(t, err)
	third, err := svc.Search(ctx, &model.SearchRequest{Query: "пожар"})
	require.NoError(t, err)
	assert.Equal(t, 4, third.Articles.TotalItems)
	assert.Equal(t, "pozhar-v-gorata", third.Articles.Items[0].Slug)
}

func TestSuggestions(t *testing.T) {
	fx := newFixture(t)
	fx.seedNews(t)
	fx.seed(t, &model.Article{Title: "Голям пожар", Slug: "golyam-pozhar-2"}, fx.society, 5)
	svc := NewSearchService(fx.repos.Article, nil)

	tests := []struct {
		name string
		req  *model.SuggestionsRequest
		want []string
	}{
		{
			name: "按发布时间顺序且标题去重",
			req:  &model.SuggestionsRequest{Query: "пожар"},
			want: []string{"Пожар в склад", "Голям пожар"},
		},
		{
			name: "不区分大小写",
			req:  &model.SuggestionsRequest{Query: "ФУТ"},
			want: []string{"Футбол"},
		},
		{
			name: "限制数量",
			req:  &model.SuggestionsRequest{Query: "пожар", Count: 1},
			want: []string{"Пожар в склад"},
		},
		{
			name: "查询过短",
			req:  &model.SuggestionsRequest{Query: "п"},
			want: []string{},
		},
		{
			name: "查询为空白",
			req:  &model.SuggestionsRequest{Query: "   "},
			want: []string{},
		},
		{
			name: "空请求",
			req:  nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Suggestions(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
