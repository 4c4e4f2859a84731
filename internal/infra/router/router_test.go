package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predelnews/predelnews-app/internal/app/middleware"
	"github.com/predelnews/predelnews-app/internal/infra/persistence/memory"
	"github.com/predelnews/predelnews-app/internal/pkg/auth"
	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/predelnews/predelnews-app/pkg/domain/repository"
	article_handler "github.com/predelnews/predelnews-app/pkg/handler/article"
	search_handler "github.com/predelnews/predelnews-app/pkg/handler/search"
	taxonomy_handler "github.com/predelnews/predelnews-app/pkg/handler/taxonomy"
	version_handler "github.com/predelnews/predelnews-app/pkg/handler/version"
	"github.com/predelnews/predelnews-app/pkg/idgen"
	article_service "github.com/predelnews/predelnews-app/pkg/service/article"
	"github.com/predelnews/predelnews-app/pkg/service/search"
	"github.com/predelnews/predelnews-app/pkg/service/taxonomy"
)

var secret = []byte("router-test-secret")

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testApp struct {
	engine  *gin.Engine
	repos   repository.Repositories
	society *model.Category
}

func newTestApp(t *testing.T, searchBurst int) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	repos := memory.NewRepositories()
	society := &model.Category{Name: "Общество", Slug: "obshtestvo"}
	require.NoError(t, repos.Category.Create(ctx, society))
	for i := 0; i < 3; i++ {
		require.NoError(t, repos.Article.Create(ctx, &model.Article{
			Title:       []string{"Пожар в склад", "Нов парк", "Пожар в гората"}[i],
			Slug:        []string{"pozhar-v-sklad", "nov-park", "pozhar-v-gorata"}[i],
			Status:      model.ArticleStatusPublished,
			PublishDate: time.Date(2026, 9, 20+i, 10, 0, 0, 0, time.UTC),
			CategoryID:  society.ID,
		}))
	}

	limiter := middleware.NewIPRateLimiter(60, searchBurst)
	t.Cleanup(limiter.Stop)

	r := NewRouter(
		article_handler.NewHandler(article_service.NewService(repos, nil)),
		taxonomy_handler.NewHandler(taxonomy.NewService(repos, nil, nil, nil)),
		search_handler.NewHandler(search.NewSearchService(repos.Article, nil), 0),
		version_handler.NewHandler(),
		middleware.NewMiddleware(secret),
		limiter,
	)
	engine := gin.New()
	r.Setup(engine)
	return &testApp{engine: engine, repos: repos, society: society}
}

func (app *testApp) request(t *testing.T, method, path string, body interface{}, token string) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func tokenFor(t *testing.T, username string, groups ...string) string {
	t.Helper()
	tok, err := auth.GenerateToken(username, groups, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestPublicArticlePaging(t *testing.T) {
	app := newTestApp(t, 30)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "第一页", path: "/api/public/articles", wantStatus: http.StatusOK},
		{name: "显式请求末页", path: "/api/public/articles?page=2&size=2", wantStatus: http.StatusOK},
		{name: "显式页码超出范围", path: "/api/public/articles?page=3&size=2", wantStatus: http.StatusNotFound},
		{name: "非法页码回退到第一页", path: "/api/public/articles?page=abc", wantStatus: http.StatusOK},
		{name: "未知分类返回空页", path: "/api/public/categories/nyama/articles", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := app.request(t, http.MethodGet, tt.path, nil, "")
			assert.Equal(t, tt.wantStatus, status)
		})
	}

	_, env := app.request(t, http.MethodGet, "/api/public/articles?size=2", nil, "")
	var page struct {
		Items      []model.ArticleSummary `json:"items"`
		TotalItems int                    `json:"total_items"`
		TotalPages int                    `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 3, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, "pozhar-v-gorata", page.Items[0].Slug)
}

func TestArticleBySlug(t *testing.T) {
	app := newTestApp(t, 30)

	status, env := app.request(t, http.MethodGet, "/api/public/categories/obshtestvo/articles/NOV-PARK", nil, "")
	require.Equal(t, http.StatusOK, status)
	var a model.ArticleResponse
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.Equal(t, "Нов парк", a.Title)

	status, _ = app.request(t, http.MethodGet, "/api/public/categories/obshtestvo/articles/nyama", nil, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = app.request(t, http.MethodGet, "/api/public/articles/not-an-id", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSearchEndpoints(t *testing.T) {
	app := newTestApp(t, 30)

	status, env := app.request(t, http.MethodGet, "/api/search?q="+url.QueryEscape("пожар"), nil, "")
	require.Equal(t, http.StatusOK, status)
	var result struct {
		Query    string `json:"query"`
		Articles struct {
			TotalItems int `json:"total_items"`
		} `json:"articles"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "пожар", result.Query)
	assert.Equal(t, 2, result.Articles.TotalItems)

	status, _ = app.request(t, http.MethodGet, "/api/search?page=9&q="+url.QueryEscape("пожар"), nil, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, env = app.request(t, http.MethodGet, "/api/search/suggestions?q="+url.QueryEscape("по"), nil, "")
	require.Equal(t, http.StatusOK, status)
	var suggestions []string
	require.NoError(t, json.Unmarshal(env.Data, &suggestions))
	assert.Equal(t, []string{"Пожар в гората", "Пожар в склад"}, suggestions)
}

func TestSearchRateLimit(t *testing.T) {
	app := newTestApp(t, 1)

	status, _ := app.request(t, http.MethodGet, "/api/search?q="+url.QueryEscape("парк"), nil, "")
	assert.Equal(t, http.StatusOK, status)
	status, _ = app.request(t, http.MethodGet, "/api/search?q="+url.QueryEscape("парк"), nil, "")
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestAdminRoutes(t *testing.T) {
	app := newTestApp(t, 30)
	categoryID := idgen.MustPublicID(app.society.ID, idgen.EntityTypeCategory)
	body := map[string]interface{}{
		"title":       "Пожар в Благоевград",
		"category_id": categoryID,
		"status":      model.ArticleStatusPublished,
	}

	status, _ := app.request(t, http.MethodPost, "/api/admin/articles", body, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = app.request(t, http.MethodPost, "/api/admin/articles", body, tokenFor(t, "editor", "editors"))
	assert.Equal(t, http.StatusForbidden, status)

	adminToken := tokenFor(t, "admin", auth.AdminGroup)
	status, env := app.request(t, http.MethodPost, "/api/admin/articles", body, adminToken)
	require.Equal(t, http.StatusCreated, status, env.Message)
	var created model.ArticleResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "pozhar-v-blagoevgrad", created.Slug)

	status, env = app.request(t, http.MethodPost, "/api/admin/slug", map[string]string{"title": "Пожар в Благоевград"}, adminToken)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"slug":"pozhar-v-blagoevgrad-2"}`, string(env.Data))

	sponsored := map[string]interface{}{
		"title":        "Реклама",
		"category_id":  categoryID,
		"is_sponsored": true,
	}
	status, env = app.request(t, http.MethodPost, "/api/admin/articles", sponsored, adminToken)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Моля, въведете име на спонсора при маркиране като спонсорирано съдържание.", env.Message)

	status, env = app.request(t, http.MethodDelete, "/api/admin/categories/"+categoryID, nil, adminToken)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Не може да изтриете категорията — 4 статии я използват.", env.Message)
}
