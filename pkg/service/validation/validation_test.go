package validation

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predelnews/predelnews-app/internal/pkg/auth"
	"github.com/predelnews/predelnews-app/pkg/constant"
	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/predelnews/predelnews-app/pkg/domain/repository"
)

func TestCountTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "空值", raw: "", want: 0},
		{name: "单个", raw: "a", want: 1},
		{name: "忽略空段与空白", raw: " a , ,b,, c ", want: 3},
		{name: "只有逗号", raw: ",,,", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountTags(tt.raw))
		})
	}
}

func TestValidateTagCount(t *testing.T) {
	assert.NoError(t, ValidateTagCount("1,2,3,4,5,6,7,8,9,10"))
	assert.NoError(t, ValidateTagCount("   "))

	err := ValidateTagCount("1,2,3,4,5,6,7,8,9,10,11")
	require.Error(t, err)
	assert.ErrorIs(t, err, constant.ErrBadRequest)
	assert.Equal(t, "Максималният брой тагове е 10. Избрали сте 11.", err.Error())

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, DefaultTitle, verr.Title)
}

func TestHasAltText(t *testing.T) {
	tests := []struct {
		name string
		json string
		want bool
	}{
		{name: "空值通过", json: "", want: true},
		{name: "没有图片引用", json: `[{"foo":"bar"}]`, want: true},
		{name: "有替代文本", json: `[{"mediaKey":"abc","altText":"Снимка"}]`, want: true},
		{name: "大小写不敏感", json: `[{"MEDIAKEY":"abc","ALTTEXT":"x"}]`, want: true},
		{name: "冒号后有空白", json: `[{"mediaKey":"abc","altText":   "x"}]`, want: true},
		{name: "缺少替代文本", json: `[{"mediaKey":"abc"}]`, want: false},
		{name: "替代文本为空", json: `[{"mediaKey":"abc","altText":""}]`, want: false},
		{name: "替代文本为null", json: `[{"mediaKey":"abc","altText":null}]`, want: false},
		{name: "值被截断", json: `[{"mediaKey":"abc","altText":`, want: false},
		{name: "没有冒号", json: `[{"mediaKey":"abc","altText"`, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasAltText(tt.json))
		})
	}
}

func TestValidateSponsored(t *testing.T) {
	admin := &auth.CustomClaims{Username: "admin", Groups: []string{auth.AdminGroup}}
	editor := &auth.CustomClaims{Username: "editor", Groups: []string{"editor"}}

	tests := []struct {
		name      string
		sponsored bool
		sponsor   string
		actor     *auth.CustomClaims
		wantKind  error
		wantMsg   string
	}{
		{name: "非赞助内容不校验", sponsored: false, actor: nil},
		{name: "未登录", sponsored: true, sponsor: "X", actor: nil, wantKind: constant.ErrUnauthorized,
			wantMsg: "Не може да се зададе спонсорирано съдържание без автентикация."},
		{name: "非管理员", sponsored: true, sponsor: "X", actor: editor, wantKind: constant.ErrForbidden,
			wantMsg: "Само администратори могат да маркират съдържание като спонсорирано."},
		{name: "缺少赞助方", sponsored: true, sponsor: "  ", actor: admin, wantKind: constant.ErrBadRequest,
			wantMsg: "Моля, въведете име на спонсора при маркиране като спонсорирано съдържание."},
		{name: "管理员且填写赞助方", sponsored: true, sponsor: "Фирма", actor: admin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSponsored(tt.sponsored, tt.sponsor, tt.actor)
			if tt.wantKind == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantKind)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestValidateArticleSaveOrder(t *testing.T) {
	req := &model.SaveArticleRequest{
		Title:       "Тест",
		Tags:        "1,2,3,4,5,6,7,8,9,10,11",
		CoverImage:  `[{"mediaKey":"abc"}]`,
		IsSponsored: true,
	}
	err := ValidateArticleSave(req, nil)
	assert.Contains(t, err.Error(), "Максималният брой тагове")

	req.Tags = "1"
	err = ValidateArticleSave(req, nil)
	assert.Contains(t, err.Error(), "алтернативен текст")

	req.CoverImage = ""
	err = ValidateArticleSave(req, nil)
	assert.ErrorIs(t, err, constant.ErrUnauthorized)

	req.IsSponsored = false
	assert.NoError(t, ValidateArticleSave(req, nil))
}

type fakeLister struct {
	articles []*model.Article
	calls    int
}

func (f *fakeLister) List(ctx context.Context, q repository.PageQuery) (*repository.PageResult[model.Article], error) {
	f.calls++
	start := q.Offset()
	if start > len(f.articles) {
		start = len(f.articles)
	}
	end := start + q.PageSize
	if end > len(f.articles) {
		end = len(f.articles)
	}
	items := make([]*model.Article, 0, end-start)
	for _, a := range f.articles[start:end] {
		items = append(items, a)
	}
	return &repository.PageResult[model.Article]{Items: items, Total: int64(len(f.articles))}, nil
}

func TestGuardTaxonomyDelete(t *testing.T) {
	region := uint(2)
	lister := &fakeLister{}
	for i := 0; i < 1200; i++ {
		a := &model.Article{ID: uint(i + 1), CategoryID: 5}
		if i < 3 {
			a.CategoryID = 1
		}
		if i == 0 {
			a.RegionID = &region
		}
		lister.articles = append(lister.articles, a)
	}

	t.Run("分类被多篇文章引用", func(t *testing.T) {
		err := GuardTaxonomyDelete(context.Background(), lister, model.TaxonomyCategory, 1)
		assert.ErrorIs(t, err, constant.ErrConflict)
		assert.Equal(t, "Не може да изтриете категорията — 3 статии я използват.", err.Error())
	})

	t.Run("地区被一篇文章引用", func(t *testing.T) {
		err := GuardTaxonomyDelete(context.Background(), lister, model.TaxonomyRegion, 2)
		assert.Equal(t, "Не може да изтриете региона — 1 статия я използва.", err.Error())
	})

	t.Run("分页读取全部文章", func(t *testing.T) {
		lister.calls = 0
		count, err := CountReferencingArticles(context.Background(), lister, func(a *model.Article) bool {
			return a.CategoryID == 5
		})
		require.NoError(t, err)
		assert.Equal(t, 1197, count)
		assert.Equal(t, 3, lister.calls)
	})

	t.Run("未被引用", func(t *testing.T) {
		assert.NoError(t, GuardTaxonomyDelete(context.Background(), lister, model.TaxonomyCategory, 99))
	})

	t.Run("标签不受保护", func(t *testing.T) {
		assert.NoError(t, GuardTaxonomyDelete(context.Background(), lister, model.TaxonomyTag, 1))
	})
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "无错误", err: nil, want: http.StatusOK},
		{name: "参数错误", err: newError(constant.ErrBadRequest, "x"), want: http.StatusBadRequest},
		{name: "未登录", err: newError(constant.ErrUnauthorized, "x"), want: http.StatusUnauthorized},
		{name: "无权限", err: newError(constant.ErrForbidden, "x"), want: http.StatusForbidden},
		{name: "冲突", err: newError(constant.ErrConflict, "x"), want: http.StatusConflict},
		{name: "不存在", err: constant.ErrNotFound, want: http.StatusNotFound},
		{name: "其他错误", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "x", Message(newError(constant.ErrBadRequest, "x"), "fallback"))
	assert.Equal(t, "fallback", Message(errors.New("boom"), "fallback"))
}
