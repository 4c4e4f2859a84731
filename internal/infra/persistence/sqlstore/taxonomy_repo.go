/*
 * @Description: 分类、地区、标签、作者的 SQL 仓储
 * @Author: 安知鱼
 * @Date: 2026-09-08 10:12:40
 * @LastEditTime: 2026-09-20 17:35:06
 * @LastEditors: 安知鱼
 */
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/predelnews/predelnews-app/pkg/constant"
	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/predelnews/predelnews-app/pkg/domain/repository"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// taxonomyRepo 是四类分类法数据的通用实现
type taxonomyRepo[T any] struct {
	*store
	table   string
	columns []string // 不含 id
	orderBy string
	scan    func(r rowScanner) (*T, error)
	values  func(e *T) []any
	setID   func(e *T, id uint)
}

var _ repository.CategoryRepository = (*taxonomyRepo[model.Category])(nil)

func (r *taxonomyRepo[T]) selectSQL() string {
	return fmt.Sprintf("SELECT id, %s FROM %s", strings.Join(r.columns, ", "), r.table)
}

func (r *taxonomyRepo[T]) List(ctx context.Context) ([]*T, error) {
	rows, err := r.query(ctx, r.db, r.selectSQL()+" ORDER BY "+r.orderBy)
	if err != nil {
		return nil, fmt.Errorf("查询 %s 失败: %w", r.table, err)
	}
	defer rows.Close()

	var out []*T
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("读取 %s 失败: %w", r.table, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *taxonomyRepo[T]) findOne(ctx context.Context, where string, arg any) (*T, error) {
	e, err := r.scan(r.queryRow(ctx, r.db, r.selectSQL()+" WHERE "+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, constant.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询 %s 失败: %w", r.table, err)
	}
	return e, nil
}

func (r *taxonomyRepo[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	return r.findOne(ctx, "id = ?", int64(id))
}

func (r *taxonomyRepo[T]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	return r.findOne(ctx, "slug = ?", strings.ToLower(strings.TrimSpace(slug)))
}

func (r *taxonomyRepo[T]) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var n int
	err := r.queryRow(ctx, r.db, "SELECT COUNT(*) FROM "+r.table+" WHERE slug = ? AND id <> ?",
		strings.ToLower(slug), int64(excludeID)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("检查 %s slug 失败: %w", r.table, err)
	}
	return n > 0, nil
}

func (r *taxonomyRepo[T]) Create(ctx context.Context, e *T) error {
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", r.table, strings.Join(r.columns, ", "), placeholders(len(r.columns)))
	id, err := r.insert(ctx, r.db, stmt, r.values(e)...)
	if err != nil {
		return fmt.Errorf("创建 %s 失败: %w", r.table, err)
	}
	r.setID(e, id)
	return nil
}

func (r *taxonomyRepo[T]) Delete(ctx context.Context, id uint) error {
	res, err := r.exec(ctx, r.db, "DELETE FROM "+r.table+" WHERE id = ?", int64(id))
	if err != nil {
		return fmt.Errorf("删除 %s 失败: %w", r.table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return constant.ErrNotFound
	}
	if r.table == "tags" {
		if _, err := r.exec(ctx, r.db, "DELETE FROM article_tags WHERE tag_id = ?", int64(id)); err != nil {
			return fmt.Errorf("删除标签关联失败: %w", err)
		}
	}
	return nil
}

func newCategoryRepo(s *store) *taxonomyRepo[model.Category] {
	return &taxonomyRepo[model.Category]{
		store:   s,
		table:   "categories",
		columns: []string{"name", "slug", "description", "sort_order", "is_main_navigation", "meta_title", "meta_description"},
		orderBy: "sort_order, name",
		scan: func(row rowScanner) (*model.Category, error) {
			var c model.Category
			var id int64
			if err := row.Scan(&id, &c.Name, &c.Slug, &c.Description, &c.SortOrder, &c.IsMainNavigation,
				&c.MetaTitle, &c.MetaDescription); err != nil {
				return nil, err
			}
			c.ID = uint(id)
			return &c, nil
		},
		values: func(c *model.Category) []any {
			return []any{c.Name, c.Slug, c.Description, c.SortOrder, c.IsMainNavigation, c.MetaTitle, c.MetaDescription}
		},
		setID: func(c *model.Category, id uint) { c.ID = id },
	}
}

func newRegionRepo(s *store) *taxonomyRepo[model.Region] {
	return &taxonomyRepo[model.Region]{
		store:   s,
		table:   "regions",
		columns: []string{"name", "slug"},
		orderBy: "id",
		scan: func(row rowScanner) (*model.Region, error) {
			var r model.Region
			var id int64
			if err := row.Scan(&id, &r.Name, &r.Slug); err != nil {
				return nil, err
			}
			r.ID = uint(id)
			return &r, nil
		},
		values: func(r *model.Region) []any { return []any{r.Name, r.Slug} },
		setID:  func(r *model.Region, id uint) { r.ID = id },
	}
}

func newTagRepo(s *store) *taxonomyRepo[model.Tag] {
	return &taxonomyRepo[model.Tag]{
		store:   s,
		table:   "tags",
		columns: []string{"name", "slug"},
		orderBy: "name",
		scan: func(row rowScanner) (*model.Tag, error) {
			var t model.Tag
			var id int64
			if err := row.Scan(&id, &t.Name, &t.Slug); err != nil {
				return nil, err
			}
			t.ID = uint(id)
			return &t, nil
		},
		values: func(t *model.Tag) []any { return []any{t.Name, t.Slug} },
		setID:  func(t *model.Tag, id uint) { t.ID = id },
	}
}

func newAuthorRepo(s *store) *taxonomyRepo[model.Author] {
	return &taxonomyRepo[model.Author]{
		store:   s,
		table:   "authors",
		columns: []string{"name", "slug", "bio", "email", "twitter_handle", "facebook_url", "linkedin_url"},
		orderBy: "name",
		scan: func(row rowScanner) (*model.Author, error) {
			var a model.Author
			var id int64
			if err := row.Scan(&id, &a.Name, &a.Slug, &a.Bio, &a.Email, &a.TwitterHandle, &a.FacebookURL,
				&a.LinkedInURL); err != nil {
				return nil, err
			}
			a.ID = uint(id)
			return &a, nil
		},
		values: func(a *model.Author) []any {
			return []any{a.Name, a.Slug, a.Bio, a.Email, a.TwitterHandle, a.FacebookURL, a.LinkedInURL}
		},
		setID: func(a *model.Author, id uint) { a.ID = id },
	}
}
