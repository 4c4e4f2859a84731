/*
 * @Description: 文章 SQL 仓储
 * @Author: 安知鱼
 * @Date: 2026-09-08 14:05:33
 * @LastEditTime: 2026-09-22 11:40:58
 * @LastEditors: 安知鱼
 */
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/predelnews/predelnews-app/pkg/constant"
	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/predelnews/predelnews-app/pkg/domain/repository"
)

const articleColumns = "id, title, slug, subtitle, excerpt, content, content_markdown, publish_date, updated_at, " +
	"status, author_id, category_id, region_id, view_count, is_featured, is_breaking_news, is_sponsored, " +
	"sponsor_name, cover_image, featured_image, meta_title, meta_description, canonical_url, related_override"

const articleInsertColumns = "title, slug, subtitle, excerpt, content, content_markdown, publish_date, updated_at, " +
	"status, author_id, category_id, region_id, view_count, is_featured, is_breaking_news, is_sponsored, " +
	"sponsor_name, cover_image, featured_image, meta_title, meta_description, canonical_url, related_override"

type articleRepo struct {
	*store
}

var _ repository.ArticleRepository = (*articleRepo)(nil)

func scanArticle(row rowScanner) (*model.Article, error) {
	var (
		a                       model.Article
		id, authorID, catID     int64
		regionID                sql.NullInt64
		publishMs, updatedMs    int64
		featuredJSON, overrides string
	)
	err := row.Scan(&id, &a.Title, &a.Slug, &a.Subtitle, &a.Excerpt, &a.Content, &a.ContentMarkdown,
		&publishMs, &updatedMs, &a.Status, &authorID, &catID, &regionID, &a.ViewCount,
		&a.IsFeatured, &a.IsBreakingNews, &a.IsSponsored, &a.SponsorName, &a.CoverImage, &featuredJSON,
		&a.MetaTitle, &a.MetaDescription, &a.CanonicalURL, &overrides)
	if err != nil {
		return nil, err
	}

	a.ID = uint(id)
	a.AuthorID = uint(authorID)
	a.CategoryID = uint(catID)
	if regionID.Valid {
		rid := uint(regionID.Int64)
		a.RegionID = &rid
	}
	a.PublishDate = fromMillis(publishMs)
	a.UpdatedAt = fromMillis(updatedMs)
	if featuredJSON != "" {
		var img model.MediaImage
		if err := json.Unmarshal([]byte(featuredJSON), &img); err == nil {
			a.FeaturedImage = &img
		}
	}
	a.RelatedOverrideIDs = parseIDList(overrides)
	return &a, nil
}

func articleValues(a *model.Article) []any {
	featured := ""
	if a.FeaturedImage != nil {
		if data, err := json.Marshal(a.FeaturedImage); err == nil {
			featured = string(data)
		}
	}
	var region any
	if a.RegionID != nil {
		region = int64(*a.RegionID)
	}
	return []any{a.Title, a.Slug, a.Subtitle, a.Excerpt, a.Content, a.ContentMarkdown,
		toMillis(a.PublishDate), toMillis(a.UpdatedAt), a.Status, int64(a.AuthorID), int64(a.CategoryID), region,
		a.ViewCount, a.IsFeatured, a.IsBreakingNews, a.IsSponsored, a.SponsorName, a.CoverImage, featured,
		a.MetaTitle, a.MetaDescription, a.CanonicalURL, formatIDList(a.RelatedOverrideIDs)}
}

func parseIDList(s string) []uint {
	var ids []uint
	for _, part := range strings.Split(s, ",") {
		if n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64); err == nil && n > 0 {
			ids = append(ids, uint(n))
		}
	}
	return ids
}

func formatIDList(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

// queryArticles 执行查询并填充关联数据
func (r *articleRepo) queryArticles(ctx context.Context, query string, args ...any) ([]*model.Article, error) {
	rows, err := r.query(ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询文章失败: %w", err)
	}
	var articles []*model.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("读取文章失败: %w", err)
		}
		articles = append(articles, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// hydrate 批量加载作者、分类、地区与标签
func (r *articleRepo) hydrate(ctx context.Context, articles []*model.Article) error {
	if len(articles) == 0 {
		return nil
	}

	categories, err := newCategoryRepo(r.store).List(ctx)
	if err != nil {
		return err
	}
	authors, err := newAuthorRepo(r.store).List(ctx)
	if err != nil {
		return err
	}
	regions, err := newRegionRepo(r.store).List(ctx)
	if err != nil {
		return err
	}
	catByID := make(map[uint]*model.Category, len(categories))
	for _, c := range categories {
		catByID[c.ID] = c
	}
	authorByID := make(map[uint]*model.Author, len(authors))
	for _, a := range authors {
		authorByID[a.ID] = a
	}
	regionByID := make(map[uint]*model.Region, len(regions))
	for _, rg := range regions {
		regionByID[rg.ID] = rg
	}

	ids := make([]uint, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
		a.Category = catByID[a.CategoryID]
		a.Author = authorByID[a.AuthorID]
		if a.RegionID != nil {
			a.Region = regionByID[*a.RegionID]
		}
	}

	tagsByArticle, err := r.loadTags(ctx, ids)
	if err != nil {
		return err
	}
	for _, a := range articles {
		a.Tags = tagsByArticle[a.ID]
	}
	return nil
}

func (r *articleRepo) loadTags(ctx context.Context, articleIDs []uint) (map[uint][]*model.Tag, error) {
	out := make(map[uint][]*model.Tag)
	for _, chunk := range chunks(articleIDs, inChunkSize) {
		rows, err := r.query(ctx, r.db,
			"SELECT at.article_id, t.id, t.name, t.slug FROM article_tags at JOIN tags t ON t.id = at.tag_id "+
				"WHERE at.article_id IN ("+placeholders(len(chunk))+") ORDER BY at.article_id, at.position",
			uintArgs(chunk)...)
		if err != nil {
			return nil, fmt.Errorf("查询文章标签失败: %w", err)
		}
		for rows.Next() {
			var articleID, tagID int64
			var t model.Tag
			if err := rows.Scan(&articleID, &tagID, &t.Name, &t.Slug); err != nil {
				rows.Close()
				return nil, fmt.Errorf("读取文章标签失败: %w", err)
			}
			t.ID = uint(tagID)
			out[uint(articleID)] = append(out[uint(articleID)], &t)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *articleRepo) FindByID(ctx context.Context, id uint) (*model.Article, error) {
	articles, err := r.queryArticles(ctx, "SELECT "+articleColumns+" FROM articles WHERE id = ?", int64(id))
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, constant.ErrNotFound
	}
	return articles[0], nil
}

func (r *articleRepo) FindByIDs(ctx context.Context, ids []uint) ([]*model.Article, error) {
	byID := make(map[uint]*model.Article, len(ids))
	for _, chunk := range chunks(ids, inChunkSize) {
		articles, err := r.queryArticles(ctx,
			"SELECT "+articleColumns+" FROM articles WHERE id IN ("+placeholders(len(chunk))+")", uintArgs(chunk)...)
		if err != nil {
			return nil, err
		}
		for _, a := range articles {
			byID[a.ID] = a
		}
	}
	out := make([]*model.Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *articleRepo) FindBySlug(ctx context.Context, categoryID uint, slug string) (*model.Article, error) {
	articles, err := r.queryArticles(ctx, "SELECT "+articleColumns+" FROM articles WHERE category_id = ? AND slug = ?",
		int64(categoryID), strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, constant.ErrNotFound
	}
	return articles[0], nil
}

func (r *articleRepo) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var n int
	err := r.queryRow(ctx, r.db, "SELECT COUNT(*) FROM articles WHERE slug = ? AND id <> ?",
		strings.ToLower(slug), int64(excludeID)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("检查文章 slug 失败: %w", err)
	}
	return n > 0, nil
}

func (r *articleRepo) ListPublished(ctx context.Context, scope repository.ArticleScope) ([]*model.Article, error) {
	where := []string{"status = ?"}
	args := []any{model.ArticleStatusPublished}
	if scope.CategoryID != 0 {
		where = append(where, "category_id = ?")
		args = append(args, int64(scope.CategoryID))
	}
	if scope.AuthorID != 0 {
		where = append(where, "author_id = ?")
		args = append(args, int64(scope.AuthorID))
	}
	if scope.RegionID != 0 {
		where = append(where, "region_id = ?")
		args = append(args, int64(scope.RegionID))
	}
	if scope.TagID != 0 {
		where = append(where, "id IN (SELECT article_id FROM article_tags WHERE tag_id = ?)")
		args = append(args, int64(scope.TagID))
	}
	if scope.OnlyFeatured {
		where = append(where, "is_featured = ?")
		args = append(args, true)
	}
	if scope.OnlyBreaking {
		where = append(where, "is_breaking_news = ?")
		args = append(args, true)
	}
	if !scope.Since.IsZero() {
		where = append(where, "publish_date >= ?")
		args = append(args, toMillis(scope.Since))
	}

	return r.queryArticles(ctx, "SELECT "+articleColumns+" FROM articles WHERE "+strings.Join(where, " AND ")+
		" ORDER BY publish_date DESC, id DESC", args...)
}

func (r *articleRepo) List(ctx context.Context, q repository.PageQuery) (*repository.PageResult[model.Article], error) {
	var total int64
	if err := r.queryRow(ctx, r.db, "SELECT COUNT(*) FROM articles").Scan(&total); err != nil {
		return nil, fmt.Errorf("统计文章失败: %w", err)
	}
	offset, limit := offsetLimit(q)
	articles, err := r.queryArticles(ctx, "SELECT "+articleColumns+" FROM articles ORDER BY id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Article]{Items: articles, Total: total}, nil
}

func (r *articleRepo) Create(ctx context.Context, a *model.Article) error {
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = time.Now().UTC()
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		id, err := r.insert(ctx, tx, "INSERT INTO articles ("+articleInsertColumns+") VALUES ("+placeholders(23)+")",
			articleValues(a)...)
		if err != nil {
			return fmt.Errorf("创建文章失败: %w", err)
		}
		a.ID = id
		return r.replaceTags(ctx, tx, a)
	})
}

func (r *articleRepo) Update(ctx context.Context, a *model.Article) error {
	a.UpdatedAt = time.Now().UTC()
	// 浏览量只由 UpdateViewCounts 维护
	columns := strings.Split(articleInsertColumns, ", ")
	values := articleValues(a)
	var sets []string
	var args []any
	for i, col := range columns {
		col = strings.TrimSpace(col)
		if col == "view_count" {
			continue
		}
		sets = append(sets, col+" = ?")
		args = append(args, values[i])
	}
	args = append(args, int64(a.ID))

	return r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := r.exec(ctx, tx, "UPDATE articles SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
		if err != nil {
			return fmt.Errorf("更新文章失败: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return constant.ErrNotFound
		}
		return r.replaceTags(ctx, tx, a)
	})
}

func (r *articleRepo) replaceTags(ctx context.Context, tx *sql.Tx, a *model.Article) error {
	if _, err := r.exec(ctx, tx, "DELETE FROM article_tags WHERE article_id = ?", int64(a.ID)); err != nil {
		return fmt.Errorf("清理文章标签失败: %w", err)
	}
	seen := make(map[uint]struct{}, len(a.Tags))
	for i, t := range a.Tags {
		if t == nil {
			continue
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		if _, err := r.exec(ctx, tx, "INSERT INTO article_tags (article_id, tag_id, position) VALUES (?, ?, ?)",
			int64(a.ID), int64(t.ID), i); err != nil {
			return fmt.Errorf("保存文章标签失败: %w", err)
		}
	}
	return nil
}

func (r *articleRepo) Delete(ctx context.Context, id uint) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := r.exec(ctx, tx, "DELETE FROM articles WHERE id = ?", int64(id))
		if err != nil {
			return fmt.Errorf("删除文章失败: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return constant.ErrNotFound
		}
		_, err = r.exec(ctx, tx, "DELETE FROM article_tags WHERE article_id = ?", int64(id))
		return err
	})
}

func (r *articleRepo) UpdateViewCounts(ctx context.Context, updates map[uint]int) error {
	if len(updates) == 0 {
		return nil
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for id, delta := range updates {
			if delta == 0 {
				continue
			}
			if _, err := r.exec(ctx, tx, "UPDATE articles SET view_count = view_count + ? WHERE id = ?", delta, int64(id)); err != nil {
				return fmt.Errorf("更新文章 %d 浏览量失败: %w", id, err)
			}
		}
		return nil
	})
}
