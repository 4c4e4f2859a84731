/*
 * @Description: 文章保存与删除
 * @Author: 安知鱼
 * @Date: 2026-09-27 09:48:12
 * @LastEditTime: 2026-09-28 10:14:33
 * @LastEditors: 安知鱼
 */
package article

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/predelnews/predelnews-app/internal/pkg/auth"
	"github.com/predelnews/predelnews-app/internal/pkg/event"
	"github.com/predelnews/predelnews-app/internal/pkg/parser"
	"github.com/predelnews/predelnews-app/pkg/constant"
	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/predelnews/predelnews-app/pkg/idgen"
	"github.com/predelnews/predelnews-app/pkg/service/validation"
)

// Save 创建（publicID 为空）或更新文章。
// 校验通过后渲染正文、补全摘要、生成唯一 slug，保存后发布 article:saved 事件。
func (s *serviceImpl) Save(ctx context.Context, actor *auth.CustomClaims, publicID string, req *model.SaveArticleRequest) (*model.ArticleResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: 请求体不能为空", constant.ErrBadRequest)
	}
	if err := validation.ValidateArticleSave(req, actor); err != nil {
		return nil, err
	}

	a := &model.Article{}
	if publicID != "" {
		existing, err := s.findReference(ctx, publicID)
		if err != nil {
			return nil, err
		}
		a = existing
	}

	if err := s.applyRequest(ctx, a, req); err != nil {
		return nil, err
	}

	slugValue, err := s.resolveSlug(ctx, a.ID, req.Slug, a.Title)
	if err != nil {
		return nil, err
	}
	a.Slug = slugValue

	if a.ID == 0 {
		err = s.repos.Article.Create(ctx, a)
	} else {
		err = s.repos.Article.Update(ctx, a)
	}
	if err != nil {
		return nil, fmt.Errorf("保存文章失败: %w", err)
	}

	saved, err := s.repos.Article.FindByID(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("读取已保存文章失败: %w", err)
	}
	log.Printf("✅ 已保存文章 '%s' -> %s", saved.Title, saved.URL())
	s.publish(event.ArticleSaved, saved)
	return ToResponse(saved), nil
}

// applyRequest 把请求写入文章对象，并解析所有公共ID
func (s *serviceImpl) applyRequest(ctx context.Context, a *model.Article, req *model.SaveArticleRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return fmt.Errorf("%w: 标题不能为空", constant.ErrBadRequest)
	}

	status := strings.TrimSpace(req.Status)
	switch status {
	case "":
		status = model.ArticleStatusDraft
	case model.ArticleStatusDraft, model.ArticleStatusPublished:
	default:
		return fmt.Errorf("%w: 未知的文章状态 '%s'", constant.ErrBadRequest, status)
	}

	categoryID, err := s.resolveTaxonomyID(ctx, req.CategoryID, idgen.EntityTypeCategory, true)
	if err != nil {
		return err
	}
	authorID, err := s.resolveTaxonomyID(ctx, req.AuthorID, idgen.EntityTypeAuthor, false)
	if err != nil {
		return err
	}
	regionID, err := s.resolveTaxonomyID(ctx, req.RegionID, idgen.EntityTypeRegion, false)
	if err != nil {
		return err
	}
	tags, err := s.resolveTags(ctx, req.TagList())
	if err != nil {
		return err
	}
	related, err := idgen.DecodeEntityIDs(req.RelatedOverride, idgen.EntityTypeArticle)
	if err != nil {
		return fmt.Errorf("%w: 相关文章ID无效", constant.ErrBadRequest)
	}

	content, err := renderContent(req)
	if err != nil {
		return err
	}

	a.Title = title
	a.Subtitle = strings.TrimSpace(req.Subtitle)
	a.Content = content
	a.ContentMarkdown = req.ContentMarkdown
	a.Excerpt = strings.TrimSpace(req.Excerpt)
	if a.Excerpt == "" {
		a.Excerpt = parser.Excerpt(content, parser.ExcerptLength)
	}
	a.Status = status
	a.CategoryID = categoryID
	a.AuthorID = authorID
	a.RegionID = nil
	if regionID != 0 {
		a.RegionID = &regionID
	}
	a.Tags = tags
	a.IsFeatured = req.IsFeatured
	a.IsBreakingNews = req.IsBreakingNews
	a.IsSponsored = req.IsSponsored
	a.SponsorName = ""
	if req.IsSponsored {
		a.SponsorName = strings.TrimSpace(req.SponsorName)
	}
	a.CoverImage = strings.TrimSpace(req.CoverImage)
	a.FeaturedImage = req.FeaturedImage
	a.MetaTitle = strings.TrimSpace(req.MetaTitle)
	a.MetaDescription = strings.TrimSpace(req.MetaDescription)
	a.CanonicalURL = strings.TrimSpace(req.CanonicalURL)
	a.RelatedOverrideIDs = related

	switch {
	case req.PublishDate != nil:
		a.PublishDate = req.PublishDate.UTC()
	case a.PublishDate.IsZero():
		a.PublishDate = s.now().UTC()
	}
	return nil
}

// renderContent Markdown 原文优先，否则清理直接提交的 HTML
func renderContent(req *model.SaveArticleRequest) (string, error) {
	if strings.TrimSpace(req.ContentMarkdown) != "" {
		html, err := parser.MarkdownToHTML(req.ContentMarkdown)
		if err != nil {
			return "", fmt.Errorf("%w: %v", constant.ErrBadRequest, err)
		}
		return html, nil
	}
	return parser.SanitizeHTML(req.Content), nil
}

// resolveTaxonomyID 解码并确认分类体系记录存在，可选字段为空时返回 0
func (s *serviceImpl) resolveTaxonomyID(ctx context.Context, publicID string, entityType uint64, required bool) (uint, error) {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		if required {
			return 0, fmt.Errorf("%w: 必须选择分类", constant.ErrBadRequest)
		}
		return 0, nil
	}
	id, err := idgen.DecodeEntityID(publicID, entityType)
	if err != nil {
		return 0, err
	}

	switch entityType {
	case idgen.EntityTypeCategory:
		_, err = s.repos.Category.FindByID(ctx, id)
	case idgen.EntityTypeAuthor:
		_, err = s.repos.Author.FindByID(ctx, id)
	case idgen.EntityTypeRegion:
		_, err = s.repos.Region.FindByID(ctx, id)
	}
	if errors.Is(err, constant.ErrNotFound) {
		return 0, fmt.Errorf("%w: 引用的记录 '%s' 不存在", constant.ErrBadRequest, publicID)
	}
	return id, err
}

func (s *serviceImpl) resolveTags(ctx context.Context, publicIDs []string) ([]*model.Tag, error) {
	ids, err := idgen.DecodeEntityIDs(publicIDs, idgen.EntityTypeTag)
	if err != nil {
		return nil, err
	}
	tags := make([]*model.Tag, 0, len(ids))
	for _, id := range ids {
		tag, err := s.repos.Tag.FindByID(ctx, id)
		if errors.Is(err, constant.ErrNotFound) {
			return nil, fmt.Errorf("%w: 标签 %d 不存在", constant.ErrBadRequest, id)
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *serviceImpl) PreviewSlug(ctx context.Context, title, publicID string) (string, error) {
	var selfID uint
	if strings.TrimSpace(publicID) != "" {
		id, err := idgen.DecodeEntityID(publicID, idgen.EntityTypeArticle)
		if err != nil {
			return "", err
		}
		selfID = id
	}
	return s.resolveSlug(ctx, selfID, "", title)
}

// resolveSlug 对请求中的 slug（为空时使用标题）去重，检查时排除文章自身
func (s *serviceImpl) resolveSlug(ctx context.Context, selfID uint, requested, title string) (string, error) {
	input := strings.TrimSpace(requested)
	if input == "" {
		input = title
	}
	value, err := s.slugGen.GenerateUnique(ctx, input, func(ctx context.Context, candidate string) (bool, error) {
		return s.repos.Article.ExistsBySlug(ctx, candidate, selfID)
	})
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", fmt.Errorf("%w: 无法从 '%s' 生成 slug", constant.ErrBadRequest, input)
	}
	return value, nil
}

// Delete 删除文章并发布 article:deleted 事件
func (s *serviceImpl) Delete(ctx context.Context, publicID string) error {
	a, err := s.findReference(ctx, publicID)
	if err != nil {
		return err
	}
	if err := s.repos.Article.Delete(ctx, a.ID); err != nil {
		return fmt.Errorf("删除文章失败: %w", err)
	}
	log.Printf("🗑️ 已删除文章 '%s'", a.Title)
	s.publish(event.ArticleDeleted, a)
	return nil
}

func (s *serviceImpl) publish(topic event.Topic, a *model.Article) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(topic, event.ArticlePayload{
		ArticleID:    a.ID,
		Slug:         a.Slug,
		CategorySlug: a.CategorySlug(),
	})
}
