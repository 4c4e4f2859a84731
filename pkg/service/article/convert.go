/*
 * @Description: 文章领域对象到 API 响应的转换
 * @Author: 安知鱼
 * @Date: 2026-09-26 11:02:37
 * @LastEditTime: 2026-09-26 11:40:15
 * @LastEditors: 安知鱼
 */
package article

import (
	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/predelnews/predelnews-app/pkg/idgen"
	"github.com/predelnews/predelnews-app/pkg/service/taxonomy"
)

// ToSummary 生成列表使用的文章摘要
func ToSummary(a *model.Article) *model.ArticleSummary {
	summary := &model.ArticleSummary{
		ID:             idgen.MustPublicID(a.ID, idgen.EntityTypeArticle),
		Title:          a.Title,
		Slug:           a.Slug,
		Excerpt:        a.Excerpt,
		PublishDate:    a.PublishDate,
		AuthorName:     model.UnknownAuthorName,
		CategoryName:   model.UncategorizedName,
		CategorySlug:   a.CategorySlug(),
		FeaturedImage:  a.FeaturedImage,
		ViewCount:      a.ViewCount,
		IsFeatured:     a.IsFeatured,
		IsBreakingNews: a.IsBreakingNews,
		URL:            a.URL(),
	}
	if a.Author != nil {
		summary.AuthorName = a.Author.Name
	}
	if a.Category != nil {
		summary.CategoryName = a.Category.Name
	}
	return summary
}

// ToSummaries 批量生成文章摘要，结果不会为 nil
func ToSummaries(articles []*model.Article) []*model.ArticleSummary {
	out := make([]*model.ArticleSummary, 0, len(articles))
	for _, a := range articles {
		if a != nil {
			out = append(out, ToSummary(a))
		}
	}
	return out
}

// ToResponse 生成文章详情响应
func ToResponse(a *model.Article) *model.ArticleResponse {
	resp := &model.ArticleResponse{
		ID:              idgen.MustPublicID(a.ID, idgen.EntityTypeArticle),
		Title:           a.Title,
		Slug:            a.Slug,
		Subtitle:        a.Subtitle,
		Excerpt:         a.Excerpt,
		Content:         a.Content,
		PublishDate:     a.PublishDate,
		UpdatedAt:       a.UpdatedAt,
		Author:          taxonomy.AuthorToResponse(a.Author),
		Category:        taxonomy.CategoryToResponse(a.Category),
		Region:          taxonomy.RegionToResponse(a.Region),
		Tags:            taxonomy.TagsToResponse(a.Tags),
		FeaturedImage:   a.FeaturedImage,
		ViewCount:       a.ViewCount,
		IsFeatured:      a.IsFeatured,
		IsBreakingNews:  a.IsBreakingNews,
		IsSponsored:     a.IsSponsored,
		SponsorName:     a.SponsorName,
		MetaTitle:       a.MetaTitle,
		MetaDescription: a.MetaDescription,
		CanonicalURL:    a.CanonicalURL,
		URL:             a.URL(),
	}
	if resp.MetaTitle == "" {
		resp.MetaTitle = a.Title
	}
	if resp.MetaDescription == "" {
		resp.MetaDescription = a.Excerpt
	}
	return resp
}
