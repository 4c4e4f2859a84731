/*
 * @Description: 分类体系领域对象到 API 响应的转换
 * @Author: 安知鱼
 * @Date: 2026-09-25 14:10:21
 * @LastEditTime: 2026-09-25 14:48:09
 * @LastEditors: 安知鱼
 */
package taxonomy

import (
	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/predelnews/predelnews-app/pkg/idgen"
)

// CategoryToResponse 转换分类，nil 输入返回 nil
func CategoryToResponse(c *model.Category) *model.CategoryResponse {
	if c == nil {
		return nil
	}
	return &model.CategoryResponse{
		ID:               idgen.MustPublicID(c.ID, idgen.EntityTypeCategory),
		Name:             c.Name,
		Slug:             c.Slug,
		Description:      c.Description,
		SortOrder:        c.SortOrder,
		IsMainNavigation: c.IsMainNavigation,
		MetaTitle:        c.MetaTitle,
		MetaDescription:  c.MetaDescription,
		ArticleCount:     c.ArticleCount,
		URL:              "/" + c.Slug,
	}
}

// CategoriesToResponse 批量转换分类
func CategoriesToResponse(items []*model.Category) []*model.CategoryResponse {
	out := make([]*model.CategoryResponse, 0, len(items))
	for _, c := range items {
		if c != nil {
			out = append(out, CategoryToResponse(c))
		}
	}
	return out
}

// RegionToResponse 转换地区
func RegionToResponse(r *model.Region) *model.RegionResponse {
	if r == nil {
		return nil
	}
	return &model.RegionResponse{
		ID:           idgen.MustPublicID(r.ID, idgen.EntityTypeRegion),
		Name:         r.Name,
		Slug:         r.Slug,
		ArticleCount: r.ArticleCount,
	}
}

// TagToResponse 转换标签
func TagToResponse(t *model.Tag) *model.TagResponse {
	if t == nil {
		return nil
	}
	return &model.TagResponse{
		ID:           idgen.MustPublicID(t.ID, idgen.EntityTypeTag),
		Name:         t.Name,
		Slug:         t.Slug,
		ArticleCount: t.ArticleCount,
	}
}

// TagsToResponse 批量转换标签
func TagsToResponse(items []*model.Tag) []*model.TagResponse {
	out := make([]*model.TagResponse, 0, len(items))
	for _, t := range items {
		if t != nil {
			out = append(out, TagToResponse(t))
		}
	}
	return out
}

// AuthorToResponse 转换作者，缺失的作者显示为 Unknown
func AuthorToResponse(a *model.Author) *model.AuthorResponse {
	if a == nil {
		return &model.AuthorResponse{Name: model.UnknownAuthorName, Slug: model.UnknownAuthorSlug}
	}
	return &model.AuthorResponse{
		ID:            idgen.MustPublicID(a.ID, idgen.EntityTypeAuthor),
		Name:          a.Name,
		Slug:          a.Slug,
		Bio:           a.Bio,
		Email:         a.Email,
		TwitterHandle: a.TwitterHandle,
		FacebookURL:   a.FacebookURL,
		LinkedInURL:   a.LinkedInURL,
		ArticleCount:  a.ArticleCount,
	}
}
