/*
 * @Description: 分类/地区删除保护
 * @Author: 安知鱼
 * @Date: 2026-09-25 10:05:48
 * @LastEditTime: 2026-09-25 11:18:33
 * @LastEditors: 安知鱼
 */
package validation

import (
	"context"
	"fmt"
	"log"

	"github.com/predelnews/predelnews-app/pkg/constant"
	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/predelnews/predelnews-app/pkg/domain/repository"
)

// ReferenceScanPageSize 统计引用时每次读取的文章数
const ReferenceScanPageSize = 500

// ArticleLister 是删除保护所需的最小仓储能力
type ArticleLister interface {
	List(ctx context.Context, q repository.PageQuery) (*repository.PageResult[model.Article], error)
}

// taxonomyLabels 是提示文案中使用的宾格名称
var taxonomyLabels = map[string]string{
	model.TaxonomyCategory: "категорията",
	model.TaxonomyRegion:   "региона",
}

// CountReferencingArticles 分页遍历全部文章（包括草稿），统计 match 为真的数量
func CountReferencingArticles(ctx context.Context, articles ArticleLister, match func(*model.Article) bool) (int, error) {
	count := 0
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		result, err := articles.List(ctx, repository.PageQuery{Page: page, PageSize: ReferenceScanPageSize})
		if err != nil {
			return 0, fmt.Errorf("统计引用文章失败: %w", err)
		}
		for _, a := range result.Items {
			if match(a) {
				count++
			}
		}
		if int64(page*ReferenceScanPageSize) >= result.Total || len(result.Items) == 0 {
			break
		}
	}
	return count, nil
}

// GuardTaxonomyDelete 仍被文章引用的分类或地区不能删除，其他分类法类型不受限制
func GuardTaxonomyDelete(ctx context.Context, articles ArticleLister, kind string, id uint) error {
	label, guarded := taxonomyLabels[kind]
	if !guarded {
		return nil
	}

	count, err := CountReferencingArticles(ctx, articles, func(a *model.Article) bool {
		switch kind {
		case model.TaxonomyCategory:
			return a.CategoryID == id
		default:
			return a.RegionID != nil && *a.RegionID == id
		}
	})
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	log.Printf("⚠️ %s %d 仍被 %d 篇文章引用，已阻止删除", kind, id, count)
	return newError(constant.ErrConflict, DeleteBlockedMessage(label, count))
}

// DeleteBlockedMessage 生成删除被阻止时的提示，单复数按数量区分
func DeleteBlockedMessage(label string, count int) string {
	usage := "статии я използват"
	if count == 1 {
		usage = "статия я използва"
	}
	return fmt.Sprintf("Не може да изтриете %s — %d %s.", label, count, usage)
}
