/*
 * @Description: 相关文章打分，包含标签重合度与加权两种策略
 * @Author: 安知鱼
 * @Date: 2026-09-04 14:40:51
 * @LastEditTime: 2026-09-23 09:18:36
 * @LastEditors: 安知鱼
 */
package ranking

import (
	"math"
	"time"

	"github.com/predelnews/predelnews-app/pkg/domain/model"
)

// 相关文章默认数量
const (
	DefaultTagOverlapCount = 5
	DefaultWeightedCount   = 4
)

// 加权策略的权重
const (
	sharedTagWeight    = 3.0
	sameCategoryWeight = 2.0
	sameRegionWeight   = 1.0
	recencyWindowDays  = 30.0
	recencyFloor       = 0.1
)

// candidates 排除参考文章本身以及未发布的文章
func candidates(ref *model.Article, pool []*model.Article) []*model.Article {
	out := make([]*model.Article, 0, len(pool))
	for _, a := range pool {
		if a == nil || !a.IsPublished() || (ref != nil && a.ID == ref.ID) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func sharedTags(refTags map[uint]struct{}, a *model.Article) int {
	n := 0
	for _, t := range a.Tags {
		if t == nil {
			continue
		}
		if _, ok := refTags[t.ID]; ok {
			n++
		}
	}
	return n
}

// ScoreTagOverlap 得分 = 共同标签数 + 1，按得分与发布时间降序取前 count 篇。
// pool 通常是参考文章同分类下的文章。
func ScoreTagOverlap(ref *model.Article, pool []*model.Article, count int) []ScoredArticle {
	if ref == nil {
		return nil
	}
	if count <= 0 {
		count = DefaultTagOverlapCount
	}
	refTags := ref.TagIDs()

	var scored []ScoredArticle
	for _, a := range candidates(ref, pool) {
		scored = append(scored, newScored(a, float64(sharedTags(refTags, a)+1)))
	}
	sortByScore(scored)
	return take(scored, count)
}

// RecencyScore 在 30 天内由 1.0 线性衰减到 0.1，此后保持 0.1
func RecencyScore(publishDate, now time.Time) float64 {
	days := now.Sub(publishDate).Hours() / 24
	return math.Max(recencyFloor, 1.0-days/recencyWindowDays)
}

// WeightedScore 共同标签*3 + 同分类 2 + 同地区 1 + 时效分
func WeightedScore(ref, a *model.Article, refTags map[uint]struct{}, now time.Time) float64 {
	score := float64(sharedTags(refTags, a)) * sharedTagWeight
	if ref.CategoryID != 0 && a.CategoryID == ref.CategoryID {
		score += sameCategoryWeight
	}
	if ref.RegionID != nil && a.RegionID != nil && *a.RegionID == *ref.RegionID {
		score += sameRegionWeight
	}
	return score + RecencyScore(a.PublishDate, now)
}

// ScoreWeightedRelated 按标签、分类、地区与时效综合打分，取前 count 篇
func ScoreWeightedRelated(ref *model.Article, pool []*model.Article, now time.Time, count int) []ScoredArticle {
	if ref == nil {
		return nil
	}
	if count <= 0 {
		count = DefaultWeightedCount
	}
	refTags := ref.TagIDs()

	var scored []ScoredArticle
	for _, a := range candidates(ref, pool) {
		scored = append(scored, newScored(a, WeightedScore(ref, a, refTags, now)))
	}
	sortByScore(scored)
	return take(scored, count)
}
