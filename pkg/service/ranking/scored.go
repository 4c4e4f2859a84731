/*
 * @Description: 打分排序的基础类型
 * @Author: 安知鱼
 * @Date: 2026-09-04 09:20:17
 * @LastEditTime: 2026-09-22 15:02:40
 * @LastEditors: 安知鱼
 */
package ranking

import (
	"sort"
	"time"

	"github.com/predelnews/predelnews-app/pkg/domain/model"
)

// ScoredArticle 一篇候选文章及其得分。
// Container 是文章所在的分类，PublishDate 用于同分时的排序。
type ScoredArticle struct {
	Article     *model.Article
	Container   *model.Category
	Score       float64
	PublishDate time.Time
}

func newScored(a *model.Article, score float64) ScoredArticle {
	return ScoredArticle{
		Article:     a,
		Container:   a.Category,
		Score:       score,
		PublishDate: a.PublishDate,
	}
}

// sortByScore 按得分降序，同分按发布时间降序
func sortByScore(items []ScoredArticle) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].PublishDate.After(items[j].PublishDate)
	})
}

// Articles 取出排序后的文章
func Articles(items []ScoredArticle) []*model.Article {
	out := make([]*model.Article, len(items))
	for i, it := range items {
		out[i] = it.Article
	}
	return out
}

func take(items []ScoredArticle, n int) []ScoredArticle {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}
