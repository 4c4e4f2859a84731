/*
 * @Description: 全文搜索的相关度打分
 * @Author: 安知鱼
 * @Date: 2026-09-04 10:02:33
 * @LastEditTime: 2026-09-22 15:10:08
 * @LastEditors: 安知鱼
 */
package ranking

import (
	"strings"

	"github.com/predelnews/predelnews-app/pkg/domain/model"
)

// 搜索打分权重
const (
	titleMatchScore   = 10
	titlePrefixScore  = 5
	excerptMatchScore = 3
	featuredScore     = 2
	breakingNewsScore = 1
)

// MaxRelatedCategories 搜索结果附带的相关分类数量上限
const MaxRelatedCategories = 5

// BodyFunc 返回用于匹配的正文文本
type BodyFunc func(a *model.Article) string

// NormalizeQuery 去除首尾空白并转为小写
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// SearchTerms 将查询拆分为非空的检索词
func SearchTerms(query string) []string {
	return strings.Fields(NormalizeQuery(query))
}

// MatchesAll 每个检索词都必须出现在标题、摘要或正文其中之一
func MatchesAll(title, excerpt, body string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(title, term) && !strings.Contains(excerpt, term) && !strings.Contains(body, term) {
			return false
		}
	}
	return true
}

// RelevanceScore 计算文章相对于检索词的得分，title 与 excerpt 须已转为小写
func RelevanceScore(title, excerpt string, terms []string, featured, breaking bool) float64 {
	score := 0
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += titleMatchScore
			if strings.HasPrefix(title, term) {
				score += titlePrefixScore
			}
		}
		if strings.Contains(excerpt, term) {
			score += excerptMatchScore
		}
	}
	if featured {
		score += featuredScore
	}
	if breaking {
		score += breakingNewsScore
	}
	return float64(score)
}

// ScoreSearch 过滤出匹配全部检索词的文章并排序。
// body 为 nil 时使用 Article.Content。
func ScoreSearch(terms []string, pool []*model.Article, body BodyFunc) []ScoredArticle {
	if len(terms) == 0 {
		return nil
	}
	if body == nil {
		body = func(a *model.Article) string { return a.Content }
	}

	var matched []ScoredArticle
	for _, a := range pool {
		if a == nil {
			continue
		}
		title := strings.ToLower(a.Title)
		excerpt := strings.ToLower(a.Excerpt)
		if !MatchesAll(title, excerpt, strings.ToLower(body(a)), terms) {
			continue
		}
		matched = append(matched, newScored(a, RelevanceScore(title, excerpt, terms, a.IsFeatured, a.IsBreakingNews)))
	}
	sortByScore(matched)
	return matched
}

// RelatedCategories 按出现顺序返回命中结果涉及的不同分类，最多 limit 个
func RelatedCategories(matched []ScoredArticle, limit int) []*model.Category {
	seen := make(map[uint]struct{})
	var out []*model.Category
	for _, m := range matched {
		if len(out) >= limit {
			break
		}
		if m.Container == nil {
			continue
		}
		if _, ok := seen[m.Container.ID]; ok {
			continue
		}
		seen[m.Container.ID] = struct{}{}
		out = append(out, m.Container)
	}
	return out
}
