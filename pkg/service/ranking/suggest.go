/*
 * @Description: 搜索建议
 * @Author: 安知鱼
 * @Date: 2026-09-04 11:26:09
 * @LastEditTime: 2026-09-04 11:26:09
 * @LastEditors: 安知鱼
 */
package ranking

import (
	"strings"
	"unicode/utf8"

	"github.com/predelnews/predelnews-app/pkg/domain/model"
)

// 搜索建议的默认数量与最短查询长度
const (
	DefaultSuggestionCount = 10
	MinSuggestionQueryLen  = 2
)

// Suggestions 返回标题包含查询串的不同标题，按出现顺序，最多 count 个
func Suggestions(query string, pool []*model.Article, count int) []string {
	if strings.TrimSpace(query) == "" || utf8.RuneCountInString(query) < MinSuggestionQueryLen {
		return []string{}
	}
	if count <= 0 {
		count = DefaultSuggestionCount
	}
	normalized := NormalizeQuery(query)

	seen := make(map[string]struct{})
	out := []string{}
	for _, a := range pool {
		if len(out) >= count {
			break
		}
		if a == nil || !strings.Contains(strings.ToLower(a.Title), normalized) {
			continue
		}
		if _, ok := seen[a.Title]; ok {
			continue
		}
		seen[a.Title] = struct{}{}
		out = append(out, a.Title)
	}
	return out
}
