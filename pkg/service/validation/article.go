/*
 * @Description: 文章保存前的校验
 * @Author: 安知鱼
 * @Date: 2026-09-25 09:20:11
 * @LastEditTime: 2026-09-25 11:40:52
 * @LastEditors: 安知鱼
 */
package validation

import (
	"fmt"
	"log"
	"strings"
	"unicode"

	"github.com/predelnews/predelnews-app/internal/pkg/auth"
	"github.com/predelnews/predelnews-app/pkg/constant"
	"github.com/predelnews/predelnews-app/pkg/domain/model"
)

// MaxTags 每篇文章允许的最大标签数
const MaxTags = 10

// CountTags 统计选择器原始值中逗号分隔的非空条目
func CountTags(raw string) int {
	count := 0
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) != "" {
			count++
		}
	}
	return count
}

// ValidateTagCount 标签数不能超过 MaxTags
func ValidateTagCount(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if n := CountTags(raw); n > MaxTags {
		return newError(constant.ErrBadRequest,
			fmt.Sprintf("Максималният брой тагове е %d. Избрали сте %d.", MaxTags, n))
	}
	return nil
}

// HasAltText 检查媒体选择器 JSON 在引用了图片时是否带有非空的 altText。
// 只看第一个 "altText" 字段，值为 null 或 "" 视为缺失。
func HasAltText(pickerJSON string) bool {
	if strings.TrimSpace(pickerJSON) == "" {
		return true
	}
	if indexFold(pickerJSON, `"mediaKey"`) < 0 {
		return true
	}

	idx := indexFold(pickerJSON, `"altText"`)
	if idx < 0 {
		return false
	}
	rest := pickerJSON[idx+len(`"altText"`):]
	colon := strings.IndexByte(rest, ':')
	if colon < 0 {
		return false
	}
	value := strings.TrimLeftFunc(rest[colon+1:], unicode.IsSpace)
	switch {
	case value == "":
		return false
	case value[0] == 'n':
		return false
	case value[0] == '"':
		return len(value) > 1 && value[1] != '"'
	}
	return true
}

// indexFold 返回 ASCII 子串在 s 中不区分大小写的首个字节位置
func indexFold(s, substr string) int {
	n := len(substr)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

// ValidateCoverImage 封面图必须带有替代文本
func ValidateCoverImage(pickerJSON string) error {
	if !HasAltText(pickerJSON) {
		return newError(constant.ErrBadRequest, "Моля, добавете алтернативен текст за основната снимка.")
	}
	return nil
}

// ValidateSponsored 只有管理员可以把文章标记为赞助内容，且必须填写赞助方。
// actor 为 nil 表示未登录。
func ValidateSponsored(isSponsored bool, sponsorName string, actor *auth.CustomClaims) error {
	if !isSponsored {
		return nil
	}
	if actor == nil {
		return newError(constant.ErrUnauthorized, "Не може да се зададе спонсорирано съдържание без автентикация.")
	}
	if !actor.IsAdmin() {
		log.Printf("⚠️ 用户 %s 尝试在未授权的情况下设置赞助内容", actor.Username)
		return newError(constant.ErrForbidden, "Само администратори могат да маркират съдържание като спонсорирано.")
	}
	if strings.TrimSpace(sponsorName) == "" {
		return newError(constant.ErrBadRequest, "Моля, въведете име на спонсора при маркиране като спонсорирано съдържание.")
	}
	return nil
}

// ValidateArticleSave 依次执行保存前的全部校验，返回第一个失败
func ValidateArticleSave(req *model.SaveArticleRequest, actor *auth.CustomClaims) error {
	if err := ValidateTagCount(req.Tags); err != nil {
		log.Printf("⚠️ 文章 '%s' 标签数 %d 超过上限 %d", req.Title, CountTags(req.Tags), MaxTags)
		return err
	}
	if err := ValidateCoverImage(req.CoverImage); err != nil {
		log.Printf("⚠️ 文章 '%s' 的封面图缺少替代文本，已阻止保存", req.Title)
		return err
	}
	return ValidateSponsored(req.IsSponsored, req.SponsorName, actor)
}
