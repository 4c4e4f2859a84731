/*
 * @Description: URL slug 生成，西里尔字母转写为拉丁字母并解决重名
 * @Author: 安知鱼
 * @Date: 2026-09-03 14:08:21
 * @LastEditTime: 2026-09-23 10:31:56
 * @LastEditors: 安知鱼
 */
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/predelnews/predelnews-app/pkg/constant"
)

// cyrillicToLatin 保加利亚语转写表，ь 映射为空串（直接丢弃，不产生连字符）
var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ж': "zh", 'з': "z", 'и': "i", 'й': "y",
	'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o",
	'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh",
	'щ': "sht", 'ъ': "a", 'ь': "", 'ю': "yu", 'я': "ya",
}

var multiHyphen = regexp.MustCompile(`-{2,}`)

// ExistsFunc 检查候选 slug 是否已被占用
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Generate 将任意文本转换为只含 [a-z0-9-] 的 slug，空白输入返回空串
func Generate(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range strings.ToLower(input) {
		if latin, ok := cyrillicToLatin[r]; ok {
			b.WriteString(latin)
			continue
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('-')
	}

	out := multiHyphen.ReplaceAllString(b.String(), "-")
	return strings.Trim(out, "-")
}

// Generator 负责生成不重复的 slug
type Generator struct {
	maxAttempts int
}

// Option 配置 Generator
type Option func(*Generator)

// WithMaxAttempts 限制除基础 slug 外最多尝试的后缀数量，0 表示不限制
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n < 0 {
			n = 0
		}
		g.maxAttempts = n
	}
}

// NewGenerator 创建 slug 生成器，默认不限制尝试次数
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateUnique 依次尝试 base、base-2、base-3 … 返回第一个未被占用的候选。
// exists 按后缀递增顺序逐个调用，绝不并发。
func (g *Generator) GenerateUnique(ctx context.Context, input string, exists ExistsFunc) (string, error) {
	base := Generate(input)
	if base == "" {
		return "", nil
	}

	taken, err := exists(ctx, base)
	if err != nil {
		return "", fmt.Errorf("检查 slug '%s' 是否存在失败: %w", base, err)
	}
	if !taken {
		return base, nil
	}

	for n, attempts := 2, 0; g.maxAttempts == 0 || attempts < g.maxAttempts; n, attempts = n+1, attempts+1 {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate := fmt.Sprintf("%s-%d", base, n)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("检查 slug '%s' 是否存在失败: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s (最多 %d 次)", constant.ErrSlugAttemptsExhausted, base, g.maxAttempts)
}

var defaultGenerator = NewGenerator()

// GenerateUnique 使用不限次数的默认生成器
func GenerateUnique(ctx context.Context, input string, exists ExistsFunc) (string, error) {
	return defaultGenerator.GenerateUnique(ctx, input, exists)
}
