package parser

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownToHTML(t *testing.T) {
	t.Run("渲染标题与段落", func(t *testing.T) {
		out, err := MarkdownToHTML("# Заглавие\n\nПърви абзац.")
		require.NoError(t, err)
		assert.Contains(t, out, "<h1")
		assert.Contains(t, out, "Заглавие")
		assert.Contains(t, out, "<p>Първи абзац.</p>")
	})

	t.Run("移除脚本", func(t *testing.T) {
		out, err := MarkdownToHTML("текст\n\n<script>alert(1)</script>")
		require.NoError(t, err)
		assert.NotContains(t, out, "<script")
		assert.Contains(t, out, "текст")
	})

	t.Run("空内容", func(t *testing.T) {
		out, err := MarkdownToHTML("   ")
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestSanitizeHTML(t *testing.T) {
	out := SanitizeHTML(`<p onclick="x()">Здравей</p><iframe src="https://evil"></iframe>`)
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "iframe")
	assert.Contains(t, out, "Здравей")
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "空字符串", in: "", want: ""},
		{name: "段落之间保留空格", in: "<p>Първи</p><p>Втори</p>", want: "Първи Втори"},
		{name: "实体被反转义", in: "<p>Том &amp; Джери</p>", want: "Том & Джери"},
		{name: "折叠空白", in: "<div>\n  a \t\n b  </div>", want: "a b"},
		{name: "纯文本原样返回", in: "без тагове", want: "без тагове"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestExcerpt(t *testing.T) {
	t.Run("短文本不截断", func(t *testing.T) {
		assert.Equal(t, "Кратък текст", Excerpt("<p>Кратък текст</p>", 0))
	})

	t.Run("按字符截断到默认长度", func(t *testing.T) {
		body := "<p>" + strings.Repeat("я", 500) + "</p>"
		out := Excerpt(body, 0)
		assert.Equal(t, ExcerptLength, utf8.RuneCountInString(out))
		assert.True(t, utf8.ValidString(out))
	})

	t.Run("自定义长度", func(t *testing.T) {
		assert.Equal(t, "абв", Excerpt("<p>абвгд</p>", 3))
	})
}
