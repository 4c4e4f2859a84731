package repository

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageQueryOffset(t *testing.T) {
	tests := []struct {
		name  string
		query PageQuery
		want  int
	}{
		{name: "第一页", query: PageQuery{Page: 1, PageSize: 20}, want: 0},
		{name: "第三页", query: PageQuery{Page: 3, PageSize: 20}, want: 40},
		{name: "未归一化的页码", query: PageQuery{Page: 0, PageSize: 20}, want: 0},
		{name: "未归一化的每页条数", query: PageQuery{Page: 5, PageSize: 0}, want: 0},
		{name: "超大页码不溢出", query: PageQuery{Page: 576460752303423489, PageSize: 20}, want: math.MaxInt},
		{name: "最大页码", query: PageQuery{Page: math.MaxInt, PageSize: math.MaxInt}, want: math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.Offset())
		})
	}
}

func TestPageQueryNormalize(t *testing.T) {
	q := PageQuery{Page: -3, PageSize: 0}.Normalize(20)
	assert.Equal(t, PageQuery{Page: 1, PageSize: 20}, q)
}
