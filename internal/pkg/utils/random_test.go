package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	urlSafe := regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	for _, n := range []int{1, 16, 32, 57} {
		s, err := GenerateRandomString(n)
		require.NoError(t, err)
		assert.Len(t, s, n)
		assert.Regexp(t, urlSafe, s)
	}

	a, _ := GenerateRandomString(32)
	b, _ := GenerateRandomString(32)
	assert.NotEqual(t, a, b)

	_, err := GenerateRandomString(0)
	assert.Error(t, err)
}
