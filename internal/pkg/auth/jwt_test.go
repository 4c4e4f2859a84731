package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predelnews/predelnews-app/pkg/constant"
)

var testSecret = []byte("test-secret")

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("ivan", []string{"editor", AdminGroup}, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "ivan", claims.Username)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.True(t, claims.IsAdmin())
	assert.True(t, claims.HasGroup("editor"))
	assert.False(t, claims.HasGroup("owner"))
}

func TestGenerateTokenValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		secret   []byte
	}{
		{name: "空密钥", username: "ivan", secret: nil},
		{name: "空用户名", username: "  ", secret: testSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateToken(tt.username, nil, tt.secret, time.Hour)
			assert.Error(t, err)
		})
	}
}

func TestParseTokenRejects(t *testing.T) {
	t.Run("错误的密钥", func(t *testing.T) {
		token, err := GenerateToken("ivan", nil, testSecret, time.Hour)
		require.NoError(t, err)
		_, err = ParseToken(token, []byte("other"))
		assert.ErrorIs(t, err, constant.ErrInvalidToken)
	})

	t.Run("已过期", func(t *testing.T) {
		claims := CustomClaims{
			Username: "ivan",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				Issuer:    Issuer,
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
		require.NoError(t, err)
		_, err = ParseToken(token, testSecret)
		assert.ErrorIs(t, err, constant.ErrInvalidToken)
	})

	t.Run("签发者不符", func(t *testing.T) {
		claims := CustomClaims{
			Username:         "ivan",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
		require.NoError(t, err)
		_, err = ParseToken(token, testSecret)
		assert.ErrorIs(t, err, constant.ErrInvalidToken)
	})

	t.Run("格式错误", func(t *testing.T) {
		_, err := ParseToken("not-a-token", testSecret)
		assert.ErrorIs(t, err, constant.ErrInvalidToken)
	})
}

func TestHasGroupNilClaims(t *testing.T) {
	var claims *CustomClaims
	assert.False(t, claims.IsAdmin())
}
