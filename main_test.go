package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/predelnews/predelnews-app/internal/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSlugCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "西里尔字母标题", args: []string{"slug", "Пожар", "в", "склад"}, want: "pozhar-v-sklad"},
		{name: "拉丁字母", args: []string{"slug", "Hello World!"}, want: "hello-world"},
		{name: "无法生成", args: []string{"slug", "!!!"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestTokenCommand(t *testing.T) {
	path := writeConfig(t, "[System]\nJWTSecret = cli-secret\n")

	out, err := execute(t, "token", "--config", path, "--user", "editor")
	require.NoError(t, err)

	claims, err := auth.ParseToken(out, []byte("cli-secret"))
	require.NoError(t, err)
	assert.Equal(t, "editor", claims.Username)
	assert.True(t, claims.IsAdmin())
}

func TestTokenCommandWithoutSecret(t *testing.T) {
	path := writeConfig(t, "[System]\nJWTSecret =\n")

	_, err := execute(t, "token", "--config", path, "--user", "editor")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "predelnews "))
}
