package database

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMySQLDSN(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		password string
		host     string
		port     string
		db       string
		wantAddr string
	}{
		{name: "普通参数", user: "predel", password: "secret", host: "127.0.0.1", port: "3306", db: "predelnews", wantAddr: "127.0.0.1:3306"},
		{name: "密码含特殊字符", user: "predel", password: "p@ss:w/rd?", host: "db", port: "3307", db: "news", wantAddr: "db:3307"},
		{name: "IPv6 主机", user: "root", password: "", host: "::1", port: "3306", db: "news", wantAddr: "[::1]:3306"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := MySQLDSN(tt.user, tt.password, tt.host, tt.port, tt.db)
			assert.Contains(t, dsn, "clientFoundRows=true")

			cfg, err := mysql.ParseDSN(dsn)
			require.NoError(t, err)
			assert.True(t, cfg.ClientFoundRows)
			assert.True(t, cfg.ParseTime)
			assert.Equal(t, time.Local, cfg.Loc)
			assert.Equal(t, "utf8mb4", cfg.Params["charset"])
			assert.Equal(t, tt.user, cfg.User)
			assert.Equal(t, tt.password, cfg.Passwd)
			assert.Equal(t, "tcp", cfg.Net)
			assert.Equal(t, tt.wantAddr, cfg.Addr)
			assert.Equal(t, tt.db, cfg.DBName)
		})
	}
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Dialect
		wantErr bool
	}{
		{name: "默认 sqlite", input: "", want: DialectSQLite},
		{name: "mariadb 映射为 mysql", input: "MariaDB", want: DialectMySQL},
		{name: "postgresql", input: " postgresql ", want: DialectPostgres},
		{name: "不支持的驱动", input: "oracle", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDialect(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
