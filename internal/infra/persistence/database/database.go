/*
 * @Description: 数据库连接管理 (支持多种数据库)
 * @Author: 安知鱼
 * @Date: 2025-07-12 16:09:46
 * @LastEditTime: 2026-10-14 11:42:18
 * @LastEditors: 安知鱼
 */
package database

import (
	"database/sql"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/predelnews/predelnews-app/pkg/config"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Dialect 是 SQL 方言
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect 将配置中的数据库类型映射为方言
func ParseDialect(dbType string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(dbType)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "mysql", "mariadb":
		return DialectMySQL, nil
	case "postgres", "postgresql":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("不支持的数据库驱动: %s (支持: mysql/mariadb, postgres, sqlite)", dbType)
	}
}

// Rebind 将 ? 占位符转换为当前方言的写法
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// DriverName 返回 database/sql 注册的驱动名
func (d Dialect) DriverName() string {
	if d == DialectSQLite {
		return "sqlite3"
	}
	return string(d)
}

// NewSQLDB 创建并返回一个标准的 *sql.DB 连接池，支持多种数据库。
func NewSQLDB(cfg *config.Config) (*sql.DB, Dialect, error) {
	dbType := cfg.GetString(config.KeyDBType)
	if dbType == "" {
		log.Println("提示: 配置文件中未指定 'Database.Type'，将默认使用 'sqlite'")
	}
	dialect, err := ParseDialect(dbType)
	if err != nil {
		return nil, "", err
	}

	dbUser := cfg.GetString(config.KeyDBUser)
	dbPass := cfg.GetString(config.KeyDBPassword)
	dbHost := cfg.GetString(config.KeyDBHost)
	dbPort := cfg.GetString(config.KeyDBPort)
	dbName := cfg.GetString(config.KeyDBName)

	var dsn string
	switch dialect {
	case DialectMySQL:
		if dbUser == "" || dbHost == "" || dbPort == "" || dbName == "" {
			return nil, "", fmt.Errorf("MySQL 连接参数不完整 (需要 User, Host, Port, Name)")
		}
		dsn = MySQLDSN(dbUser, dbPass, dbHost, dbPort, dbName)
	case DialectPostgres:
		if dbUser == "" || dbHost == "" || dbPort == "" || dbName == "" {
			return nil, "", fmt.Errorf("PostgreSQL 连接参数不完整 (需要 User, Host, Port, Name)")
		}
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPass, dbName)
	case DialectSQLite:
		dataDir := "./data"
		if err := os.MkdirAll(dataDir, os.ModePerm); err != nil {
			return nil, "", fmt.Errorf("无法创建 data 目录: %w", err)
		}
		finalDbName := dbName
		if finalDbName == "" {
			finalDbName = "predelnews.db"
		}
		finalPath := filepath.Join(dataDir, finalDbName)
		log.Printf("【提示】SQLite 数据库路径: %s\n", finalPath)
		dsn = SQLiteDSN(finalPath)
	}

	db, err := Open(dialect, dsn)
	if err != nil {
		// 不在日志中输出包含密码的 DSN
		return nil, "", err
	}

	log.Printf("✅ %s 数据库连接池创建成功！\n", dialect)
	return db, dialect, nil
}

// MySQLDSN 生成 MySQL 连接串。
// clientFoundRows 让 UPDATE 返回匹配行数，值未变化的更新不会被当作记录不存在。
func MySQLDSN(user, password, host, port, name string) string {
	c := mysql.NewConfig()
	c.User = user
	c.Passwd = password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(host, port)
	c.DBName = name
	c.ParseTime = true
	c.Loc = time.Local
	c.ClientFoundRows = true
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

// SQLiteDSN 启用外键约束的 file: DSN
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
}

// Open 打开连接池并验证连通性
func Open(dialect Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("打开 sql.DB 连接失败 (驱动: %s): %w", dialect.DriverName(), err)
	}

	if dialect == DialectSQLite {
		// SQLite 只允许单个写连接
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxIdleConns(10)
		db.SetMaxOpenConns(100)
	}
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("无法 Ping 通数据库 (驱动: %s): %w", dialect.DriverName(), err)
	}
	return db, nil
}
