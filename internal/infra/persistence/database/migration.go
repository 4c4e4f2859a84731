/*
 * @Description: 数据库迁移服务（建表与增量字段）
 * @Author: 安知鱼
 * @Date: 2025-12-08
 */
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
)

// MigrationService 数据库迁移服务
type MigrationService struct {
	db      *sql.DB
	dialect Dialect
}

// NewMigrationService 创建迁移服务
func NewMigrationService(db *sql.DB, dialect Dialect) *MigrationService {
	return &MigrationService{
		db:      db,
		dialect: dialect,
	}
}

// columnSpec 字段在各方言下的类型
type columnSpec struct {
	name                    string
	sqlite, mysql, postgres string
}

func (c columnSpec) typeFor(d Dialect) string {
	switch d {
	case DialectMySQL:
		return c.mysql
	case DialectPostgres:
		return c.postgres
	default:
		return c.sqlite
	}
}

var (
	colID   = columnSpec{"id", "INTEGER PRIMARY KEY AUTOINCREMENT", "BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY", "BIGSERIAL PRIMARY KEY"}
	colName = columnSpec{"name", "TEXT NOT NULL", "VARCHAR(255) NOT NULL", "VARCHAR(255) NOT NULL"}
	colSlug = columnSpec{"slug", "TEXT NOT NULL", "VARCHAR(255) NOT NULL", "VARCHAR(255) NOT NULL"}
)

func colText(name string) columnSpec {
	return columnSpec{name, "TEXT NOT NULL DEFAULT ''", "TEXT NOT NULL DEFAULT ('')", "TEXT NOT NULL DEFAULT ''"}
}

func colLongText(name string) columnSpec {
	return columnSpec{name, "TEXT NOT NULL DEFAULT ''", "LONGTEXT NOT NULL DEFAULT ('')", "TEXT NOT NULL DEFAULT ''"}
}

func colString(name string) columnSpec {
	return columnSpec{name, "TEXT NOT NULL DEFAULT ''", "VARCHAR(512) NOT NULL DEFAULT ''", "VARCHAR(512) NOT NULL DEFAULT ''"}
}

func colInt(name string) columnSpec {
	return columnSpec{name, "INTEGER NOT NULL DEFAULT 0", "INT NOT NULL DEFAULT 0", "INTEGER NOT NULL DEFAULT 0"}
}

func colRef(name string) columnSpec {
	return columnSpec{name, "INTEGER NOT NULL DEFAULT 0", "BIGINT UNSIGNED NOT NULL DEFAULT 0", "BIGINT NOT NULL DEFAULT 0"}
}

func colNullRef(name string) columnSpec {
	return columnSpec{name, "INTEGER NULL", "BIGINT UNSIGNED NULL", "BIGINT NULL"}
}

func colBool(name string) columnSpec {
	return columnSpec{name, "BOOLEAN NOT NULL DEFAULT 0", "TINYINT(1) NOT NULL DEFAULT 0", "BOOLEAN NOT NULL DEFAULT FALSE"}
}

// colMillis 时间统一存为 Unix 毫秒
func colMillis(name string) columnSpec {
	return columnSpec{name, "INTEGER NOT NULL DEFAULT 0", "BIGINT NOT NULL DEFAULT 0", "BIGINT NOT NULL DEFAULT 0"}
}

type tableSpec struct {
	name    string
	columns []columnSpec
	indexes []string
}

var tables = []tableSpec{
	{
		name: "categories",
		columns: []columnSpec{colID, colName, colSlug, colText("description"), colInt("sort_order"),
			colBool("is_main_navigation"), colString("meta_title"), colString("meta_description")},
		indexes: []string{"CREATE UNIQUE INDEX idx_categories_slug ON categories(slug)"},
	},
	{
		name:    "regions",
		columns: []columnSpec{colID, colName, colSlug},
		indexes: []string{"CREATE UNIQUE INDEX idx_regions_slug ON regions(slug)"},
	},
	{
		name:    "tags",
		columns: []columnSpec{colID, colName, colSlug},
		indexes: []string{"CREATE UNIQUE INDEX idx_tags_slug ON tags(slug)"},
	},
	{
		name: "authors",
		columns: []columnSpec{colID, colName, colSlug, colText("bio"), colString("email"),
			colString("twitter_handle"), colString("facebook_url"), colString("linkedin_url")},
		indexes: []string{"CREATE UNIQUE INDEX idx_authors_slug ON authors(slug)"},
	},
	{
		name: "articles",
		columns: []columnSpec{colID, colString("title"), colSlug, colString("subtitle"), colText("excerpt"),
			colLongText("content"), colMillis("publish_date"), colMillis("updated_at"),
			{"status", "TEXT NOT NULL DEFAULT 'draft'", "VARCHAR(16) NOT NULL DEFAULT 'draft'", "VARCHAR(16) NOT NULL DEFAULT 'draft'"},
			colRef("author_id"), colRef("category_id"), colNullRef("region_id"), colInt("view_count"),
			colBool("is_featured"), colBool("is_breaking_news"), colBool("is_sponsored"), colString("sponsor_name"),
			colText("cover_image"), colText("featured_image"), colString("meta_title"), colString("meta_description")},
		indexes: []string{
			"CREATE UNIQUE INDEX idx_articles_slug ON articles(slug)",
			"CREATE INDEX idx_articles_category ON articles(category_id, status, publish_date)",
			"CREATE INDEX idx_articles_publish ON articles(status, publish_date)",
		},
	},
	{
		name:    "article_tags",
		columns: []columnSpec{colRef("article_id"), colRef("tag_id"), colInt("position")},
		indexes: []string{
			"CREATE UNIQUE INDEX idx_article_tags_pair ON article_tags(article_id, tag_id)",
			"CREATE INDEX idx_article_tags_tag ON article_tags(tag_id)",
		},
	},
}

// 后续版本新增的文章字段
var articleAddedColumns = []columnSpec{
	colLongText("content_markdown"),
	colString("canonical_url"),
	colText("related_override"),
}

// RunMigrations 执行所有迁移
func (m *MigrationService) RunMigrations(ctx context.Context) error {
	log.Println("📋 开始执行数据库迁移...")

	for _, t := range tables {
		if err := m.createTable(ctx, t); err != nil {
			return fmt.Errorf("创建表 %s 失败: %w", t.name, err)
		}
	}
	for _, c := range articleAddedColumns {
		if err := m.addColumn(ctx, "articles", c); err != nil {
			return fmt.Errorf("%s 字段迁移失败: %w", c.name, err)
		}
	}

	log.Println("✅ 数据库迁移完成")
	return nil
}

func (m *MigrationService) createTable(ctx context.Context, t tableSpec) error {
	defs := make([]string, len(t.columns))
	for i, c := range t.columns {
		defs[i] = c.name + " " + c.typeFor(m.dialect)
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.name, strings.Join(defs, ", "))
	if m.dialect == DialectMySQL {
		stmt += " DEFAULT CHARSET=utf8mb4"
	}
	if _, err := m.db.ExecContext(ctx, stmt); err != nil {
		return err
	}

	for _, idx := range t.indexes {
		if err := m.createIndex(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}

// createIndex MySQL 不支持 IF NOT EXISTS，重复索引的错误直接忽略
func (m *MigrationService) createIndex(ctx context.Context, stmt string) error {
	if m.dialect != DialectMySQL {
		stmt = strings.Replace(stmt, "INDEX ", "INDEX IF NOT EXISTS ", 1)
	}
	_, err := m.db.ExecContext(ctx, stmt)
	if err != nil && m.dialect == DialectMySQL && strings.Contains(err.Error(), "Duplicate key name") {
		return nil
	}
	return err
}

func (m *MigrationService) addColumn(ctx context.Context, tableName string, c columnSpec) error {
	exists, err := m.columnExists(ctx, tableName, c.name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	log.Printf("  → 添加 %s.%s 字段...", tableName, c.name)
	_, err = m.db.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", tableName, c.name, c.typeFor(m.dialect)))
	return err
}

// columnExists 检查列是否存在
func (m *MigrationService) columnExists(ctx context.Context, tableName, columnName string) (bool, error) {
	var query string
	switch m.dialect {
	case DialectMySQL:
		query = `
			SELECT COUNT(*)
			FROM INFORMATION_SCHEMA.COLUMNS
			WHERE TABLE_SCHEMA = DATABASE()
			AND TABLE_NAME = ?
			AND COLUMN_NAME = ?
		`
	case DialectPostgres:
		query = `
			SELECT COUNT(*)
			FROM information_schema.columns
			WHERE table_name = ?
			AND column_name = ?
		`
	case DialectSQLite:
		query = `
			SELECT COUNT(*)
			FROM pragma_table_info(?)
			WHERE name = ?
		`
	default:
		return false, fmt.Errorf("不支持的数据库类型: %s", m.dialect)
	}

	var count int
	if err := m.db.QueryRowContext(ctx, m.dialect.Rebind(query), tableName, columnName).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
