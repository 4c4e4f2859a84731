/*
 * @Description: 基于 database/sql 的仓储实现
 * @Author: 安知鱼
 * @Date: 2026-09-08 09:30:12
 * @LastEditTime: 2026-09-22 11:48:27
 * @LastEditors: 安知鱼
 */
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/predelnews/predelnews-app/internal/infra/persistence/database"
	"github.com/predelnews/predelnews-app/pkg/domain/repository"
)

// inChunkSize 单条 IN 查询的最大参数数量
const inChunkSize = 500

// querier 是 *sql.DB 与 *sql.Tx 的公共部分
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type store struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewRepositories 创建全部 SQL 仓储
func NewRepositories(db *sql.DB, dialect database.Dialect) repository.Repositories {
	s := &store{db: db, dialect: dialect}
	return repository.Repositories{
		Article:  &articleRepo{store: s},
		Category: newCategoryRepo(s),
		Region:   newRegionRepo(s),
		Tag:      newTagRepo(s),
		Author:   newAuthorRepo(s),
	}
}

func (s *store) exec(ctx context.Context, q querier, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *store) query(ctx context.Context, q querier, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *store) queryRow(ctx context.Context, q querier, query string, args ...any) *sql.Row {
	return q.QueryRowContext(ctx, s.dialect.Rebind(query), args...)
}

// insert 执行 INSERT 并返回自增 ID，PostgreSQL 使用 RETURNING
func (s *store) insert(ctx context.Context, q querier, query string, args ...any) (uint, error) {
	if s.dialect == database.DialectPostgres {
		var id int64
		if err := s.queryRow(ctx, q, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return uint(id), nil
	}
	res, err := s.exec(ctx, q, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// withTx 在事务中执行 fn，出错时回滚
func (s *store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func uintArgs(ids []uint) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = int64(id)
	}
	return args
}

func chunks(ids []uint, size int) [][]uint {
	var out [][]uint
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		out = append(out, ids[start:end])
	}
	return out
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func offsetLimit(q repository.PageQuery) (int, int) {
	q = q.Normalize(20)
	return q.Offset(), q.PageSize
}
