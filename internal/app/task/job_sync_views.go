/*
 * @Description: 浏览量计数器同步任务
 * @Author: 安知鱼
 * @Date: 2025-08-07 14:07:33
 * @LastEditTime: 2026-10-14 11:05:40
 * @LastEditors: 安知鱼
 */
package task

import (
	"context"
	"log"
	"strings"

	"github.com/predelnews/predelnews-app/pkg/constant"
	"github.com/predelnews/predelnews-app/pkg/domain/repository"
	"github.com/predelnews/predelnews-app/pkg/idgen"
	"github.com/predelnews/predelnews-app/pkg/service/utility"
)

// SyncViewCountsJob 负责将缓存中累积的浏览量同步到数据库。
type SyncViewCountsJob struct {
	repo     repository.ArticleRepository
	cacheSvc utility.CacheService
}

// NewSyncViewCountsJob 是任务的构造函数。
func NewSyncViewCountsJob(repo repository.ArticleRepository, cacheSvc utility.CacheService) *SyncViewCountsJob {
	return &SyncViewCountsJob{
		repo:     repo,
		cacheSvc: cacheSvc,
	}
}

// Name 方法返回任务的可读名称。
func (j *SyncViewCountsJob) Name() string {
	return "SyncArticleViewCountsToDBJob"
}

// Run 是 Job 接口要求实现的方法。
func (j *SyncViewCountsJob) Run() {
	if _, err := j.Sync(context.Background()); err != nil {
		log.Printf("错误: 任务 '%s' 执行失败: %v", j.Name(), err)
	}
}

// Sync 取出并删除所有计数器，按文章累加到数据库，返回更新的文章数
func (j *SyncViewCountsJob) Sync(ctx context.Context) (int, error) {
	keys, err := j.cacheSvc.Scan(ctx, constant.ArticleViewCountKeyPattern)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	viewIncrements, err := j.cacheSvc.GetAndDeleteMany(ctx, keys)
	if err != nil {
		return 0, err
	}

	updates := make(map[uint]int, len(viewIncrements))
	pending := make(map[string]int, len(viewIncrements))
	for key, increment := range viewIncrements {
		publicID := strings.TrimPrefix(key, constant.ArticleViewCountKeyPrefix)
		id, err := idgen.DecodeEntityID(publicID, idgen.EntityTypeArticle)
		if err != nil {
			log.Printf("警告: 任务 '%s' 解码 public ID '%s' 失败: %v", j.Name(), publicID, err)
			continue
		}
		if increment > 0 {
			updates[id] += increment
			pending[key] = increment
		}
	}
	if len(updates) == 0 {
		return 0, nil
	}

	if err := j.repo.UpdateViewCounts(ctx, updates); err != nil {
		j.restore(ctx, pending)
		return 0, err
	}

	log.Printf("成功: 任务 '%s' 已同步 %d 篇文章的浏览量。", j.Name(), len(updates))
	return len(updates), nil
}

// restore 把写库失败的计数加回缓存，下一轮再同步
func (j *SyncViewCountsJob) restore(ctx context.Context, pending map[string]int) {
	for key, increment := range pending {
		if _, err := j.cacheSvc.IncrementBy(ctx, key, int64(increment)); err != nil {
			log.Printf("错误: 任务 '%s' 写回计数 '%s'(+%d) 失败: %v", j.Name(), key, increment, err)
		}
	}
}
