/*
 * @Description: 后台任务调度
 * @Author: 安知鱼
 * @Date: 2025-07-12 16:09:46
 * @LastEditTime: 2026-09-29 16:30:19
 * @LastEditors: 安知鱼
 */
package task

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/robfig/cron/v3"

	"github.com/predelnews/predelnews-app/pkg/domain/repository"
	"github.com/predelnews/predelnews-app/pkg/service/utility"
)

// defaultWorkerCount 处理派发任务的 worker 数量
const defaultWorkerCount = 2

// Broker 是整个后台任务模块的核心协调者。
type Broker struct {
	cron        *cron.Cron
	logger      *slog.Logger
	jobQueue    chan Job
	articleRepo repository.ArticleRepository
	cacheSvc    utility.CacheService
	taxonomy    CategoryWarmer
	articles    ArticleWarmer
}

// NewBroker 是 Broker 的构造函数。logger 为 nil 时输出到标准输出。
func NewBroker(
	logger *slog.Logger,
	articleRepo repository.ArticleRepository,
	cacheSvc utility.CacheService,
	taxonomy CategoryWarmer,
	articles ArticleWarmer,
) *Broker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("system", "task_broker")
	}

	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(
			NewPanicRecoveryWrapper(logger),
			NewLoggingWrapper(logger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		),
	)

	broker := &Broker{
		cron:        c,
		logger:      logger,
		jobQueue:    make(chan Job, 100),
		articleRepo: articleRepo,
		cacheSvc:    cacheSvc,
		taxonomy:    taxonomy,
		articles:    articles,
	}
	broker.startWorkerPool(defaultWorkerCount)
	return broker
}

// startWorkerPool 启动固定数量的 worker goroutine 来处理派发的任务。
func (b *Broker) startWorkerPool(workerCount int) {
	b.logger.Info("Starting task worker pool", "concurrency", workerCount)
	chain := jobChain(b.logger)

	for i := 0; i < workerCount; i++ {
		workerID := i + 1
		go func() {
			for job := range b.jobQueue {
				b.logger.Info("Worker picked up a job", "worker_id", workerID, "job_name", job.Name())
				chain.Then(job).Run()
			}
			b.logger.Info("Worker stopped", "worker_id", workerID)
		}()
	}
}

// RegisterCronJobs 注册所有周期性任务。
func (b *Broker) RegisterCronJobs() error {
	b.logger.Info("Registering all periodic jobs...")

	jobs := []struct {
		job      Job
		schedule string
		desc     string
	}{
		{NewSyncViewCountsJob(b.articleRepo, b.cacheSvc), SyncViewCountsSchedule, "every minute"},
		{NewWarmupCacheJob(b.taxonomy, b.articles), WarmupCacheSchedule, "every 10 minutes"},
	}
	for _, j := range jobs {
		if _, err := b.cron.AddJob(j.schedule, j.job); err != nil {
			b.logger.Error("Failed to add job", "job_name", j.job.Name(), slog.Any("error", err))
			return fmt.Errorf("注册任务 '%s' 失败: %w", j.job.Name(), err)
		}
		b.logger.Info("-> Successfully registered job", "job_name", j.job.Name(), "schedule", j.desc)
	}

	b.logger.Info("All periodic jobs registered.")
	return nil
}

// Dispatch 将任务发送到队列中。
func (b *Broker) Dispatch(job Job) {
	b.jobQueue <- job
}

// DispatchCacheWarmup 在后台立即执行一次缓存预热
func (b *Broker) DispatchCacheWarmup() {
	b.Dispatch(NewWarmupCacheJob(b.taxonomy, b.articles))
	b.logger.Info("Successfully queued cache warmup job")
}

// Start 启动 cron 调度器。
func (b *Broker) Start() {
	b.logger.Info("Task broker started.")
	b.cron.Start()
}

// Stop 等待正在运行的周期任务结束，然后停止 worker。
func (b *Broker) Stop() {
	b.logger.Info("Stopping task broker...")
	ctx := b.cron.Stop()
	<-ctx.Done()
	close(b.jobQueue)
	b.logger.Info("Task broker gracefully stopped.")
}
