/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-07-12 16:09:46
 * @LastEditTime: 2026-09-29 15:02:11
 * @LastEditors: 安知鱼
 */
package task

// Job 是可以被 cron 调度或派发到 worker 的任务，与 cron.Job 接口兼容。
type Job interface {
	Run()
	Name() string
}

// 周期任务的调度表达式（包含秒字段）
const (
	SyncViewCountsSchedule = "0 * * * * *"
	WarmupCacheSchedule    = "0 */10 * * * *"
)
