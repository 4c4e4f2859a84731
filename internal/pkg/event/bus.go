/*
 * @Description: 一个带固定Worker池的异步事件总线
 * @Author: 安知鱼
 * @Date: 2025-07-10 19:06:12
 * @LastEditTime: 2026-09-19 16:03:27
 * @LastEditors: 安知鱼
 */
package event

import (
	"log"
	"sync"
)

// 定义事件类型
type Topic string

const (
	// 文章事件，负载为 ArticlePayload
	ArticleSaved   Topic = "article:saved"
	ArticleDeleted Topic = "article:deleted"
	// 分类、地区、标签、作者变更，负载为 TaxonomyPayload
	TaxonomyChanged Topic = "taxonomy:changed"
)

// ArticlePayload 文章事件的负载
type ArticlePayload struct {
	ArticleID    uint
	Slug         string
	CategorySlug string
}

// TaxonomyPayload 分类体系事件的负载
type TaxonomyPayload struct {
	Kind string // category / region / tag / author
	ID   uint
}

// 事件处理器函数类型
type Handler func(payload interface{})

// Event 是在通道中传递的事件结构
type Event struct {
	Topic   Topic
	Payload interface{}
}

// EventBus 实现了基于Worker池的异步事件总线
type EventBus struct {
	mu        sync.RWMutex
	handlers  map[Topic][]Handler
	eventChan chan Event     // 带缓冲的事件通道
	wg        sync.WaitGroup // 用于优雅关闭
	closed    bool
}

// 定义Worker池和通道的配置
const (
	DefaultWorkerCount = 4    // 默认启动4个后台Worker
	DefaultChannelSize = 1024 // 默认事件通道缓冲区大小
)

// NewEventBus 创建并启动一个新的事件总线
func NewEventBus() *EventBus {
	return NewEventBusWithSize(DefaultWorkerCount, DefaultChannelSize)
}

// NewEventBusWithSize 使用指定的 worker 数量和缓冲区大小创建事件总线
func NewEventBusWithSize(workers, bufferSize int) *EventBus {
	if workers <= 0 {
		workers = DefaultWorkerCount
	}
	if bufferSize <= 0 {
		bufferSize = DefaultChannelSize
	}
	bus := &EventBus{
		handlers:  make(map[Topic][]Handler),
		eventChan: make(chan Event, bufferSize),
	}
	bus.startWorkers(workers)
	return bus
}

// startWorkers 启动固定数量的后台worker
func (b *EventBus) startWorkers(count int) {
	for i := 0; i < count; i++ {
		b.wg.Add(1)
		// 每个worker都是一个独立的goroutine
		go b.worker(i + 1)
	}
}

// worker 是消费者，不断从通道中读取并处理事件
func (b *EventBus) worker(workerID int) {
	defer b.wg.Done()
	log.Printf("[EventBus] Worker %d started", workerID)

	for event := range b.eventChan {
		b.mu.RLock()
		handlers := append([]Handler(nil), b.handlers[event.Topic]...)
		b.mu.RUnlock()

		for _, handler := range handlers {
			b.dispatch(event, handler)
		}
	}
	log.Printf("[EventBus] Worker %d stopped", workerID)
}

// dispatch 执行单个 handler，handler 内的 panic 不会终止 worker
func (b *EventBus) dispatch(event Event, handler Handler) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[EventBus] ERROR: handler for topic '%s' panicked: %v", event.Topic, r)
		}
	}()
	handler(event.Payload)
}

// Subscribe 订阅一个事件
func (b *EventBus) Subscribe(topic Topic, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Publish 发布一个事件
// 现在它是一个非阻塞操作，将事件发送到通道
func (b *EventBus) Publish(topic Topic, payload interface{}) {
	event := Event{Topic: topic, Payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		log.Printf("[EventBus] WARN: Bus is closed. Dropping event for topic '%s'.", topic)
		return
	}

	// 使用非阻塞发送，确保Publish永远不会阻塞调用者（主流程）
	select {
	case b.eventChan <- event:
		// 事件成功放入通道
	default:
		// 如果通道已满，这是一个警告信号，说明后台处理不过来了
		log.Printf("[EventBus] WARN: Event channel is full. Dropping event for topic '%s'.", topic)
	}
}

// Shutdown 优雅地关闭事件总线，重复调用无副作用
func (b *EventBus) Shutdown() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	log.Println("[EventBus] Shutting down...")
	b.closed = true
	close(b.eventChan) // 关闭通道，这将使worker的range循环结束
	b.mu.Unlock()

	b.wg.Wait() // 等待所有worker完成当前任务并退出
	log.Println("[EventBus] All workers have stopped.")
}
