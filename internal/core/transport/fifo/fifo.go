// Package fifo 提供传输内部使用的可等待 FIFO 请求队列
//
// 传输的 Send/Receive 必须立即返回，实际 I/O 由后台 goroutine 执行；
// FIFO 是两者之间的交接点。
package fifo

import (
	"sync"

	"github.com/eapache/queue"
)

// FIFO 先进先出请求队列
//
// Push 永不阻塞；Wait 阻塞直到有元素或 quit 关闭。
type FIFO[T any] struct {
	mu     sync.Mutex
	items  *queue.Queue
	signal chan struct{}
}

// New 创建空队列
func New[T any]() *FIFO[T] {
	return &FIFO[T]{
		items:  queue.New(),
		signal: make(chan struct{}, 1),
	}
}

// Push 入队一个元素
func (f *FIFO[T]) Push(v T) {
	f.mu.Lock()
	f.items.Add(v)
	f.mu.Unlock()

	select {
	case f.signal <- struct{}{}:
	default:
	}
}

// Wait 出队最早的元素，队列为空时阻塞
//
// quit 关闭后返回 false（队列中剩余元素可由 Drain 取出）。
func (f *FIFO[T]) Wait(quit <-chan struct{}) (T, bool) {
	for {
		f.mu.Lock()
		if f.items.Length() > 0 {
			v := f.items.Remove().(T)
			f.mu.Unlock()
			return v, true
		}
		f.mu.Unlock()

		select {
		case <-quit:
			var zero T
			return zero, false
		case <-f.signal:
		}
	}
}

// Drain 取出队列中全部剩余元素
func (f *FIFO[T]) Drain() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]T, 0, f.items.Length())
	for f.items.Length() > 0 {
		out = append(out, f.items.Remove().(T))
	}
	return out
}
