// Package promise 实现单次完成句柄
//
// Promise 代表一次异步操作的最终结果。通道的连接、写入、关闭
// 操作都通过 Promise 报告结果；级联（Cascade）用于把一个完成
// 结果原样转发给另一个 Promise。
package promise

import (
	"context"
	"sync"

	"github.com/dep2p/go-netchannel/pkg/interfaces"
)

// 确保实现了 interfaces.Promise 接口
var _ interfaces.Promise = (*Promise)(nil)

// Promise 单次完成句柄
//
// 零值不可用，必须通过 New 创建。
type Promise struct {
	mu        sync.Mutex
	completed bool
	err       error
	callbacks []func(error)
	done      chan struct{}
}

// New 创建未完成的 Promise
func New() *Promise {
	return &Promise{
		done: make(chan struct{}),
	}
}

// Completed 创建已完成的 Promise
//
// err 为 nil 表示成功完成。
func Completed(err error) *Promise {
	p := New()
	p.Complete(err)
	return p
}

// Complete 完成 Promise
//
// 只有第一次调用生效，返回本次调用是否真正完成了 Promise。
// 注册的回调在完成方 goroutine 中按注册顺序执行。
func (p *Promise) Complete(err error) bool {
	p.mu.Lock()
	if p.completed {
		p.mu.Unlock()
		return false
	}
	p.completed = true
	p.err = err
	callbacks := p.callbacks
	p.callbacks = nil
	close(p.done)
	p.mu.Unlock()

	for _, fn := range callbacks {
		fn(err)
	}
	return true
}

// OnComplete 注册完成回调
//
// 若注册时已完成，回调立即在调用方 goroutine 中执行。
func (p *Promise) OnComplete(fn func(err error)) {
	p.mu.Lock()
	if !p.completed {
		p.callbacks = append(p.callbacks, fn)
		p.mu.Unlock()
		return
	}
	err := p.err
	p.mu.Unlock()

	fn(err)
}

// Cascade 级联到另一个 Promise
//
// 本 Promise 完成时，把同样的成功/失败结果转发给 target。
func (p *Promise) Cascade(target interfaces.Promise) {
	if target == nil {
		return
	}
	p.OnComplete(func(err error) {
		target.Complete(err)
	})
}

// Done 返回完成信号通道
func (p *Promise) Done() <-chan struct{} {
	return p.done
}

// Err 返回完成结果
//
// 未完成时返回 nil。无法区分"未完成"和"成功完成"，
// 需要区分时先检查 Done。
func (p *Promise) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Await 阻塞等待完成
//
// ctx 取消时提前返回 ctx.Err()，不影响 Promise 本身。
func (p *Promise) Await(ctx context.Context) error {
	select {
	case <-p.done:
		return p.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
