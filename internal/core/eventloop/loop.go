// Package eventloop 实现通道的串行执行上下文
//
// 每个通道绑定一个 Loop：单 goroutine 按 FIFO 顺序执行投递的任务。
// 通道的全部内部状态只在 Loop 上变更，传输回调也经由 Loop 投递，
// 因此通道内部不需要锁。
package eventloop

import (
	"bytes"
	"errors"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"

	"github.com/dep2p/go-netchannel/pkg/interfaces"
)

// ErrLoopClosed Loop 已关闭
var ErrLoopClosed = errors.New("event loop closed")

// 确保实现了 interfaces.Executor 接口
var _ interfaces.Executor = (*Loop)(nil)

// Loop 串行执行上下文
//
// 任务队列无界：Post 永不阻塞，投递顺序即执行顺序。
type Loop struct {
	mu     sync.Mutex
	tasks  *queue.Queue
	closed bool

	// wake 容量为 1 的唤醒信号
	wake chan struct{}

	// gid 运行 goroutine 的 ID，用于 InLoop 判断
	gid atomic.Int64

	// done 运行 goroutine 退出后关闭
	done chan struct{}
}

// New 创建并启动 Loop
func New() *Loop {
	l := &Loop{
		tasks: queue.New(),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

// Post 投递任务
//
// 永不阻塞。已在 Loop 上调用时任务仍然排队，在当前任务结束后执行。
// Loop 关闭后投递的任务被丢弃。
func (l *Loop) Post(fn func()) {
	l.Offer(fn)
}

// Offer 投递任务并报告是否接受
//
// Loop 已关闭时返回 false，任务不会执行。
func (l *Loop) Offer(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.tasks.Add(fn)
	l.mu.Unlock()

	l.notify()
	return true
}

// InLoop 检查当前 goroutine 是否就是 Loop 的运行 goroutine
func (l *Loop) InLoop() bool {
	return l.gid.Load() == currentGoroutineID()
}

// Await 在 Loop 上执行 fn 并等待其结束
//
// 已在 Loop 上时内联执行，避免自我死锁。
// Loop 已关闭时返回 ErrLoopClosed，fn 不会执行。
func (l *Loop) Await(fn func()) error {
	if l.InLoop() {
		fn()
		return nil
	}

	done := make(chan struct{})
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopClosed
	}
	l.tasks.Add(func() {
		defer close(done)
		fn()
	})
	l.mu.Unlock()

	l.notify()
	<-done
	return nil
}

// Close 关闭 Loop
//
// 已排队的任务会先执行完毕，之后运行 goroutine 退出。幂等。
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	l.notify()
}

// Done 返回运行 goroutine 退出信号
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// notify 唤醒运行 goroutine（信号已存在时不重复投递）
func (l *Loop) notify() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// run 运行 goroutine 主体
func (l *Loop) run() {
	l.gid.Store(currentGoroutineID())
	defer close(l.done)

	for {
		l.mu.Lock()
		var fn func()
		if l.tasks.Length() > 0 {
			fn = l.tasks.Remove().(func())
		} else if l.closed {
			l.mu.Unlock()
			return
		}
		l.mu.Unlock()

		if fn != nil {
			fn()
			continue
		}
		<-l.wake
	}
}

// currentGoroutineID 返回当前 goroutine 的 ID
//
// 解析 runtime.Stack 首行 "goroutine N [running]:"。
// 只用于 InLoop 的相等判断，不依赖 ID 的任何其他语义。
func currentGoroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return -1
	}
	id, err := strconv.ParseInt(string(fields[1]), 10, 64)
	if err != nil {
		return -1
	}
	return id
}
