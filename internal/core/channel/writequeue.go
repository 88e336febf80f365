package channel

import (
	"github.com/eapache/queue"

	"github.com/dep2p/go-netchannel/internal/core/promise"
)

// pendingWrite 一次已接受但尚未提交给传输的写入
//
// 每次被接受的写入创建一个 pendingWrite，按 FIFO 顺序恰好被消费一次：
// 要么由发送完成（成功或失败）消费，要么由通道关闭时的排空消费。
type pendingWrite struct {
	// buf 通道持有的字节缓冲
	buf []byte

	// p 完成句柄
	p *promise.Promise
}

// writeQueue 待发送写入的 FIFO 队列
//
// 仅在通道的执行上下文中访问，不需要同步。
type writeQueue struct {
	q *queue.Queue
}

// newWriteQueue 创建空队列
func newWriteQueue() *writeQueue {
	return &writeQueue{q: queue.New()}
}

// push 追加到队尾
func (w *writeQueue) push(pw pendingWrite) {
	w.q.Add(pw)
}

// pop 弹出队首
//
// 队列为空时 panic（调用方先检查 length）。
func (w *writeQueue) pop() pendingWrite {
	return w.q.Remove().(pendingWrite)
}

// length 返回队列长度
func (w *writeQueue) length() int {
	return w.q.Length()
}

// failAll 以 err 按 FIFO 顺序使全部待发送写入失败并清空队列
func (w *writeQueue) failAll(err error) {
	for w.q.Length() > 0 {
		pw := w.q.Remove().(pendingWrite)
		pw.p.Complete(err)
	}
}
