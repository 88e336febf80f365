package channel

import (
	"github.com/dep2p/go-netchannel/internal/core/promise"
)

// 写入流水线：待发送队列与 Flush。
// 本文件的所有方法只在通道的执行上下文中调用。

// writeInLoop 接受一次写入
//
// 通道不允许发送（未激活或出站已关闭）时立即以 ErrClosedChannel
// 失败。否则追加到待发送队列尾部并记入背压账目。
// 可写性信号是建议性的：不可写时写入仍会入队。
func (c *Channel) writeInLoop(buf []byte, p *promise.Promise) {
	if !c.state.canSend() {
		p.Complete(ErrClosedChannel)
		return
	}
	c.pending.push(pendingWrite{buf: buf, p: p})
	metricBytesQueued.Add(float64(len(buf)))
	if c.bp.bytesQueued(len(buf)) {
		c.notifyWritability()
	}
}

// flushInLoop 将当前待发送队列按 FIFO 顺序全部提交给传输
//
// 通道不活跃时为空操作。活跃而没有传输句柄违反编程不变量，直接中止。
// 每个写入作为一次独立的发送提交；完成回调按提交顺序到达，
// 逐个解析对应的 Promise 并更新背压账目。
func (c *Channel) flushInLoop() {
	if !c.state.isActive() {
		return
	}
	if c.transport == nil {
		panic("netchannel: flush on active channel with no transport handle")
	}
	for c.pending.length() > 0 {
		pw := c.pending.pop()
		n := len(pw.buf)
		p := pw.p
		c.transport.Send(pw.buf, false, func(err error) {
			// 传输把完成回调投递回执行上下文
			p.Complete(err)
			if err == nil {
				metricBytesSent.Add(float64(n))
			}
			if c.bp.bytesSent(n) {
				c.notifyWritability()
			}
		})
	}
}

// notifyWritability 向流水线通知可写性翻转
func (c *Channel) notifyWritability() {
	metricWritabilityFlips.Inc()
	c.pipeline.WritabilityChanged(c.bp.isWritable())
}
