package channel

import (
	"fmt"

	"github.com/dep2p/go-netchannel/internal/core/promise"
	"github.com/dep2p/go-netchannel/pkg/interfaces"
	"github.com/dep2p/go-netchannel/pkg/types"
)

// 传输事件适配：把传输的异步通知翻译为对状态机和关闭编排的调用。
// 传输契约保证所有通知都经由通道的执行上下文投递，
// 因此本文件的方法可以直接访问通道内部状态。

// connectInLoop 绑定传输并发起激活
//
// registered → activating；传输句柄在激活开始时被独占持有。
func (c *Channel) connectInLoop(t interfaces.Transport, p *promise.Promise) {
	if err := c.state.beginActivation(); err != nil {
		p.Complete(err)
		return
	}
	c.transport = t
	c.connectP = p

	// 套接字选项对通道不透明，原样转发；
	// 传输不认识的选项属于 API 误用，中止而不是作为可恢复错误传播
	for key, value := range c.socketOptions {
		if err := t.SetSocketOption(key, value); err != nil {
			panic(fmt.Sprintf("netchannel: set socket option %q: %v", key, err))
		}
	}

	t.SetStateHandler(c.onTransportState)
	t.SetPathHandler(c.onPathChanged)
	t.SetBetterPathHandler(c.onBetterPath)

	if c.connectTimeout > 0 {
		c.connectTimer = c.clk.AfterFunc(c.connectTimeout, func() {
			c.loop.Post(func() { c.onConnectTimeout() })
		})
	}

	logger.Debug("channel connecting", "id", c.id)
	t.Start(c.loop)
}

// onTransportState 处理传输连接状态通知
func (c *Channel) onTransportState(st types.TransportState) {
	switch st.Kind {
	case types.TransportStatePreparing:
		// 连接仍在建立中

	case types.TransportStateReady:
		c.onConnectionReady()

	case types.TransportStateWaiting:
		if c.state.phase == phaseActivating {
			// 已知限制：连接期间的瞬时受阻被吸收，既不上报也不重试
			logger.Debug("transport waiting while activating",
				"id", c.id, "err", st.Err)
			return
		}
		c.failAndClose(&types.TransportError{Err: st.Err})

	case types.TransportStateCancelled:
		// 取消通知到达时通道必须已经终止
		if !c.state.isInactive() {
			logger.Error("cancelled notification on non-inactive channel",
				"id", c.id, "phase", c.state.phase.String())
			c.fullCloseInLoop(ErrClosedChannel)
		}
		c.releaseTransport()

	case types.TransportStateFailed:
		c.failAndClose(&types.TransportError{Err: st.Err})
	}
}

// failAndClose 传输故障处置：先向流水线投递错误事件，再整体关闭
func (c *Channel) failAndClose(err error) {
	if c.state.isInactive() {
		return
	}
	c.pipeline.ErrorCaught(err)
	c.fullCloseInLoop(err)
}

// onPathChanged 路径变化通知：原样转发，不改变通道状态
func (c *Channel) onPathChanged(path types.Path) {
	c.pipeline.UserEvent(types.PathChangedEvent{Path: path})
}

// onBetterPath 更优路径通知：原样转发，不改变通道状态
func (c *Channel) onBetterPath(available bool) {
	c.pipeline.UserEvent(types.BetterPathEvent{Available: available})
}

// releaseTransport 释放传输句柄并停止执行上下文
//
// 传输投递 cancelled 后不会再有任何回调。
func (c *Channel) releaseTransport() {
	if c.transport == nil {
		return
	}
	c.transport = nil
	c.loop.Close()
	logger.Debug("transport handle released", "id", c.id)
}
