package channel

import (
	"errors"

	"github.com/dep2p/go-netchannel/internal/core/promise"
	"github.com/dep2p/go-netchannel/pkg/types"
)

// 关闭编排：整体关闭、出站半关闭、EOF 处置、连接就绪。
// 本文件的所有方法只在通道的执行上下文中调用。

// fullCloseInLoop 整体关闭通道
//
// cause 用于使待发送写入和未完成的连接 Promise 失败。
// 已终止时为空操作（幂等）。
func (c *Channel) fullCloseInLoop(cause error) {
	if c.state.isInactive() {
		return
	}
	c.stopConnectTimer()

	if c.transport == nil {
		// 从未激活：没有可拆除的传输资源
		if c.pending.length() != 0 {
			// 不变量：未激活的通道不可能积累待发送写入
			logger.Error("pending writes on never-activated channel",
				"id", c.id, "count", c.pending.length())
			c.pending.failAll(cause)
		}
		c.state.becomeInactive()
		c.closeP.Complete(nil)
		// 不会再有传输回调，执行上下文可以直接停止
		c.loop.Close()
		return
	}

	c.transport.Cancel()
	c.pending.failAll(cause)
	if c.connectP != nil {
		c.connectP.Complete(cause)
		c.connectP = nil
	}
	wasActive := c.state.isActive()
	c.state.becomeInactive()
	if wasActive {
		metricActiveChannels.Dec()
	}
	c.closeP.Complete(nil)
	logger.Debug("channel closed", "id", c.id, "cause", cause)
}

// halfCloseOutputInLoop 半关闭出站方向
//
// 成功时向传输发送零长度最终标记，其完成结果决定 p；
// 随后以 ErrOutputClosed 使当前待发送写入失败（此后的新写入
// 已被写入流水线的状态检查拒绝）。
// 出站早已关闭时只以 ErrOutputAlreadyClosed 失败 p，不做任何拆除；
// 其他非法转换升级为整体关闭。
func (c *Channel) halfCloseOutputInLoop(p *promise.Promise) {
	if c.transport == nil {
		p.Complete(ErrClosedChannel)
		return
	}
	err := c.state.closeOutput()
	switch {
	case err == nil:
		c.transport.Send(nil, true, func(sendErr error) {
			p.Complete(sendErr)
		})
		c.pending.failAll(ErrOutputClosed)
		logger.Debug("channel output closed", "id", c.id)
	case errors.Is(err, ErrOutputAlreadyClosed):
		p.Complete(err)
	default:
		c.fullCloseInLoop(err)
		p.Complete(err)
	}
}

// onEOF 处理入站方向的干净结束
//
// 允许远端半关闭时只关闭入站方向并投递 InputClosedEvent，
// 通道保持活跃、出站方向可继续写入；转换失败升级为整体关闭。
// 不允许时 EOF 触发整体关闭。
func (c *Channel) onEOF() {
	if !c.allowRemoteHalfClosure {
		c.fullCloseInLoop(ErrReadEOF)
		return
	}
	if err := c.state.closeInput(); err != nil {
		c.fullCloseInLoop(err)
		return
	}
	logger.Debug("channel input closed by peer", "id", c.id)
	c.pipeline.UserEvent(types.InputClosedEvent{})
}

// onConnectionReady 处理传输就绪
//
// 解析连接 Promise，进入 active(open)，必要时投递握手完成事件，
// 最后按 autoRead 策略发起首次读取。
func (c *Channel) onConnectionReady() {
	c.stopConnectTimer()
	if c.connectP != nil {
		c.connectP.Complete(nil)
		c.connectP = nil
	}
	if err := c.state.becomeActive(); err != nil {
		// 重复的 ready 通知或异常时序：忽略，不破坏当前状态
		logger.Warn("unexpected ready notification",
			"id", c.id, "phase", c.state.phase.String())
		return
	}
	metricActiveChannels.Inc()
	logger.Debug("channel active",
		"id", c.id,
		"local", c.transport.LocalEndpoint().String(),
		"remote", c.transport.RemoteEndpoint().String())

	if proto := c.transport.NegotiatedProtocol(); proto != "" {
		c.pipeline.UserEvent(types.HandshakeCompletedEvent{Protocol: proto})
	}
	c.readIfNeeded()
}

// onConnectTimeout 连接建立超时
func (c *Channel) onConnectTimeout() {
	if c.state.phase != phaseActivating {
		return
	}
	logger.Warn("connect timed out", "id", c.id, "timeout", c.connectTimeout)
	c.fullCloseInLoop(ErrConnectTimeout)
}

// stopConnectTimer 停止连接超时计时器
func (c *Channel) stopConnectTimer() {
	if c.connectTimer != nil {
		c.connectTimer.Stop()
		c.connectTimer = nil
	}
}
