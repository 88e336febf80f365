package channel

// 读取调度：同一时刻至多一个未完成的接收请求。
// 本文件的所有方法只在通道的执行上下文中调用。

// requestReadInLoop 发起一次有界接收
//
// 入站方向未开放或已有未完成的接收时为空操作（重复请求被合并）。
func (c *Channel) requestReadInLoop() {
	if c.readPending || !c.state.inboundOpen() {
		return
	}
	// inboundOpen 蕴含 active，active 蕴含传输句柄存在
	c.readPending = true
	c.transport.Receive(1, c.readChunkSize, c.onReceiveCompletion)
}

// readIfNeeded 按 autoRead 策略补发读取
//
// 选项变更后和每次接收完成后调用。
func (c *Channel) readIfNeeded() {
	if c.autoRead {
		c.requestReadInLoop()
	}
}

// onReceiveCompletion 处理一次接收完成
//
// 投递顺序：先数据（DataReceived + ReadComplete），再错误或 EOF 处置，
// 最后按 autoRead 策略补发下一次读取。
func (c *Channel) onReceiveCompletion(data []byte, isComplete bool, err error) {
	if !c.readPending {
		// 不变量：完成必须对应恰好一个未完成的接收
		logger.Error("receive completion without outstanding read", "id", c.id)
		return
	}
	c.readPending = false

	if !c.state.isActive() {
		// 通道已不活跃：此时不应再有数据，完成被丢弃
		if len(data) > 0 {
			logger.Warn("discarding receive completion after close",
				"id", c.id, "bytes", len(data))
		}
		return
	}

	if len(data) > 0 {
		buf := make([]byte, len(data))
		copy(buf, data)
		metricBytesReceived.Add(float64(len(buf)))
		c.pipeline.DataReceived(buf)
		c.pipeline.ReadComplete()
	}

	switch {
	case err != nil:
		c.pipeline.ErrorCaught(err)
		c.fullCloseInLoop(err)
	case isComplete:
		c.onEOF()
	}

	if c.state.inboundOpen() {
		c.readIfNeeded()
	}
}
