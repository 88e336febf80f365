package interfaces

// Pipeline 通道事件流水线
//
// 通道向上层投递事件的出口。上层协议处理器实现本接口以接收
// 入站数据和通道事件。所有方法都在通道的串行执行上下文中被调用，
// 实现内部无需加锁，但不得阻塞。
type Pipeline interface {
	// DataReceived 收到入站数据
	//
	// buf 归流水线所有（通道已完成拷贝），可以保留或修改。
	DataReceived(buf []byte)

	// ReadComplete 一次读取批次结束
	//
	// 在一次接收完成的全部 DataReceived 投递之后调用。
	ReadComplete()

	// WritabilityChanged 通道可写性发生翻转
	WritabilityChanged(writable bool)

	// UserEvent 用户事件
	//
	// 事件类型见 pkg/types：InputClosedEvent、HandshakeCompletedEvent、
	// PathChangedEvent、BetterPathEvent。
	UserEvent(event any)

	// ErrorCaught 通道捕获到错误
	//
	// 在因错误触发的通道关闭之前投递。
	ErrorCaught(err error)
}
