package interfaces

import (
	"github.com/dep2p/go-netchannel/pkg/types"
)

// ============================================================================
//                              通道选项键
// ============================================================================

// ChannelOption 通道级选项键
//
// 通道只认识下列四个键；传递其他键属于编程错误，实现会 panic。
// 传输层套接字选项不经由本类型，见 Transport.SetSocketOption。
type ChannelOption string

const (
	// OptionAutoRead 自动读取（bool，默认 true）
	//
	// 开启时每次接收完成后自动发起下一次读取；
	// 关闭后由上层调用 Channel.Read 手动驱动。
	OptionAutoRead ChannelOption = "auto-read"

	// OptionAllowRemoteHalfClosure 允许远端半关闭（bool，默认 false）
	//
	// 开启时收到 EOF 只关闭入站方向并投递 InputClosedEvent；
	// 关闭时收到 EOF 触发整个通道关闭。
	OptionAllowRemoteHalfClosure ChannelOption = "allow-remote-half-closure"

	// OptionWriteBufferWaterMark 写缓冲水位线（types.WaterMark）
	OptionWriteBufferWaterMark ChannelOption = "write-buffer-water-mark"

	// OptionReadChunkSize 单次接收的最大字节数（int，默认 8192）
	OptionReadChunkSize ChannelOption = "read-chunk-size"
)

// ============================================================================
//                              Channel 接口
// ============================================================================

// Channel 全双工字节流通道
//
// 把回调驱动的传输原语适配为带显式生命周期、流控信号和
// TCP 式半关闭语义的字节流通道。
//
// 除注明外，方法可以从任意 goroutine 调用：变更操作被重定向到
// 通道的串行执行上下文异步执行，查询操作同步等待结果。
type Channel interface {
	// ID 返回通道唯一标识（用于日志关联）
	ID() string

	// Connect 绑定传输并发起连接
	//
	// 返回的 Promise 在连接就绪时成功、连接失败或中途关闭时失败。
	// 每个通道只能 Connect 一次。
	Connect(t Transport) Promise

	// Write 提交一次写入
	//
	// 数据先进入待发送队列，Flush 时才真正提交给传输。
	// 通道未激活时 Promise 立即以 ErrClosedChannel 失败。
	// 可写性信号是建议性的：不可写时写入仍会入队。
	Write(buf []byte) Promise

	// Flush 将待发送队列中的全部写入提交给传输
	Flush()

	// WriteAndFlush 写入并立即 Flush
	WriteAndFlush(buf []byte) Promise

	// Read 请求一次读取
	//
	// 同一时刻至多一个未完成的读取；重复调用被合并为一次。
	// autoRead 开启时通常无需手动调用。
	Read()

	// Close 关闭整个通道
	//
	// 取消传输、按 FIFO 顺序使所有待发送写入失败、进入终止状态。
	// 重复关闭是幂等的。
	Close() Promise

	// CloseOutput 半关闭出站方向
	//
	// 向传输发送最终标记，之后的写入被拒绝，入站方向不受影响。
	// 重复调用以 ErrOutputAlreadyClosed 失败且不触发通道关闭。
	CloseOutput() Promise

	// CloseDone 返回通道终止信号
	//
	// 等价于 Close 返回的 Promise 的 Done，但不触发关闭。
	CloseDone() <-chan struct{}

	// IsActive 检查通道是否处于活跃状态
	IsActive() bool

	// IsWritable 检查通道当前是否可写
	//
	// 无锁读取，可从任意 goroutine 调用。
	IsWritable() bool

	// LocalEndpoint 返回本地端点
	LocalEndpoint() types.Endpoint

	// RemoteEndpoint 返回远端端点
	RemoteEndpoint() types.Endpoint

	// SetOption 设置通道选项
	//
	// 不认识的键会 panic（编程错误，不是运行时故障）。
	SetOption(key ChannelOption, value any)

	// GetOption 读取通道选项当前值
	//
	// 不认识的键会 panic。
	GetOption(key ChannelOption) any

	// Pipeline 返回绑定的事件流水线
	Pipeline() Pipeline
}
