// Package interfaces 定义传输层契约
package interfaces

import (
	"github.com/dep2p/go-netchannel/pkg/types"
)

// ============================================================================
//                              Transport 接口
// ============================================================================

// Transport 回调驱动的非阻塞传输契约
//
// Transport 抽象了底层的非阻塞连接原语（TCP 套接字、WebSocket、进程内
// 管道等）。它的内部实现（重传、平台套接字处理）对通道完全不透明，
// 通道只通过本接口与之交互。
//
// 回调约定：实现必须把所有完成回调和状态通知投递到 Start 传入的
// Executor 上执行，不得在任意 goroutine 中直接调用。
type Transport interface {
	// Start 启动连接建立
	//
	// exec 是通道的串行执行上下文，此后所有回调经由它投递。
	// 连接结果通过状态通知（TransportReady / TransportFailed）报告。
	Start(exec Executor)

	// Cancel 取消连接
	//
	// 取消后传输最终会投递 TransportCancelled 状态通知。
	// 已提交给传输的发送操作不会被单独取消，各自运行至完成或失败。
	Cancel()

	// Send 提交一次发送
	//
	// final 为 true 表示这是出站方向的最后一条消息（半关闭标记），
	// 之后不会再有 Send 调用。onComplete 在发送完成时被调用，
	// err 为 nil 表示成功。
	Send(buf []byte, final bool, onComplete func(err error))

	// Receive 提交一次有界接收
	//
	// 收到 [minLen, maxLen] 范围内的数据后调用 onComplete。
	// data 可能为 nil（如对端干净关闭时只有 isComplete 标记）；
	// isComplete 为 true 表示入站方向结束（EOF）；
	// data、isComplete、err 可能同时出现（EOF 前携带最后一批数据）。
	// 回调返回的 data 归回调方所有，通道需要自行拷贝。
	Receive(minLen, maxLen int, onComplete func(data []byte, isComplete bool, err error))

	// SetStateHandler 注册连接状态通知处理器
	SetStateHandler(fn func(state types.TransportState))

	// SetPathHandler 注册路径变化通知处理器
	SetPathHandler(fn func(path types.Path))

	// SetBetterPathHandler 注册更优路径通知处理器
	SetBetterPathHandler(fn func(available bool))

	// LocalEndpoint 返回当前本地端点
	LocalEndpoint() types.Endpoint

	// RemoteEndpoint 返回当前远端端点
	RemoteEndpoint() types.Endpoint

	// SetSocketOption 设置传输层套接字选项
	//
	// 键值对对通道不透明，原样转发给具体传输。
	// 不认识的键由传输返回错误。
	SetSocketOption(key string, value any) error

	// NegotiatedProtocol 返回安全握手协商出的子协议名称
	//
	// 未协商或不适用时返回空字符串。仅在连接就绪后有意义。
	NegotiatedProtocol() string
}
