package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStateTransition 非法的状态机转换
	ErrInvalidStateTransition = errors.New("invalid channel state transition")

	// ErrClosedChannel 在未激活或已关闭的通道上执行操作
	ErrClosedChannel = errors.New("channel is closed")

	// ErrOutputAlreadyClosed 出站方向已经关闭
	//
	// 半关闭被重复请求时返回。与 ErrInvalidStateTransition 区分开，
	// 因为这是调用方可以探测的正常可恢复状况，不触发通道关闭。
	ErrOutputAlreadyClosed = errors.New("channel output already closed")

	// ErrOutputClosed 出站方向关闭导致待发送写入失败
	ErrOutputClosed = errors.New("channel output closed")

	// ErrUnsupportedOperation 不支持的操作（如传输不认识的套接字选项）
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrReadEOF 对端干净关闭且未启用远端半关闭
	ErrReadEOF = errors.New("remote peer closed the connection")

	// ErrConnectTimeout 连接建立超时
	ErrConnectTimeout = errors.New("connect timeout")
)

// TransportError 传输层上报的不透明错误
//
// 通道不解释传输错误的内容，只负责包装后向上传播。
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

// Unwrap 返回底层错误
func (e *TransportError) Unwrap() error {
	return e.Err
}
