package netchannel

import "github.com/dep2p/go-netchannel/pkg/types"

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrInvalidStateTransition 非法的生命周期转换
	ErrInvalidStateTransition = types.ErrInvalidStateTransition

	// ErrClosedChannel 通道已关闭或尚未激活
	ErrClosedChannel = types.ErrClosedChannel

	// ErrConnectTimeout 连接建立超时
	ErrConnectTimeout = types.ErrConnectTimeout

	// ────────────────────────────────────────────────────────────────────────
	// 半关闭错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrOutputAlreadyClosed 出站方向已关闭（重复半关闭，可恢复）
	ErrOutputAlreadyClosed = types.ErrOutputAlreadyClosed

	// ErrOutputClosed 半关闭时未 Flush 的写入以此错误失败
	ErrOutputClosed = types.ErrOutputClosed

	// ErrReadEOF 远端关闭了流（未启用半关闭支持时触发整体关闭）
	ErrReadEOF = types.ErrReadEOF

	// ────────────────────────────────────────────────────────────────────────
	// 其他
	// ────────────────────────────────────────────────────────────────────────

	// ErrUnsupportedOperation 传输不支持请求的操作
	ErrUnsupportedOperation = types.ErrUnsupportedOperation
)

// TransportError 包装传输层上报的底层错误
type TransportError = types.TransportError
