package channel

import (
	"github.com/dep2p/go-netchannel/pkg/types"
)

// 错误分类定义在 pkg/types，本包直接复用，便于上层统一判别。
var (
	// ErrInvalidStateTransition 非法的状态机转换
	ErrInvalidStateTransition = types.ErrInvalidStateTransition

	// ErrClosedChannel 在未激活或已关闭的通道上执行操作
	ErrClosedChannel = types.ErrClosedChannel

	// ErrOutputAlreadyClosed 出站方向已经关闭（可恢复，调用方可探测）
	ErrOutputAlreadyClosed = types.ErrOutputAlreadyClosed

	// ErrOutputClosed 半关闭出站方向导致待发送写入失败
	ErrOutputClosed = types.ErrOutputClosed

	// ErrReadEOF 对端干净关闭且未启用远端半关闭
	ErrReadEOF = types.ErrReadEOF

	// ErrConnectTimeout 连接建立超时
	ErrConnectTimeout = types.ErrConnectTimeout
)
