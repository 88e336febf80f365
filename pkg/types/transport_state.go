package types

import "fmt"

// ============================================================================
//                              TransportStateKind - 传输状态种类
// ============================================================================

// TransportStateKind 传输连接状态种类
type TransportStateKind int

const (
	// TransportStatePreparing 正在建立连接
	TransportStatePreparing TransportStateKind = iota
	// TransportStateReady 连接就绪，可以收发数据
	TransportStateReady
	// TransportStateWaiting 连接暂时受阻（如网络不可达），传输层会自行重试
	TransportStateWaiting
	// TransportStateCancelled 连接已被本地取消
	TransportStateCancelled
	// TransportStateFailed 连接失败，不可恢复
	TransportStateFailed
)

// String 返回状态种类的字符串表示
func (k TransportStateKind) String() string {
	switch k {
	case TransportStatePreparing:
		return "preparing"
	case TransportStateReady:
		return "ready"
	case TransportStateWaiting:
		return "waiting"
	case TransportStateCancelled:
		return "cancelled"
	case TransportStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              TransportState - 传输状态
// ============================================================================

// TransportState 传输连接状态
//
// 带标签的状态值：Err 仅在 Waiting 和 Failed 两种状态下有意义。
type TransportState struct {
	// Kind 状态种类
	Kind TransportStateKind

	// Err 伴随错误（Waiting/Failed 状态携带）
	Err error
}

// TransportPreparing 构造 preparing 状态
func TransportPreparing() TransportState {
	return TransportState{Kind: TransportStatePreparing}
}

// TransportReady 构造 ready 状态
func TransportReady() TransportState {
	return TransportState{Kind: TransportStateReady}
}

// TransportWaiting 构造 waiting 状态
func TransportWaiting(err error) TransportState {
	return TransportState{Kind: TransportStateWaiting, Err: err}
}

// TransportCancelled 构造 cancelled 状态
func TransportCancelled() TransportState {
	return TransportState{Kind: TransportStateCancelled}
}

// TransportFailed 构造 failed 状态
func TransportFailed(err error) TransportState {
	return TransportState{Kind: TransportStateFailed, Err: err}
}

// String 返回状态的字符串表示
func (s TransportState) String() string {
	if s.Err != nil {
		return fmt.Sprintf("%s(%v)", s.Kind, s.Err)
	}
	return s.Kind.String()
}
