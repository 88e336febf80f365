package channel

import (
	"github.com/dep2p/go-netchannel/pkg/types"
)

// ============================================================================
//                              lifecyclePhase - 外层生命周期
// ============================================================================

// lifecyclePhase 通道外层生命周期阶段
//
// 外层阶段单调推进：idle → registered → activating → active → inactive，
// 不会回退到更早的阶段。inactive 是终止态，重复进入是幂等的。
type lifecyclePhase int

const (
	// phaseIdle 刚构造，尚未绑定执行上下文
	phaseIdle lifecyclePhase = iota
	// phaseRegistered 已绑定执行上下文
	phaseRegistered
	// phaseActivating 已发起连接，等待传输就绪
	phaseActivating
	// phaseActive 连接就绪，可以收发数据
	phaseActive
	// phaseInactive 终止态
	phaseInactive
)

// String 返回阶段的字符串表示
func (p lifecyclePhase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseRegistered:
		return "registered"
	case phaseActivating:
		return "activating"
	case phaseActive:
		return "active"
	case phaseInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              tcpSubstate - TCP 活跃子状态
// ============================================================================

// tcpSubstate TCP 式半关闭子状态
//
// 仅在外层阶段为 active 时有意义（两级标签状态的内层标签）。
type tcpSubstate int

const (
	// substateOpen 双向均开放
	substateOpen tcpSubstate = iota
	// substateHalfClosedLocal 本地已关闭出站方向
	substateHalfClosedLocal
	// substateHalfClosedRemote 远端已关闭入站方向
	substateHalfClosedRemote
	// substateClosed 双向均已关闭
	substateClosed
)

// String 返回子状态的字符串表示
func (s tcpSubstate) String() string {
	switch s {
	case substateOpen:
		return "open"
	case substateHalfClosedLocal:
		return "half-closed-local"
	case substateHalfClosedRemote:
		return "half-closed-remote"
	case substateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              stateMachine - 两级状态机
// ============================================================================

// stateMachine 通道两级状态机
//
// 外层生命周期阶段 + TCP 子状态。所有方法只在通道的执行上下文中调用，
// 不需要同步。非法转换返回错误而不破坏当前状态。
type stateMachine struct {
	phase lifecyclePhase

	// sub 仅在 phase == phaseActive 时有意义
	sub tcpSubstate
}

// register 绑定执行上下文：idle → registered
func (m *stateMachine) register() error {
	if m.phase != phaseIdle {
		return types.ErrInvalidStateTransition
	}
	m.phase = phaseRegistered
	return nil
}

// beginActivation 发起连接：registered → activating
func (m *stateMachine) beginActivation() error {
	if m.phase != phaseRegistered {
		return types.ErrInvalidStateTransition
	}
	m.phase = phaseActivating
	return nil
}

// becomeActive 连接就绪：activating → active(open)
func (m *stateMachine) becomeActive() error {
	if m.phase != phaseActivating {
		return types.ErrInvalidStateTransition
	}
	m.phase = phaseActive
	m.sub = substateOpen
	return nil
}

// becomeInactive 进入终止态
//
// 从任意阶段进入均合法，重复进入幂等。
func (m *stateMachine) becomeInactive() {
	m.phase = phaseInactive
}

// closeInput 关闭入站方向
//
// open → halfClosedRemote；halfClosedLocal → closed；
// 其余均为非法转换。
func (m *stateMachine) closeInput() error {
	if m.phase != phaseActive {
		return types.ErrInvalidStateTransition
	}
	switch m.sub {
	case substateOpen:
		m.sub = substateHalfClosedRemote
		return nil
	case substateHalfClosedLocal:
		m.sub = substateClosed
		return nil
	default:
		return types.ErrInvalidStateTransition
	}
}

// closeOutput 关闭出站方向
//
// open → halfClosedLocal；halfClosedRemote → closed。
// 出站方向已关闭时返回 ErrOutputAlreadyClosed（可恢复，调用方可探测）；
// 外层阶段非 active 时返回 ErrInvalidStateTransition。
func (m *stateMachine) closeOutput() error {
	if m.phase != phaseActive {
		return types.ErrInvalidStateTransition
	}
	switch m.sub {
	case substateOpen:
		m.sub = substateHalfClosedLocal
		return nil
	case substateHalfClosedRemote:
		m.sub = substateClosed
		return nil
	default:
		// halfClosedLocal / closed：出站早已关闭
		return types.ErrOutputAlreadyClosed
	}
}

// isActive 检查外层阶段是否为 active
func (m *stateMachine) isActive() bool {
	return m.phase == phaseActive
}

// isInactive 检查是否已终止
func (m *stateMachine) isInactive() bool {
	return m.phase == phaseInactive
}

// inboundOpen 检查入站方向是否仍然开放
//
// 仅当子状态为 open 或 halfClosedLocal 时对端仍可能发送数据。
func (m *stateMachine) inboundOpen() bool {
	if m.phase != phaseActive {
		return false
	}
	return m.sub == substateOpen || m.sub == substateHalfClosedLocal
}

// canSend 检查出站方向是否允许写入
func (m *stateMachine) canSend() bool {
	if m.phase != phaseActive {
		return false
	}
	return m.sub == substateOpen || m.sub == substateHalfClosedRemote
}
