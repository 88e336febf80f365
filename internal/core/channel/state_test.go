package channel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-netchannel/pkg/types"
)

// activeMachine 返回已进入 active(open) 的状态机
func activeMachine(t *testing.T) *stateMachine {
	t.Helper()
	m := &stateMachine{}
	require.NoError(t, m.register())
	require.NoError(t, m.beginActivation())
	require.NoError(t, m.becomeActive())
	return m
}

func TestLifecycleHappyPath(t *testing.T) {
	m := &stateMachine{}

	require.Equal(t, phaseIdle, m.phase)
	require.NoError(t, m.register())
	require.NoError(t, m.beginActivation())
	require.NoError(t, m.becomeActive())
	require.True(t, m.isActive())
	require.Equal(t, substateOpen, m.sub)

	m.becomeInactive()
	require.True(t, m.isInactive())
	// 终止态幂等
	m.becomeInactive()
	require.True(t, m.isInactive())
}

func TestLifecycleMonotonic(t *testing.T) {
	m := activeMachine(t)

	// 外层阶段不可回退
	require.ErrorIs(t, m.register(), types.ErrInvalidStateTransition)
	require.ErrorIs(t, m.beginActivation(), types.ErrInvalidStateTransition)
	require.ErrorIs(t, m.becomeActive(), types.ErrInvalidStateTransition)

	m.becomeInactive()
	require.ErrorIs(t, m.beginActivation(), types.ErrInvalidStateTransition)
}

func TestBecomeActiveRequiresActivation(t *testing.T) {
	m := &stateMachine{}
	require.NoError(t, m.register())

	// 未发起激活不能直接进入 active
	require.ErrorIs(t, m.becomeActive(), types.ErrInvalidStateTransition)
}

func TestCloseInputTransitions(t *testing.T) {
	m := activeMachine(t)

	require.NoError(t, m.closeInput())
	require.Equal(t, substateHalfClosedRemote, m.sub)

	// halfClosedRemote 上再次 closeInput 非法
	require.ErrorIs(t, m.closeInput(), types.ErrInvalidStateTransition)
}

func TestCloseInputFromHalfClosedLocal(t *testing.T) {
	m := activeMachine(t)

	require.NoError(t, m.closeOutput())
	require.Equal(t, substateHalfClosedLocal, m.sub)

	// halfClosedLocal + closeInput → closed
	require.NoError(t, m.closeInput())
	require.Equal(t, substateClosed, m.sub)

	// closed 上的 closeInput 非法
	require.ErrorIs(t, m.closeInput(), types.ErrInvalidStateTransition)
}

func TestCloseOutputTransitions(t *testing.T) {
	m := activeMachine(t)

	require.NoError(t, m.closeOutput())
	require.Equal(t, substateHalfClosedLocal, m.sub)

	// 重复关闭出站是可探测的正常状况，不是非法转换
	require.ErrorIs(t, m.closeOutput(), types.ErrOutputAlreadyClosed)
	require.Equal(t, substateHalfClosedLocal, m.sub, "失败不应破坏状态")
}

func TestCloseOutputFromHalfClosedRemote(t *testing.T) {
	m := activeMachine(t)

	require.NoError(t, m.closeInput())
	require.NoError(t, m.closeOutput())
	require.Equal(t, substateClosed, m.sub)

	require.ErrorIs(t, m.closeOutput(), types.ErrOutputAlreadyClosed)
}

func TestCloseOnNonActivePhase(t *testing.T) {
	m := &stateMachine{}
	require.NoError(t, m.register())

	require.ErrorIs(t, m.closeInput(), types.ErrInvalidStateTransition)
	require.ErrorIs(t, m.closeOutput(), types.ErrInvalidStateTransition)

	m.becomeInactive()
	require.ErrorIs(t, m.closeOutput(), types.ErrInvalidStateTransition)
}

func TestInboundOpenPredicate(t *testing.T) {
	m := activeMachine(t)
	require.True(t, m.inboundOpen())

	// 本地半关闭后对端仍可能发送
	require.NoError(t, m.closeOutput())
	require.True(t, m.inboundOpen())

	// 入站关闭后不再开放
	require.NoError(t, m.closeInput())
	require.False(t, m.inboundOpen())
}

func TestCanSendPredicate(t *testing.T) {
	m := activeMachine(t)
	require.True(t, m.canSend())

	// 远端半关闭只影响入站方向
	require.NoError(t, m.closeInput())
	require.True(t, m.canSend())

	require.NoError(t, m.closeOutput())
	require.False(t, m.canSend())

	m2 := &stateMachine{}
	require.False(t, m2.canSend(), "未激活的通道不可发送")
}
