package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-netchannel/internal/core/eventloop"
	"github.com/dep2p/go-netchannel/pkg/types"
)

// recvResult 一次接收完成的快照
type recvResult struct {
	data       []byte
	isComplete bool
	err        error
}

// startPair 启动一对传输并等待两侧就绪
func startPair(t *testing.T) (*Transport, *Transport, chan types.TransportState, chan types.TransportState) {
	t.Helper()
	a, b := Pair()

	la := eventloop.New()
	lb := eventloop.New()
	t.Cleanup(func() { la.Close(); lb.Close() })

	stA := make(chan types.TransportState, 8)
	stB := make(chan types.TransportState, 8)
	a.SetStateHandler(func(st types.TransportState) { stA <- st })
	b.SetStateHandler(func(st types.TransportState) { stB <- st })

	a.Start(la)
	b.Start(lb)
	waitState(t, stA, types.TransportStateReady)
	waitState(t, stB, types.TransportStateReady)
	return a, b, stA, stB
}

func waitState(t *testing.T, ch <-chan types.TransportState, kind types.TransportStateKind) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case st := <-ch:
			if st.Kind == kind {
				return
			}
		case <-deadline:
			t.Fatalf("等待状态 %v 超时", kind)
		}
	}
}

func receiveOne(t *testing.T, tr *Transport, maxLen int) recvResult {
	t.Helper()
	ch := make(chan recvResult, 1)
	tr.Receive(1, maxLen, func(data []byte, isComplete bool, err error) {
		ch <- recvResult{data: data, isComplete: isComplete, err: err}
	})
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("等待接收完成超时")
		return recvResult{}
	}
}

func TestPairExchange(t *testing.T) {
	a, b, _, _ := startPair(t)

	sendDone := make(chan error, 1)
	a.Send([]byte("hello"), false, func(err error) { sendDone <- err })
	require.NoError(t, <-sendDone)

	r := receiveOne(t, b, 64)
	require.NoError(t, r.err)
	require.Equal(t, []byte("hello"), r.data)
	require.False(t, r.isComplete)

	// 端点互为对端
	require.Equal(t, a.LocalEndpoint(), b.RemoteEndpoint())
	require.Equal(t, b.LocalEndpoint(), a.RemoteEndpoint())
	require.NotEqual(t, a.LocalEndpoint(), b.LocalEndpoint())
}

func TestPairReceiveBeforeSend(t *testing.T) {
	a, b, _, _ := startPair(t)

	ch := make(chan recvResult, 1)
	b.Receive(1, 64, func(data []byte, isComplete bool, err error) {
		ch <- recvResult{data: data, isComplete: isComplete, err: err}
	})

	// 接收先挂起，数据到达后完成
	a.Send([]byte("late"), false, func(error) {})
	select {
	case r := <-ch:
		require.Equal(t, []byte("late"), r.data)
	case <-time.After(5 * time.Second):
		t.Fatal("挂起的接收未被数据唤醒")
	}
}

func TestFinalSendMarksEOF(t *testing.T) {
	a, b, _, _ := startPair(t)

	a.Send([]byte("bye"), true, func(error) {})

	// 最后一段数据与流结束一并交付
	r := receiveOne(t, b, 64)
	require.NoError(t, r.err)
	require.Equal(t, []byte("bye"), r.data)
	require.True(t, r.isComplete)

	// 之后的接收立即以空流结束完成
	r = receiveOne(t, b, 64)
	require.Empty(t, r.data)
	require.True(t, r.isComplete)
}

func TestMaxLenChunking(t *testing.T) {
	a, b, _, _ := startPair(t)

	a.Send([]byte("0123456789"), false, func(error) {})

	r := receiveOne(t, b, 4)
	require.Equal(t, []byte("0123"), r.data)
	require.False(t, r.isComplete)

	r = receiveOne(t, b, 4)
	require.Equal(t, []byte("4567"), r.data)
}

func TestCancelNotifiesBothSides(t *testing.T) {
	a, b, stA, _ := startPair(t)

	a.Cancel()
	waitState(t, stA, types.TransportStateCancelled)

	// 对端如同读到正常关闭
	r := receiveOne(t, b, 64)
	require.NoError(t, r.err)
	require.True(t, r.isComplete)
}

func TestSocketOptionsUnsupported(t *testing.T) {
	a, _ := Pair()
	require.ErrorIs(t, a.SetSocketOption("tcp.nodelay", true),
		types.ErrUnsupportedOperation)
}
