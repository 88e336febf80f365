package channel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-netchannel/pkg/interfaces"
	"github.com/dep2p/go-netchannel/pkg/types"
)

// settle 等待执行上下文排空（包括有限深度的任务链）
func settle(c *Channel) {
	for i := 0; i < 8; i++ {
		if err := c.loop.Await(func() {}); err != nil {
			return
		}
	}
}

// newTestChannel 创建通道、mock 流水线和 mock 传输
func newTestChannel(t *testing.T, opts ...Option) (*Channel, *mockPipeline, *mockTransport) {
	t.Helper()
	pipe := newMockPipeline()
	c := New(pipe, opts...)
	mt := newMockTransport()
	t.Cleanup(func() {
		c.Close()
		settle(c)
	})
	return c, pipe, mt
}

// awaitErr 等待 Promise 完成并返回结果
func awaitErr(t *testing.T, p interfaces.Promise) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := p.Await(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded, "Promise 未在期限内完成")
	return err
}

func TestConnectBecomesActive(t *testing.T) {
	c, _, mt := newTestChannel(t)

	p := c.Connect(mt)
	require.NoError(t, awaitErr(t, p))
	settle(c)

	require.True(t, c.IsActive())
	require.True(t, c.IsWritable())
	require.Equal(t, "local", c.LocalEndpoint().Addr)
	require.Equal(t, "remote", c.RemoteEndpoint().Addr)

	// autoRead 默认开启：就绪后恰有一个未完成接收
	require.Equal(t, 1, mt.ReceiveCount())
}

func TestConnectTwiceRejected(t *testing.T) {
	c, _, mt := newTestChannel(t)

	require.NoError(t, awaitErr(t, c.Connect(mt)))
	err := awaitErr(t, c.Connect(newMockTransport()))
	require.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestReadCoalescing(t *testing.T) {
	c, _, mt := newTestChannel(t, WithAutoRead(false))

	require.NoError(t, awaitErr(t, c.Connect(mt)))
	settle(c)
	require.Equal(t, 0, mt.ReceiveCount(), "autoRead 关闭时就绪后不自动读取")

	// 两次连续的读取请求只产生一次传输接收
	c.Read()
	c.Read()
	settle(c)
	require.Equal(t, 1, mt.ReceiveCount())
}

func TestCloseWhileConnectPending(t *testing.T) {
	c, _, mt := newTestChannel(t)
	mt.manualReady = true

	p := c.Connect(mt)
	settle(c)

	cp := c.Close()
	require.ErrorIs(t, awaitErr(t, p), ErrClosedChannel,
		"挂起的连接 Promise 应以关闭错误失败")
	require.NoError(t, awaitErr(t, cp))
	settle(c)

	require.True(t, mt.IsCancelled())
	require.Equal(t, 0, c.pending.length(), "待发送队列应为空")
	require.False(t, c.IsActive())
}

func TestWriteRejectedBeforeActive(t *testing.T) {
	c, _, _ := newTestChannel(t)

	err := awaitErr(t, c.Write([]byte("early")))
	require.ErrorIs(t, err, ErrClosedChannel)
}

func TestWriteFlushResolvesInOrder(t *testing.T) {
	c, _, mt := newTestChannel(t, WithAutoRead(false))
	mt.manualSend = true
	require.NoError(t, awaitErr(t, c.Connect(mt)))

	w1 := c.Write([]byte("aaaa"))
	w2 := c.Write([]byte("bb"))
	c.Flush()
	settle(c)

	// 队列按 FIFO 排空，每个写入一次独立发送
	require.Equal(t, 2, mt.SendCount())
	require.Equal(t, []byte("aaaa"), mt.SentAt(0).buf)
	require.Equal(t, []byte("bb"), mt.SentAt(1).buf)
	require.False(t, mt.SentAt(0).final)

	sendErr := errors.New("link reset")
	mt.CompleteSend(0, nil)
	mt.CompleteSend(1, sendErr)

	require.NoError(t, awaitErr(t, w1))
	require.ErrorIs(t, awaitErr(t, w2), sendErr)
}

func TestWritabilityEvents(t *testing.T) {
	c, pipe, mt := newTestChannel(t,
		WithAutoRead(false),
		WithWriteBufferWaterMark(types.WaterMark{Low: 5, High: 10}),
	)
	mt.manualSend = true
	require.NoError(t, awaitErr(t, c.Connect(mt)))

	w := c.Write(make([]byte, 11))
	settle(c)
	require.False(t, c.IsWritable())
	require.Equal(t, []bool{false}, pipe.Writability())

	c.Flush()
	settle(c)
	mt.CompleteSend(0, nil)
	require.NoError(t, awaitErr(t, w))
	settle(c)

	require.True(t, c.IsWritable())
	require.Equal(t, []bool{false, true}, pipe.Writability())
}

func TestDoubleHalfClose(t *testing.T) {
	c, _, mt := newTestChannel(t, WithAutoRead(false))
	require.NoError(t, awaitErr(t, c.Connect(mt)))

	p1 := c.CloseOutput()
	require.NoError(t, awaitErr(t, p1))

	// 零长度最终标记已发送
	require.Equal(t, 1, mt.SendCount())
	require.True(t, mt.SentAt(0).final)
	require.Empty(t, mt.SentAt(0).buf)

	// 第二次半关闭：可探测的失败，不触发拆除
	p2 := c.CloseOutput()
	require.ErrorIs(t, awaitErr(t, p2), ErrOutputAlreadyClosed)

	require.True(t, c.IsActive())
	require.False(t, mt.IsCancelled())
}

func TestHalfCloseFailsPendingWrites(t *testing.T) {
	c, _, mt := newTestChannel(t, WithAutoRead(false))
	mt.manualSend = true
	require.NoError(t, awaitErr(t, c.Connect(mt)))

	w := c.Write([]byte("never flushed"))
	settle(c)

	hp := c.CloseOutput()
	require.ErrorIs(t, awaitErr(t, w), ErrOutputClosed)

	// 半关闭后的新写入被状态检查拒绝
	late := c.Write([]byte("late"))
	require.ErrorIs(t, awaitErr(t, late), ErrClosedChannel)

	// 最终标记的完成结果决定半关闭 Promise
	settle(c)
	require.Equal(t, 1, mt.SendCount())
	require.True(t, mt.SentAt(0).final)
	mt.CompleteSend(0, nil)
	require.NoError(t, awaitErr(t, hp))
}

func TestEOFWithoutHalfClosureSupport(t *testing.T) {
	c, pipe, mt := newTestChannel(t)
	mt.manualSend = true
	require.NoError(t, awaitErr(t, c.Connect(mt)))
	settle(c)

	// 排一个未 Flush 的写入，验证 EOF 关闭时按 FIFO 失败
	w := c.Write([]byte("queued"))
	settle(c)

	// EOF 完成携带尾部数据：数据事件先于关闭投递
	require.True(t, mt.CompleteReceive([]byte("tail"), true, nil))
	settle(c)

	require.Equal(t, [][]byte{[]byte("tail")}, pipe.Data())
	require.Equal(t, 1, pipe.ReadCompletes())
	require.False(t, c.IsActive())
	require.True(t, mt.IsCancelled())
	require.ErrorIs(t, awaitErr(t, w), ErrReadEOF)
	require.Empty(t, pipe.ErrorsCaught(), "干净的 EOF 不是错误事件")
}

func TestEOFWithHalfClosureSupport(t *testing.T) {
	c, pipe, mt := newTestChannel(t, WithAllowRemoteHalfClosure(true))
	require.NoError(t, awaitErr(t, c.Connect(mt)))
	settle(c)

	require.True(t, mt.CompleteReceive(nil, true, nil))
	settle(c)

	// 入站关闭事件已投递，通道保持活跃
	require.Contains(t, pipe.UserEvents(), types.InputClosedEvent{})
	require.True(t, c.IsActive())
	require.Equal(t, 0, mt.ReceiveCount(), "入站已关闭，不再补发读取")

	// 出站方向仍可写
	wp := c.WriteAndFlush([]byte("still writable"))
	require.NoError(t, awaitErr(t, wp))
}

func TestSubstateExhaustiveAfterBothHalves(t *testing.T) {
	c, _, mt := newTestChannel(t, WithAllowRemoteHalfClosure(true), WithAutoRead(false))
	require.NoError(t, awaitErr(t, c.Connect(mt)))

	// 先本地半关闭，再收到 EOF：halfClosedLocal + closeInput → closed
	require.NoError(t, awaitErr(t, c.CloseOutput()))
	c.Read()
	settle(c)
	require.True(t, mt.CompleteReceive(nil, true, nil))
	settle(c)

	require.True(t, c.IsActive(), "closed 子状态仍处于外层 active")

	// 双向已关闭后写入被拒绝
	require.ErrorIs(t, awaitErr(t, c.Write([]byte("x"))), ErrClosedChannel)
}

func TestReadErrorTriggersFullClose(t *testing.T) {
	c, pipe, mt := newTestChannel(t)
	mt.manualSend = true
	require.NoError(t, awaitErr(t, c.Connect(mt)))
	settle(c)

	w := c.Write([]byte("pending"))
	settle(c)

	readErr := errors.New("connection reset by peer")
	require.True(t, mt.CompleteReceive(nil, false, readErr))
	settle(c)

	require.False(t, c.IsActive())
	require.True(t, mt.IsCancelled())
	require.ErrorIs(t, awaitErr(t, w), readErr)

	caught := pipe.ErrorsCaught()
	require.Len(t, caught, 1)
	require.ErrorIs(t, caught[0], readErr)
}

func TestTransportFailureClosesChannel(t *testing.T) {
	c, pipe, mt := newTestChannel(t)
	require.NoError(t, awaitErr(t, c.Connect(mt)))
	settle(c)

	cause := errors.New("interface down")
	mt.Fail(cause)
	settle(c)

	require.False(t, c.IsActive())
	caught := pipe.ErrorsCaught()
	require.Len(t, caught, 1)
	require.ErrorIs(t, caught[0], cause, "TransportError 应能解包出底层错误")
}

func TestWaitingAbsorbedWhileActivating(t *testing.T) {
	c, pipe, mt := newTestChannel(t)
	mt.manualReady = true

	p := c.Connect(mt)
	settle(c)

	// 连接期间的瞬时受阻被吸收：不上报、不拆除
	mt.Waiting(errors.New("no route to host"))
	settle(c)
	require.False(t, mt.IsCancelled())
	require.Empty(t, pipe.ErrorsCaught())

	// 随后的就绪仍然生效
	mt.Ready()
	require.NoError(t, awaitErr(t, p))
	require.True(t, c.IsActive())
}

func TestWaitingAfterActiveClosesChannel(t *testing.T) {
	c, pipe, mt := newTestChannel(t)
	require.NoError(t, awaitErr(t, c.Connect(mt)))
	settle(c)

	cause := errors.New("network unreachable")
	mt.Waiting(cause)
	settle(c)

	require.False(t, c.IsActive())
	require.Len(t, pipe.ErrorsCaught(), 1)
}

func TestConnectTimeout(t *testing.T) {
	mockClock := clock.NewMock()
	c, _, mt := newTestChannel(t,
		WithConnectTimeout(time.Second),
		WithClock(mockClock),
	)
	mt.manualReady = true

	p := c.Connect(mt)
	settle(c)

	mockClock.Add(2 * time.Second)
	require.ErrorIs(t, awaitErr(t, p), ErrConnectTimeout)
	settle(c)
	require.False(t, c.IsActive())
	require.True(t, mt.IsCancelled())
}

func TestHandshakeCompletedEvent(t *testing.T) {
	c, pipe, mt := newTestChannel(t)
	mt.proto = "h2"

	require.NoError(t, awaitErr(t, c.Connect(mt)))
	settle(c)

	require.Contains(t, pipe.UserEvents(), types.HandshakeCompletedEvent{Protocol: "h2"})
}

func TestPathEventsForwardedVerbatim(t *testing.T) {
	c, pipe, mt := newTestChannel(t)
	require.NoError(t, awaitErr(t, c.Connect(mt)))
	settle(c)

	path := types.Path{
		LocalEndpoint:  types.Endpoint{Net: "tcp", Addr: "10.0.0.1:1"},
		RemoteEndpoint: types.Endpoint{Net: "tcp", Addr: "10.0.0.2:2"},
		InterfaceName:  "en0",
	}
	mt.NotifyPath(path)
	mt.NotifyBetterPath(true)
	mt.NotifyBetterPath(false)
	settle(c)

	events := pipe.UserEvents()
	require.Contains(t, events, types.PathChangedEvent{Path: path})
	require.Contains(t, events, types.BetterPathEvent{Available: true})
	require.Contains(t, events, types.BetterPathEvent{Available: false})
	require.True(t, c.IsActive(), "路径事件不改变通道状态")
}

func TestCloseIdempotent(t *testing.T) {
	c, _, mt := newTestChannel(t)
	require.NoError(t, awaitErr(t, c.Connect(mt)))

	p1 := c.Close()
	p2 := c.Close()
	require.NoError(t, awaitErr(t, p1))
	require.NoError(t, awaitErr(t, p2))
	settle(c)

	// 执行上下文停止后的写入立即失败
	require.ErrorIs(t, awaitErr(t, c.Write([]byte("x"))), ErrClosedChannel)
}

func TestOptionRoundtrip(t *testing.T) {
	c, _, _ := newTestChannel(t)

	require.Equal(t, true, c.GetOption(interfaces.OptionAutoRead))
	require.Equal(t, false, c.GetOption(interfaces.OptionAllowRemoteHalfClosure))
	require.Equal(t, types.DefaultWaterMark(),
		c.GetOption(interfaces.OptionWriteBufferWaterMark))

	c.SetOption(interfaces.OptionAutoRead, false)
	require.Equal(t, false, c.GetOption(interfaces.OptionAutoRead))

	mark := types.WaterMark{Low: 1, High: 2}
	c.SetOption(interfaces.OptionWriteBufferWaterMark, mark)
	require.Equal(t, mark, c.GetOption(interfaces.OptionWriteBufferWaterMark))
}

func TestAutoReadOptionTriggersRead(t *testing.T) {
	c, _, mt := newTestChannel(t, WithAutoRead(false))
	require.NoError(t, awaitErr(t, c.Connect(mt)))
	settle(c)
	require.Equal(t, 0, mt.ReceiveCount())

	// 开启 autoRead 立即补发读取
	c.SetOption(interfaces.OptionAutoRead, true)
	settle(c)
	require.Equal(t, 1, mt.ReceiveCount())
}

func TestUnknownOptionPanics(t *testing.T) {
	c, _, _ := newTestChannel(t)

	require.Panics(t, func() { c.SetOption("bogus", 1) })
	require.Panics(t, func() { c.GetOption("bogus") })
	require.Panics(t, func() {
		c.SetOption(interfaces.OptionAutoRead, "not a bool")
	})
}

func TestSocketOptionsForwardedOnConnect(t *testing.T) {
	c, _, mt := newTestChannel(t,
		WithSocketOption("tcp.nodelay", true),
		WithSocketOption("tcp.keepalive", 15),
	)
	require.NoError(t, awaitErr(t, c.Connect(mt)))

	mt.mu.Lock()
	defer mt.mu.Unlock()
	require.Equal(t, true, mt.socketOpts["tcp.nodelay"])
	require.Equal(t, 15, mt.socketOpts["tcp.keepalive"])
}
