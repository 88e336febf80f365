// Package channel 实现连接通道核心
//
// 把回调驱动的非阻塞传输原语适配为带显式生命周期、流控信号和
// TCP 式半关闭语义的全双工字节流通道。核心由五个部分组成：
//   - 两级状态机（state.go）：外层生命周期 × TCP 活跃子状态
//   - 背压管理（backpressure.go）：水位线与可写标志
//   - 写入流水线（write.go）：待发送队列与批量 Flush
//   - 读取调度（reader.go）：至多一个未完成接收 + autoRead
//   - 关闭编排与传输事件适配（closer.go / adapter.go）
//
// 并发模型：通道全部内部状态只在所属的串行执行上下文（eventloop.Loop）
// 中变更；来自其他 goroutine 的公开操作被重定向到该上下文。
// 唯一例外是可写标志，见 backpressureManager 的说明。
package channel

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/dep2p/go-netchannel/internal/core/eventloop"
	"github.com/dep2p/go-netchannel/internal/core/promise"
	"github.com/dep2p/go-netchannel/pkg/interfaces"
	"github.com/dep2p/go-netchannel/pkg/lib/log"
	"github.com/dep2p/go-netchannel/pkg/types"
)

var logger = log.Logger("core/channel")

// 确保实现了 interfaces.Channel 接口
var _ interfaces.Channel = (*Channel)(nil)

// Channel 连接通道
//
// 生命周期：构造后处于已注册状态，Connect 发起激活，
// 传输就绪后进入活跃状态，关闭后进入终止状态（不可复用）。
type Channel struct {
	id       string
	loop     *eventloop.Loop
	pipeline interfaces.Pipeline
	clk      clock.Clock

	// ------------------------------------------------------------------
	// 以下字段仅在 loop 上访问
	// ------------------------------------------------------------------

	state   stateMachine
	bp      *backpressureManager
	pending *writeQueue

	// transport 激活开始后独占持有的传输句柄，释放后为 nil
	transport interfaces.Transport

	// connectP 未完成的连接 Promise，同一时刻至多一个
	connectP *promise.Promise

	// readPending 是否存在未完成的接收请求
	readPending bool

	connectTimer   *clock.Timer
	connectTimeout time.Duration

	autoRead               bool
	allowRemoteHalfClosure bool
	readChunkSize          int
	socketOptions          map[string]any

	// closeP 通道进入终止状态时成功完成
	closeP *promise.Promise
}

// New 创建通道
//
// 通道立即绑定自己的串行执行上下文（注册完成）。
func New(pipeline interfaces.Pipeline, opts ...Option) *Channel {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return NewWithConfig(pipeline, cfg)
}

// NewWithConfig 使用现成配置创建通道
func NewWithConfig(pipeline interfaces.Pipeline, cfg *Config) *Channel {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	c := &Channel{
		id:                     uuid.New().String(),
		loop:                   eventloop.New(),
		pipeline:               pipeline,
		clk:                    clk,
		bp:                     newBackpressureManager(cfg.WriteBufferWaterMark),
		pending:                newWriteQueue(),
		connectTimeout:         cfg.ConnectTimeout,
		autoRead:               cfg.AutoRead,
		allowRemoteHalfClosure: cfg.AllowRemoteHalfClosure,
		readChunkSize:          cfg.ReadChunkSize,
		socketOptions:          cfg.SocketOptions,
		closeP:                 promise.New(),
	}
	// 构造即注册：idle → registered
	if err := c.state.register(); err != nil {
		// 新构造的状态机不可能拒绝注册
		panic(err)
	}
	return c
}

// ID 返回通道唯一标识
func (c *Channel) ID() string {
	return c.id
}

// Pipeline 返回绑定的事件流水线
func (c *Channel) Pipeline() interfaces.Pipeline {
	return c.pipeline
}

// Connect 绑定传输并发起连接
func (c *Channel) Connect(t interfaces.Transport) interfaces.Promise {
	p := promise.New()
	if !c.loop.Offer(func() { c.connectInLoop(t, p) }) {
		p.Complete(ErrClosedChannel)
	}
	return p
}

// Write 提交一次写入
func (c *Channel) Write(buf []byte) interfaces.Promise {
	p := promise.New()
	if !c.loop.Offer(func() { c.writeInLoop(buf, p) }) {
		p.Complete(ErrClosedChannel)
	}
	return p
}

// Flush 将待发送队列提交给传输
func (c *Channel) Flush() {
	c.loop.Post(func() { c.flushInLoop() })
}

// WriteAndFlush 写入并立即 Flush
func (c *Channel) WriteAndFlush(buf []byte) interfaces.Promise {
	p := promise.New()
	if !c.loop.Offer(func() {
		c.writeInLoop(buf, p)
		c.flushInLoop()
	}) {
		p.Complete(ErrClosedChannel)
	}
	return p
}

// Read 请求一次读取
func (c *Channel) Read() {
	c.loop.Post(func() { c.requestReadInLoop() })
}

// Close 关闭整个通道
//
// 返回的 Promise 在拆除完成后成功完成。幂等。
func (c *Channel) Close() interfaces.Promise {
	if !c.loop.Offer(func() { c.fullCloseInLoop(ErrClosedChannel) }) {
		// 执行上下文已停止，通道必然早已终止
		return promise.Completed(nil)
	}
	return c.closeP
}

// CloseOutput 半关闭出站方向
func (c *Channel) CloseOutput() interfaces.Promise {
	p := promise.New()
	if !c.loop.Offer(func() { c.halfCloseOutputInLoop(p) }) {
		p.Complete(ErrClosedChannel)
	}
	return p
}

// IsActive 检查通道是否活跃
func (c *Channel) IsActive() bool {
	var active bool
	if err := c.loop.Await(func() { active = c.state.isActive() }); err != nil {
		return false
	}
	return active
}

// IsWritable 检查通道当前是否可写
//
// 无锁读取背压管理器的可写标志，可从任意 goroutine 调用。
func (c *Channel) IsWritable() bool {
	return c.bp.isWritable()
}

// LocalEndpoint 返回本地端点
func (c *Channel) LocalEndpoint() types.Endpoint {
	var ep types.Endpoint
	c.queryInLoop(func() {
		if c.transport != nil {
			ep = c.transport.LocalEndpoint()
		}
	})
	return ep
}

// RemoteEndpoint 返回远端端点
func (c *Channel) RemoteEndpoint() types.Endpoint {
	var ep types.Endpoint
	c.queryInLoop(func() {
		if c.transport != nil {
			ep = c.transport.RemoteEndpoint()
		}
	})
	return ep
}

// CloseDone 返回通道终止信号
//
// 等价于 Close 返回的 Promise 的 Done，但不触发关闭。
func (c *Channel) CloseDone() <-chan struct{} {
	return c.closeP.Done()
}

// queryInLoop 在执行上下文中运行只读查询
//
// 执行上下文已停止时直接运行：此时不再有写者，状态静止，
// 单线程读取是安全的。
func (c *Channel) queryInLoop(fn func()) {
	if err := c.loop.Await(fn); err != nil {
		fn()
	}
}
