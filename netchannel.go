package netchannel

import (
	"net"

	"github.com/dep2p/go-netchannel/config"
	"github.com/dep2p/go-netchannel/internal/core/channel"
	"github.com/dep2p/go-netchannel/internal/core/transport"
	"github.com/dep2p/go-netchannel/internal/core/transport/memory"
	"github.com/dep2p/go-netchannel/pkg/interfaces"
)

// ════════════════════════════════════════════════════════════════════════════
//                              版本信息
// ════════════════════════════════════════════════════════════════════════════

// Version 当前版本
const Version = "v0.1.0"

// BuildInfo 构建信息（通过 ldflags 注入）
var (
	// GitCommit Git 提交哈希
	GitCommit string

	// BuildDate 构建日期
	BuildDate string
)

// VersionInfo 返回完整版本信息字符串
func VersionInfo() string {
	info := "netchannel " + Version
	if GitCommit != "" {
		info += " (" + GitCommit[:min(8, len(GitCommit))] + ")"
	}
	if BuildDate != "" {
		info += " built " + BuildDate
	}
	return info
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

type (
	// Channel 连接通道
	Channel = interfaces.Channel

	// Pipeline 入站事件流水线
	Pipeline = interfaces.Pipeline

	// Transport 单连接传输原语
	Transport = interfaces.Transport

	// Promise 异步操作完成凭证
	Promise = interfaces.Promise

	// Executor 串行执行上下文
	Executor = interfaces.Executor
)

// ════════════════════════════════════════════════════════════════════════════
//                              构造入口
// ════════════════════════════════════════════════════════════════════════════

// New 创建未连接的通道
//
// 通道构造后即处于已注册状态，调用 Connect 绑定传输发起激活。
func New(pipeline Pipeline, opts ...Option) Channel {
	return channel.New(pipeline, opts...)
}

// Pair 创建一对经由内存传输互联的传输实例
//
// 用于测试和进程内回环：两侧分别交给两个通道的 Connect。
func Pair() (Transport, Transport) {
	a, b := memory.Pair()
	return a, b
}

// ════════════════════════════════════════════════════════════════════════════
//                              Dialer / Listener
// ════════════════════════════════════════════════════════════════════════════

// Dialer 通道拨号器
//
// 封装传输选择和通道装配：按地址创建传输、创建通道并发起连接。
type Dialer struct {
	manager *transport.Manager
	opts    []Option
}

// NewDialer 创建拨号器
//
// cfg 为 nil 时使用默认配置。opts 应用于之后创建的每个通道。
func NewDialer(cfg *config.Config, opts ...Option) *Dialer {
	return &Dialer{
		manager: transport.NewManager(transport.ConfigFromUnified(cfg)),
		opts:    opts,
	}
}

// Dial 创建通道并连接到目标地址
//
// 返回的 Promise 在通道激活后成功完成。ws:// 和 wss:// 前缀
// 选择 WebSocket 传输，其余地址按 host:port 作为 TCP。
func (d *Dialer) Dial(addr string, pipeline Pipeline, opts ...Option) (Channel, Promise, error) {
	tr, err := d.manager.Dial(addr)
	if err != nil {
		return nil, nil, err
	}
	ch := channel.New(pipeline, append(d.opts, opts...)...)
	return ch, ch.Connect(tr), nil
}

// Listen 在指定地址监听入站连接
func (d *Dialer) Listen(addr string) (*Listener, error) {
	acceptor, err := d.manager.Listen(addr)
	if err != nil {
		return nil, err
	}
	return &Listener{acceptor: acceptor, opts: d.opts}, nil
}

// Close 关闭拨号器和所有监听器
//
// 已建立的通道不受影响，需单独关闭。
func (d *Dialer) Close() error {
	return d.manager.Close()
}

// Listener 把入站连接装配为通道
type Listener struct {
	acceptor transport.Acceptor
	opts     []Option
}

// Accept 等待下一条入站连接并装配为通道
//
// 返回的 Promise 在通道激活后成功完成。
func (l *Listener) Accept(pipeline Pipeline, opts ...Option) (Channel, Promise, error) {
	tr, err := l.acceptor.Accept()
	if err != nil {
		return nil, nil, err
	}
	ch := channel.New(pipeline, append(l.opts, opts...)...)
	return ch, ch.Connect(tr), nil
}

// Addr 返回监听地址
func (l *Listener) Addr() net.Addr {
	return l.acceptor.Addr()
}

// Close 停止监听
func (l *Listener) Close() error {
	return l.acceptor.Close()
}
