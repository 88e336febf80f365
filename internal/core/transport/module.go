package transport

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/dep2p/go-netchannel/config"
	"github.com/dep2p/go-netchannel/internal/core/transport/tcp"
	"github.com/dep2p/go-netchannel/internal/core/transport/ws"
	"github.com/dep2p/go-netchannel/pkg/interfaces"
	"github.com/dep2p/go-netchannel/pkg/lib/log"
)

var logger = log.Logger("core/transport")

// ============================================================================
//                              配置
// ============================================================================

// Config 传输层配置
type Config struct {
	// 协议开关
	EnableTCP       bool
	EnableWebSocket bool

	// DialTimeout 拨号超时
	DialTimeout time.Duration

	// WSHandshakeTimeout WebSocket 握手超时
	WSHandshakeTimeout time.Duration
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{
		EnableTCP:          true,
		EnableWebSocket:    false,
		DialTimeout:        30 * time.Second,
		WSHandshakeTimeout: 10 * time.Second,
	}
}

// ConfigFromUnified 从统一配置创建传输配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return NewConfig()
	}
	return Config{
		EnableTCP:          cfg.Transport.EnableTCP,
		EnableWebSocket:    cfg.Transport.EnableWebSocket,
		DialTimeout:        cfg.Transport.DialTimeout,
		WSHandshakeTimeout: cfg.Transport.WSHandshakeTimeout,
	}
}

// ============================================================================
//                              Manager
// ============================================================================

// Acceptor 接受入站连接的监听器
type Acceptor interface {
	Accept() (interfaces.Transport, error)
	Addr() net.Addr
	Close() error
}

// Manager 传输管理器
//
// 按地址前缀选择传输协议创建传输实例，并跟踪打开的监听器，
// 关闭时统一释放。
type Manager struct {
	cfg Config

	mu        sync.Mutex
	listeners []Acceptor
	closed    bool
}

// NewManager 创建传输管理器
func NewManager(cfg Config) *Manager {
	logger.Debug("transport manager created",
		"enableTCP", cfg.EnableTCP, "enableWebSocket", cfg.EnableWebSocket)
	return &Manager{cfg: cfg}
}

// Dial 为目标地址创建出站传输
//
// ws:// 和 wss:// 前缀选择 WebSocket，其余按 host:port 作为 TCP。
// 传输在 Channel.Connect 中被启动，这里不发起 I/O。
func (m *Manager) Dial(addr string) (interfaces.Transport, error) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return nil, ErrManagerClosed
	}

	switch {
	case strings.HasPrefix(addr, "ws://"), strings.HasPrefix(addr, "wss://"):
		if !m.cfg.EnableWebSocket {
			return nil, ErrTransportDisabled
		}
		return ws.New(addr, ws.Config{
			HandshakeTimeout: m.cfg.WSHandshakeTimeout,
		}), nil

	case strings.Contains(addr, "://"):
		return nil, ErrUnsupportedScheme

	default:
		if !m.cfg.EnableTCP {
			return nil, ErrTransportDisabled
		}
		return tcp.New(addr, tcp.Config{
			DialTimeout: m.cfg.DialTimeout,
		}), nil
	}
}

// Listen 在指定地址监听入站 TCP 连接
func (m *Manager) Listen(addr string) (Acceptor, error) {
	if !m.cfg.EnableTCP {
		return nil, ErrTransportDisabled
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrManagerClosed
	}

	ln, err := tcp.Listen(addr)
	if err != nil {
		return nil, err
	}
	m.listeners = append(m.listeners, ln)
	logger.Info("listening", "addr", ln.Addr().String())
	return ln, nil
}

// Close 关闭管理器和所有监听器
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	listeners := m.listeners
	m.listeners = nil
	m.mu.Unlock()

	var err error
	for _, ln := range listeners {
		err = multierr.Append(err, ln.Close())
	}
	return err
}

// ============================================================================
//                              Fx 模块
// ============================================================================

// ManagerParams Fx 输入
type ManagerParams struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("transport",
		fx.Provide(provideManager),
		fx.Invoke(registerLifecycle),
	)
}

func provideManager(params ManagerParams) *Manager {
	return NewManager(ConfigFromUnified(params.UnifiedCfg))
}

func registerLifecycle(lc fx.Lifecycle, m *Manager) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return m.Close()
		},
	})
}
