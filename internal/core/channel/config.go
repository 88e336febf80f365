package channel

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-netchannel/config"
	"github.com/dep2p/go-netchannel/pkg/types"
)

// Config 通道配置
type Config struct {
	// AutoRead 自动读取：每次接收完成后自动发起下一次读取
	AutoRead bool

	// AllowRemoteHalfClosure 允许远端半关闭
	//
	// 开启时收到 EOF 只关闭入站方向；关闭时收到 EOF 触发通道关闭。
	AllowRemoteHalfClosure bool

	// WriteBufferWaterMark 写缓冲水位线
	WriteBufferWaterMark types.WaterMark

	// ReadChunkSize 单次接收的最大字节数
	ReadChunkSize int

	// ConnectTimeout 连接建立超时，0 表示不启用
	ConnectTimeout time.Duration

	// SocketOptions 传输层套接字选项，Connect 时原样转发给传输
	SocketOptions map[string]any

	// Clock 时钟源（测试中注入 mock）
	Clock clock.Clock
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		AutoRead:             true,
		WriteBufferWaterMark: types.DefaultWaterMark(),
		ReadChunkSize:        8192,
		Clock:                clock.New(),
	}
}

// ConfigFromUnified 从统一配置创建通道配置
func ConfigFromUnified(cfg *config.Config) *Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return &Config{
		AutoRead:               cfg.Channel.AutoRead,
		AllowRemoteHalfClosure: cfg.Channel.AllowRemoteHalfClosure,
		WriteBufferWaterMark: types.WaterMark{
			Low:  cfg.Channel.WriteBufferLowWaterMark,
			High: cfg.Channel.WriteBufferHighWaterMark,
		},
		ReadChunkSize:  cfg.Channel.ReadChunkSize,
		ConnectTimeout: cfg.Channel.ConnectTimeout,
		Clock:          clock.New(),
	}
}

// Option 通道配置选项
type Option func(*Config)

// WithAutoRead 设置自动读取
func WithAutoRead(enabled bool) Option {
	return func(c *Config) {
		c.AutoRead = enabled
	}
}

// WithAllowRemoteHalfClosure 设置是否允许远端半关闭
func WithAllowRemoteHalfClosure(enabled bool) Option {
	return func(c *Config) {
		c.AllowRemoteHalfClosure = enabled
	}
}

// WithWriteBufferWaterMark 设置写缓冲水位线
func WithWriteBufferWaterMark(mark types.WaterMark) Option {
	return func(c *Config) {
		c.WriteBufferWaterMark = mark
	}
}

// WithReadChunkSize 设置单次接收的最大字节数
func WithReadChunkSize(n int) Option {
	return func(c *Config) {
		c.ReadChunkSize = n
	}
}

// WithConnectTimeout 设置连接建立超时
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.ConnectTimeout = d
	}
}

// WithSocketOption 设置一项传输层套接字选项
func WithSocketOption(key string, value any) Option {
	return func(c *Config) {
		if c.SocketOptions == nil {
			c.SocketOptions = make(map[string]any)
		}
		c.SocketOptions[key] = value
	}
}

// WithClock 设置时钟源
func WithClock(clk clock.Clock) Option {
	return func(c *Config) {
		c.Clock = clk
	}
}
