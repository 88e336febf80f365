// Package config 定义 go-netchannel 统一配置
//
// 统一配置是库的单一配置入口：各内部模块通过 ConfigFromUnified
// 把统一配置翻译为模块内部配置。零值不可用，从 DefaultConfig 出发修改。
package config

import (
	"time"

	"github.com/dep2p/go-netchannel/pkg/types"
)

// Config 统一配置
type Config struct {
	// Channel 通道配置
	Channel ChannelConfig

	// Transport 传输配置
	Transport TransportConfig
}

// ChannelConfig 通道配置
type ChannelConfig struct {
	// AutoRead 自动读取（默认 true）
	AutoRead bool

	// AllowRemoteHalfClosure 允许远端半关闭（默认 false）
	AllowRemoteHalfClosure bool

	// WriteBufferLowWaterMark 写缓冲低水位线（字节，默认 32 KiB）
	WriteBufferLowWaterMark int

	// WriteBufferHighWaterMark 写缓冲高水位线（字节，默认 64 KiB）
	WriteBufferHighWaterMark int

	// ReadChunkSize 单次接收的最大字节数（默认 8192）
	ReadChunkSize int

	// ConnectTimeout 连接建立超时，0 表示不启用（默认 0）
	ConnectTimeout time.Duration
}

// TransportConfig 传输配置
type TransportConfig struct {
	// EnableTCP 启用 TCP 传输（默认 true）
	EnableTCP bool

	// EnableWebSocket 启用 WebSocket 传输（默认 false）
	EnableWebSocket bool

	// DialTimeout 拨号超时（默认 30s）
	DialTimeout time.Duration

	// WSHandshakeTimeout WebSocket 握手超时（默认 10s）
	WSHandshakeTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Channel: ChannelConfig{
			AutoRead:                 true,
			AllowRemoteHalfClosure:   false,
			WriteBufferLowWaterMark:  types.DefaultWriteBufferLowWaterMark,
			WriteBufferHighWaterMark: types.DefaultWriteBufferHighWaterMark,
			ReadChunkSize:            8192,
			ConnectTimeout:           0,
		},
		Transport: TransportConfig{
			EnableTCP:          true,
			EnableWebSocket:    false,
			DialTimeout:        30 * time.Second,
			WSHandshakeTimeout: 10 * time.Second,
		},
	}
}

// Validate 检查配置合法性
func (c *Config) Validate() error {
	mark := types.WaterMark{
		Low:  c.Channel.WriteBufferLowWaterMark,
		High: c.Channel.WriteBufferHighWaterMark,
	}
	if !mark.Valid() {
		return ErrInvalidWaterMark
	}
	if c.Channel.ReadChunkSize < 1 {
		return ErrInvalidReadChunkSize
	}
	return nil
}
