package netchannel

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-netchannel/internal/core/channel"
	"github.com/dep2p/go-netchannel/pkg/types"
)

// Option 通道构造选项
type Option = channel.Option

// WaterMark 写缓冲水位线
type WaterMark = types.WaterMark

// WithAutoRead 设置是否自动保持读取（默认 true）
//
// 关闭后入站数据只在显式调用 Read 时拉取。
func WithAutoRead(enabled bool) Option {
	return channel.WithAutoRead(enabled)
}

// WithAllowRemoteHalfClosure 设置是否允许远端半关闭（默认 false）
//
// 开启后远端的流结束只关闭入站方向，通道保持活跃可继续写入；
// 关闭时流结束触发整体关闭。
func WithAllowRemoteHalfClosure(allow bool) Option {
	return channel.WithAllowRemoteHalfClosure(allow)
}

// WithWriteBufferWaterMark 设置写缓冲水位线（默认 32 KiB / 64 KiB）
func WithWriteBufferWaterMark(mark WaterMark) Option {
	return channel.WithWriteBufferWaterMark(mark)
}

// WithReadChunkSize 设置单次接收的最大字节数（默认 8192）
func WithReadChunkSize(n int) Option {
	return channel.WithReadChunkSize(n)
}

// WithConnectTimeout 设置连接建立超时（默认不启用）
//
// 超时前未激活的通道以 ErrConnectTimeout 关闭。
func WithConnectTimeout(d time.Duration) Option {
	return channel.WithConnectTimeout(d)
}

// WithSocketOption 暂存一个套接字选项，连接时转发给传输
//
// 传输不认识的选项属于编程错误，Connect 时 panic。
func WithSocketOption(key string, value any) Option {
	return channel.WithSocketOption(key, value)
}

// WithClock 替换通道使用的时钟，用于测试
func WithClock(clk clock.Clock) Option {
	return channel.WithClock(clk)
}
