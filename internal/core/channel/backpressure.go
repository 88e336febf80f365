package channel

import (
	"sync/atomic"

	"github.com/dep2p/go-netchannel/pkg/types"
)

// backpressureManager 写缓冲背压管理
//
// 跟踪已入队未发送的字节数，根据高低水位线维护可写标志。
// 标志只在越过边界时翻转：已入队字节数越过 High 且当前可写时
// 翻转为不可写；回落到 Low 以下且当前不可写时翻转为可写。
// 不随每次字节数变化而翻转。
//
// 并发契约：outstanding 和水位线只在通道的执行上下文中读写；
// writable 是唯一允许跨上下文读取的状态——单写者（执行上下文）、
// 多读者（任意 goroutine），只需要普通的原子读写，
// 不需要 compare-and-swap，因为永远只有一个写者。
type backpressureManager struct {
	// outstanding 已入队未发送的字节数（仅执行上下文访问）
	outstanding int

	// mark 当前水位线（仅执行上下文访问）
	mark types.WaterMark

	// writable 可写标志（单写者/多读者）
	writable atomic.Bool
}

// newBackpressureManager 创建背压管理器，初始可写
func newBackpressureManager(mark types.WaterMark) *backpressureManager {
	m := &backpressureManager{mark: mark}
	m.writable.Store(true)
	return m
}

// bytesQueued 记录 n 字节入队
//
// 返回可写标志是否翻转。翻转时调用方必须向流水线投递
// WritabilityChanged 通知。
func (m *backpressureManager) bytesQueued(n int) (changed bool) {
	m.outstanding += n
	if m.outstanding > m.mark.High && m.writable.Load() {
		m.writable.Store(false)
		return true
	}
	return false
}

// bytesSent 记录 n 字节发送完成
//
// 返回可写标志是否翻转。
func (m *backpressureManager) bytesSent(n int) (changed bool) {
	m.outstanding -= n
	if m.outstanding < m.mark.Low && !m.writable.Load() {
		m.writable.Store(true)
		return true
	}
	return false
}

// setWaterMark 更新水位线
//
// 按同样的越界规则对当前字节数重新求值，返回可写标志是否翻转。
func (m *backpressureManager) setWaterMark(mark types.WaterMark) (changed bool) {
	m.mark = mark
	if m.outstanding > m.mark.High && m.writable.Load() {
		m.writable.Store(false)
		return true
	}
	if m.outstanding < m.mark.Low && !m.writable.Load() {
		m.writable.Store(true)
		return true
	}
	return false
}

// waterMark 返回当前水位线（仅执行上下文调用）
func (m *backpressureManager) waterMark() types.WaterMark {
	return m.mark
}

// isWritable 读取可写标志
//
// 可从任意 goroutine 调用。
func (m *backpressureManager) isWritable() bool {
	return m.writable.Load()
}
