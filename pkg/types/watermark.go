package types

// ============================================================================
//                              WaterMark - 写缓冲水位线
// ============================================================================

const (
	// DefaultWriteBufferLowWaterMark 默认低水位线（32 KiB）
	DefaultWriteBufferLowWaterMark = 32 * 1024

	// DefaultWriteBufferHighWaterMark 默认高水位线（64 KiB）
	DefaultWriteBufferHighWaterMark = 64 * 1024
)

// WaterMark 写缓冲水位线
//
// 待发送字节数越过 High 时通道变为不可写，回落到 Low 以下时恢复可写。
// 可写标志只在越过边界时翻转，不随每次字节数变化而翻转。
type WaterMark struct {
	// Low 低水位线（字节）
	Low int

	// High 高水位线（字节）
	High int
}

// DefaultWaterMark 返回默认水位线（32 KiB / 64 KiB）
func DefaultWaterMark() WaterMark {
	return WaterMark{
		Low:  DefaultWriteBufferLowWaterMark,
		High: DefaultWriteBufferHighWaterMark,
	}
}

// Valid 检查水位线是否合法
//
// 要求 0 <= Low <= High。
func (w WaterMark) Valid() bool {
	return w.Low >= 0 && w.Low <= w.High
}
