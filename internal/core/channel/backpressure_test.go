package channel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-netchannel/pkg/types"
)

func TestWaterMarkCrossing(t *testing.T) {
	m := newBackpressureManager(types.WaterMark{Low: 5, High: 10})
	require.True(t, m.isWritable())

	// 入队 11 字节：越过高水位线，翻转为不可写
	require.True(t, m.bytesQueued(11))
	require.False(t, m.isWritable())

	// 发送 6 字节：剩余 5，5 不小于 5，保持不可写
	require.False(t, m.bytesSent(6))
	require.False(t, m.isWritable())

	// 再发送 1 字节：剩余 4，低于低水位线，恢复可写
	require.True(t, m.bytesSent(1))
	require.True(t, m.isWritable())
}

func TestNoFlipWithoutBoundaryCrossing(t *testing.T) {
	m := newBackpressureManager(types.WaterMark{Low: 5, High: 10})

	// 未越界的字节变化不翻转
	require.False(t, m.bytesQueued(3))
	require.False(t, m.bytesQueued(4))
	require.True(t, m.isWritable())

	require.False(t, m.bytesSent(7))
	require.True(t, m.isWritable())
}

func TestNoRepeatedFlipWhileAboveHigh(t *testing.T) {
	m := newBackpressureManager(types.WaterMark{Low: 5, High: 10})

	require.True(t, m.bytesQueued(11))
	// 已不可写，继续入队不再报告翻转
	require.False(t, m.bytesQueued(100))
	require.False(t, m.isWritable())
}

func TestSetWaterMarkReevaluates(t *testing.T) {
	m := newBackpressureManager(types.WaterMark{Low: 5, High: 10})

	require.False(t, m.bytesQueued(8), "8 未超过 10")
	require.True(t, m.isWritable())

	// 收紧水位线：8 > 6，翻转为不可写
	require.True(t, m.setWaterMark(types.WaterMark{Low: 3, High: 6}))
	require.False(t, m.isWritable())

	// 放宽水位线：8 < 20，恢复可写
	require.True(t, m.setWaterMark(types.WaterMark{Low: 20, High: 40}))
	require.True(t, m.isWritable())

	// 再次设置同样的水位线不翻转
	require.False(t, m.setWaterMark(types.WaterMark{Low: 20, High: 40}))
}
