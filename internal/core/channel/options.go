package channel

import (
	"fmt"

	"github.com/dep2p/go-netchannel/pkg/interfaces"
	"github.com/dep2p/go-netchannel/pkg/types"
)

// 通道选项的运行时读写。
// 选项键和取值类型见 pkg/interfaces 的 ChannelOption 定义。
// 不认识的键或错误的取值类型属于编程错误：在调用方 goroutine 上
// panic，而不是作为可恢复错误传播。

// SetOption 设置通道选项
//
// 同步等待选项在执行上下文中生效。
func (c *Channel) SetOption(key interfaces.ChannelOption, value any) {
	apply := c.optionApplier(key, value)
	if err := c.loop.Await(apply); err != nil {
		// 通道已终止，选项变更不再有意义
		logger.Debug("option ignored on terminated channel",
			"id", c.id, "option", string(key))
	}
}

// GetOption 读取通道选项当前值
func (c *Channel) GetOption(key interfaces.ChannelOption) any {
	var v any
	read := c.optionReader(key, &v)
	c.queryInLoop(read)
	return v
}

// optionApplier 校验选项键和取值类型，返回在执行上下文中生效的闭包
//
// 校验在调用方 goroutine 上完成，非法用法立即 panic。
func (c *Channel) optionApplier(key interfaces.ChannelOption, value any) func() {
	switch key {
	case interfaces.OptionAutoRead:
		v := mustOption[bool](key, value)
		return func() {
			c.autoRead = v
			// 开启后立即补发读取
			c.readIfNeeded()
		}

	case interfaces.OptionAllowRemoteHalfClosure:
		v := mustOption[bool](key, value)
		return func() { c.allowRemoteHalfClosure = v }

	case interfaces.OptionWriteBufferWaterMark:
		mark := mustOption[types.WaterMark](key, value)
		if !mark.Valid() {
			panic(fmt.Sprintf("netchannel: invalid water mark %+v", mark))
		}
		return func() {
			if c.bp.setWaterMark(mark) {
				c.notifyWritability()
			}
		}

	case interfaces.OptionReadChunkSize:
		n := mustOption[int](key, value)
		if n < 1 {
			panic(fmt.Sprintf("netchannel: invalid read chunk size %d", n))
		}
		return func() { c.readChunkSize = n }

	default:
		panic(fmt.Sprintf("netchannel: unknown channel option %q", string(key)))
	}
}

// optionReader 校验选项键，返回在执行上下文中读取的闭包
func (c *Channel) optionReader(key interfaces.ChannelOption, out *any) func() {
	switch key {
	case interfaces.OptionAutoRead:
		return func() { *out = c.autoRead }
	case interfaces.OptionAllowRemoteHalfClosure:
		return func() { *out = c.allowRemoteHalfClosure }
	case interfaces.OptionWriteBufferWaterMark:
		return func() { *out = c.bp.waterMark() }
	case interfaces.OptionReadChunkSize:
		return func() { *out = c.readChunkSize }
	default:
		panic(fmt.Sprintf("netchannel: unknown channel option %q", string(key)))
	}
}

// mustOption 断言选项取值类型
func mustOption[T any](key interfaces.ChannelOption, value any) T {
	v, ok := value.(T)
	if !ok {
		panic(fmt.Sprintf("netchannel: option %q: unexpected value type %T",
			string(key), value))
	}
	return v
}
