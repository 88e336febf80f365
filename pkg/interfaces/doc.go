// Package interfaces 定义 go-netchannel 公共接口
//
// 本包只包含接口定义和少量辅助类型，不包含实现：
// - Transport：回调驱动的非阻塞传输契约
// - Channel：全双工字节流通道
// - Pipeline：通道向上层投递事件的出口
// - Promise：单次完成句柄
// - Executor：串行执行上下文
//
// 实现位于 internal/core 下的对应包中。
package interfaces
