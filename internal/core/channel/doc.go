// Package channel 实现连接通道核心
//
// 详细说明见 channel.go 的包注释。
//
// 组成：
//   - state.go：两级状态机（生命周期 × TCP 子状态）
//   - backpressure.go：水位线背压与可写标志
//   - writequeue.go / write.go：待发送队列与写入流水线
//   - reader.go：读取调度（至多一个未完成接收）
//   - closer.go：整体关闭 / 半关闭编排
//   - adapter.go：传输事件适配
//   - options.go：运行时选项读写
//   - module.go：Fx 模块与通道工厂
package channel
