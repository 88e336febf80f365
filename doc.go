// Package netchannel 提供回调传输到字节流通道的适配
//
// netchannel 把非阻塞、回调驱动的传输原语（按需接收、带完成回调的
// 发送、异步连接状态通知）适配为带显式生命周期、水位线流控和
// TCP 式半关闭语义的全双工字节流通道。
//
// # 核心概念
//
//   - Channel: 通道，一条连接的全双工字节流门面
//   - Pipeline: 事件流水线，通道向上层投递入站数据和事件的出口
//   - Transport: 传输，通道之下的单连接回调原语（TCP/WebSocket/内存）
//   - Promise: 异步操作的完成凭证
//
// # 快速开始
//
//	import "github.com/dep2p/go-netchannel"
//
//	// 1. 实现 Pipeline 接收入站事件
//	type handler struct{ ch netchannel.Channel }
//
//	func (h *handler) DataReceived(buf []byte)       { /* 处理数据 */ }
//	func (h *handler) ReadComplete()                 {}
//	func (h *handler) WritabilityChanged(w bool)     {}
//	func (h *handler) UserEvent(event any)           {}
//	func (h *handler) ErrorCaught(err error)         {}
//
//	// 2. 拨号并等待激活
//	d := netchannel.NewDialer(nil)
//	defer d.Close()
//
//	h := &handler{}
//	ch, connected, err := d.Dial("example.com:4001", h)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	h.ch = ch
//	if err := connected.Await(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// 3. 写入并关闭出站方向
//	ch.WriteAndFlush([]byte("hello"))
//	ch.CloseOutput()
//
// # 生命周期
//
// 通道沿单调路径推进：已注册 → 激活中 → 活跃 → 终止。
// 活跃期间维护 TCP 式子状态（全开 / 本地半关 / 远端半关 / 双向关闭），
// 半关闭后仍可在未关闭的方向继续传输。
//
// # 并发模型
//
// 每个通道绑定一个串行执行上下文，全部内部状态只在其中变更；
// 公开 API 可从任意 goroutine 调用。IsWritable 是唯一的无锁快路径。
package netchannel
