// Package transport 实现通道的底层传输
//
// 每个传输实例对应一条连接，实现 interfaces.Transport 的回调驱动
// 非阻塞契约：Start 后所有通知和完成回调都经由通道的执行上下文投递，
// cancelled 是最后一个回调。
//
// 内置三种传输：
//   - tcp：基于 net.TCPConn，支持真正的出站半关闭（CloseWrite）
//   - ws：基于 WebSocket 二进制消息，final 以关闭帧近似半关闭
//   - memory：进程内成对传输，用于测试和回环
package transport
