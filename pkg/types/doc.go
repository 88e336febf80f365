// Package types 定义 go-netchannel 的公共类型
//
// 本包只包含纯数据类型，不依赖任何内部实现，供接口层和实现层共享使用：
// - Endpoint：传输端点地址
// - TransportState：传输连接状态（带标签的状态值）
// - Path：传输路径信息
// - 用户事件类型（InputClosedEvent、HandshakeCompletedEvent 等）
package types
