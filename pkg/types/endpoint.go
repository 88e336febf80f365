package types

import "net"

// Endpoint 传输端点地址
//
// 对底层传输地址的轻量封装，实现 net.Addr 接口。
// 传输实现负责填充具体的网络类型和地址字符串。
type Endpoint struct {
	// Net 网络类型，如 "tcp"、"ws"、"memory"
	Net string

	// Addr 地址字符串，如 "127.0.0.1:4001"
	Addr string
}

// 确保实现了 net.Addr 接口
var _ net.Addr = Endpoint{}

// EndpointFromAddr 从 net.Addr 创建 Endpoint
func EndpointFromAddr(addr net.Addr) Endpoint {
	if addr == nil {
		return Endpoint{}
	}
	return Endpoint{
		Net:  addr.Network(),
		Addr: addr.String(),
	}
}

// Network 返回网络类型
func (e Endpoint) Network() string {
	return e.Net
}

// String 返回地址字符串
func (e Endpoint) String() string {
	return e.Addr
}

// IsZero 检查端点是否为空
func (e Endpoint) IsZero() bool {
	return e.Net == "" && e.Addr == ""
}
