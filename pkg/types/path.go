package types

// Path 传输路径信息
//
// 描述连接当前使用的网络路径。路径变化（如 WiFi 切换到蜂窝网络）
// 由传输层通知，通道只负责原样转发给上层，不会因此改变自身状态。
type Path struct {
	// LocalEndpoint 本地端点
	LocalEndpoint Endpoint

	// RemoteEndpoint 远端端点
	RemoteEndpoint Endpoint

	// InterfaceName 网络接口名称（如 "en0"，可为空）
	InterfaceName string
}
