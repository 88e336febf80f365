package transport

import "errors"

var (
	// ErrTransportDisabled 请求的传输协议在配置中被禁用
	ErrTransportDisabled = errors.New("transport: protocol disabled")

	// ErrUnsupportedScheme 地址使用了不认识的协议前缀
	ErrUnsupportedScheme = errors.New("transport: unsupported address scheme")

	// ErrManagerClosed 传输管理器已关闭
	ErrManagerClosed = errors.New("transport: manager closed")
)
