package types

// 本文件定义通道向流水线投递的用户事件类型。
// 用户事件通过 Pipeline.UserEvent 投递，与数据事件（DataReceived 等）分离。

// InputClosedEvent 入站方向已关闭事件
//
// 对端半关闭（不再发送数据）且本地允许远端半关闭时投递。
// 收到该事件后通道仍保持活跃，出站方向可继续写入。
type InputClosedEvent struct{}

// HandshakeCompletedEvent 安全握手完成事件
//
// 传输层协商出安全子协议时，在连接就绪后额外投递。
type HandshakeCompletedEvent struct {
	// Protocol 协商出的协议名称（如 "h2"，可为空）
	Protocol string
}

// PathChangedEvent 传输路径变化事件
type PathChangedEvent struct {
	// Path 新的路径信息
	Path Path
}

// BetterPathEvent 更优路径可用性事件
//
// Available 为 true 表示出现了更优路径，false 表示更优路径消失。
type BetterPathEvent struct {
	Available bool
}
