package interfaces

// Executor 串行执行上下文
//
// 每个通道绑定一个 Executor，通道的全部内部状态只在该上下文中变更。
// 传输层在 Start 时获得通道的 Executor，所有完成回调和状态通知
// 必须通过它投递，保证与通道内部操作串行化。
type Executor interface {
	// Post 将任务投递到执行上下文，按投递顺序执行
	//
	// 不会阻塞调用方。若已在本执行上下文中调用，任务仍然排队，
	// 在当前任务结束后执行。
	Post(fn func())

	// InLoop 检查当前 goroutine 是否就是执行上下文本身
	InLoop() bool
}
