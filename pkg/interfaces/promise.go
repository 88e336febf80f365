package interfaces

import "context"

// Promise 单次完成句柄
//
// 代表一次异步操作的最终结果：成功（nil）或失败（error）。
// 只能完成一次，后续的完成调用被忽略。
type Promise interface {
	// Complete 完成 Promise
	//
	// err 为 nil 表示成功。返回本次调用是否真正完成了 Promise
	// （false 表示此前已完成过）。
	Complete(err error) bool

	// OnComplete 注册完成回调
	//
	// 若注册时已完成，回调立即在调用方 goroutine 中执行；
	// 否则在完成时刻由完成方 goroutine 执行。
	OnComplete(fn func(err error))

	// Cascade 级联到另一个 Promise
	//
	// 本 Promise 完成时，将同样的成功/失败结果转发给 target。
	Cascade(target Promise)

	// Done 返回完成信号通道
	Done() <-chan struct{}

	// Err 返回完成结果
	//
	// 未完成时返回 nil；完成后返回最终结果（成功为 nil）。
	Err() error

	// Await 阻塞等待完成
	//
	// ctx 取消时提前返回 ctx.Err()，但不影响 Promise 本身。
	Await(ctx context.Context) error
}
