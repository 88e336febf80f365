// Package memory 提供进程内成对传输
//
// Pair 返回两个互为对端的传输：一侧发送的字节进入另一侧的收件缓冲，
// final 发送标记对端的流结束。没有真实 I/O，全部交接在内存中完成，
// 用于测试和进程内回环。
package memory

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-netchannel/pkg/interfaces"
	"github.com/dep2p/go-netchannel/pkg/types"
)

// pairSeq 为端点命名提供递增序号
var pairSeq atomic.Uint64

// recvReq 一次未完成的接收
type recvReq struct {
	maxLen int
	done   func(data []byte, isComplete bool, err error)
}

// Transport 成对传输的一侧
type Transport struct {
	local  types.Endpoint
	remote types.Endpoint
	peer   *Transport

	mu       sync.Mutex
	exec     interfaces.Executor
	stateFn  func(types.TransportState)
	pathFn   func(types.Path)
	betterFn func(available bool)

	// inbox 对端已发送、本侧尚未交付的字节
	inbox []byte

	// eof 对端已做出站半关闭或已取消
	eof bool

	pending   []recvReq
	cancelled bool

	cancelOnce sync.Once
}

var _ interfaces.Transport = (*Transport)(nil)

// Pair 创建一对互联的传输
func Pair() (*Transport, *Transport) {
	n := pairSeq.Add(1)
	a := &Transport{
		local: types.Endpoint{Net: "memory", Addr: endpointName(n, "a")},
	}
	b := &Transport{
		local: types.Endpoint{Net: "memory", Addr: endpointName(n, "b")},
	}
	a.remote, b.remote = b.local, a.local
	a.peer, b.peer = b, a
	return a, b
}

func endpointName(n uint64, side string) string {
	return "pair-" + side + "-" + strconv.FormatUint(n, 10)
}

// Start 绑定执行器，立即就绪
func (t *Transport) Start(exec interfaces.Executor) {
	t.mu.Lock()
	t.exec = exec
	t.mu.Unlock()

	t.notifyState(types.TransportReady())
}

// Cancel 取消传输
//
// 对端随后读到流结束，如同连接被正常关闭。
func (t *Transport) Cancel() {
	t.cancelOnce.Do(func() {
		t.mu.Lock()
		t.cancelled = true
		pending := t.pending
		t.pending = nil
		t.mu.Unlock()

		for _, req := range pending {
			done := req.done
			t.post(func() { done(nil, true, nil) })
		}
		t.notifyState(types.TransportCancelled())

		t.peer.markEOF()
	})
}

// Send 把字节交给对端的收件缓冲
func (t *Transport) Send(buf []byte, final bool, onComplete func(err error)) {
	t.peer.deliver(buf, final)
	t.post(func() { onComplete(nil) })
}

// Receive 提交一次接收，有数据或流结束时完成
func (t *Transport) Receive(minLen, maxLen int, onComplete func(data []byte, isComplete bool, err error)) {
	t.mu.Lock()
	t.pending = append(t.pending, recvReq{maxLen: maxLen, done: onComplete})
	t.pump()
	t.mu.Unlock()
}

// deliver 对端调用：追加入站字节
func (t *Transport) deliver(buf []byte, final bool) {
	t.mu.Lock()
	if len(buf) > 0 {
		t.inbox = append(t.inbox, buf...)
	}
	if final {
		t.eof = true
	}
	t.pump()
	t.mu.Unlock()
}

// markEOF 对端取消时调用
func (t *Transport) markEOF() {
	t.mu.Lock()
	t.eof = true
	t.pump()
	t.mu.Unlock()
}

// pump 尽可能完成未完成的接收，调用方必须持有锁
//
// 接收只会在传输启动后提交，此时 exec 必然已绑定。
func (t *Transport) pump() {
	exec := t.exec
	for len(t.pending) > 0 && exec != nil {
		if len(t.inbox) == 0 && !t.eof {
			return
		}
		req := t.pending[0]
		t.pending = t.pending[1:]

		n := len(t.inbox)
		if n > req.maxLen {
			n = req.maxLen
		}
		var data []byte
		if n > 0 {
			data = make([]byte, n)
			copy(data, t.inbox)
			t.inbox = t.inbox[n:]
		}
		isComplete := t.eof && len(t.inbox) == 0

		done := req.done
		exec.Post(func() { done(data, isComplete, nil) })
	}
}

// ============================================================================
//                              通知和查询
// ============================================================================

func (t *Transport) SetStateHandler(fn func(state types.TransportState)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stateFn = fn
}

func (t *Transport) SetPathHandler(fn func(path types.Path)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pathFn = fn
}

func (t *Transport) SetBetterPathHandler(fn func(available bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.betterFn = fn
}

func (t *Transport) LocalEndpoint() types.Endpoint  { return t.local }
func (t *Transport) RemoteEndpoint() types.Endpoint { return t.remote }

// SetSocketOption 内存传输没有可调的套接字选项
func (t *Transport) SetSocketOption(key string, value any) error {
	return types.ErrUnsupportedOperation
}

// NegotiatedProtocol 内存传输不做协议协商
func (t *Transport) NegotiatedProtocol() string { return "" }

func (t *Transport) notifyState(st types.TransportState) {
	t.mu.Lock()
	fn := t.stateFn
	t.mu.Unlock()
	if fn == nil {
		return
	}
	t.post(func() { fn(st) })
}

func (t *Transport) post(fn func()) {
	t.mu.Lock()
	exec := t.exec
	t.mu.Unlock()
	if exec != nil {
		exec.Post(fn)
	}
}
