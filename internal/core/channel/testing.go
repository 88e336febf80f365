package channel

// 测试辅助：可编程的 mock 传输和记录事件的 mock 流水线。
// 只供本包测试使用。

import (
	"sync"

	"github.com/dep2p/go-netchannel/pkg/interfaces"
	"github.com/dep2p/go-netchannel/pkg/types"
)

// ============================================================================
//                              mockTransport
// ============================================================================

// mockSend 一次已提交的发送
type mockSend struct {
	buf   []byte
	final bool
	done  func(err error)
}

// mockReceive 一次未完成的接收请求
type mockReceive struct {
	minLen int
	maxLen int
	done   func(data []byte, isComplete bool, err error)
}

// mockTransport 实现 interfaces.Transport 供测试使用
//
// 默认行为：Start 后立即投递 ready；Send 立即成功完成。
// 测试通过字段和辅助方法编排其他时序。
type mockTransport struct {
	mu sync.Mutex

	exec     interfaces.Executor
	stateFn  func(types.TransportState)
	pathFn   func(types.Path)
	betterFn func(available bool)

	local  types.Endpoint
	remote types.Endpoint
	proto  string

	// manualReady 为 true 时 Start 不自动投递 ready
	manualReady bool

	// manualSend 为 true 时发送完成由测试手动驱动
	manualSend bool

	// sendErr 自动完成发送时使用的错误
	sendErr error

	cancelled  bool
	sends      []mockSend
	receives   []mockReceive
	socketOpts map[string]any

	// rejectSocketOpts 为 true 时 SetSocketOption 返回错误
	rejectSocketOpts bool
}

var _ interfaces.Transport = (*mockTransport)(nil)

func newMockTransport() *mockTransport {
	return &mockTransport{
		local:      types.Endpoint{Net: "mock", Addr: "local"},
		remote:     types.Endpoint{Net: "mock", Addr: "remote"},
		socketOpts: make(map[string]any),
	}
}

func (m *mockTransport) Start(exec interfaces.Executor) {
	m.mu.Lock()
	m.exec = exec
	manual := m.manualReady
	m.mu.Unlock()

	if !manual {
		m.Ready()
	}
}

func (m *mockTransport) Cancel() {
	m.mu.Lock()
	if m.cancelled {
		m.mu.Unlock()
		return
	}
	m.cancelled = true
	m.mu.Unlock()

	m.notifyState(types.TransportCancelled())
}

func (m *mockTransport) Send(buf []byte, final bool, onComplete func(err error)) {
	m.mu.Lock()
	m.sends = append(m.sends, mockSend{buf: buf, final: final, done: onComplete})
	manual := m.manualSend
	err := m.sendErr
	exec := m.exec
	m.mu.Unlock()

	if !manual {
		exec.Post(func() { onComplete(err) })
	}
}

func (m *mockTransport) Receive(minLen, maxLen int, onComplete func(data []byte, isComplete bool, err error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receives = append(m.receives, mockReceive{minLen: minLen, maxLen: maxLen, done: onComplete})
}

func (m *mockTransport) SetStateHandler(fn func(state types.TransportState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stateFn = fn
}

func (m *mockTransport) SetPathHandler(fn func(path types.Path)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pathFn = fn
}

func (m *mockTransport) SetBetterPathHandler(fn func(available bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.betterFn = fn
}

func (m *mockTransport) LocalEndpoint() types.Endpoint  { return m.local }
func (m *mockTransport) RemoteEndpoint() types.Endpoint { return m.remote }

func (m *mockTransport) SetSocketOption(key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rejectSocketOpts {
		return types.ErrUnsupportedOperation
	}
	m.socketOpts[key] = value
	return nil
}

func (m *mockTransport) NegotiatedProtocol() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.proto
}

// ---------------------------------------------------------------------------
// 测试编排辅助
// ---------------------------------------------------------------------------

// notifyState 把状态通知投递到执行上下文
func (m *mockTransport) notifyState(st types.TransportState) {
	m.mu.Lock()
	exec := m.exec
	fn := m.stateFn
	m.mu.Unlock()
	if exec == nil || fn == nil {
		return
	}
	exec.Post(func() { fn(st) })
}

// Ready 投递 ready 状态
func (m *mockTransport) Ready() { m.notifyState(types.TransportReady()) }

// Waiting 投递 waiting 状态
func (m *mockTransport) Waiting(err error) { m.notifyState(types.TransportWaiting(err)) }

// Fail 投递 failed 状态
func (m *mockTransport) Fail(err error) { m.notifyState(types.TransportFailed(err)) }

// NotifyPath 投递路径变化通知
func (m *mockTransport) NotifyPath(path types.Path) {
	m.mu.Lock()
	exec := m.exec
	fn := m.pathFn
	m.mu.Unlock()
	if exec == nil || fn == nil {
		return
	}
	exec.Post(func() { fn(path) })
}

// NotifyBetterPath 投递更优路径通知
func (m *mockTransport) NotifyBetterPath(available bool) {
	m.mu.Lock()
	exec := m.exec
	fn := m.betterFn
	m.mu.Unlock()
	if exec == nil || fn == nil {
		return
	}
	exec.Post(func() { fn(available) })
}

// CompleteReceive 完成最早的未完成接收
func (m *mockTransport) CompleteReceive(data []byte, isComplete bool, err error) bool {
	m.mu.Lock()
	if len(m.receives) == 0 {
		m.mu.Unlock()
		return false
	}
	r := m.receives[0]
	m.receives = m.receives[1:]
	exec := m.exec
	m.mu.Unlock()

	exec.Post(func() { r.done(data, isComplete, err) })
	return true
}

// CompleteSend 完成第 i 个已提交发送（manualSend 模式）
func (m *mockTransport) CompleteSend(i int, err error) {
	m.mu.Lock()
	s := m.sends[i]
	exec := m.exec
	m.mu.Unlock()

	exec.Post(func() { s.done(err) })
}

// SendCount 返回已提交发送数
func (m *mockTransport) SendCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sends)
}

// SentAt 返回第 i 个已提交发送的快照
func (m *mockTransport) SentAt(i int) mockSend {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sends[i]
}

// ReceiveCount 返回未完成接收请求数
func (m *mockTransport) ReceiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.receives)
}

// IsCancelled 检查传输是否已被取消
func (m *mockTransport) IsCancelled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancelled
}

// ============================================================================
//                              mockPipeline
// ============================================================================

// mockPipeline 记录收到的全部事件供测试断言
type mockPipeline struct {
	mu sync.Mutex

	data          [][]byte
	readCompletes int
	writability   []bool
	userEvents    []any
	errorsCaught  []error
}

var _ interfaces.Pipeline = (*mockPipeline)(nil)

func newMockPipeline() *mockPipeline {
	return &mockPipeline{}
}

func (p *mockPipeline) DataReceived(buf []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = append(p.data, buf)
}

func (p *mockPipeline) ReadComplete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readCompletes++
}

func (p *mockPipeline) WritabilityChanged(writable bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writability = append(p.writability, writable)
}

func (p *mockPipeline) UserEvent(event any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.userEvents = append(p.userEvents, event)
}

func (p *mockPipeline) ErrorCaught(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errorsCaught = append(p.errorsCaught, err)
}

func (p *mockPipeline) Data() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.data))
	copy(out, p.data)
	return out
}

func (p *mockPipeline) ReadCompletes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readCompletes
}

func (p *mockPipeline) Writability() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]bool, len(p.writability))
	copy(out, p.writability)
	return out
}

func (p *mockPipeline) UserEvents() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]any, len(p.userEvents))
	copy(out, p.userEvents)
	return out
}

func (p *mockPipeline) ErrorsCaught() []error {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]error, len(p.errorsCaught))
	copy(out, p.errorsCaught)
	return out
}
