// Package ws 提供基于 WebSocket 的连接传输
//
// 字节流承载在二进制消息上，消息边界对通道不可见。
// WebSocket 没有出站半关闭，final 发送以正常关闭帧近似：
// 数据写出后发送 CloseNormalClosure，对端以流结束完成接收。
package ws

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dep2p/go-netchannel/internal/core/transport/fifo"
	"github.com/dep2p/go-netchannel/pkg/interfaces"
	"github.com/dep2p/go-netchannel/pkg/types"
)

// Config WebSocket 传输配置
type Config struct {
	// HandshakeTimeout 握手超时
	HandshakeTimeout time.Duration

	// Subprotocols 客户端声明的子协议
	Subprotocols []string
}

// sendReq 一次待执行的发送
type sendReq struct {
	buf   []byte
	final bool
	done  func(err error)
}

// recvReq 一次待执行的接收
type recvReq struct {
	maxLen int
	done   func(data []byte, isComplete bool, err error)
}

// Transport 单条 WebSocket 连接的传输
type Transport struct {
	rawURL string
	cfg    Config

	mu        sync.Mutex
	exec      interfaces.Executor
	stateFn   func(types.TransportState)
	pathFn    func(types.Path)
	betterFn  func(available bool)
	conn      *websocket.Conn
	cancelled bool

	// compress 握手完成前暂存的压缩开关
	compress *bool

	sends *fifo.FIFO[sendReq]
	recvs *fifo.FIFO[recvReq]

	// leftover 上一条消息中尚未交付的字节
	leftover []byte

	quit       chan struct{}
	cancelOnce sync.Once
	wg         sync.WaitGroup
}

var _ interfaces.Transport = (*Transport)(nil)

// New 创建出站传输，Start 时握手
func New(rawURL string, cfg Config) *Transport {
	return &Transport{
		rawURL: rawURL,
		cfg:    cfg,
		sends:  fifo.New[sendReq](),
		recvs:  fifo.New[recvReq](),
		quit:   make(chan struct{}),
	}
}

// FromConn 包装一条已完成握手的连接（服务端侧）
func FromConn(conn *websocket.Conn) *Transport {
	t := New("", Config{})
	t.conn = conn
	return t
}

// Start 绑定执行器并启动传输
func (t *Transport) Start(exec interfaces.Executor) {
	t.mu.Lock()
	t.exec = exec
	t.mu.Unlock()

	t.wg.Add(1)
	go t.run()
}

func (t *Transport) run() {
	defer t.wg.Done()

	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	if conn == nil {
		t.notifyState(types.TransportPreparing())
		dialer := websocket.Dialer{
			HandshakeTimeout: t.cfg.HandshakeTimeout,
			Subprotocols:     t.cfg.Subprotocols,
		}
		c, resp, err := dialer.Dial(t.rawURL, nil)
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if err != nil {
			t.notifyState(types.TransportFailed(err))
			return
		}
		t.mu.Lock()
		if t.cancelled {
			t.mu.Unlock()
			c.Close()
			return
		}
		t.conn = c
		if t.compress != nil {
			c.EnableWriteCompression(*t.compress)
		}
		t.mu.Unlock()
		conn = c
	}

	t.notifyState(types.TransportReady())

	t.wg.Add(2)
	go t.writer(conn)
	go t.reader(conn)
}

// Cancel 取消传输并释放连接
func (t *Transport) Cancel() {
	t.cancelOnce.Do(func() {
		t.mu.Lock()
		t.cancelled = true
		conn := t.conn
		t.mu.Unlock()

		close(t.quit)
		if conn != nil {
			conn.Close()
		}

		go func() {
			t.wg.Wait()
			for _, req := range t.sends.Drain() {
				done := req.done
				t.post(func() { done(websocket.ErrCloseSent) })
			}
			for _, req := range t.recvs.Drain() {
				done := req.done
				t.post(func() { done(nil, false, websocket.ErrCloseSent) })
			}
			t.notifyState(types.TransportCancelled())
		}()
	})
}

// Send 提交一次发送
func (t *Transport) Send(buf []byte, final bool, onComplete func(err error)) {
	if t.isCancelled() {
		t.post(func() { onComplete(websocket.ErrCloseSent) })
		return
	}
	t.sends.Push(sendReq{buf: buf, final: final, done: onComplete})
}

// Receive 提交一次接收
//
// minLen 无法映射到消息语义，按 1 处理：有任何数据即完成。
func (t *Transport) Receive(minLen, maxLen int, onComplete func(data []byte, isComplete bool, err error)) {
	if t.isCancelled() {
		t.post(func() { onComplete(nil, false, websocket.ErrCloseSent) })
		return
	}
	t.recvs.Push(recvReq{maxLen: maxLen, done: onComplete})
}

func (t *Transport) isCancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

func (t *Transport) writer(conn *websocket.Conn) {
	defer t.wg.Done()
	for {
		req, ok := t.sends.Wait(t.quit)
		if !ok {
			return
		}
		var err error
		if len(req.buf) > 0 {
			err = conn.WriteMessage(websocket.BinaryMessage, req.buf)
		}
		if err == nil && req.final {
			deadline := time.Now().Add(5 * time.Second)
			err = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				deadline)
		}
		done := req.done
		t.post(func() { done(err) })
	}
}

func (t *Transport) reader(conn *websocket.Conn) {
	defer t.wg.Done()
	for {
		req, ok := t.recvs.Wait(t.quit)
		if !ok {
			return
		}
		done := req.done

		// 优先交付上一条消息的剩余字节
		data, eof, err := t.nextChunk(conn, req.maxLen)
		t.post(func() { done(data, eof, err) })
	}
}

// nextChunk 取出至多 maxLen 字节
func (t *Transport) nextChunk(conn *websocket.Conn, maxLen int) ([]byte, bool, error) {
	if len(t.leftover) == 0 {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				// 对端正常关闭，映射为流结束
				return nil, true, nil
			}
			return nil, false, err
		}
		t.leftover = msg
	}

	n := len(t.leftover)
	if n > maxLen {
		n = maxLen
	}
	chunk := t.leftover[:n:n]
	t.leftover = t.leftover[n:]
	return chunk, false, nil
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

// LocalEndpoint 返回本地端点，握手完成前为零值
func (t *Transport) LocalEndpoint() types.Endpoint {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return types.Endpoint{}
	}
	return types.EndpointFromAddr(t.conn.UnderlyingConn().LocalAddr())
}

// RemoteEndpoint 返回远端端点
func (t *Transport) RemoteEndpoint() types.Endpoint {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		if u, err := url.Parse(t.rawURL); err == nil {
			return types.Endpoint{Net: "ws", Addr: u.Host}
		}
		return types.Endpoint{Net: "ws", Addr: t.rawURL}
	}
	return types.EndpointFromAddr(t.conn.UnderlyingConn().RemoteAddr())
}

// SetSocketOption 设置 WebSocket 选项
//
// 支持的键：ws.compression（bool，按消息压缩）。
func (t *Transport) SetSocketOption(key string, value any) error {
	switch key {
	case "ws.compression":
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: option %q wants bool, got %T",
				types.ErrUnsupportedOperation, key, value)
		}
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.conn != nil {
			t.conn.EnableWriteCompression(v)
		} else {
			t.compress = &v
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown socket option %q",
			types.ErrUnsupportedOperation, key)
	}
}

// NegotiatedProtocol 返回握手协商出的子协议
func (t *Transport) NegotiatedProtocol() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return ""
	}
	return t.conn.Subprotocol()
}

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
