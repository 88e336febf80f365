// Package tcp 提供基于 TCP 的连接传输
//
// 每个 Transport 对应一条 TCP 连接。出站半关闭映射为 CloseWrite，
// 对端读到 EOF 时以 isComplete 完成接收，与通道的半关闭语义一一对应。
package tcp

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/dep2p/go-netchannel/internal/core/transport/fifo"
	"github.com/dep2p/go-netchannel/pkg/interfaces"
	"github.com/dep2p/go-netchannel/pkg/lib/log"
	"github.com/dep2p/go-netchannel/pkg/types"
)

var logger = log.Logger("core/transport/tcp")

// ============================================================================
//                              配置
// ============================================================================

// Config TCP 传输配置
type Config struct {
	// DialTimeout 拨号超时，0 表示不限制
	DialTimeout time.Duration
}

// ============================================================================
//                              Transport 实现
// ============================================================================

// sendReq 一次待执行的发送
type sendReq struct {
	buf   []byte
	final bool
	done  func(err error)
}

// recvReq 一次待执行的接收
type recvReq struct {
	minLen int
	maxLen int
	done   func(data []byte, isComplete bool, err error)
}

// Transport 单条 TCP 连接的传输
//
// Start 前为出站传输设置套接字选项会被暂存，连接建立后统一应用。
// 实际 I/O 由 writer/reader 两个后台 goroutine 执行，
// 所有完成回调经由 Start 传入的执行器投递。
type Transport struct {
	raddr       string
	dialTimeout time.Duration

	mu        sync.Mutex
	exec      interfaces.Executor
	stateFn   func(types.TransportState)
	pathFn    func(types.Path)
	betterFn  func(available bool)
	conn      *net.TCPConn
	staged    map[string]any
	cancelled bool

	sends *fifo.FIFO[sendReq]
	recvs *fifo.FIFO[recvReq]

	quit       chan struct{}
	cancelOnce sync.Once
	wg         sync.WaitGroup
}

var _ interfaces.Transport = (*Transport)(nil)

// New 创建出站传输，Start 时拨号
func New(raddr string, cfg Config) *Transport {
	return &Transport{
		raddr:       raddr,
		dialTimeout: cfg.DialTimeout,
		staged:      make(map[string]any),
		sends:       fifo.New[sendReq](),
		recvs:       fifo.New[recvReq](),
		quit:        make(chan struct{}),
	}
}

// FromConn 包装一条已建立的连接（入站或测试回环）
func FromConn(conn *net.TCPConn) *Transport {
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
		d := net.Dialer{Timeout: t.dialTimeout}
		raw, err := d.Dial("tcp", t.raddr)
		if err != nil {
			t.notifyState(types.TransportFailed(err))
			return
		}
		conn = raw.(*net.TCPConn)
		if !t.adopt(conn) {
			// 拨号期间已被取消
			conn.Close()
			return
		}
	}

	t.notifyState(types.TransportReady())

	t.wg.Add(2)
	go t.writer(conn)
	go t.reader(conn)
}

// adopt 记录拨号成功的连接并应用暂存的套接字选项
func (t *Transport) adopt(conn *net.TCPConn) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled {
		return false
	}
	t.conn = conn
	for key, value := range t.staged {
		// 暂存时已校验过，这里失败只能是系统层面的问题
		if err := applyOption(conn, key, value); err != nil {
			logger.Warn("apply staged socket option failed",
				"key", key, "err", err)
		}
	}
	return true
}

// Cancel 取消传输并释放连接
//
// 未完成的发送和接收以连接已关闭错误完成，之后投递 cancelled。
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
				t.post(func() { done(net.ErrClosed) })
			}
			for _, req := range t.recvs.Drain() {
				done := req.done
				t.post(func() { done(nil, false, net.ErrClosed) })
			}
			t.notifyState(types.TransportCancelled())
		}()
	})
}

// Send 提交一次发送
func (t *Transport) Send(buf []byte, final bool, onComplete func(err error)) {
	if t.isCancelled() {
		t.post(func() { onComplete(net.ErrClosed) })
		return
	}
	t.sends.Push(sendReq{buf: buf, final: final, done: onComplete})
}

// Receive 提交一次接收
func (t *Transport) Receive(minLen, maxLen int, onComplete func(data []byte, isComplete bool, err error)) {
	if t.isCancelled() {
		t.post(func() { onComplete(nil, false, net.ErrClosed) })
		return
	}
	t.recvs.Push(recvReq{minLen: minLen, maxLen: maxLen, done: onComplete})
}

func (t *Transport) isCancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// writer 顺序执行发送请求
func (t *Transport) writer(conn *net.TCPConn) {
	defer t.wg.Done()
	for {
		req, ok := t.sends.Wait(t.quit)
		if !ok {
			return
		}
		var err error
		if len(req.buf) > 0 {
			_, err = conn.Write(req.buf)
		}
		if err == nil && req.final {
			err = conn.CloseWrite()
		}
		done := req.done
		t.post(func() { done(err) })
	}
}

// reader 顺序执行接收请求
func (t *Transport) reader(conn *net.TCPConn) {
	defer t.wg.Done()
	for {
		req, ok := t.recvs.Wait(t.quit)
		if !ok {
			return
		}
		buf := make([]byte, req.maxLen)
		n, err := io.ReadAtLeast(conn, buf, req.minLen)
		data := buf[:n:n]
		done := req.done

		switch {
		case err == nil:
			t.post(func() { done(data, false, nil) })
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			// 对端半关闭：携带已读数据投递流结束
			t.post(func() { done(data, true, nil) })
		default:
			t.post(func() { done(data, false, err) })
		}
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

// LocalEndpoint 返回本地端点，未连接时为零值
func (t *Transport) LocalEndpoint() types.Endpoint {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return types.Endpoint{}
	}
	return types.EndpointFromAddr(t.conn.LocalAddr())
}

// RemoteEndpoint 返回远端端点
func (t *Transport) RemoteEndpoint() types.Endpoint {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return types.Endpoint{Net: "tcp", Addr: t.raddr}
	}
	return types.EndpointFromAddr(t.conn.RemoteAddr())
}

// SetSocketOption 设置 TCP 套接字选项
//
// 支持的键：tcp.nodelay（bool）、tcp.keepalive（bool）、
// tcp.keepalive-period（time.Duration）、tcp.linger（int）。
func (t *Transport) SetSocketOption(key string, value any) error {
	if err := validateOption(key, value); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn != nil {
		return applyOption(t.conn, key, value)
	}
	t.staged[key] = value
	return nil
}

// NegotiatedProtocol 原始 TCP 不做协议协商
func (t *Transport) NegotiatedProtocol() string {
	return ""
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

// ============================================================================
//                              套接字选项
// ============================================================================

func validateOption(key string, value any) error {
	switch key {
	case "tcp.nodelay", "tcp.keepalive":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: option %q wants bool, got %T",
				types.ErrUnsupportedOperation, key, value)
		}
	case "tcp.keepalive-period":
		if _, ok := value.(time.Duration); !ok {
			return fmt.Errorf("%w: option %q wants time.Duration, got %T",
				types.ErrUnsupportedOperation, key, value)
		}
	case "tcp.linger":
		if _, ok := value.(int); !ok {
			return fmt.Errorf("%w: option %q wants int, got %T",
				types.ErrUnsupportedOperation, key, value)
		}
	default:
		return fmt.Errorf("%w: unknown socket option %q",
			types.ErrUnsupportedOperation, key)
	}
	return nil
}

func applyOption(conn *net.TCPConn, key string, value any) error {
	switch key {
	case "tcp.nodelay":
		return conn.SetNoDelay(value.(bool))
	case "tcp.keepalive":
		return conn.SetKeepAlive(value.(bool))
	case "tcp.keepalive-period":
		return conn.SetKeepAlivePeriod(value.(time.Duration))
	case "tcp.linger":
		return conn.SetLinger(value.(int))
	}
	return fmt.Errorf("%w: unknown socket option %q",
		types.ErrUnsupportedOperation, key)
}

// ============================================================================
//                              Listener
// ============================================================================

// Listener 接受入站连接并包装为传输
type Listener struct {
	ln net.Listener
}

// Listen 在指定地址监听
func Listen(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln}, nil
}

// Accept 等待下一条入站连接
func (l *Listener) Accept() (interfaces.Transport, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		return nil, err
	}
	return FromConn(conn.(*net.TCPConn)), nil
}

// Addr 返回监听地址
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Close 停止监听
func (l *Listener) Close() error {
	return l.ln.Close()
}
