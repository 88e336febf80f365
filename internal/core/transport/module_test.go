package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-netchannel/config"
)

func TestDialSchemeSelection(t *testing.T) {
	m := NewManager(Config{
		EnableTCP:          true,
		EnableWebSocket:    true,
		DialTimeout:        time.Second,
		WSHandshakeTimeout: time.Second,
	})
	defer m.Close()

	tr, err := m.Dial("example.com:4001")
	require.NoError(t, err)
	require.NotNil(t, tr)

	tr, err = m.Dial("ws://example.com/channel")
	require.NoError(t, err)
	require.NotNil(t, tr)

	tr, err = m.Dial("wss://example.com/channel")
	require.NoError(t, err)
	require.NotNil(t, tr)

	_, err = m.Dial("http://example.com/")
	require.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestDisabledProtocolsRejected(t *testing.T) {
	m := NewManager(Config{EnableTCP: false, EnableWebSocket: false})
	defer m.Close()

	_, err := m.Dial("example.com:4001")
	require.ErrorIs(t, err, ErrTransportDisabled)

	_, err = m.Dial("ws://example.com/")
	require.ErrorIs(t, err, ErrTransportDisabled)

	_, err = m.Listen("127.0.0.1:0")
	require.ErrorIs(t, err, ErrTransportDisabled)
}

func TestManagerCloseReleasesListeners(t *testing.T) {
	m := NewManager(NewConfig())

	ln, err := m.Listen("127.0.0.1:0")
	require.NoError(t, err)
	require.NotNil(t, ln.Addr())

	require.NoError(t, m.Close())

	// 监听器已随管理器关闭
	_, err = ln.Accept()
	require.Error(t, err)

	// 关闭后拒绝新操作，重复关闭无害
	_, err = m.Dial("example.com:4001")
	require.ErrorIs(t, err, ErrManagerClosed)
	_, err = m.Listen("127.0.0.1:0")
	require.ErrorIs(t, err, ErrManagerClosed)
	require.NoError(t, m.Close())
}

func TestConfigFromUnified(t *testing.T) {
	cfg := ConfigFromUnified(nil)
	require.Equal(t, NewConfig(), cfg)

	unified := config.DefaultConfig()
	unified.Transport.EnableWebSocket = true
	unified.Transport.DialTimeout = 7 * time.Second

	cfg = ConfigFromUnified(unified)
	require.True(t, cfg.EnableWebSocket)
	require.Equal(t, 7*time.Second, cfg.DialTimeout)
}
