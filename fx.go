package netchannel

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-netchannel/config"
	"github.com/dep2p/go-netchannel/internal/core/channel"
	"github.com/dep2p/go-netchannel/internal/core/transport"
)

// Module 返回库的 Fx 模块
//
// 提供 channel.Factory 和 *transport.Manager。统一配置 *config.Config
// 由应用注入（缺省时各模块使用默认配置）。
func Module() fx.Option {
	return fx.Options(
		channel.Module,
		transport.Module(),
	)
}

// NewApp 构建内置装配的 Fx 应用
//
// 适合把 netchannel 作为应用骨架使用的场景；
// 作为库嵌入时直接使用 Module()。
func NewApp(cfg *config.Config, userOpts ...fx.Option) *fx.App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	opts := []fx.Option{
		fx.Supply(cfg),
		Module(),
	}
	opts = append(opts, userOpts...)
	opts = append(opts,
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)
	return fx.New(opts...)
}
