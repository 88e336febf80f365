package channel

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-netchannel/config"
	"github.com/dep2p/go-netchannel/pkg/interfaces"
)

// Factory 通道工厂
//
// 持有一份基础配置，按需创建通道；单个通道可以用 Option 覆盖。
type Factory struct {
	cfg *Config
}

// NewFactory 创建通道工厂
func NewFactory(cfg *Config) *Factory {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Factory{cfg: cfg}
}

// New 创建通道
func (f *Factory) New(pipeline interfaces.Pipeline, opts ...Option) *Channel {
	cfg := *f.cfg
	// 套接字选项逐通道独立
	if len(f.cfg.SocketOptions) > 0 {
		cfg.SocketOptions = make(map[string]any, len(f.cfg.SocketOptions))
		for k, v := range f.cfg.SocketOptions {
			cfg.SocketOptions[k] = v
		}
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewWithConfig(pipeline, &cfg)
}

// FactoryParams 通道工厂依赖参数
type FactoryParams struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// FactoryOutput 通道模块输出
type FactoryOutput struct {
	fx.Out

	Factory *Factory
}

// Module 通道 Fx 模块
var Module = fx.Module("channel",
	fx.Provide(
		provideFactory,
	),
)

// provideFactory 从统一配置提供通道工厂
func provideFactory(params FactoryParams) (FactoryOutput, error) {
	if params.UnifiedCfg != nil {
		if err := params.UnifiedCfg.Validate(); err != nil {
			return FactoryOutput{}, err
		}
	}
	cfg := ConfigFromUnified(params.UnifiedCfg)
	return FactoryOutput{Factory: NewFactory(cfg)}, nil
}
