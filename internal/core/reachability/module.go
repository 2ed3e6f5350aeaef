package reachability

import (
	"context"

	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
)

// ============================================================================
//                              Fx 模块
// ============================================================================

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("reachability",
		fx.Provide(ProvideNotifier),
		fx.Invoke(registerLifecycle),
	)
}

// notifierParams 通知器依赖参数
type notifierParams struct {
	fx.In

	Config  *Config               `optional:"true"`
	Factory pkgif.ProviderFactory `optional:"true"`
	Bus     pkgif.EventBus        `optional:"true"`
	Monitor pkgif.NetworkMonitor  `optional:"true"`
}

// ProvideNotifier 提供可达性通知器
func ProvideNotifier(params notifierParams) pkgif.Notifier {
	cfg := params.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}

	n := NewNotifier(cfg, params.Factory)
	if params.Bus != nil {
		n.SetEventBus(params.Bus)
	}
	if params.Monitor != nil {
		n.SetNetworkMonitor(params.Monitor)
	}
	return n
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In
	LC       fx.Lifecycle
	Notifier pkgif.Notifier
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return input.Notifier.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			input.Notifier.Stop()
			return nil
		},
	})
}
