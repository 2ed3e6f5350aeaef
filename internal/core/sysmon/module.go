package sysmon

import (
	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
)

// ============================================================================
//                              Fx 模块
// ============================================================================

// Module 返回 Fx 模块
//
// 提供生产级 ProviderFactory 和系统网络监控器。
// Monitor 的生命周期由可达性通知器接管，此处不注册钩子。
func Module() fx.Option {
	return fx.Module("sysmon",
		fx.Provide(ProvideFactory),
		fx.Provide(ProvideMonitor),
	)
}

// ProvideFactory 提供 ProviderFactory
func ProvideFactory() pkgif.ProviderFactory {
	return Factory()
}

// ProvideMonitor 提供系统网络监控器
func ProvideMonitor() pkgif.NetworkMonitor {
	return NewMonitor()
}
