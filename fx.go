package netwatch

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-netwatch/internal/core/eventbus"
	"github.com/dep2p/go-netwatch/internal/core/reachability"
	"github.com/dep2p/go-netwatch/internal/core/sysmon"
)

// ============================================================================
//                              Fx 组装
// ============================================================================

// Module 返回组合根使用的 Fx 模块
//
// 与进程级共享槽（SetupShared/ClearShared）互斥使用：
// 依赖注入形态下通知器实例由 Fx 生命周期管理，应用关闭时
// 自动退订并清理，测试无需全局状态。
//
// 装配内容：
//   - eventbus: 进程内事件总线
//   - sysmon: 生产级 ProviderFactory 与系统网络监控器
//   - reachability: 可达性通知器（含生命周期钩子）
func Module(hostname string, allowsCellularAccess bool) fx.Option {
	return fx.Options(
		fx.Supply(reachability.NewConfig(hostname, allowsCellularAccess)),
		eventbus.Module(),
		sysmon.Module(),
		reachability.Module(),
	)
}

// NewApp 构建可达性通知应用
//
// Fx 自身的装配日志通过 zap 静默，组件日志不受影响。
func NewApp(hostname string, allowsCellularAccess bool, extra ...fx.Option) *fx.App {
	opts := []fx.Option{
		Module(hostname, allowsCellularAccess),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	}
	opts = append(opts, extra...)
	return fx.New(opts...)
}
