package netwatch

import (
	"context"
	"sync/atomic"

	"github.com/dep2p/go-netwatch/internal/core/eventbus"
	"github.com/dep2p/go-netwatch/internal/core/reachability"
	"github.com/dep2p/go-netwatch/internal/core/sysmon"
	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
	"github.com/dep2p/go-netwatch/pkg/lib/log"
)

var logger = log.Logger("netwatch")

// ============================================================================
//                              进程级共享状态
// ============================================================================

var (
	// shared 共享通知器槽位，首次 SetupShared 获胜
	shared atomic.Pointer[reachability.Notifier]

	// defaultBus 进程级默认事件总线
	defaultBus pkgif.EventBus = eventbus.NewBus()
)

// Bus 返回进程级默认事件总线
//
// SetupShared 未指定 WithEventBus 时，可达性事件发布于此。
func Bus() pkgif.EventBus {
	return defaultBus
}

// ============================================================================
//                              共享通知器生命周期
// ============================================================================

// SetupShared 初始化共享通知器
//
// 幂等：共享实例已存在时本调用是静默空操作，既有配置保留、
// 新参数被丢弃（首次调用获胜）。并发的首次调用通过槽位上的
// 原子比较交换决出唯一赢家，输家的实例被丢弃。
//
// 任何失败（Provider 构造、监控启动）都不会上报给调用方，
// 通知器以降级形态继续存在。
func SetupShared(hostname string, allowsCellularAccess bool, opts ...Option) {
	if shared.Load() != nil {
		logger.Debug("共享通知器已存在，忽略重复初始化",
			"hostname", hostname,
			"allowsCellular", allowsCellularAccess)
		return
	}

	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			logger.Warn("应用选项失败，使用默认值", "err", err)
		}
	}

	cfg := reachability.NewConfig(hostname, allowsCellularAccess).
		WithSignalDebounce(o.signalDebounce)

	n := reachability.NewNotifier(cfg, o.factory)
	if o.bus != nil {
		n.SetEventBus(o.bus)
	}
	if m := o.networkMonitor(); m != nil {
		n.SetNetworkMonitor(m)
	}
	if o.clk != nil {
		n.SetClock(o.clk)
	}

	if !shared.CompareAndSwap(nil, n) {
		logger.Debug("并发初始化竞争失败，丢弃本次实例", "hostname", hostname)
		return
	}

	_ = n.Start(context.Background())
}

// ClearShared 清理共享通知器
//
// 无共享实例时是空操作。否则退订所有信号源、清空观察者
// 注册表并释放槽位；之后的 SetupShared 会创建不携带任何
// 历史状态的全新实例。
func ClearShared() {
	n := shared.Swap(nil)
	if n == nil {
		return
	}
	n.Stop()
}

// Shared 返回共享通知器（未初始化时为 nil）
func Shared() pkgif.Notifier {
	if n := shared.Load(); n != nil {
		return n
	}
	return nil
}

// ============================================================================
//                              便捷入口
// ============================================================================

// IsNetworkReachable 返回共享通知器的可达性结论
//
// 未初始化时恒为 false。结论是建议性的，true 不保证后续
// 网络调用成功。
func IsNetworkReachable() bool {
	n := shared.Load()
	if n == nil {
		return false
	}
	return n.IsNetworkReachable()
}

// ConnectionState 返回共享通知器的当前连接状态
func ConnectionState() pkgif.ConnectionState {
	n := shared.Load()
	if n == nil {
		return pkgif.ConnectionNone
	}
	return n.ConnectionState()
}

// AddWatcher 向共享通知器注册观察者
//
// 未初始化时是空操作。
func AddWatcher(w pkgif.Watcher) {
	if n := shared.Load(); n != nil {
		n.Add(w)
	}
}

// defaultFactory 生产级 ProviderFactory
func defaultFactory() pkgif.ProviderFactory {
	return sysmon.Factory()
}

// defaultNetworkMonitor 生产级次级信号源
func defaultNetworkMonitor() pkgif.NetworkMonitor {
	return sysmon.NewMonitor()
}
