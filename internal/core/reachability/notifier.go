package reachability

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"

	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
	"github.com/dep2p/go-netwatch/pkg/lib/log"
	"github.com/dep2p/go-netwatch/pkg/types"
)

var logger = log.Logger("core/reachability")

// ============================================================================
//                              Notifier
// ============================================================================

// Notifier 端点可达性通知器
//
// 独占持有一个 Provider 实例，订阅其原始变化信号与系统级
// 网络监控器（次级信号源），抑制首个引导信号，将后续转变
// 分发给注册的观察者并发布到事件总线。
type Notifier struct {
	config *Config

	// provider 为 nil 表示构造失败后的降级：
	// 查询恒为 false，信号处理为空操作
	provider pkgif.Provider

	// 事件总线（可选），Start 之前通过 SetEventBus 注入
	bus     pkgif.EventBus
	emitter pkgif.Emitter

	// 次级信号源（可选），Start 之前通过 SetNetworkMonitor 注入
	netMonitor pkgif.NetworkMonitor

	// 时钟，防抖定时器使用，测试可注入 mock
	clk clock.Clock

	// 引导信号抑制标志：true 起始，CAS 翻转为 false 恰好一次
	isInitial atomic.Bool

	// 观察者注册表：只追加，仅在 Stop 时整体清空
	watchers   []pkgif.Watcher
	watchersMu sync.Mutex

	// 防抖状态：stopped 阻止新投递，deliverWg 追踪定时器
	// 触发的在途投递（定时器回调运行在 wg 覆盖的 goroutine 之外）
	debounceMu    sync.Mutex
	debounceTimer *clock.Timer
	stopped       bool
	deliverWg     sync.WaitGroup

	// 生命周期
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// 确保实现接口
var _ pkgif.Notifier = (*Notifier)(nil)

// NewNotifier 创建可达性通知器
//
// factory 按配置的主机名创建 Provider；构造失败不上报给
// 调用方，通知器以无 Provider 的降级形态继续存在。
func NewNotifier(cfg *Config, factory pkgif.ProviderFactory) *Notifier {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.Validate()

	n := &Notifier{
		config: cfg,
		clk:    clock.New(),
	}
	n.isInitial.Store(true)

	if factory != nil {
		provider, err := factory(cfg.Hostname)
		if err != nil {
			logger.Warn("创建 Provider 失败，可达性降级为 false",
				"hostname", cfg.Hostname,
				"err", err)
		} else {
			n.provider = provider
		}
	}

	return n
}

// SetEventBus 设置事件总线
//
// 必须在 Start() 之前调用。
func (n *Notifier) SetEventBus(bus pkgif.EventBus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bus = bus
}

// SetNetworkMonitor 设置系统网络监控器（次级信号源）
//
// 必须在 Start() 之前调用，监控器的生命周期由通知器接管。
func (n *Notifier) SetNetworkMonitor(m pkgif.NetworkMonitor) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.netMonitor = m
}

// SetClock 设置时钟（测试注入）
//
// 必须在 Start() 之前调用。
func (n *Notifier) SetClock(clk clock.Clock) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clk = clk
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 订阅信号源并启动底层监控
//
// 重复调用是空操作。监控启动失败被吞掉：监控不会开始，
// 通知器继续消费仍能到达的信号。
func (n *Notifier) Start(ctx context.Context) error {
	n.mu.Lock()
	if n.ctx != nil {
		n.mu.Unlock()
		return nil // 已启动
	}
	n.ctx, n.cancel = context.WithCancel(ctx)
	runCtx := n.ctx
	provider := n.provider
	monitor := n.netMonitor
	bus := n.bus
	n.mu.Unlock()

	n.debounceMu.Lock()
	n.stopped = false
	n.debounceMu.Unlock()

	if bus != nil {
		em, err := bus.Emitter(new(types.EvtReachabilityChanged), pkgif.Stateful())
		if err != nil {
			logger.Warn("获取事件发射器失败，不发布总线事件", "err", err)
		} else {
			n.mu.Lock()
			n.emitter = em
			n.mu.Unlock()
		}
	}

	if provider != nil {
		if err := provider.StartMonitoring(); err != nil {
			logger.Debug("启动底层监控失败，监控不会开始",
				"hostname", n.config.Hostname,
				"err", err)
		}
		n.wg.Add(1)
		go n.watchProviderSignals(runCtx, provider.Changes())
	}

	if monitor != nil {
		if err := monitor.Start(runCtx); err != nil {
			logger.Debug("启动系统网络监控失败", "err", err)
		} else {
			n.wg.Add(1)
			go n.watchSystemSignals(runCtx, monitor.Subscribe())
		}
	}

	logger.Info("可达性通知器已启动",
		"hostname", n.config.Hostname,
		"allowsCellular", n.config.AllowsCellularAccess,
		"hasProvider", provider != nil)
	return nil
}

// Stop 退订所有信号源，停止底层监控并清空观察者注册表
//
// 可重复调用。停止后先前注册的观察者不再收到任何回调。
func (n *Notifier) Stop() {
	n.mu.Lock()
	if n.cancel == nil {
		n.mu.Unlock()
		return // 未启动或已停止
	}
	cancel := n.cancel
	n.cancel = nil
	n.ctx = nil
	provider := n.provider
	monitor := n.netMonitor
	n.mu.Unlock()

	cancel()
	n.wg.Wait()

	n.stopDebounce()

	if provider != nil {
		provider.StopMonitoring()
	}

	var err error
	if monitor != nil {
		err = multierr.Append(err, monitor.Stop())
	}
	n.mu.Lock()
	em := n.emitter
	n.emitter = nil
	n.mu.Unlock()
	if em != nil {
		err = multierr.Append(err, em.Close())
	}
	if err != nil {
		logger.Warn("停止可达性通知器时出错", "err", err)
	}

	n.watchersMu.Lock()
	n.watchers = nil
	n.watchersMu.Unlock()

	logger.Info("可达性通知器已停止", "hostname", n.config.Hostname)
}

// ============================================================================
//                              查询与注册
// ============================================================================

// IsNetworkReachable 返回当前可达性结论
//
// 无 Provider 时恒为 false。结论是建议性的：true 不保证
// 后续网络调用成功。
func (n *Notifier) IsNetworkReachable() bool {
	if n.provider == nil {
		return false
	}
	switch n.provider.ConnectionState() {
	case pkgif.ConnectionWiFi:
		return true
	case pkgif.ConnectionCellular:
		return n.config.AllowsCellularAccess
	default:
		return false
	}
}

// ConnectionState 返回当前连接状态
func (n *Notifier) ConnectionState() pkgif.ConnectionState {
	if n.provider == nil {
		return pkgif.ConnectionNone
	}
	return n.provider.ConnectionState()
}

// Add 注册观察者
//
// 并发安全；不向新观察者回放历史转变。注册表只追加，
// 仅在 Stop 时整体清空。
func (n *Notifier) Add(w pkgif.Watcher) {
	if w == nil {
		return
	}
	n.watchersMu.Lock()
	n.watchers = append(n.watchers, w)
	n.watchersMu.Unlock()
}

// ============================================================================
//                              信号处理
// ============================================================================

// watchProviderSignals 消费 Provider 的原始变化信号
func (n *Notifier) watchProviderSignals(ctx context.Context, ch <-chan struct{}) {
	defer n.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			n.onRawSignal()
		}
	}
}

// watchSystemSignals 消费系统网络监控器的变化事件
//
// 两个信号源由同一个处理器对待，事件载荷不被信任。
func (n *Notifier) watchSystemSignals(ctx context.Context, ch <-chan types.EvtNetworkChanged) {
	defer n.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			logger.Debug("收到系统网络变化信号",
				"kind", evt.Kind.String(),
				"interface", evt.Interface)
			// 系统事件先让 Provider 立即复查，再走统一处理
			if fc, ok := n.provider.(interface{ ForceCheck() }); ok {
				fc.ForceCheck()
			}
			n.onRawSignal()
		}
	}
}

// onRawSignal 处理来自任一信号源的原始信号
//
// 信号不携带可信载荷，处理器重新查询 Provider 的权威状态。
func (n *Notifier) onRawSignal() {
	if n.provider == nil {
		return
	}

	// 首个信号是监控启动后的合成"当前状态"信号，
	// 吞掉以免把稳态误报成转变
	if n.isInitial.CompareAndSwap(true, false) {
		logger.Debug("吞掉引导信号",
			"hostname", n.config.Hostname,
			"state", n.provider.ConnectionState().String())
		return
	}

	if d := n.config.SignalDebounce; d > 0 {
		n.debounceMu.Lock()
		if n.stopped {
			n.debounceMu.Unlock()
			return
		}
		if n.debounceTimer != nil {
			n.debounceTimer.Stop()
		}
		n.debounceTimer = n.clk.AfterFunc(d, n.debouncedDeliver)
		n.debounceMu.Unlock()
		return
	}

	n.deliver()
}

// debouncedDeliver 防抖定时器回调
//
// 定时器回调运行在通知器自有 goroutine 之外，先在锁内登记
// 在途投递再分发；Stop 设置 stopped 后到达的回调直接丢弃。
func (n *Notifier) debouncedDeliver() {
	n.debounceMu.Lock()
	if n.stopped {
		n.debounceMu.Unlock()
		return
	}
	n.deliverWg.Add(1)
	n.debounceMu.Unlock()
	defer n.deliverWg.Done()

	n.deliver()
}

// stopDebounce 阻止后续防抖投递并等待在途投递完成
//
// 返回后不再有任何观察者回调发生。
func (n *Notifier) stopDebounce() {
	n.debounceMu.Lock()
	n.stopped = true
	if n.debounceTimer != nil {
		n.debounceTimer.Stop()
		n.debounceTimer = nil
	}
	n.debounceMu.Unlock()

	n.deliverWg.Wait()
}

// deliver 计算可达性结论并分发
//
// 观察者按注册顺序在快照副本上同步回调，随后在总线上
// 发布 EvtReachabilityChanged。
func (n *Notifier) deliver() {
	reachable := n.IsNetworkReachable()

	n.watchersMu.Lock()
	watchers := make([]pkgif.Watcher, len(n.watchers))
	copy(watchers, n.watchers)
	n.watchersMu.Unlock()

	logger.Info("端点可达性变更",
		"hostname", n.config.Hostname,
		"reachable", reachable,
		"watchers", len(watchers),
		"event", types.ReachabilityEventName)

	for _, w := range watchers {
		w.OnNetworkReachabilityChanged(reachable)
	}

	n.mu.Lock()
	em := n.emitter
	n.mu.Unlock()
	if em != nil {
		evt := types.EvtReachabilityChanged{
			BaseEvent:             types.NewBaseEvent(types.ReachabilityEventName),
			IsConnectionAvailable: reachable,
			IsInitialConnection:   false,
		}
		if err := em.Emit(evt); err != nil {
			logger.Debug("发布可达性事件失败", "err", err)
		}
	}
}
