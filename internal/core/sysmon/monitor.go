package sysmon

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
	"github.com/dep2p/go-netwatch/pkg/types"
)

// ============================================================================
//                              Monitor
// ============================================================================

// Monitor 系统级网络变化监控器
//
// 轮询接口快照，在接口出现、消失或地址变化时向订阅者发布
// EvtNetworkChanged。作为可达性通知器的次级信号源使用。
type Monitor struct {
	subscribers   []chan types.EvtNetworkChanged
	subscribersMu sync.RWMutex

	// last 按接口名索引的上次快照
	last map[string]ifaceInfo

	stopCh   chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// 确保实现接口
var _ pkgif.NetworkMonitor = (*Monitor)(nil)

// NewMonitor 创建系统网络监控器
func NewMonitor() *Monitor {
	m := &Monitor{
		last:   make(map[string]ifaceInfo),
		stopCh: make(chan struct{}),
	}

	if infos, err := listInterfaces(); err == nil {
		m.last = snapshotByName(infos)
	}
	return m
}

// Start 启动监控
func (m *Monitor) Start(ctx context.Context) error {
	if !m.started.CompareAndSwap(false, true) {
		return nil // 已启动
	}

	m.wg.Add(1)
	go m.pollLoop(ctx)

	logger.Debug("系统网络监控已启动")
	return nil
}

// Stop 停止监控并关闭所有订阅通道
func (m *Monitor) Stop() error {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		if m.started.Load() {
			m.wg.Wait()
		}

		m.subscribersMu.Lock()
		for _, ch := range m.subscribers {
			close(ch)
		}
		m.subscribers = nil
		m.subscribersMu.Unlock()

		logger.Debug("系统网络监控已停止")
	})
	return nil
}

// Subscribe 订阅系统网络变化事件
func (m *Monitor) Subscribe() <-chan types.EvtNetworkChanged {
	ch := make(chan types.EvtNetworkChanged, 10)

	m.subscribersMu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.subscribersMu.Unlock()

	return ch
}

// ============================================================================
//                              内部方法
// ============================================================================

// pollLoop 轮询主循环
func (m *Monitor) pollLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(normalPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.check()
		}
	}
}

// check 比较接口快照并发布差异事件
func (m *Monitor) check() {
	infos, err := listInterfaces()
	if err != nil {
		logger.Warn("枚举网络接口失败", "err", err)
		return
	}

	current := snapshotByName(infos)

	// 新接口与地址变化
	for name, info := range current {
		prev, ok := m.last[name]
		switch {
		case !ok:
			m.notify(newChangeEvent(types.NetworkChangeInterfaceAdded, name))
		case prev.addrs != info.addrs || prev.up != info.up:
			m.notify(newChangeEvent(types.NetworkChangeAddress, name))
		}
	}

	// 消失的接口
	for name := range m.last {
		if _, ok := current[name]; !ok {
			m.notify(newChangeEvent(types.NetworkChangeInterfaceRemoved, name))
		}
	}

	m.last = current
}

// notify 向所有订阅者发布事件，通道满时丢弃
func (m *Monitor) notify(evt types.EvtNetworkChanged) {
	m.subscribersMu.RLock()
	defer m.subscribersMu.RUnlock()

	logger.Debug("检测到系统网络变化",
		"kind", evt.Kind.String(),
		"interface", evt.Interface)

	for _, ch := range m.subscribers {
		select {
		case ch <- evt:
		default:
			logger.Warn("订阅者通道已满，丢弃事件", "kind", evt.Kind.String())
		}
	}
}

// newChangeEvent 构造系统网络变化事件
func newChangeEvent(kind types.NetworkChangeKind, iface string) types.EvtNetworkChanged {
	return types.EvtNetworkChanged{
		BaseEvent: types.NewBaseEvent(types.NetworkChangeEventName),
		Kind:      kind,
		Interface: iface,
	}
}

// snapshotByName 按接口名索引快照
func snapshotByName(infos []ifaceInfo) map[string]ifaceInfo {
	byName := make(map[string]ifaceInfo, len(infos))
	for _, info := range infos {
		byName[info.name] = info
	}
	return byName
}
