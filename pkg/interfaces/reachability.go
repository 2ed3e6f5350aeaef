// Package interfaces 定义 netwatch 公共接口
//
// 本文件定义可达性相关接口。
package interfaces

import (
	"context"

	"github.com/dep2p/go-netwatch/pkg/types"
)

// ============================================================================
//                              连接状态
// ============================================================================

// ConnectionState 连接状态
//
// 由 Provider 产生，通知器只读不改。
type ConnectionState int

const (
	// ConnectionNone 无网络连接
	ConnectionNone ConnectionState = iota
	// ConnectionWiFi Wi-Fi 或等效的非计量连接（含有线）
	ConnectionWiFi
	// ConnectionCellular 蜂窝网络连接
	ConnectionCellular
)

// String 返回连接状态的字符串表示
func (s ConnectionState) String() string {
	switch s {
	case ConnectionNone:
		return "none"
	case ConnectionWiFi:
		return "wifi"
	case ConnectionCellular:
		return "cellular"
	default:
		return "invalid"
	}
}

// ============================================================================
//                              Provider
// ============================================================================

// Provider 可达性探测提供者
//
// 针对单个主机名回答“当前存在哪种连接”，并可启动底层监控，
// 在连接状况变化时通过 Changes 通道发出无载荷的原始信号。
type Provider interface {
	// ConnectionState 返回当前连接状态
	//
	// 同步、非阻塞、尽力而为，结果可能滞后于真实物理连接。
	ConnectionState() ConnectionState

	// StartMonitoring 启动底层监控
	//
	// 失败对通知器非致命：监控不会开始，ConnectionState
	// 降级为 Provider 仍能报告的值（通常为 ConnectionNone）。
	StartMonitoring() error

	// StopMonitoring 停止底层监控，可重复调用
	StopMonitoring()

	// Changes 返回原始变化信号通道
	//
	// 信号不携带载荷，消费方必须重新查询权威状态。
	Changes() <-chan struct{}
}

// ProviderFactory 按主机名创建 Provider
//
// 通知器从不直接构造具体 Provider 类型，测试通过该接缝注入伪实现。
type ProviderFactory func(hostname string) (Provider, error)

// ============================================================================
//                              Watcher
// ============================================================================

// Watcher 可达性变更观察者
type Watcher interface {
	// OnNetworkReachabilityChanged 端点可达性发生变更
	//
	// 可达为 true 不保证后续网络调用成功，调用方仍需独立
	// 处理网络错误。
	OnNetworkReachabilityChanged(isEndpointReachable bool)
}

// WatcherFunc 函数式 Watcher 适配器
type WatcherFunc func(isEndpointReachable bool)

// OnNetworkReachabilityChanged 实现 Watcher 接口
func (f WatcherFunc) OnNetworkReachabilityChanged(isEndpointReachable bool) {
	f(isEndpointReachable)
}

// ============================================================================
//                              Notifier
// ============================================================================

// Notifier 可达性通知器
//
// 进程内唯一的可达性状态源：包装 Provider，抑制引导信号，
// 将后续转变分发给注册的观察者并发布到事件总线。
type Notifier interface {
	// IsNetworkReachable 返回当前可达性结论
	//
	// 无 Provider 时恒为 false；有 Provider 时按策略映射：
	// none → false，wifi → true，cellular → 是否允许蜂窝访问。
	IsNetworkReachable() bool

	// ConnectionState 返回当前连接状态（无 Provider 时为 ConnectionNone）
	ConnectionState() ConnectionState

	// Add 注册观察者
	//
	// 并发安全；不向新观察者回放历史转变。
	Add(w Watcher)

	// Start 订阅信号源并启动底层监控
	Start(ctx context.Context) error

	// Stop 退订所有信号源并清空观察者注册表
	Stop()
}

// ============================================================================
//                              NetworkMonitor
// ============================================================================

// NetworkMonitor 系统级网络变化监控器
//
// 通知器的次级信号源：与 Provider 自身的变化通知并列，
// 两者由同一个内部处理器对待。
type NetworkMonitor interface {
	// Start 启动监控
	Start(ctx context.Context) error

	// Stop 停止监控并关闭所有订阅通道
	Stop() error

	// Subscribe 订阅系统网络变化事件
	Subscribe() <-chan types.EvtNetworkChanged
}
