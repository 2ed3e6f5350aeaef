// Package types 定义 netwatch 公共类型
//
// 本文件定义事件相关类型。
package types

import (
	"time"
)

// ============================================================================
//                              Event - 事件接口
// ============================================================================

// Event 基础事件接口
type Event interface {
	// Type 返回事件类型
	Type() string

	// Timestamp 返回事件时间戳
	Timestamp() time.Time
}

// BaseEvent 基础事件实现
type BaseEvent struct {
	EventType string
	Time      time.Time
}

// Type 返回事件类型
func (e BaseEvent) Type() string {
	return e.EventType
}

// Timestamp 返回事件时间戳
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// NewBaseEvent 创建基础事件
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
	}
}

// ============================================================================
//                              可达性事件
// ============================================================================

// ReachabilityEventName 可达性变更事件的固定名称
//
// 总线按事件类型分发，该名称用于日志关联与外部系统对照。
const ReachabilityEventName = "netwatch.reachability.changed"

// EvtReachabilityChanged 端点可达性变更事件
//
// 每次非引导信号触发的可达性转变都会在进程级事件总线上
// 发布一条该事件，Type() 为 ReachabilityEventName。引导信号
// （监控启动后的首个合成信号）不会产生事件，因此
// IsInitialConnection 恒为 false，保留该字段是为了与观察者
// 回调的语义对齐。
type EvtReachabilityChanged struct {
	BaseEvent

	// IsConnectionAvailable 按当前策略计算出的可达性结论
	IsConnectionAvailable bool

	// IsInitialConnection 是否为引导信号产生的事件
	IsInitialConnection bool
}

// ============================================================================
//                              系统网络事件
// ============================================================================

// NetworkChangeKind 系统网络变化类型
type NetworkChangeKind int

const (
	// NetworkChangeUnknown 未知变化
	NetworkChangeUnknown NetworkChangeKind = iota
	// NetworkChangeInterfaceAdded 网络接口出现
	NetworkChangeInterfaceAdded
	// NetworkChangeInterfaceRemoved 网络接口消失
	NetworkChangeInterfaceRemoved
	// NetworkChangeAddress 接口地址变化
	NetworkChangeAddress
)

// String 返回变化类型的字符串表示
func (k NetworkChangeKind) String() string {
	switch k {
	case NetworkChangeInterfaceAdded:
		return "interface-added"
	case NetworkChangeInterfaceRemoved:
		return "interface-removed"
	case NetworkChangeAddress:
		return "address-changed"
	default:
		return "unknown"
	}
}

// NetworkChangeEventName 系统网络变化事件的固定名称
const NetworkChangeEventName = "netwatch.network.changed"

// EvtNetworkChanged 系统级网络变化事件
//
// 由系统网络监控器（次级信号源）产生，Type() 为
// NetworkChangeEventName。通知器不信任事件载荷，仅将其
// 作为重新查询权威状态的触发条件。
type EvtNetworkChanged struct {
	BaseEvent

	// Kind 变化类型
	Kind NetworkChangeKind

	// Interface 相关接口名（可能为空）
	Interface string
}
