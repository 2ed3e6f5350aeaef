package netwatch

import (
	"errors"
	"time"

	"github.com/benbjohnson/clock"

	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// Provider 工厂，默认为生产实现
	factory pkgif.ProviderFactory

	// 事件总线，默认为进程级总线
	bus pkgif.EventBus

	// 次级信号源
	monitor        pkgif.NetworkMonitor
	disableMonitor bool

	// 信号防抖
	signalDebounce time.Duration

	// 时钟（测试注入）
	clk clock.Clock
}

// newOptions 返回默认选项
func newOptions() *options {
	return &options{
		factory: defaultFactory(),
		bus:     defaultBus,
	}
}

// networkMonitor 解析次级信号源
//
// 显式禁用时为 nil，未指定时创建生产实现。
func (o *options) networkMonitor() pkgif.NetworkMonitor {
	if o.disableMonitor {
		return nil
	}
	if o.monitor != nil {
		return o.monitor
	}
	return defaultNetworkMonitor()
}

// WithProviderFactory 设置 Provider 工厂
//
// 测试通过该接缝注入伪 Provider。
func WithProviderFactory(f pkgif.ProviderFactory) Option {
	return func(o *options) error {
		if f == nil {
			return errors.New("provider factory is nil")
		}
		o.factory = f
		return nil
	}
}

// WithEventBus 设置事件总线
func WithEventBus(bus pkgif.EventBus) Option {
	return func(o *options) error {
		if bus == nil {
			return errors.New("event bus is nil")
		}
		o.bus = bus
		return nil
	}
}

// WithNetworkMonitor 设置次级信号源
func WithNetworkMonitor(m pkgif.NetworkMonitor) Option {
	return func(o *options) error {
		if m == nil {
			return errors.New("network monitor is nil")
		}
		o.monitor = m
		return nil
	}
}

// WithoutNetworkMonitor 禁用次级信号源
//
// 通知器只消费 Provider 自身的变化信号。
func WithoutNetworkMonitor() Option {
	return func(o *options) error {
		o.disableMonitor = true
		return nil
	}
}

// WithSignalDebounce 设置信号防抖时间
//
// 信号风暴时合并为一次分发，0 表示关闭防抖。
func WithSignalDebounce(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("signal debounce is negative")
		}
		o.signalDebounce = d
		return nil
	}
}

// WithClock 设置时钟（测试注入）
func WithClock(clk clock.Clock) Option {
	return func(o *options) error {
		if clk == nil {
			return errors.New("clock is nil")
		}
		o.clk = clk
		return nil
	}
}
