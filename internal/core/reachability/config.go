package reachability

import (
	"time"
)

// ============================================================================
//                              通知器配置
// ============================================================================

// Config 可达性通知器配置
//
// 构造后不再修改，AllowsCellularAccess 可被并发读取。
type Config struct {
	// Hostname 被监控的远端主机名
	Hostname string

	// AllowsCellularAccess 蜂窝网络是否计为可达
	// 默认值: true
	AllowsCellularAccess bool

	// SignalDebounce 信号防抖时间
	// 信号风暴（如接口抖动）时合并为一次分发；
	// 为 0 时关闭防抖，每个信号立即处理
	// 默认值: 0
	SignalDebounce time.Duration
}

// NewConfig 创建指定主机名的配置
func NewConfig(hostname string, allowsCellularAccess bool) *Config {
	cfg := DefaultConfig()
	cfg.Hostname = hostname
	cfg.AllowsCellularAccess = allowsCellularAccess
	return cfg
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		AllowsCellularAccess: true,
		SignalDebounce:       0,
	}
}

// Validate 验证配置
//
// 只修正无效值，永远返回 nil。
func (c *Config) Validate() error {
	if c.SignalDebounce < 0 {
		c.SignalDebounce = 0
	}
	return nil
}

// WithSignalDebounce 设置信号防抖时间
func (c *Config) WithSignalDebounce(d time.Duration) *Config {
	c.SignalDebounce = d
	return c
}

// WithCellularAccess 设置蜂窝网络是否计为可达
func (c *Config) WithCellularAccess(allow bool) *Config {
	c.AllowsCellularAccess = allow
	return c
}
