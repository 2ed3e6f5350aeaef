package sysmon

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
	"github.com/dep2p/go-netwatch/pkg/lib/log"
)

var logger = log.Logger("core/sysmon")

// 轮询与拨测配置
const (
	// normalPollInterval 正常轮询间隔
	normalPollInterval = 2 * time.Second

	// fastPollInterval 检测到变化后的快速轮询间隔
	fastPollInterval = 500 * time.Millisecond

	// fastPollDuration 快速轮询持续时间
	fastPollDuration = 10 * time.Second

	// probeTimeout 端点拨测超时
	probeTimeout = 3 * time.Second

	// probePort 端点拨测端口
	probePort = "443"
)

// ErrEmptyHostname 主机名为空
var ErrEmptyHostname = errors.New("hostname is empty")

// ErrMonitoringStopped 监控已停止后再次启动
var ErrMonitoringStopped = errors.New("monitoring already stopped")

// ============================================================================
//                              Provider
// ============================================================================

// Provider 生产级可达性探测提供者
//
// 通过接口快照轮询检测链路变化，链路变化时对目标端点做
// 一次 TCP 拨测确认。ConnectionState 返回缓存值，同步且
// 非阻塞，结果可能滞后于真实物理连接。
type Provider struct {
	hostname string

	// state 缓存的连接状态（pkgif.ConnectionState）
	state atomic.Int32

	changes    chan struct{}
	forceCheck chan struct{}

	stopCh  chan struct{}
	started atomic.Bool
	stopped atomic.Bool
	wg      sync.WaitGroup
}

// 确保实现接口
var _ pkgif.Provider = (*Provider)(nil)

// Factory 返回默认的 ProviderFactory
func Factory() pkgif.ProviderFactory {
	return func(hostname string) (pkgif.Provider, error) {
		return NewProvider(hostname)
	}
}

// NewProvider 创建指定主机名的 Provider
//
// 初始状态仅由接口分类得出，不做拨测，构造不阻塞。
func NewProvider(hostname string) (*Provider, error) {
	if hostname == "" {
		return nil, ErrEmptyHostname
	}

	p := &Provider{
		hostname:   hostname,
		changes:    make(chan struct{}, 1),
		forceCheck: make(chan struct{}, 1),
		stopCh:     make(chan struct{}),
	}

	state := pkgif.ConnectionNone
	if infos, err := listInterfaces(); err == nil {
		state = classifyInterfaces(infos)
	}
	p.state.Store(int32(state))

	return p, nil
}

// ConnectionState 返回缓存的连接状态
func (p *Provider) ConnectionState() pkgif.ConnectionState {
	return pkgif.ConnectionState(p.state.Load())
}

// Changes 返回原始变化信号通道
func (p *Provider) Changes() <-chan struct{} {
	return p.changes
}

// StartMonitoring 启动轮询监控
//
// 重复调用是空操作。启动后立即发出一次引导信号，上报
// 当前状态——消费方负责决定是否把它当作变更。
func (p *Provider) StartMonitoring() error {
	if p.stopped.Load() {
		return ErrMonitoringStopped
	}
	if !p.started.CompareAndSwap(false, true) {
		return nil // 已启动
	}

	p.wg.Add(1)
	go p.pollLoop()

	p.signal()

	logger.Debug("底层监控已启动",
		"hostname", p.hostname,
		"state", p.ConnectionState().String())
	return nil
}

// StopMonitoring 停止监控，可重复调用
func (p *Provider) StopMonitoring() {
	if !p.stopped.CompareAndSwap(false, true) {
		return
	}
	close(p.stopCh)
	if p.started.Load() {
		p.wg.Wait()
	}
	logger.Debug("底层监控已停止", "hostname", p.hostname)
}

// ForceCheck 强制立即检查，绕过轮询间隔
//
// 系统网络事件到达时由通知器调用，让缓存状态尽快追上
// 真实链路状况。
func (p *Provider) ForceCheck() {
	select {
	case p.forceCheck <- struct{}{}:
	default:
		// 已有待处理的检查
	}
}

// ============================================================================
//                              内部方法
// ============================================================================

// pollLoop 轮询主循环
//
// 正常间隔轮询；检测到变化后进入快速轮询窗口。
func (p *Provider) pollLoop() {
	defer p.wg.Done()

	interval := normalPollInterval
	var fastUntil time.Time
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		forced := false
		select {
		case <-p.stopCh:
			return
		case <-p.forceCheck:
			forced = true
		case <-timer.C:
		}

		if p.refresh(forced) {
			fastUntil = time.Now().Add(fastPollDuration)
		}

		if time.Now().Before(fastUntil) {
			interval = fastPollInterval
		} else {
			interval = normalPollInterval
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(interval)
	}
}

// refresh 重新评估连接状态，发生变化时发出信号
//
// 链路层分类变化（或强制检查）时对端点拨测确认；
// 拨测失败报告 none——接口在线不代表端点可达。
func (p *Provider) refresh(forced bool) bool {
	var next pkgif.ConnectionState
	infos, err := listInterfaces()
	if err != nil {
		logger.Warn("枚举网络接口失败", "err", err)
		next = pkgif.ConnectionNone
	} else {
		next = classifyInterfaces(infos)
	}

	prev := pkgif.ConnectionState(p.state.Load())
	if next == prev && !forced {
		return false
	}

	if next != pkgif.ConnectionNone {
		if err := dialEndpoint(p.hostname); err != nil {
			logger.Debug("端点拨测失败",
				"hostname", p.hostname,
				"err", err)
			next = pkgif.ConnectionNone
		}
	}

	if pkgif.ConnectionState(p.state.Swap(int32(next))) == next {
		return false
	}

	logger.Debug("连接状态变化",
		"hostname", p.hostname,
		"previous", prev.String(),
		"current", next.String())
	p.signal()
	return true
}

// signal 发出一次无载荷的原始信号，通道满时合并
func (p *Provider) signal() {
	select {
	case p.changes <- struct{}{}:
	default:
	}
}

// defaultDialEndpoint 对端点做一次带超时的 TCP 拨测
func defaultDialEndpoint(hostname string) error {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(hostname, probePort), probeTimeout)
	if err != nil {
		return err
	}
	return conn.Close()
}

// dialEndpoint 端点拨测函数（测试可替换）
var dialEndpoint = defaultDialEndpoint
