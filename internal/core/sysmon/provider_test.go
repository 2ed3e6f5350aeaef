// Package sysmon Provider 测试
package sysmon

import (
	"errors"
	"sync"
	"testing"
	"time"

	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
)

// fakeEnv 替换包级接缝并在测试结束后恢复
type fakeEnv struct {
	mu      sync.Mutex
	infos   []ifaceInfo
	dialErr error
}

func installFakeEnv(t *testing.T, infos []ifaceInfo) *fakeEnv {
	t.Helper()

	env := &fakeEnv{infos: infos}
	origList := listInterfaces
	origDial := dialEndpoint

	listInterfaces = func() ([]ifaceInfo, error) {
		env.mu.Lock()
		defer env.mu.Unlock()
		return env.infos, nil
	}
	dialEndpoint = func(string) error {
		env.mu.Lock()
		defer env.mu.Unlock()
		return env.dialErr
	}

	t.Cleanup(func() {
		listInterfaces = origList
		dialEndpoint = origDial
	})
	return env
}

func (e *fakeEnv) setInfos(infos []ifaceInfo) {
	e.mu.Lock()
	e.infos = infos
	e.mu.Unlock()
}

func (e *fakeEnv) setDialErr(err error) {
	e.mu.Lock()
	e.dialErr = err
	e.mu.Unlock()
}

var (
	wifiOnly = []ifaceInfo{
		{name: "wlan0", up: true, addrs: "192.168.1.5/24"},
	}
	cellularOnly = []ifaceInfo{
		{name: "rmnet0", up: true, addrs: "100.64.0.9/30"},
	}
	nothingUp = []ifaceInfo{
		{name: "lo", up: true, loopback: true, addrs: "127.0.0.1/8"},
	}
)

// TestNewProvider_EmptyHostname 测试空主机名被拒绝
func TestNewProvider_EmptyHostname(t *testing.T) {
	if _, err := NewProvider(""); !errors.Is(err, ErrEmptyHostname) {
		t.Fatalf("expected ErrEmptyHostname, got %v", err)
	}

	if _, err := Factory()(""); !errors.Is(err, ErrEmptyHostname) {
		t.Fatalf("factory: expected ErrEmptyHostname, got %v", err)
	}
}

// TestProvider_InitialState 测试初始状态仅由接口分类得出
func TestProvider_InitialState(t *testing.T) {
	installFakeEnv(t, wifiOnly)

	p, err := NewProvider("api.example.com")
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}

	if got := p.ConnectionState(); got != pkgif.ConnectionWiFi {
		t.Errorf("ConnectionState() = %v, want wifi", got)
	}
}

// TestProvider_BootstrapSignal 测试启动监控后立即发出引导信号
func TestProvider_BootstrapSignal(t *testing.T) {
	installFakeEnv(t, wifiOnly)

	p, err := NewProvider("api.example.com")
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	defer p.StopMonitoring()

	if err := p.StartMonitoring(); err != nil {
		t.Fatalf("StartMonitoring failed: %v", err)
	}

	select {
	case <-p.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("expected bootstrap signal after StartMonitoring")
	}

	// 重复启动是空操作
	if err := p.StartMonitoring(); err != nil {
		t.Fatalf("second StartMonitoring failed: %v", err)
	}
}

// TestProvider_RefreshDetectsChange 测试状态变化被检测并发出信号
func TestProvider_RefreshDetectsChange(t *testing.T) {
	env := installFakeEnv(t, wifiOnly)

	p, err := NewProvider("api.example.com")
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}

	// 无变化时不发信号
	if p.refresh(false) {
		t.Error("expected no change on identical snapshot")
	}

	// wifi → cellular
	env.setInfos(cellularOnly)
	if !p.refresh(false) {
		t.Fatal("expected change detection for wifi → cellular")
	}
	if got := p.ConnectionState(); got != pkgif.ConnectionCellular {
		t.Errorf("ConnectionState() = %v, want cellular", got)
	}
	select {
	case <-p.Changes():
	case <-time.After(time.Second):
		t.Fatal("expected change signal")
	}

	// cellular → none
	env.setInfos(nothingUp)
	if !p.refresh(false) {
		t.Fatal("expected change detection for cellular → none")
	}
	if got := p.ConnectionState(); got != pkgif.ConnectionNone {
		t.Errorf("ConnectionState() = %v, want none", got)
	}
}

// TestProvider_DialFailureDegradesToNone 测试端点拨测失败时报告 none
func TestProvider_DialFailureDegradesToNone(t *testing.T) {
	env := installFakeEnv(t, nothingUp)

	p, err := NewProvider("api.example.com")
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}

	// 链路恢复但端点拨不通 → 仍然 none
	env.setInfos(wifiOnly)
	env.setDialErr(errors.New("connection refused"))

	if p.refresh(false) {
		t.Error("expected no signal: dial failure keeps state at none")
	}
	if got := p.ConnectionState(); got != pkgif.ConnectionNone {
		t.Errorf("ConnectionState() = %v, want none", got)
	}

	// 端点恢复后强制检查得到 wifi
	env.setDialErr(nil)
	if !p.refresh(true) {
		t.Fatal("expected change after endpoint recovers")
	}
	if got := p.ConnectionState(); got != pkgif.ConnectionWiFi {
		t.Errorf("ConnectionState() = %v, want wifi", got)
	}
}

// TestProvider_ForceCheck 测试强制检查绕过轮询间隔立即生效
func TestProvider_ForceCheck(t *testing.T) {
	env := installFakeEnv(t, wifiOnly)

	p, err := NewProvider("api.example.com")
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	defer p.StopMonitoring()

	if err := p.StartMonitoring(); err != nil {
		t.Fatalf("StartMonitoring failed: %v", err)
	}

	// 排空引导信号
	select {
	case <-p.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("expected bootstrap signal")
	}

	env.setInfos(cellularOnly)
	p.ForceCheck()

	select {
	case <-p.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("expected signal after forced check")
	}
	if got := p.ConnectionState(); got != pkgif.ConnectionCellular {
		t.Errorf("ConnectionState() = %v, want cellular", got)
	}
}

// TestProvider_StopIdempotent 测试停止的幂等性
func TestProvider_StopIdempotent(t *testing.T) {
	installFakeEnv(t, wifiOnly)

	p, err := NewProvider("api.example.com")
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}

	if err := p.StartMonitoring(); err != nil {
		t.Fatalf("StartMonitoring failed: %v", err)
	}

	p.StopMonitoring()
	p.StopMonitoring() // 重复停止是空操作

	// 停止后不允许再启动
	if err := p.StartMonitoring(); !errors.Is(err, ErrMonitoringStopped) {
		t.Errorf("expected ErrMonitoringStopped, got %v", err)
	}
}

// TestProvider_StopWithoutStart 测试未启动即停止
func TestProvider_StopWithoutStart(t *testing.T) {
	installFakeEnv(t, wifiOnly)

	p, err := NewProvider("api.example.com")
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	p.StopMonitoring() // 不崩溃、不阻塞
}
