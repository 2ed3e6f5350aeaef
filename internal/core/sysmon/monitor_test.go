// Package sysmon 系统网络监控器测试
package sysmon

import (
	"testing"
	"time"

	"github.com/dep2p/go-netwatch/pkg/types"
)

// recvEvent 带超时接收一个事件
func recvEvent(t *testing.T, ch <-chan types.EvtNetworkChanged) types.EvtNetworkChanged {
	t.Helper()
	select {
	case evt := <-ch:
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for network change event")
		return types.EvtNetworkChanged{}
	}
}

// TestMonitor_InterfaceAdded 测试接口出现事件
func TestMonitor_InterfaceAdded(t *testing.T) {
	env := installFakeEnv(t, nothingUp)

	m := NewMonitor()
	ch := m.Subscribe()

	env.setInfos(append(append([]ifaceInfo{}, nothingUp...), ifaceInfo{
		name: "wlan0", up: true, addrs: "192.168.1.5/24",
	}))

	m.check()

	evt := recvEvent(t, ch)
	if evt.Kind != types.NetworkChangeInterfaceAdded {
		t.Errorf("Kind = %v, want interface-added", evt.Kind)
	}
	if evt.Interface != "wlan0" {
		t.Errorf("Interface = %q, want wlan0", evt.Interface)
	}
	if evt.Type() != types.NetworkChangeEventName {
		t.Errorf("Type() = %q, want %q", evt.Type(), types.NetworkChangeEventName)
	}
	if evt.Timestamp().IsZero() {
		t.Error("expected non-zero event timestamp")
	}
}

// TestMonitor_InterfaceRemoved 测试接口消失事件
func TestMonitor_InterfaceRemoved(t *testing.T) {
	env := installFakeEnv(t, wifiOnly)

	m := NewMonitor()
	ch := m.Subscribe()

	env.setInfos(nil)
	m.check()

	evt := recvEvent(t, ch)
	if evt.Kind != types.NetworkChangeInterfaceRemoved {
		t.Errorf("Kind = %v, want interface-removed", evt.Kind)
	}
}

// TestMonitor_AddressChanged 测试地址变化事件
func TestMonitor_AddressChanged(t *testing.T) {
	env := installFakeEnv(t, wifiOnly)

	m := NewMonitor()
	ch := m.Subscribe()

	env.setInfos([]ifaceInfo{
		{name: "wlan0", up: true, addrs: "192.168.2.7/24"},
	})
	m.check()

	evt := recvEvent(t, ch)
	if evt.Kind != types.NetworkChangeAddress {
		t.Errorf("Kind = %v, want address-changed", evt.Kind)
	}
}

// TestMonitor_NoChangeNoEvent 测试快照相同时不发事件
func TestMonitor_NoChangeNoEvent(t *testing.T) {
	installFakeEnv(t, wifiOnly)

	m := NewMonitor()
	ch := m.Subscribe()

	m.check()

	select {
	case evt := <-ch:
		t.Fatalf("unexpected event: %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

// TestMonitor_StopClosesSubscribers 测试停止时关闭订阅通道
func TestMonitor_StopClosesSubscribers(t *testing.T) {
	installFakeEnv(t, wifiOnly)

	m := NewMonitor()
	ch := m.Subscribe()

	if err := m.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if _, ok := <-ch; ok {
		t.Error("expected subscriber channel to be closed")
	}

	// 重复停止是空操作
	if err := m.Stop(); err != nil {
		t.Fatalf("second Stop failed: %v", err)
	}
}
