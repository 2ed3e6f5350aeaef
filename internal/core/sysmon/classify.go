package sysmon

import (
	"net"
	"strings"

	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
)

// ============================================================================
//                              接口分类
// ============================================================================

// ifaceInfo 网络接口快照
type ifaceInfo struct {
	name     string
	up       bool
	loopback bool
	addrs    string // 逗号连接的地址列表，用于变化比较
}

// hasAddr 接口是否持有地址
func (i ifaceInfo) hasAddr() bool {
	return i.addrs != ""
}

// linkKind 链路类型
type linkKind int

const (
	kindWired linkKind = iota
	kindWiFi
	kindCellular
)

// 接口名前缀启发式
//
// 顺序重要：有线前缀必须先于 wifi 检查，否则 "eno1" 会被
// "en" 前缀误判。
var (
	cellularPrefixes = []string{"rmnet", "wwan", "ccmni", "pdp_ip", "cell", "ppp"}
	wiredPrefixes    = []string{"eth", "eno", "ens", "enp", "em", "lan"}
	wifiPrefixes     = []string{"wlan", "wlp", "wlx", "wl", "wifi", "ath", "ra", "en"}
)

// linkKindOf 按接口名判断链路类型
//
// 未匹配任何前缀的接口按有线（非计量）对待。
func linkKindOf(name string) linkKind {
	lower := strings.ToLower(name)
	for _, p := range cellularPrefixes {
		if strings.HasPrefix(lower, p) {
			return kindCellular
		}
	}
	for _, p := range wiredPrefixes {
		if strings.HasPrefix(lower, p) {
			return kindWired
		}
	}
	for _, p := range wifiPrefixes {
		if strings.HasPrefix(lower, p) {
			return kindWiFi
		}
	}
	return kindWired
}

// classifyInterfaces 从接口快照推导连接状态
//
// 只统计启用、非回环、持有地址的接口。存在任一非计量链路
// （wifi 或有线）时报告 wifi 类；仅剩蜂窝链路时报告 cellular；
// 否则报告 none。
func classifyInterfaces(infos []ifaceInfo) pkgif.ConnectionState {
	hasUnmetered := false
	hasCellular := false

	for _, info := range infos {
		if !info.up || info.loopback || !info.hasAddr() {
			continue
		}
		switch linkKindOf(info.name) {
		case kindCellular:
			hasCellular = true
		default:
			hasUnmetered = true
		}
	}

	switch {
	case hasUnmetered:
		return pkgif.ConnectionWiFi
	case hasCellular:
		return pkgif.ConnectionCellular
	default:
		return pkgif.ConnectionNone
	}
}

// defaultListInterfaces 枚举系统网络接口
func defaultListInterfaces() ([]ifaceInfo, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	infos := make([]ifaceInfo, 0, len(ifaces))
	for _, iface := range ifaces {
		info := ifaceInfo{
			name:     iface.Name,
			up:       iface.Flags&net.FlagUp != 0,
			loopback: iface.Flags&net.FlagLoopback != 0,
		}

		addrs, err := iface.Addrs()
		if err == nil {
			parts := make([]string, 0, len(addrs))
			for _, addr := range addrs {
				parts = append(parts, addr.String())
			}
			info.addrs = strings.Join(parts, ",")
		}

		infos = append(infos, info)
	}
	return infos, nil
}

// listInterfaces 接口枚举函数（测试可替换）
var listInterfaces = defaultListInterfaces
