// Package sysmon 提供系统网络状态探测与监控
//
// # 概述
//
// sysmon 包是可达性通知器的生产级信号源，包含两个组件：
//
//   - Provider: 按主机名创建的可达性探测提供者。
//     通过枚举系统网络接口对连接类型分类（none / wifi / cellular，
//     有线按非计量的 wifi 类对待），链路层发生变化时对端点做一次
//     带超时的 TCP 拨测确认，并通过 Changes 通道发出原始信号。
//   - Monitor: 系统级网络变化监控器（次级信号源）。
//     轮询接口快照，在接口出现/消失/地址变化时向订阅者发布
//     EvtNetworkChanged。
//
// # 轮询策略
//
// 正常情况下每 2 秒检查一次；检测到变化后切换到 500ms 快速
// 轮询并持续 10 秒；支持 ForceCheck 触发立即检查。
//
// # 局限
//
// 分类基于接口名前缀启发式，结果尽力而为、可能滞后；
// 端点拨测只在链路变化时执行，稳态期间端点单独下线不会
// 被主动发现。调用方不应把可达结论当作调用成功的保证。
package sysmon
