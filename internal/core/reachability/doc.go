// Package reachability 实现端点可达性通知器
//
// # 概述
//
// reachability 包围绕一个 Provider 构建可达性通知：
//   - 包装 Provider 并订阅其原始变化信号
//   - 同时订阅系统级网络监控器（次级信号源）
//   - 抑制监控启动后的首个合成信号
//   - 将后续转变按注册顺序分发给观察者
//   - 在进程级事件总线上发布 EvtReachabilityChanged
//
// # 信号处理
//
//	[等待首个信号] --(原始信号)--> [稳态]   ; 不分发
//	[稳态]         --(原始信号)--> [稳态]   ; 每次均分发并发布事件
//
// 首个信号是可达性子系统在监控启动后必然发出的"当前状态"
// 合成信号，将其作为"变更"对外呈现会把稳态误报成转变，
// 因此被吞掉。两个信号源地位等同，处理器不信任信号载荷，
// 每次都重新查询 Provider 的权威状态。
//
// # 可达性策略
//
//	none     → false
//	wifi     → true
//	cellular → AllowsCellularAccess
//
// 结论是建议性的：true 不保证后续网络调用成功。
//
// # 使用示例
//
//	cfg := reachability.NewConfig("api.example.com", false)
//	n := reachability.NewNotifier(cfg, sysmon.Factory())
//	n.SetEventBus(bus)
//	n.Start(ctx)
//	defer n.Stop()
//
//	n.Add(interfaces.WatcherFunc(func(ok bool) {
//	    // 处理可达性变更
//	}))
//
// # 降级语义
//
// Provider 构造失败表现为 provider == nil：查询恒为 false，
// 信号处理为空操作，不崩溃、不重试。监控启动失败同样被
// 吞掉，通知器继续消费仍能到达的信号（可能没有）。
package reachability
