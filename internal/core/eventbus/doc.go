// Package eventbus 实现进程内事件总线
//
// 提供类型安全的事件发布/订阅机制，支持：
//   - 多订阅者
//   - 缓冲区配置
//   - 发射器引用计数
//   - 有状态模式（新订阅者立即收到最后一个事件）
//   - 慢消费者丢弃计数
//
// # 快速开始
//
//	bus := eventbus.NewBus()
//
//	sub, _ := bus.Subscribe(new(types.EvtReachabilityChanged))
//	defer sub.Close()
//
//	go func() {
//	    for evt := range sub.Out() {
//	        e := evt.(types.EvtReachabilityChanged)
//	        // 处理事件
//	    }
//	}()
//
//	em, _ := bus.Emitter(new(types.EvtReachabilityChanged), interfaces.Stateful())
//	defer em.Close()
//	em.Emit(types.EvtReachabilityChanged{IsConnectionAvailable: true})
//
// # 并发安全
//
// 总线使用 sync.RWMutex 和 atomic 保证并发安全：
//   - 订阅/取消订阅：RWMutex 保护
//   - 发射器引用计数：atomic.Int32
//   - 通道关闭：sync.Once 防止重复
package eventbus
