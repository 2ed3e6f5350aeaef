// Package netwatch 提供进程级端点可达性通知
//
// netwatch 监控单个远端主机的网络可达性（可限制为仅 Wi-Fi），
// 抑制可达性子系统在监控启动后必然发出的首个合成信号，并把
// 后续转变分发给注册的观察者和进程级事件总线。
//
// # 快速开始
//
//	import "github.com/dep2p/go-netwatch"
//
//	// 1. 初始化共享通知器（重复调用是空操作，首次配置获胜）
//	netwatch.SetupShared("api.example.com", false)
//	defer netwatch.ClearShared()
//
//	// 2. 注册观察者
//	netwatch.AddWatcher(interfaces.WatcherFunc(func(ok bool) {
//	    fmt.Println("端点可达:", ok)
//	}))
//
//	// 3. 或在总线上被动订阅
//	sub, _ := netwatch.Bus().Subscribe(new(types.EvtReachabilityChanged))
//	defer sub.Close()
//
//	// 4. 随时查询
//	if netwatch.IsNetworkReachable() {
//	    // 发起请求（true 不是成功保证）
//	}
//
// # 组合根形态
//
// 不想依赖进程级共享槽的应用可以用 Fx 模块显式装配：
//
//	app := netwatch.NewApp("api.example.com", true,
//	    fx.Invoke(func(n interfaces.Notifier) {
//	        n.Add(myWatcher)
//	    }),
//	)
//	app.Run()
//
// # 设计立场
//
// 可达性监控是尽力而为的辅助设施，绝不应破坏宿主应用的
// 稳定性：Provider 构造失败、监控启动失败、重复初始化、
// 未初始化即清理，全部静默降级，不向调用方返回错误。
package netwatch
