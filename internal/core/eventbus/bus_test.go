// Package eventbus 事件总线测试
package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
)

// testEvent 测试事件
type testEvent struct {
	Seq int
}

// recv 带超时接收一个事件
func recv(t *testing.T, sub pkgif.Subscription) interface{} {
	t.Helper()
	select {
	case evt := <-sub.Out():
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

// TestBus_SubscribeEmit 测试基本发布订阅
func TestBus_SubscribeEmit(t *testing.T) {
	bus := NewBus()

	sub, err := bus.Subscribe(new(testEvent))
	require.NoError(t, err)
	defer sub.Close()

	em, err := bus.Emitter(new(testEvent))
	require.NoError(t, err)
	defer em.Close()

	require.NoError(t, em.Emit(testEvent{Seq: 1}))

	evt := recv(t, sub)
	assert.Equal(t, testEvent{Seq: 1}, evt)

	t.Log("✅ 基本发布订阅测试通过")
}

// TestBus_MultipleSubscribers 测试多订阅者都收到事件
func TestBus_MultipleSubscribers(t *testing.T) {
	bus := NewBus()

	subA, err := bus.Subscribe(new(testEvent))
	require.NoError(t, err)
	defer subA.Close()

	subB, err := bus.Subscribe(new(testEvent))
	require.NoError(t, err)
	defer subB.Close()

	em, err := bus.Emitter(new(testEvent))
	require.NoError(t, err)
	defer em.Close()

	require.NoError(t, em.Emit(testEvent{Seq: 7}))

	assert.Equal(t, testEvent{Seq: 7}, recv(t, subA))
	assert.Equal(t, testEvent{Seq: 7}, recv(t, subB))

	t.Log("✅ 多订阅者测试通过")
}

// TestBus_StatefulReplay 测试有状态模式向新订阅者回放最后事件
func TestBus_StatefulReplay(t *testing.T) {
	bus := NewBus()

	em, err := bus.Emitter(new(testEvent), pkgif.Stateful())
	require.NoError(t, err)
	defer em.Close()

	require.NoError(t, em.Emit(testEvent{Seq: 1}))
	require.NoError(t, em.Emit(testEvent{Seq: 2}))

	// 晚到的订阅者立即收到最后一个事件
	sub, err := bus.Subscribe(new(testEvent))
	require.NoError(t, err)
	defer sub.Close()

	assert.Equal(t, testEvent{Seq: 2}, recv(t, sub))

	t.Log("✅ 有状态回放测试通过")
}

// TestBus_BufSize 测试订阅缓冲区选项
func TestBus_BufSize(t *testing.T) {
	bus := NewBus()

	sub, err := bus.Subscribe(new(testEvent), pkgif.BufSize(2))
	require.NoError(t, err)
	defer sub.Close()

	em, err := bus.Emitter(new(testEvent))
	require.NoError(t, err)
	defer em.Close()

	// 缓冲区满后事件被丢弃而不是阻塞发射者
	for i := 0; i < 5; i++ {
		require.NoError(t, em.Emit(testEvent{Seq: i}))
	}

	assert.Equal(t, testEvent{Seq: 0}, recv(t, sub))
	assert.Equal(t, testEvent{Seq: 1}, recv(t, sub))

	t.Log("✅ 缓冲区选项测试通过")
}

// TestBus_NonPointerType 测试非指针类型声明被拒绝
func TestBus_NonPointerType(t *testing.T) {
	bus := NewBus()

	_, err := bus.Subscribe(testEvent{})
	assert.ErrorIs(t, err, ErrNonPointerType)

	_, err = bus.Emitter(testEvent{})
	assert.ErrorIs(t, err, ErrNonPointerType)

	_, err = bus.Subscribe(nil)
	assert.ErrorIs(t, err, ErrInvalidEventType)

	t.Log("✅ 类型校验测试通过")
}

// TestBus_EmitterClosed 测试关闭后的发射器拒绝发射
func TestBus_EmitterClosed(t *testing.T) {
	bus := NewBus()

	em, err := bus.Emitter(new(testEvent))
	require.NoError(t, err)

	require.NoError(t, em.Close())
	assert.ErrorIs(t, em.Emit(testEvent{}), ErrEmitterClosed)

	// 重复关闭是空操作
	assert.NoError(t, em.Close())

	t.Log("✅ 发射器关闭测试通过")
}

// TestBus_SubscriptionClose 测试取消订阅后不再接收事件
func TestBus_SubscriptionClose(t *testing.T) {
	bus := NewBus()

	sub, err := bus.Subscribe(new(testEvent))
	require.NoError(t, err)

	em, err := bus.Emitter(new(testEvent))
	require.NoError(t, err)
	defer em.Close()

	require.NoError(t, sub.Close())

	// 关闭后发射不会 panic，也不会投递
	require.NoError(t, em.Emit(testEvent{Seq: 1}))

	// 重复关闭是空操作
	assert.NoError(t, sub.Close())

	t.Log("✅ 取消订阅测试通过")
}

// TestBus_NodeReclaimed 测试无订阅者且无发射器时节点被回收
func TestBus_NodeReclaimed(t *testing.T) {
	bus := NewBus()

	sub, err := bus.Subscribe(new(testEvent))
	require.NoError(t, err)
	em, err := bus.Emitter(new(testEvent))
	require.NoError(t, err)

	require.NoError(t, sub.Close())
	require.NoError(t, em.Close())

	bus.mu.RLock()
	count := len(bus.nodes)
	bus.mu.RUnlock()
	assert.Zero(t, count)

	t.Log("✅ 节点回收测试通过")
}
