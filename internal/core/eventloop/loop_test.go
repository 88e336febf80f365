package eventloop

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPostOrdering(t *testing.T) {
	l := New()
	defer l.Close()

	var mu sync.Mutex
	var got []int
	var wg sync.WaitGroup
	wg.Add(100)
	for i := 0; i < 100; i++ {
		i := i
		l.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()

	for i, v := range got {
		require.Equal(t, i, v, "任务应按投递顺序执行")
	}
}

func TestInLoop(t *testing.T) {
	l := New()
	defer l.Close()

	require.False(t, l.InLoop())

	done := make(chan bool, 1)
	l.Post(func() {
		done <- l.InLoop()
	})
	require.True(t, <-done, "任务内 InLoop 应为 true")
}

func TestAwaitRunsAndReturns(t *testing.T) {
	l := New()
	defer l.Close()

	ran := false
	require.NoError(t, l.Await(func() { ran = true }))
	require.True(t, ran)
}

func TestAwaitReentrant(t *testing.T) {
	l := New()
	defer l.Close()

	// 在 Loop 任务内部再调用 Await 必须内联执行，不能死锁
	result := make(chan error, 1)
	l.Post(func() {
		result <- l.Await(func() {})
	})

	select {
	case err := <-result:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Loop 内 Await 死锁")
	}
}

func TestCloseDrainsPendingTasks(t *testing.T) {
	l := New()

	var mu sync.Mutex
	count := 0
	for i := 0; i < 50; i++ {
		l.Post(func() {
			mu.Lock()
			count++
			mu.Unlock()
		})
	}
	l.Close()
	<-l.Done()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 50, count, "关闭前排队的任务应全部执行")
}

func TestPostAfterCloseDropped(t *testing.T) {
	l := New()
	l.Close()
	<-l.Done()

	l.Post(func() { t.Error("关闭后的任务不应执行") })
	require.ErrorIs(t, l.Await(func() {}), ErrLoopClosed)

	time.Sleep(20 * time.Millisecond)
}
