package usecase

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestImmediate_RunsInline(t *testing.T) {
	ran := false
	Immediate{}.Schedule(func() { ran = true })
	if !ran {
		t.Error("expected the job to run before Schedule returned")
	}
}

func TestGoroutine_Wait(t *testing.T) {
	var g Goroutine
	var n atomic.Int32
	for i := 0; i < 10; i++ {
		g.Schedule(func() { n.Add(1) })
	}
	g.Wait()
	if n.Load() != 10 {
		t.Errorf("expected 10 jobs, got %d", n.Load())
	}
}

func TestPool_RunsEveryJob(t *testing.T) {
	p := NewPool(3, 2)
	var n atomic.Int32
	for i := 0; i < 50; i++ {
		p.Schedule(func() { n.Add(1) })
	}
	p.Close()
	if n.Load() != 50 {
		t.Errorf("expected 50 jobs, got %d", n.Load())
	}
}

func TestPool_ScheduleAfterClose(t *testing.T) {
	p := NewPool(1, 1)
	p.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	p.Schedule(func() { wg.Done() })
	wg.Wait()
}

func TestPool_NestedScheduleDoesNotDeadlock(t *testing.T) {
	p := NewPool(1, 0)
	done := make(chan struct{})
	p.Schedule(func() {
		p.Schedule(func() { close(done) })
	})
	<-done
	p.Close()
}

func TestNewPool_ClampsArguments(t *testing.T) {
	p := NewPool(0, -1)
	var wg sync.WaitGroup
	wg.Add(1)
	p.Schedule(func() { wg.Done() })
	wg.Wait()
	p.Close()
}
