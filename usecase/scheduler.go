package usecase

import "sync"

// Scheduler runs jobs on some execution context.
type Scheduler interface {
	Schedule(job func())
}

// Immediate runs every job on the calling goroutine.
type Immediate struct{}

func (Immediate) Schedule(job func()) {
	job()
}

// Goroutine runs every job on its own goroutine.
type Goroutine struct {
	wg sync.WaitGroup
}

func (g *Goroutine) Schedule(job func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		job()
	}()
}

// Wait blocks until every scheduled job has returned.
func (g *Goroutine) Wait() {
	g.wg.Wait()
}

// Pool runs jobs on a fixed set of workers fed by a buffered queue.
type Pool struct {
	jobs chan func()
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
	extra  sync.WaitGroup
}

// NewPool starts workers goroutines reading from a queue of the given size.
func NewPool(workers, queue int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queue < 0 {
		queue = 0
	}
	p := &Pool{jobs: make(chan func(), queue)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// Schedule queues job. When the queue is full, or the pool is closed, the job
// runs on its own goroutine instead, so Schedule never blocks.
func (p *Pool) Schedule(job func()) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.closed {
		select {
		case p.jobs <- job:
			return
		default:
		}
	}

	p.extra.Add(1)
	go func() {
		defer p.extra.Done()
		job()
	}()
}

// Close stops the workers once the queue drains and waits for every job,
// queued or overflowed, to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	p.wg.Wait()
	p.extra.Wait()
}
