package worker

import "sync"

// DefaultPoolSize bounds enrichment parallelism when no size is configured.
const DefaultPoolSize = 8

// Pool is a bounded worker pool shared process-wide by all requests. It is
// the only source of parallelism in the pipeline.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup
}

// NewPool starts size workers. Non-positive sizes fall back to the default.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultPoolSize
	}
	p := &Pool{tasks: make(chan func())}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				task()
			}
		}()
	}
	return p
}

// Submit blocks until a worker accepts the task.
func (p *Pool) Submit(task func()) {
	p.tasks <- task
}

// Shutdown stops accepting tasks and waits for in-flight work to finish.
func (p *Pool) Shutdown() {
	close(p.tasks)
	p.wg.Wait()
}
