// Package worker provides a worker pool for computing move hints of many
// boards in parallel.
package worker

import (
	"sync"
	"sync/atomic"
)

// WorkItem is one input board.
type WorkItem struct {
	Index int    // Position in the input, starting at 0
	Line  int    // Source line number, for reporting
	Board string // Board notation string
}

// ProcessResult is the outcome for one WorkItem.
type ProcessResult struct {
	Index int
	Line  int
	Board string
	Hints Hints
	Error error
	// Cached is set when Hints were reused from an earlier identical board.
	Cached bool
}

// ProcessFunc is the function signature for processing a work item.
type ProcessFunc func(item WorkItem) ProcessResult

// Pool manages a pool of workers for parallel hint computation.
type Pool struct {
	numWorkers  int
	bufferSize  int
	workChan    chan WorkItem
	resultChan  chan ProcessResult
	processFunc ProcessFunc
	wg          sync.WaitGroup
	stopFlag    int32 // Atomic flag for early termination
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n >= 1 {
			p.numWorkers = n
		}
	}
}

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) PoolOption {
	return func(p *Pool) {
		if size >= 1 {
			p.bufferSize = size
		}
	}
}

// NewPool creates a pool using functional options. processFunc is
// required. Default: 1 worker, buffer size of 10.
func NewPool(processFunc ProcessFunc, opts ...PoolOption) *Pool {
	p := &Pool{
		numWorkers:  1,
		bufferSize:  10,
		processFunc: processFunc,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.workChan = make(chan WorkItem, p.bufferSize)
	p.resultChan = make(chan ProcessResult, p.bufferSize)
	return p
}

// Start starts the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for item := range p.workChan {
		if p.IsStopped() {
			continue // drain
		}
		p.resultChan <- p.processFunc(item)
	}
}

// Submit queues an item. It blocks while the buffer is full.
func (p *Pool) Submit(item WorkItem) {
	p.workChan <- item
}

// TrySubmit queues an item without blocking. It returns false if the
// buffer is full or the pool is stopped.
func (p *Pool) TrySubmit(item WorkItem) bool {
	if p.IsStopped() {
		return false
	}
	select {
	case p.workChan <- item:
		return true
	default:
		return false
	}
}

// Stop makes workers skip the items still queued.
func (p *Pool) Stop() {
	atomic.StoreInt32(&p.stopFlag, 1)
}

// IsStopped returns true if the pool has been stopped.
func (p *Pool) IsStopped() bool {
	return atomic.LoadInt32(&p.stopFlag) != 0
}

// Close closes the work channel and waits for the workers. The result
// channel is closed once they are done.
func (p *Pool) Close() {
	close(p.workChan)
	p.wg.Wait()
	close(p.resultChan)
}

// Results returns the result channel, in completion order.
func (p *Pool) Results() <-chan ProcessResult {
	return p.resultChan
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// InOrder reads results and calls emit in Index order, holding back
// results that arrive early. Indices must be dense from 0. It returns
// when results is closed; held results after a gap are emitted in order.
func InOrder(results <-chan ProcessResult, emit func(ProcessResult) error) error {
	next := 0
	held := make(map[int]ProcessResult)
	for r := range results {
		held[r.Index] = r
		for {
			r, ok := held[next]
			if !ok {
				break
			}
			delete(held, next)
			next++
			if err := emit(r); err != nil {
				drain(results)
				return err
			}
		}
	}

	// Only reached with gaps, i.e. after Stop.
	for len(held) > 0 {
		r, ok := held[next]
		next++
		if !ok {
			continue
		}
		delete(held, r.Index)
		if err := emit(r); err != nil {
			return err
		}
	}
	return nil
}

func drain(results <-chan ProcessResult) {
	for range results {
	}
}
