package util

import (
	"context"
	"sync"
)

// OrderedWorker runs submitted jobs one at a time in submission order on a
// single goroutine. Producers never block on each other; the consumer wakes
// on a buffered signal channel.
type OrderedWorker struct {
	queue   *LockFreeQ[func()]
	signal  chan struct{}
	stopped chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func NewOrderedWorker() *OrderedWorker {
	return &OrderedWorker{
		queue:   NewLockFreeQ[func()](),
		signal:  make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

// Start launches the consumer goroutine. It returns when ctx is done or Stop is called.
func (w *OrderedWorker) Start(ctx context.Context) {
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()

		for {
			for job := w.queue.Dequeue(); job != nil; job = w.queue.Dequeue() {
				(*job)()
			}

			select {
			case <-ctx.Done():
				return
			case <-w.stopped:
				// drain what was queued before the stop
				for job := w.queue.Dequeue(); job != nil; job = w.queue.Dequeue() {
					(*job)()
				}

				return
			case <-w.signal:
			}
		}
	}()
}

// Submit queues a job without waiting for it.
func (w *OrderedWorker) Submit(job func()) {
	w.queue.Enqueue(job)

	select {
	case w.signal <- struct{}{}:
	default:
	}
}

// Do queues a job and waits until it has run or ctx is done.
func (w *OrderedWorker) Do(ctx context.Context, job func()) error {
	done := make(chan struct{})

	w.Submit(func() {
		defer close(done)
		job()
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop signals the consumer to finish queued jobs and waits for it to exit.
func (w *OrderedWorker) Stop() {
	w.once.Do(func() {
		close(w.stopped)
	})

	w.wg.Wait()
}

func (w *OrderedWorker) Pending() int64 {
	return w.queue.Len()
}
