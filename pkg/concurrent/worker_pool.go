package concurrent

import (
	"sync"
)

type JobFunc[T any, G any] func(job T) G

// WorkerPool. fixed number of goroutines consuming a buffered job queue.
// usage: Start, AddJob..., Close, Wait, then drain CollectResults.
type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan T
	results    chan G
	wg         sync.WaitGroup
}

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan T, jobQueueSize),
		results:    make(chan G, jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.results <- jobFunc(job)
	}
}

func (wp *WorkerPool[T, G]) Start(jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(jobFunc)
	}
}

// Wait. blocks until every worker exits, then closes the results channel.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobQueue <- job
}

func (wp *WorkerPool[T, G]) CollectResults() chan G {
	return wp.results
}

func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

type indexed[T any] struct {
	i   int
	val T
}

// RunBatch. run every job on numWorkers goroutines and return the results in job order.
// returns once all jobs are done, so callers can use it as a barrier.
func RunBatch[T any, G any](numWorkers int, jobs []T, jobFunc JobFunc[T, G]) []G {
	out := make([]G, len(jobs))
	if numWorkers <= 1 || len(jobs) <= 1 {
		for i, job := range jobs {
			out[i] = jobFunc(job)
		}
		return out
	}

	wp := NewWorkerPool[indexed[T], indexed[G]](numWorkers, len(jobs))
	wp.Start(func(job indexed[T]) indexed[G] {
		return indexed[G]{i: job.i, val: jobFunc(job.val)}
	})
	for i, job := range jobs {
		wp.AddJob(indexed[T]{i: i, val: job})
	}
	wp.Close()
	wp.Wait()

	for res := range wp.CollectResults() {
		out[res.i] = res.val
	}
	return out
}
