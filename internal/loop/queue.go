package loop

import (
	"container/heap"
	"sync"
	"time"
)

type entry struct {
	due  time.Time
	seq  uint64
	task func()
}

type taskHeap []*entry

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) { *h = append(*h, x.(*entry)) }

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Queue is a time-ordered task queue. Tasks due at the same instant run
// in the order they were scheduled.
//
// After may be called from any goroutine; RunDue and Advance must be
// called from the single goroutine that owns the engine.
type Queue struct {
	mu    sync.Mutex
	clock Clock
	tasks taskHeap
	seq   uint64
	wake  chan struct{}
}

// NewQueue creates a queue driven by clock. A nil clock uses RealClock.
func NewQueue(clock Clock) *Queue {
	if clock == nil {
		clock = RealClock{}
	}
	return &Queue{clock: clock, wake: make(chan struct{}, 1)}
}

// Now returns the queue's clock time.
func (q *Queue) Now() time.Time {
	return q.clock.Now()
}

// Clock returns the clock driving the queue.
func (q *Queue) Clock() Clock {
	return q.clock
}

// After schedules task to run d from now. Negative delays run as soon as possible.
func (q *Queue) After(d time.Duration, task func()) {
	if task == nil {
		return
	}
	if d < 0 {
		d = 0
	}
	q.mu.Lock()
	q.seq++
	heap.Push(&q.tasks, &entry{due: q.clock.Now().Add(d), seq: q.seq, task: task})
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Wake returns a channel signalled whenever a task is scheduled.
// Hosts that sleep until Next can select on it to notice earlier tasks.
func (q *Queue) Wake() <-chan struct{} {
	return q.wake
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Next reports the due time of the earliest pending task.
func (q *Queue) Next() (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return time.Time{}, false
	}
	return q.tasks[0].due, true
}

func (q *Queue) popDue(now time.Time) *entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 || q.tasks[0].due.After(now) {
		return nil
	}
	return heap.Pop(&q.tasks).(*entry)
}

// RunDue runs every task due at or before now, including tasks that
// those tasks schedule if they are also due. It returns the number run.
func (q *Queue) RunDue(now time.Time) int {
	n := 0
	for {
		e := q.popDue(now)
		if e == nil {
			return n
		}
		e.task()
		n++
	}
}

// Advance steps a VirtualClock forward by d, running tasks in due order.
// The clock is set to each task's due time before it runs, so tasks see
// the same time they would under a real clock. With any other clock
// Advance only runs tasks already due.
func (q *Queue) Advance(d time.Duration) int {
	vc, ok := q.clock.(*VirtualClock)
	if !ok {
		return q.RunDue(q.clock.Now())
	}
	end := vc.Now().Add(d)
	n := 0
	for {
		due, ok := q.Next()
		if !ok || due.After(end) {
			break
		}
		vc.Set(due)
		n += q.RunDue(due)
	}
	vc.Set(end)
	return n
}
