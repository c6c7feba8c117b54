package reminder

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidFireTime = errors.New("reminder: invalid fire time")
	ErrEngineStopped   = errors.New("reminder: engine stopped")
)

type queueItem struct {
	job       Job
	seq       uint64
	cancelled *atomic.Bool
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].job.At.Equal(pq[j].job.At) {
		return pq[i].seq < pq[j].seq
	}
	return pq[i].job.At.Before(pq[j].job.At)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// Handle identifies one armed job. Cancel prevents the job from firing if
// it has not fired yet; cancelling a fired or already-cancelled job does
// nothing.
type Handle struct {
	cancelled *atomic.Bool
}

func (h *Handle) Cancel() {
	if h != nil && h.cancelled != nil {
		h.cancelled.Store(true)
	}
}

// Engine arms jobs on a single timer over a min-heap and emits each due job
// exactly once on its output channel. A job whose fire time has already
// elapsed when it is armed is dropped silently; that is expected whenever
// arming was deferred, for instance behind a permission request.
type Engine struct {
	mu          sync.Mutex
	queue       priorityQueue
	out         chan Job
	wakeup      chan struct{}
	stopCh      chan struct{}
	doneCh      chan struct{}
	started     bool
	stopped     bool
	seq         uint64
	dropped     uint64
	droppedLate uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(priorityQueue, 0),
		out:    make(chan Job, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (e *Engine) C() <-chan Job {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Arm schedules a job. A zero fire time is an error; a fire time at or
// before now is dropped silently and returns a nil handle with no error.
func (e *Engine) Arm(job Job) (*Handle, error) {
	return e.armAt(job, time.Now())
}

func (e *Engine) armAt(job Job, now time.Time) (*Handle, error) {
	if job.At.IsZero() {
		return nil, ErrInvalidFireTime
	}
	if !job.At.After(now) {
		atomic.AddUint64(&e.droppedLate, 1)
		return nil, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return nil, ErrEngineStopped
	}

	cancelled := new(atomic.Bool)
	e.seq++
	heap.Push(&e.queue, queueItem{job: job, seq: e.seq, cancelled: cancelled})
	e.signalWakeup()
	return &Handle{cancelled: cancelled}, nil
}

// Dropped counts jobs discarded because the consumer was too slow.
func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

// DroppedLate counts jobs discarded at arm time because their fire time had
// already passed.
func (e *Engine) DroppedLate() uint64 {
	return atomic.LoadUint64(&e.droppedLate)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.At)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, job := range e.popDue(time.Now()) {
				select {
				case e.out <- job:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (Job, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return Job{}, false
	}
	return e.queue[0].job, true
}

func (e *Engine) popDue(now time.Time) []Job {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Job, 0)
	for len(e.queue) > 0 {
		next := e.queue[0]
		if next.job.At.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		if item.cancelled.Load() {
			continue
		}
		out = append(out, item.job)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
