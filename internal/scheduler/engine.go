package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/routined/internal/period"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrStopped            = errors.New("scheduler: engine stopped")
)

// Kind names the calendar boundary an event marks.
type Kind string

const (
	KindDay   Kind = "day"
	KindWeek  Kind = "week"
	KindMonth Kind = "month"
)

// Event fires when the clock crosses into a new natural period. Key is the
// period identifier that starts at TriggerAt.
type Event struct {
	Kind      Kind
	Key       string
	TriggerAt time.Time
}

// NextBoundary returns the first boundary of kind strictly after now, read in
// now's location.
func NextBoundary(kind Kind, now time.Time) (Event, bool) {
	switch kind {
	case KindDay:
		at := period.NextDay(now)
		return Event{Kind: kind, Key: period.DayID(at), TriggerAt: at}, true
	case KindWeek:
		at := period.NextWeek(now)
		return Event{Kind: kind, Key: period.WeekID(at), TriggerAt: at}, true
	case KindMonth:
		at := period.NextMonth(now)
		return Event{Kind: kind, Key: period.MonthID(at), TriggerAt: at}, true
	default:
		return Event{}, false
	}
}

type queueItem struct {
	event Event
}

func (k Kind) rank() int {
	switch k {
	case KindDay:
		return 0
	case KindWeek:
		return 1
	default:
		return 2
	}
}

func eventID(ev Event) string {
	return string(ev.Kind) + "/" + ev.Key
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

// Less orders by trigger time; a day boundary sorts before the week and
// month boundaries that share its instant.
func (pq priorityQueue) Less(i, j int) bool {
	a, b := pq[i].event, pq[j].event
	if !a.TriggerAt.Equal(b.TriggerAt) {
		return a.TriggerAt.Before(b.TriggerAt)
	}
	return a.Kind.rank() < b.Kind.rank()
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

// Engine is a timer loop over a min-heap of boundary events. Due events are
// delivered on C without blocking; when the buffer is full they are dropped
// and counted. A boundary is queued at most once per kind and key.
type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	queued  map[string]struct{}
	out     chan Event
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(priorityQueue, 0),
		queued: make(map[string]struct{}),
		out:    make(chan Event, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (e *Engine) C() <-chan Event {
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

func (e *Engine) Schedule(ev Event) error {
	if ev.TriggerAt.IsZero() {
		return ErrInvalidTriggerTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}

	id := eventID(ev)
	if _, dup := e.queued[id]; dup {
		return nil
	}
	e.queued[id] = struct{}{}
	heap.Push(&e.queue, queueItem{event: ev})
	e.signalWakeup()
	return nil
}

// ScheduleNext queues the next boundary of each kind after now.
func (e *Engine) ScheduleNext(now time.Time, kinds ...Kind) error {
	for _, kind := range kinds {
		ev, ok := NextBoundary(kind, now)
		if !ok {
			return ErrInvalidTriggerTime
		}
		if err := e.Schedule(ev); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Dropped counts events discarded because the consumer fell behind.
func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
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

		wait := time.Until(next.TriggerAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now().UTC())
			for _, ev := range due {
				select {
				case e.out <- ev:
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

func (e *Engine) peek() (Event, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return Event{}, false
	}
	return e.queue[0].event, true
}

func (e *Engine) popDue(now time.Time) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Event, 0)
	for len(e.queue) > 0 {
		next := e.queue[0].event
		if next.TriggerAt.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		delete(e.queued, eventID(item.event))
		out = append(out, item.event)
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
