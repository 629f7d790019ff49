// Package sched runs deferred actions on the simulation clock.
//
// Timed behaviours (slide end, coin disappearance, post-crash retry) are
// scheduled against simulated time and polled once per tick. Each action has
// a kind; scheduling a new action of a kind cancels the pending one.
package sched

import "container/heap"

// Token identifies a scheduled action. The zero Token is never issued.
type Token uint64

type action struct {
	kind  string
	due   float64
	token Token
	seq   uint64
	fn    func()
	index int
}

type queue []*action

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q queue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *queue) Push(x any) {
	a := x.(*action)
	a.index = len(*q)
	*q = append(*q, a)
}

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	a := old[n-1]
	old[n-1] = nil
	a.index = -1
	*q = old[:n-1]
	return a
}

// Scheduler is a simulated-time priority queue of deferred actions.
// It is not safe for concurrent use; the tick owns it.
type Scheduler struct {
	now     float64
	queue   queue
	pending map[string]*action
	next    uint64
}

// New creates an empty scheduler at time zero.
func New() *Scheduler {
	return &Scheduler{pending: make(map[string]*action)}
}

// Now returns the current simulated time in seconds.
func (s *Scheduler) Now() float64 {
	return s.now
}

// Schedule runs fn after delay seconds of simulated time.
// A pending action of the same kind is cancelled first.
func (s *Scheduler) Schedule(kind string, delay float64, fn func()) Token {
	s.Cancel(kind)

	if delay < 0 {
		delay = 0
	}
	s.next++
	a := &action{
		kind:  kind,
		due:   s.now + delay,
		token: Token(s.next),
		seq:   s.next,
		fn:    fn,
	}
	heap.Push(&s.queue, a)
	s.pending[kind] = a
	return a.token
}

// Cancel invalidates the pending action of the given kind.
// It returns false if nothing was pending.
func (s *Scheduler) Cancel(kind string) bool {
	a, ok := s.pending[kind]
	if !ok {
		return false
	}
	delete(s.pending, kind)
	if a.index >= 0 {
		heap.Remove(&s.queue, a.index)
	}
	return true
}

// CancelToken invalidates a specific action, if it is still pending.
func (s *Scheduler) CancelToken(tok Token) bool {
	for kind, a := range s.pending {
		if a.token == tok {
			return s.Cancel(kind)
		}
	}
	return false
}

// Pending reports whether an action of the given kind is waiting.
func (s *Scheduler) Pending(kind string) bool {
	_, ok := s.pending[kind]
	return ok
}

// Due returns the release time of the pending action of the given kind.
func (s *Scheduler) Due(kind string) (float64, bool) {
	a, ok := s.pending[kind]
	if !ok {
		return 0, false
	}
	return a.due, true
}

// Len returns the number of pending actions.
func (s *Scheduler) Len() int {
	return len(s.queue)
}

// Advance moves the clock forward by dt and runs every action that became
// due, in release order. Actions scheduled by a running action with no delay
// run in the same call.
func (s *Scheduler) Advance(dt float64) int {
	if dt > 0 {
		s.now += dt
	}

	ran := 0
	for len(s.queue) > 0 && s.queue[0].due <= s.now {
		a := heap.Pop(&s.queue).(*action)
		if s.pending[a.kind] == a {
			delete(s.pending, a.kind)
		}
		a.fn()
		ran++
	}
	return ran
}

// Clear drops every pending action without running it.
func (s *Scheduler) Clear() {
	s.queue = s.queue[:0]
	s.pending = make(map[string]*action)
}
