package controller

import "github.com/sasha-s/go-deadlock"

// Queue buffers commands from any goroutine until the owning controller
// drains it at the start of its next tick.
type Queue struct {
	mu      deadlock.Mutex
	pending []Command
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Push(cmd Command) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, cmd)
}

// Drain returns queued commands in submission order and empties the queue.
func (q *Queue) Drain() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = nil
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
