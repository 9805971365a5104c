package processing

import "github.com/systemstart/testrun/pkg/steps"

// Queue is a FIFO of steps, consumed destructively. It is filled completely
// before draining starts and is not safe for concurrent use.
type Queue struct {
	items []steps.Step
}

// NewQueue returns a queue holding items in order.
func NewQueue(items ...steps.Step) *Queue {
	q := &Queue{}
	for _, s := range items {
		q.Enqueue(s)
	}
	return q
}

// Enqueue appends step to the tail.
func (q *Queue) Enqueue(step steps.Step) {
	q.items = append(q.items, step)
}

// Dequeue removes and returns the head. ok is false when the queue is empty.
func (q *Queue) Dequeue() (step steps.Step, ok bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	step = q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return step, true
}

// Len returns the number of steps not yet dequeued.
func (q *Queue) Len() int { return len(q.items) }
