package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// EventQueue is a FIFO queue. Events stay queued until drained.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Clock holds the current frame's time step and the total simulated time.
type Clock struct {
	delta   float64
	elapsed float64
	frame   uint64
}

// Advance starts a new frame of dt seconds.
func (c *Clock) Advance(dt float64) {
	if c == nil {
		return
	}
	c.delta = dt
	if dt > 0 {
		c.elapsed += dt
	}
	c.frame++
}

func (c *Clock) Delta() float64 {
	if c == nil {
		return 0
	}
	return c.delta
}

func (c *Clock) Elapsed() float64 {
	if c == nil {
		return 0
	}
	return c.elapsed
}

func (c *Clock) Frame() uint64 {
	if c == nil {
		return 0
	}
	return c.frame
}
