package common

// Ring is a fixed-capacity circular buffer. Pushing past capacity
// evicts the oldest element. The zero value is not usable; create
// one with NewRing
type Ring[T any] struct {
	buf  []T
	head int
	size int
}

func NewRing[T any](capacity int) Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return Ring[T]{buf: make([]T, capacity)}
}

func (r *Ring[T]) Cap() int {
	return len(r.buf)
}

func (r *Ring[T]) Len() int {
	return r.size
}

// Push appends a value, evicting the oldest one if the ring is full
func (r *Ring[T]) Push(value T) {
	tail := (r.head + r.size) % len(r.buf)
	r.buf[tail] = value
	if r.size < len(r.buf) {
		r.size++
	} else {
		// Full, the slot we just wrote was the oldest element
		r.head = (r.head + 1) % len(r.buf)
	}
}

// Items returns the elements oldest first, in a freshly allocated slice
func (r *Ring[T]) Items() []T {
	items := make([]T, 0, r.size)
	for i := 0; i < r.size; i++ {
		items = append(items, r.buf[(r.head+i)%len(r.buf)])
	}
	return items
}

// ItemsNewestFirst returns the elements newest first, in a freshly allocated slice
func (r *Ring[T]) ItemsNewestFirst() []T {
	items := make([]T, 0, r.size)
	for i := r.size - 1; i >= 0; i-- {
		items = append(items, r.buf[(r.head+i)%len(r.buf)])
	}
	return items
}
