package fixed

import "fmt"

// RingBuffer keeps the last capacity points, overwriting the oldest entry once
// full. Index 0 of Get is the most recently added point.
type RingBuffer struct {
	buffer   []Point
	capacity int
	size     int
	tail     int
}

func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		panic("capacity must be positive")
	}
	return &RingBuffer{
		buffer:   make([]Point, capacity),
		capacity: capacity,
	}
}

func (r *RingBuffer) Size() int     { return r.size }
func (r *RingBuffer) Capacity() int { return r.capacity }
func (r *RingBuffer) IsEmpty() bool { return r.size == 0 }
func (r *RingBuffer) IsFull() bool  { return r.size == r.capacity }

func (r *RingBuffer) Clear() {
	r.size = 0
	r.tail = 0
}

func (r *RingBuffer) Add(p Point) {
	r.buffer[r.tail] = p
	r.tail = (r.tail + 1) % r.capacity

	if r.size < r.capacity {
		r.size++
	}
}

func (r *RingBuffer) Get(idx int) Point {
	if idx < 0 || idx >= r.size {
		panic(fmt.Sprintf("index %d out of range [0, %d)", idx, r.size))
	}
	actualIdx := (r.tail - 1 - idx + r.capacity) % r.capacity
	return r.buffer[actualIdx]
}

func (r *RingBuffer) Points() []Point {
	points := make([]Point, r.size)
	for i := 0; i < r.size; i++ {
		points[i] = r.Get(i)
	}
	return points
}

func (r *RingBuffer) Mean() Point {
	return Mean(r.Points())
}

func (r *RingBuffer) StdDev() Point {
	points := r.Points()
	return StdDev(points, Mean(points))
}

func (r *RingBuffer) SampleStdDev() Point {
	points := r.Points()
	return SampleStdDev(points, Mean(points))
}
