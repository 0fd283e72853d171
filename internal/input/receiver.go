package input

import (
	"sync"

	"sslcoach/internal/ringbuf"
)

// readTimeoutMillis bounds every blocking socket read so receivers notice Close
// quickly. A missed frame is not an error; the tracked entities keep their
// prior data.
const readTimeoutMillis = 50

// packetRingCapacity bounds the per-source buffers between a receiver
// goroutine and the main loop.
const packetRingCapacity = 50

// ReceiverTask is one sensor source. Fetch moves everything buffered since
// the last call into the bundle; Close releases the socket idempotently.
type ReceiverTask interface {
	Fetch(data *Data)
	Close()
}

// packetQueue is a drop-oldest ring shared between a receiver goroutine
// and the main loop.
type packetQueue[T any] struct {
	mu   sync.Mutex
	ring *ringbuf.Ring[T]
}

func newPacketQueue[T any]() *packetQueue[T] {
	return &packetQueue[T]{ring: ringbuf.New[T](packetRingCapacity)}
}

func (q *packetQueue[T]) push(v T) {
	q.mu.Lock()
	q.ring.Push(v)
	q.mu.Unlock()
}

func (q *packetQueue[T]) drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ring.Drain()
}

// Pipeline fans Fetch out to every enabled receiver, in declared order.
type Pipeline struct {
	receivers []ReceiverTask
}

// NewPipeline builds the input stage from the given receivers.
func NewPipeline(receivers ...ReceiverTask) *Pipeline {
	return &Pipeline{receivers: receivers}
}

// Step drains every receiver into a fresh bundle.
func (p *Pipeline) Step() *Data {
	data := NewData()
	for _, r := range p.receivers {
		r.Fetch(data)
	}
	return data
}

// Close shuts every receiver down.
func (p *Pipeline) Close() {
	for _, r := range p.receivers {
		r.Close()
	}
}
